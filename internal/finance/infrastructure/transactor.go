package infrastructure

import (
	"context"
	"database/sql"
	"go.uber.org/zap"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func conn(db *sql.DB, tx *sql.Tx) querier {
	if tx != nil {
		return tx
	}
	return db
}

type SQLTransactor struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewSQLTransactor(db *sql.DB, logger *zap.Logger) *SQLTransactor {
	return &SQLTransactor{db: db, logger: logger}
}

func (t *SQLTransactor) WithinTransaction(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			t.safeRollback(tx)
			panic(p)
		} else if err != nil {
			t.safeRollback(tx)
		} else {
			err = tx.Commit()
		}
	}()

	return fn(tx)
}

func (t *SQLTransactor) safeRollback(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
		t.logger.Error("Error during transaction rollback", zap.Error(err))
	}
}
