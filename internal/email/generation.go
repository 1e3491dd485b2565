package emailService

import (
	"context"
	"fmt"
	"github.com/google/uuid"
	"github.com/sebuszqo/LedgerManager/internal/finance/application"
	"github.com/sebuszqo/LedgerManager/internal/recurrence"
)

const (
	subjectGenerationSummary  = "Recurring transactions generated"
	templateGenerationSummary = "generation_summary.html"
)

type GenerationSummaryData struct {
	CompanyName     string
	AsOf            string
	WindowEnd       string
	Created         int
	Skipped         int
	CeilingWarnings int
	Failed          int
}

func (d GenerationSummaryData) TemplateFileName() string {
	return templateGenerationSummary
}

func (d GenerationSummaryData) Subject() string {
	return fmt.Sprintf("%s: %d %s", subjectGenerationSummary, d.Created, plural(d.Created, "transaction"))
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// CompanyDirectory resolves where a company's notifications go.
type CompanyDirectory interface {
	NotificationRecipient(ctx context.Context, companyID uuid.UUID) (name, email string, err error)
}

// GenerationMailer queues a summary email for every generation run it is notified about.
type GenerationMailer struct {
	sender    EmailSender
	companies CompanyDirectory
}

func NewGenerationMailer(sender EmailSender, companies CompanyDirectory) *GenerationMailer {
	return &GenerationMailer{sender: sender, companies: companies}
}

func (m *GenerationMailer) NotifyGeneration(ctx context.Context, run application.GenerationRun) error {
	name, to, err := m.companies.NotificationRecipient(ctx, run.CompanyID)
	if err != nil {
		return fmt.Errorf("resolve notification email for company %s: %w", run.CompanyID, err)
	}
	if to == "" {
		return nil
	}

	return m.sender.QueueEmail(to, GenerationSummaryData{
		CompanyName:     name,
		AsOf:            run.AsOf.Format(recurrence.DateLayout),
		WindowEnd:       run.WindowEnd.Format(recurrence.DateLayout),
		Created:         run.Created,
		Skipped:         run.Skipped,
		CeilingWarnings: run.CeilingWarnings,
		Failed:          run.Failed,
	})
}
