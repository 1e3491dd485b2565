package emailService

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"github.com/sebuszqo/LedgerManager/internal/config"
	"go.uber.org/zap"
	"html/template"
	"io/fs"
	"net/smtp"
	"os"
	"path/filepath"
	"sync"
)

//go:embed templates/*.html
var defaultTemplates embed.FS

const queueSize = 100

var ErrQueueClosed = errors.New("email queue is closed")
var ErrQueueFull = errors.New("email queue is full")

type EmailData interface {
	TemplateFileName() string
	Subject() string
}

type EmailSender interface {
	QueueEmail(to string, data EmailData) error
}

// SendFunc has the signature of smtp.SendMail so tests can capture outgoing mail.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type EmailService struct {
	from         string
	password     string
	templatesDir string
	smtpHost     string
	smtpPort     string
	send         SendFunc
	logger       *zap.Logger

	mu        sync.RWMutex
	closed    bool
	taskQueue chan EmailTask
	done      chan struct{}
}

type EmailTask struct {
	to           string
	templateFile string
	data         EmailData
	subject      string
}

// NewEmailService starts the delivery worker. Templates are looked up in
// cfg.TemplatesDir first and fall back to the ones compiled into the binary.
func NewEmailService(cfg config.EmailConfig, logger *zap.Logger) *EmailService {
	return newEmailService(cfg, smtp.SendMail, logger)
}

func newEmailService(cfg config.EmailConfig, send SendFunc, logger *zap.Logger) *EmailService {
	s := &EmailService{
		from:         cfg.Address,
		password:     cfg.Password,
		templatesDir: cfg.TemplatesDir,
		smtpHost:     cfg.SMTPHost,
		smtpPort:     cfg.SMTPPort,
		send:         send,
		logger:       logger.Named("email"),
		taskQueue:    make(chan EmailTask, queueSize),
		done:         make(chan struct{}),
	}
	go s.worker()
	return s
}

func (s *EmailService) worker() {
	defer close(s.done)
	for task := range s.taskQueue {
		err := s.sendTemplatedEmail(task.to, task.templateFile, task.data, task.subject)
		if err != nil {
			s.logger.Error("Error sending email", zap.String("to", task.to), zap.String("template", task.templateFile), zap.Error(err))
			continue
		}
		s.logger.Info("Email sent", zap.String("to", task.to), zap.String("subject", task.subject))
	}
}

// QueueEmail hands the message to the worker without blocking.
func (s *EmailService) QueueEmail(to string, data EmailData) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrQueueClosed
	}
	select {
	case s.taskQueue <- EmailTask{to, data.TemplateFileName(), data, data.Subject()}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting mail and waits until the queued messages were handled.
func (s *EmailService) Close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.taskQueue)
	}
	s.mu.Unlock()
	<-s.done
}

func (s *EmailService) parseTemplate(templateFileName string) (*template.Template, error) {
	if s.templatesDir != "" {
		templatePath := filepath.Join(s.templatesDir, templateFileName)
		if _, err := os.Stat(templatePath); err == nil {
			return template.ParseFiles(templatePath)
		}
	}
	sub, err := fs.Sub(defaultTemplates, "templates")
	if err != nil {
		return nil, err
	}
	return template.ParseFS(sub, templateFileName)
}

func (s *EmailService) render(data EmailData) ([]byte, error) {
	tmpl, err := s.parseTemplate(data.TemplateFileName())
	if err != nil {
		return nil, fmt.Errorf("error parsing template: %w", err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return nil, fmt.Errorf("error executing template: %w", err)
	}
	return body.Bytes(), nil
}

func (s *EmailService) sendTemplatedEmail(to, templateFileName string, data EmailData, subject string) error {
	body, err := s.render(data)
	if err != nil {
		return err
	}

	message := []byte("From: " + s.from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-version: 1.0;\r\n" +
		"Content-Type: text/html; charset=\"UTF-8\";\r\n\r\n" +
		string(body))

	auth := smtp.PlainAuth("", s.from, s.password, s.smtpHost)
	if err := s.send(s.smtpHost+":"+s.smtpPort, auth, s.from, []string{to}, message); err != nil {
		return fmt.Errorf("error sending email: %w", err)
	}
	return nil
}
