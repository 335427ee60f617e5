package mailer

import (
	"fmt"
	"html"

	"cora-leaf-be/internal/entity"
	"cora-leaf-be/internal/pkg/logger"

	"gopkg.in/gomail.v2"
)

// IEmailService delivers confirmed dispatches. It satisfies ledger.Transport.
type IEmailService interface {
	Deliver(record entity.EmailRecord) error
	Simulated() bool
}

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type emailService struct {
	dialer      sender
	senderEmail string
	senderName  string
	logger      logger.ILogger
}

func NewEmailService(host string, port int, username, password, senderEmail, senderName string, log logger.ILogger) IEmailService {
	return &emailService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: senderEmail,
		senderName:  senderName,
		logger:      log,
	}
}

func (s *emailService) Deliver(record entity.EmailRecord) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", record.RecipientEmailAddress)
	m.SetHeader("Subject", record.Subject)
	m.SetBody("text/html", renderBody(record))

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error("MAILER", "Failed to deliver dispatch", map[string]interface{}{
			"recipient": record.RecipientEmailAddress,
			"customer":  record.RecipientCustomer,
			"error":     err.Error(),
		})
		return err
	}

	s.logger.Info("MAILER", "Dispatch delivered", map[string]interface{}{
		"recipient": record.RecipientEmailAddress,
		"customer":  record.RecipientCustomer,
	})
	return nil
}

func (s *emailService) Simulated() bool {
	return false
}

func renderBody(record entity.EmailRecord) string {
	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>%s</h2>
			<p>Dear %s team,</p>
			<p>Please find our follow-up regarding the subject above. Your account manager will be in touch shortly.</p>
			<p style="color: #888; font-size: 12px;">Reference %s</p>
		</div>
	`, html.EscapeString(record.Subject), html.EscapeString(record.RecipientCustomer), record.Id.String())
}

// simulatedService records the send in the log only.
type simulatedService struct {
	logger logger.ILogger
}

func NewSimulatedEmailService(log logger.ILogger) IEmailService {
	return &simulatedService{logger: log}
}

func (s *simulatedService) Deliver(record entity.EmailRecord) error {
	s.logger.Info("MAILER", "Dispatch simulated, SMTP not configured", map[string]interface{}{
		"recipient": record.RecipientEmailAddress,
		"customer":  record.RecipientCustomer,
		"subject":   record.Subject,
	})
	return nil
}

func (s *simulatedService) Simulated() bool {
	return true
}
