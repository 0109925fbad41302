package service

import (
	"fmt"
	"log"

	"gopkg.in/gomail.v2"

	"github.com/pratofeito/backend/config"
	"github.com/pratofeito/backend/internal/models"
)

// EmailService notifies staff about events worth a human look.
type EmailService struct {
	cfg *config.Config
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{cfg: cfg}
}

// NotifyRegistration tells staff a new customer is waiting for approval.
// Failure to send never blocks the registration itself.
func (s *EmailService) NotifyRegistration(customer *models.Customer) {
	subject := fmt.Sprintf("New registration pending approval: %s", customer.Name)
	body := fmt.Sprintf(
		"<p>A new customer registered and is waiting for approval.</p>"+
			"<p>Name: %s<br>Phone: %s<br>Email: %s</p>",
		customer.Name, customer.Phone, customer.Email,
	)

	if err := s.Send(s.cfg.StaffEmail, subject, body); err != nil {
		log.Printf("email: failed to notify staff about registration %s: %v", customer.ID, err)
	}
}

// Send delivers one HTML email. Without SMTP configured the email is
// logged instead, which keeps development setups working.
func (s *EmailService) Send(to, subject, body string) error {
	if s.cfg.SMTPHost == "" || s.cfg.SMTPPort == 0 {
		log.Printf("email: SMTP not configured, would send to %s: %s", to, subject)
		return nil
	}
	if to == "" {
		return fmt.Errorf("no recipient configured")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.SMTPFrom)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	dialer := gomail.NewDialer(s.cfg.SMTPHost, s.cfg.SMTPPort, s.cfg.SMTPUsername, s.cfg.SMTPPassword)
	return dialer.DialAndSend(m)
}
