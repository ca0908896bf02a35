// Package services содержит сервис отправки писем с кодом подтверждения почты.
package services

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/cabinconnect/internal/lib/sl"
	"github.com/magabrotheeeer/cabinconnect/internal/lib/smtp"
)

// SenderService отправляет письма жителям через SMTP транспорт.
//
// Отправка синхронная: ошибка доставки возвращается вызывающему
// и приводит к ошибке всего запроса.
type SenderService struct {
	transport       smtp.TransportInterface
	frontendBaseURL string
	log             *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(transport smtp.TransportInterface, frontendBaseURL string, log *slog.Logger) *SenderService {
	return &SenderService{
		transport:       transport,
		frontendBaseURL: frontendBaseURL,
		log:             log,
	}
}

// SendVerificationEmail отправляет письмо с шестизначным кодом и ссылкой
// для подтверждения почты.
func (s *SenderService) SendVerificationEmail(email, code string) error {
	verificationLink := s.frontendBaseURL + "/verify/" + email

	to := []string{email}
	subject := "CabinConnect Email Verification"
	bodyText := fmt.Sprintf("Your verification code is: %s\n\n"+
		"You can also verify your account by clicking the following link:\n"+
		"%s\n\n"+
		"If you did not register for an account, please ignore this email.",
		code, verificationLink)

	return s.sendEmail(to, subject, bodyText)
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetFrom(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(s.transport.GetFrom()); err != nil {
		s.log.Error("failed to set MAIL FROM", slog.String("from", s.transport.GetFrom()), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", slog.Any("to", to))
	return nil
}
