// Package sender потребляет события пайплайна уведомлений и отправляет
// письма пользователям через SMTP транспорт.
package sender

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dijital-miras/premium-service/internal/lib/sl"
	"github.com/dijital-miras/premium-service/internal/lib/smtp"
	"github.com/dijital-miras/premium-service/internal/models"
)

// UserLookup поиск адресата по UID из полезной нагрузки события.
type UserLookup interface {
	GetUserByUID(ctx context.Context, userUID string) (*models.User, error)
}

// Service отправитель писем-уведомлений.
type Service struct {
	users     UserLookup
	transport smtp.TransportInterface
	log       *slog.Logger
}

// New создает новый экземпляр Service.
func New(users UserLookup, transport smtp.TransportInterface, log *slog.Logger) *Service {
	return &Service{
		users:     users,
		transport: transport,
		log:       log,
	}
}

// SendTrialExpiringReminder отправляет напоминание, что пробный период
// заканчивается завтра. Тексты писем — на языке продукта.
func (s *Service) SendTrialExpiringReminder(body []byte) error {
	var message models.TrialReminder
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{message.Email}
	subject := "Deneme süreniz yarın sona eriyor"
	bodyText := fmt.Sprintf(`Merhaba %s,

Dijital Miras deneme süreniz yarın sona eriyor.
Kayıtlarınıza kesintisiz erişmeye devam etmek için bir plan seçebilirsiniz.

Dijital Miras ekibi`, message.Username)

	return s.sendEmail(to, subject, bodyText)
}

// SendRewardGrantedNotice сообщает пользователю о суточном бонусе за серию репостов.
func (s *Service) SendRewardGrantedNotice(body []byte) error {
	var event models.RewardGranted
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	user, err := s.users.GetUserByUID(context.Background(), event.UserUID)
	if err != nil {
		s.log.Error("failed to look up reward recipient", sl.Err(err))
		return err
	}

	to := []string{user.Email}
	subject := "Tebrikler! 24 saatlik premium erişim kazandınız"
	bodyText := fmt.Sprintf(`Merhaba %s,

Üst üste paylaşım seriniz tamamlandı: %s tarihine kadar tüm premium
modüllere erişebilirsiniz.

Dijital Miras ekibi`, user.Username, event.RewardEnd.Format("02.01.2006 15:04"))

	return s.sendEmail(to, subject, bodyText)
}

func (s *Service) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
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

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), "error", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", "recipient", addr, "error", sl.Err(err))
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

	s.log.Info("email sent successfully", "to", to)
	return nil
}
