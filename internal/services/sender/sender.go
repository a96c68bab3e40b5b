// Package services содержит отправку email-уведомлений о событиях
// продаж: оплате заказа и выплате комиссии.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mrkexxx/tifo.vn/internal/lib/sl"
	"github.com/mrkexxx/tifo.vn/internal/lib/smtp"
	"github.com/mrkexxx/tifo.vn/internal/models"
)

// SenderService отправляет email-уведомления через SMTP.
type SenderService struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(log *slog.Logger, transport smtp.TransportInterface) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// SendOrderPaidNotification уведомляет клиента об активации пакета
// после оплаты заказа.
func (s *SenderService) SendOrderPaidNotification(body []byte) error {
	var message models.OrderPaidEvent
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{message.CustomerEmail}
	subject := "Thanh toan thanh cong - goi " + message.PackageName
	bodyText := fmt.Sprintf("Xin chao %s!\n\nDon hang %s cua ban da duoc thanh toan thanh cong.\nGoi %s da duoc kich hoat, co hieu luc den ngay %s.\nSo tien: %d VND.\n\nCam on ban da su dung dich vu.",
		message.CustomerName, message.OrderID, message.PackageName,
		message.ExpiryDate.Format("02/01/2006"), message.Amount)

	return s.sendEmail(to, subject, bodyText)
}

// SendCommissionPaidNotification уведомляет продавца о выплате комиссии.
func (s *SenderService) SendCommissionPaidNotification(body []byte) error {
	var message models.CommissionPaidEvent
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{message.ResellerEmail}
	subject := "Hoa hong da duoc thanh toan"
	bodyText := fmt.Sprintf("Xin chao %s!\n\nHoa hong %s cua ban da duoc thanh toan.\nMuc hoa hong: %d%%.\nSo tien: %d VND.\n\nCam on ban da dong hanh cung chung toi.",
		message.ResellerName, message.CommissionID, message.Percent, message.Amount)

	return s.sendEmail(to, subject, bodyText)
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
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
		s.log.Error("failed to set MAIL FROM", sl.Err(err))
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
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", slog.Any("to", to))
	return nil
}
