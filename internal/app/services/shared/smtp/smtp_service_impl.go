package smtp

import (
	"context"
	"fmt"
	"mentorship-service/internal/app/contracts"
	"mentorship-service/internal/app/drivers/mailer"
	"mentorship-service/internal/pkg/constvars"
	"mentorship-service/internal/pkg/exceptions"
	"net/smtp"
)

type smtpService struct {
	Client *mailer.SMTPClient
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSmtpService(client *mailer.SMTPClient) contracts.Notifier {
	return &smtpService{
		Client: client,
		send:   smtp.SendMail,
	}
}

// Send delivers html when present, plain text otherwise.
func (svc *smtpService) Send(ctx context.Context, recipient, subject, text, html string) error {
	msg := []byte(fmt.Sprintf(constvars.EmailSendBasicEmailSubjectFormat, recipient, subject, text))
	if html != "" {
		msg = []byte(fmt.Sprintf(constvars.EmailSendHTMLSubjectFormat, recipient, subject, html))
	}

	addr := fmt.Sprintf("%s:%d", svc.Client.Host, svc.Client.Port)
	err := svc.send(addr, svc.Client.Auth, svc.Client.EmailSender, []string{recipient}, msg)
	if err != nil {
		return exceptions.ErrSMTPSendEmail(err, svc.Client.Host)
	}
	return nil
}
