package mailer

import "github.com/wneessen/go-mail"

// Sender delivers a single message: success or failure. The dispatcher only
// depends on this seam so tests can swap in a fake transport.
type Sender interface {
	Send(to, subject, text, html string) error
}

type SMTPSender struct {
	client   *mail.Client
	fromName string
	fromAddr string
}

func NewSMTPSender(host string, port int, username, password, fromName, fromAddr string) (*SMTPSender, error) {
	opts := []mail.Option{
		mail.WithPort(port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(username),
			mail.WithPassword(password),
		)
	}

	client, err := mail.NewClient(host, opts...)
	if err != nil {
		return nil, err
	}

	return &SMTPSender{client: client, fromName: fromName, fromAddr: fromAddr}, nil
}

func (s *SMTPSender) Send(to, subject, text, html string) error {
	msg := mail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromAddr); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}

	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, text)
	msg.AddAlternativeString(mail.TypeTextHTML, html)

	return s.client.DialAndSend(msg)
}
