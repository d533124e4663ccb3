// Package notify delivers meeting invitations over SMTP.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"
	"time"

	"github.com/example/interview-sessions/internal/application"
)

// SMTPConfig holds the outbound mail settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// sendFunc matches smtp.SendMail; injected so delivery can be stubbed.
type sendFunc func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error

// Mailer renders and sends meeting invitations. It implements
// application.NotificationSender.
type Mailer struct {
	cfg  SMTPConfig
	send sendFunc
}

// NewMailer constructs a mailer for the given SMTP endpoint.
func NewMailer(cfg SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg, send: smtp.SendMail}
}

var inviteTemplate = template.Must(template.New("invite").Parse(`<html>
<body style="font-family: sans-serif; color: #1f2933;">
  <h2>You have an interview waiting</h2>
  <p>Hi {{.RecipientName}},</p>
  <p>
    {{.SenderName}}{{if .SenderExpertise}} ({{.SenderExpertise}}){{end}}
    has started your scheduled interview session.
  </p>
  <p>
    <strong>Scheduled:</strong> {{.StartsAt}} &ndash; {{.EndsAt}}
  </p>
  <p>
    <a href="{{.JoinURL}}" style="background: #2563eb; color: #ffffff; padding: 10px 18px; border-radius: 6px; text-decoration: none;">
      Join the session
    </a>
  </p>
  <p>If the button does not work, open this link: {{.JoinURL}}</p>
</body>
</html>`))

type inviteView struct {
	RecipientName   string
	SenderName      string
	SenderExpertise string
	StartsAt        string
	EndsAt          string
	JoinURL         string
}

// SendMeetingInvite renders the invitation and hands it to the SMTP server.
func (m *Mailer) SendMeetingInvite(ctx context.Context, invite application.MeetingInvite) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if invite.ToEmail == "" {
		return fmt.Errorf("notify: invite has no recipient address")
	}

	body, err := renderInvite(invite)
	if err != nil {
		return fmt.Errorf("notify: render invite: %w", err)
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", invite.ToEmail)
	fmt.Fprintf(&msg, "Subject: Your interview session has started\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	if err := m.send(addr, auth, m.cfg.From, []string{invite.ToEmail}, msg.Bytes()); err != nil {
		return fmt.Errorf("notify: smtp send to %s: %w", invite.ToEmail, err)
	}
	return nil
}

func renderInvite(invite application.MeetingInvite) (string, error) {
	const layout = "Mon, 2 Jan 2006 15:04 MST"
	view := inviteView{
		RecipientName:   invite.RecipientName,
		SenderName:      invite.SenderName,
		SenderExpertise: invite.SenderExpertise,
		StartsAt:        invite.ScheduledAt.Format(layout),
		EndsAt:          invite.ScheduledAt.Add(invite.Duration).Format(time.Kitchen),
		JoinURL:         invite.JoinURL,
	}

	var buf strings.Builder
	if err := inviteTemplate.Execute(&buf, view); err != nil {
		return "", err
	}
	return buf.String(), nil
}
