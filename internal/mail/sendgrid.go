// Package mail delivers certificate notification emails through SendGrid.
package mail

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// DefaultSubject is used when a batch request carries no subject.
const DefaultSubject = "Tu certificado está listo"

var bodyTemplate = template.Must(template.New("certificate-email").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
<div style="background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); padding: 40px 20px; border-radius: 10px; text-align: center; color: white;">
<h1>¡Felicitaciones, {{.Name}}!</h1>
<p>Tu certificado está listo</p>
</div>
<div style="background: white; padding: 30px; border-radius: 10px; margin-top: 20px;">
<p>Hola <strong>{{.Name}}</strong>,</p>
<p>Nos complace informarte que tu certificado ha sido generado exitosamente.</p>
<p>Puedes ver y descargar tu certificado haciendo clic en el siguiente botón:</p>
<a href="{{.URL}}" style="display: inline-block; padding: 15px 40px; background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; text-decoration: none; border-radius: 5px; margin: 20px 0; font-weight: bold;">Ver mi certificado</a>
<p>O copia y pega este enlace en tu navegador:</p>
<p style="word-break: break-all; color: #667eea;">{{.URL}}</p>
<p>Este certificado es permanente y podrás acceder a él en cualquier momento.</p>
</div>
<div style="margin-top: 30px; font-size: 12px; color: #666; text-align: center;">
<p>Este es un email automático, por favor no respondas a este mensaje.</p>
</div>
</body>
</html>`))

// SendGridSender sends certificate notifications through the SendGrid API.
type SendGridSender struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	logger    zerolog.Logger
}

// NewSendGridSender returns nil when no API key is configured, which the
// notifier treats as "email disabled".
func NewSendGridSender(apiKey, fromEmail, fromName string, logger zerolog.Logger) *SendGridSender {
	if apiKey == "" {
		return nil
	}
	return &SendGridSender{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
		logger:    logger.With().Str("component", "sendgrid").Logger(),
	}
}

func (s *SendGridSender) Send(ctx context.Context, toEmail, toName, subject, certificateURL string) error {
	if subject == "" {
		subject = DefaultSubject
	}

	var body strings.Builder
	if err := bodyTemplate.Execute(&body, struct {
		Name string
		URL  string
	}{Name: toName, URL: certificateURL}); err != nil {
		return fmt.Errorf("render email body: %w", err)
	}

	from := sgmail.NewEmail(s.fromName, s.fromEmail)
	to := sgmail.NewEmail(toName, toEmail)
	message := sgmail.NewSingleEmail(from, subject, to, "", body.String())

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("send email to %s: %w", toEmail, err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("send email to %s: sendgrid returned status %d", toEmail, resp.StatusCode)
	}

	s.logger.Info().Str("to", toEmail).Int("status", resp.StatusCode).Msg("email sent")
	return nil
}
