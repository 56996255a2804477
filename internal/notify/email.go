package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/rs/zerolog/log"

	"github.com/dengeterapi/clinic-server-go/internal/model"
)

// SMTPConfig is the fully resolved delivery configuration: persisted email
// settings merged over env defaults, password already decrypted.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	NotifyTo string
}

func (c SMTPConfig) addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type Mailer struct{}

func NewMailer() *Mailer {
	return &Mailer{}
}

var contactTemplate = template.Must(template.New("contact").Parse(`
<h2>Yeni iletişim formu mesajı</h2>
<p><strong>Ad Soyad:</strong> {{.Name}}</p>
<p><strong>E-posta:</strong> {{.Email}}</p>
{{if .Phone}}<p><strong>Telefon:</strong> {{.Phone}}</p>{{end}}
{{if .Subject}}<p><strong>Konu:</strong> {{.Subject}}</p>{{end}}
<p><strong>Mesaj:</strong></p>
<p>{{.Message}}</p>
`))

var resetTemplate = template.Must(template.New("reset").Parse(`
<h2>Şifre sıfırlama</h2>
<p>Yönetici hesabınız için bir şifre sıfırlama isteği aldık.</p>
<p><a href="{{.ResetLink}}">Yeni şifrenizi belirlemek için tıklayın</a></p>
<p>Bu bağlantı 30 dakika içinde geçerliliğini yitirir. İsteği siz
yapmadıysanız bu e-postayı yok sayabilirsiniz.</p>
`))

// SendContactNotification forwards a contact submission to the clinic inbox.
func (m *Mailer) SendContactNotification(cfg SMTPConfig, sub *model.ContactSubmission) Result {
	if cfg.NotifyTo == "" {
		return failed("no notification recipient configured")
	}

	var body bytes.Buffer
	if err := contactTemplate.Execute(&body, sub); err != nil {
		log.Error().Err(err).Msg("render contact notification template")
		return failed("template error")
	}

	subject := "Yeni iletişim formu mesajı"
	if sub.Subject != nil && *sub.Subject != "" {
		subject = "İletişim formu: " + *sub.Subject
	}

	return m.send(cfg, cfg.NotifyTo, subject, body.String())
}

// SendPasswordResetEmail delivers the one-time reset link. The raw token
// only ever travels through this message.
func (m *Mailer) SendPasswordResetEmail(cfg SMTPConfig, to, resetLink string) Result {
	var body bytes.Buffer
	if err := resetTemplate.Execute(&body, struct{ ResetLink string }{resetLink}); err != nil {
		log.Error().Err(err).Msg("render password reset template")
		return failed("template error")
	}

	return m.send(cfg, to, "Şifre sıfırlama", body.String())
}

func (m *Mailer) SendTestEmail(cfg SMTPConfig, to, message string) Result {
	body := fmt.Sprintf("<p>%s</p>", template.HTMLEscapeString(message))
	return m.send(cfg, to, "Test e-postası", body)
}

func (m *Mailer) send(cfg SMTPConfig, to, subject, htmlBody string) Result {
	if cfg.Host == "" {
		return failed("smtp host is not configured")
	}

	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	if from == "" {
		return failed("smtp from address is not configured")
	}

	msg := buildHTMLMessage(from, to, subject, htmlBody)

	var auth smtp.Auth
	if cfg.Username != "" || cfg.Password != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	if err := smtp.SendMail(cfg.addr(), auth, from, []string{to}, []byte(msg)); err != nil {
		log.Error().Err(err).Str("to", to).Str("subject", subject).Msg("email send failed")
		return failed("email delivery failed")
	}

	log.Info().Str("to", to).Str("subject", subject).Msg("email sent")
	return ok()
}

func buildHTMLMessage(from, to, subject, htmlBody string) string {
	return "From: " + from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=\"UTF-8\"\r\n" +
		"\r\n" +
		htmlBody + "\r\n"
}
