package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/lennartdeknikker/jaco-line/internal/dto"
)

type Config struct {
	Host     string
	Port     int
	From     string
	Password string
	// To is the site owner's notification address.
	To string
}

type Mailer struct {
	cfg Config
	log *zerolog.Logger
}

func New(cfg Config, log *zerolog.Logger) *Mailer {
	cfg.From = SanitizeAddress(cfg.From)
	cfg.To = SanitizeAddress(cfg.To)
	return &Mailer{cfg: cfg, log: log}
}

// SendNotification renders and sends the notification e-mail for one intake
// message. An unusable recipient address skips the send with a warning rather
// than erroring, so the queue message is not redelivered forever.
func (m *Mailer) SendNotification(msg dto.NotificationMessage) error {
	if m.cfg.Host == "" || m.cfg.From == "" {
		m.log.Warn().Msg("mailer not configured, skipping notification e-mail")
		return nil
	}
	if m.cfg.To == "" || !strings.Contains(m.cfg.To, "@") {
		m.log.Warn().Msg("notification recipient address invalid after sanitization, skipping")
		return nil
	}

	subject, body := render(msg)

	raw := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		m.cfg.From, m.cfg.To, subject, body,
	)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.From, m.cfg.Password, m.cfg.Host)

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{m.cfg.To}, []byte(raw)); err != nil {
		m.log.Warn().Err(err).Str("kind", msg.Kind).Msg("failed to send notification e-mail")
		return fmt.Errorf("send email: %w", err)
	}

	m.log.Info().Str("kind", msg.Kind).Msg("notification e-mail sent")
	return nil
}

func render(msg dto.NotificationMessage) (subject, body string) {
	switch msg.Kind {
	case dto.NotifyNewsletterSubscription:
		subject = fmt.Sprintf("Nieuwsbrief-inschrijving: %s", msg.Email)
		lines := []string{
			"Nieuwe nieuwsbrief-inschrijving",
			"",
			"---",
			"E-mail: " + msg.Email,
		}
		if msg.Name != "" {
			lines = append(lines, "Naam: "+msg.Name)
		}
		return subject, strings.Join(lines, "\n")

	case dto.NotifyContactMessage:
		subject = fmt.Sprintf("Contactformulier: bericht van %s", msg.Name)
		lines := []string{
			"Nieuw bericht via het contactformulier",
			"",
			"---",
			"Naam: " + msg.Name,
			"E-mail: " + msg.Email,
			"",
			"Bericht:",
			msg.Message,
		}
		return subject, strings.Join(lines, "\n")

	default:
		subject = fmt.Sprintf("Workshop-inschrijving: %s – %s", msg.WorkshopTitle, msg.Name)
		lines := []string{
			"Nieuwe workshop-inschrijving",
			"",
			"---",
			"Workshop: " + msg.WorkshopTitle,
			"Datum: " + msg.SessionDate,
		}
		if msg.SessionTime != "" {
			lines = append(lines, "Tijd: "+msg.SessionTime)
		}
		lines = append(lines, "Locatie: "+msg.SessionLocation, "", "---", "Inschrijving:")
		lines = append(lines,
			"Naam: "+msg.Name,
			"E-mail: "+msg.Email,
			"Telefoon: "+msg.Phone,
		)
		if msg.ParticipantCount != nil {
			lines = append(lines, fmt.Sprintf("Aantal deelnemers: %d", *msg.ParticipantCount))
		}
		if msg.Remarks != "" {
			lines = append(lines, "Opmerkingen: "+msg.Remarks)
		}
		return subject, strings.Join(lines, "\n")
	}
}

// SanitizeAddress strips invisible and non-ASCII characters so the SMTP
// server accepts the address. CMS-entered addresses tend to pick up
// zero-width spaces.
func SanitizeAddress(email string) string {
	cleaned := strings.Map(func(r rune) rune {
		if r > 127 {
			return -1
		}
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, email)
	return strings.TrimSpace(cleaned)
}
