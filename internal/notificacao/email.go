package notificacao

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/patotaccc/api-patota/internal/config"
)

// Mensagem é um e-mail já renderizado.
type Mensagem struct {
	Para    string
	Assunto string
	HTML    string
	Texto   string
}

// Remetente entrega e-mails; cada provedor implementa do seu jeito.
type Remetente interface {
	Enviar(ctx context.Context, m Mensagem) error
}

// NovoRemetente escolhe o provedor por EMAIL_PROVIDER. Sem configuração
// suficiente cai no console, que só loga.
func NovoRemetente(cfg *config.Config, log zerolog.Logger) Remetente {
	switch strings.ToLower(cfg.EmailProvider) {
	case "smtp":
		if cfg.EmailSMTPHost != "" {
			return NovoSMTP(cfg.EmailSMTPHost, cfg.EmailSMTPPort, cfg.EmailSMTPUser, cfg.EmailSMTPPassword,
				cfg.EmailFromAddress, cfg.EmailFromName, cfg.EmailSMTPEnc)
		}
		log.Warn().Msg("EMAIL_PROVIDER=smtp sem EMAIL_SMTP_HOST; usando console")
	case "sendgrid":
		if cfg.SendgridAPIKey != "" {
			return NovoSendgrid(cfg.SendgridAPIKey, cfg.EmailFromName, cfg.EmailFromAddress)
		}
		log.Warn().Msg("EMAIL_PROVIDER=sendgrid sem SENDGRID_API_KEY; usando console")
	}
	return NovoConsole(log)
}
