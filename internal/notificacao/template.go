package notificacao

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/pkg/errors"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.New("").Option("missingkey=zero").ParseFS(templatesFS, "templates/*.html"))

type dadosLinkMagico struct {
	Assunto         string
	Email           string
	Link            string
	Convite         bool
	ValidadeMinutos int
}

// MensagemLinkMagico monta o e-mail de acesso. convite muda só o texto de abertura.
func MensagemLinkMagico(email, link string, validade time.Duration, convite bool) (Mensagem, error) {
	assunto := "Seu link de acesso à Patota CCC"
	if convite {
		assunto = "Convite para a Patota CCC"
	}
	d := dadosLinkMagico{
		Assunto:         assunto,
		Email:           email,
		Link:            link,
		Convite:         convite,
		ValidadeMinutos: int(validade.Minutes()),
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "link_magico.html", d); err != nil {
		return Mensagem{}, errors.Wrap(err, "renderizando link_magico.html")
	}
	return Mensagem{
		Para:    email,
		Assunto: assunto,
		HTML:    buf.String(),
		Texto:   fmt.Sprintf("Acesse a Patota CCC: %s (válido por %d minutos)", link, d.ValidadeMinutos),
	}, nil
}
