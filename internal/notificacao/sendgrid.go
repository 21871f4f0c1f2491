package notificacao

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

type Sendgrid struct {
	key  string
	from *sgmail.Email
}

func NovoSendgrid(key, nome, email string) *Sendgrid {
	return &Sendgrid{key: key, from: sgmail.NewEmail(nome, email)}
}

func (s *Sendgrid) montar(m Mensagem) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = m.Assunto
	p.AddTos(sgmail.NewEmail("", m.Para))

	v3 := sgmail.NewV3Mail()
	v3.SetFrom(s.from)
	v3.AddPersonalizations(p)
	v3.AddContent(
		sgmail.NewContent("text/plain", m.Texto),
		sgmail.NewContent("text/html", m.HTML),
	)
	return v3
}

func (s *Sendgrid) Enviar(ctx context.Context, m Mensagem) error {
	req := sendgrid.GetRequest(s.key, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(s.montar(m))

	res, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return errors.Wrap(err, "sendgrid")
	}
	if res.StatusCode >= http.StatusBadRequest {
		return errors.Errorf("sendgrid respondeu %d: %s", res.StatusCode, res.Body)
	}
	return nil
}
