package notificacao

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"mime/quotedprintable"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/pkg/errors"
)

type ModoCriptografia string

const (
	EncNone     ModoCriptografia = "NONE"
	EncStartTLS ModoCriptografia = "STARTTLS"
	EncSSLTLS   ModoCriptografia = "SSL/TLS"
)

type SMTP struct {
	Host     string
	Port     int
	Usuario  string
	Senha    string
	FromAddr string
	FromNome string
	Enc      ModoCriptografia
}

func NovoSMTP(host string, port int, usuario, senha, fromAddr, fromNome, enc string) *SMTP {
	modo := ModoCriptografia(strings.ToUpper(strings.TrimSpace(enc)))
	if modo != EncNone && modo != EncSSLTLS {
		modo = EncStartTLS
	}
	return &SMTP{
		Host:     host,
		Port:     port,
		Usuario:  usuario,
		Senha:    senha,
		FromAddr: fromAddr,
		FromNome: fromNome,
		Enc:      modo,
	}
}

func (s *SMTP) Enviar(ctx context.Context, m Mensagem) error {
	msg := montarMIME(s.FromNome, s.FromAddr, m)
	endereco := fmt.Sprintf("%s:%d", s.Host, s.Port)
	auth := smtp.PlainAuth("", s.Usuario, s.Senha, s.Host)

	d := net.Dialer{Timeout: 15 * time.Second}
	if deadline, ok := ctx.Deadline(); ok {
		d.Timeout = time.Until(deadline)
	}

	var (
		c   *smtp.Client
		err error
	)
	switch s.Enc {
	case EncSSLTLS:
		conn, err := tls.DialWithDialer(&d, "tcp", endereco, &tls.Config{ServerName: s.Host})
		if err != nil {
			return errors.Wrap(err, "email: tls dial")
		}
		c, err = smtp.NewClient(conn, s.Host)
		if err != nil {
			return errors.Wrap(err, "email: novo cliente")
		}
	default:
		conn, err := d.DialContext(ctx, "tcp", endereco)
		if err != nil {
			return errors.Wrap(err, "email: dial")
		}
		c, err = smtp.NewClient(conn, s.Host)
		if err != nil {
			return errors.Wrap(err, "email: novo cliente")
		}
		if s.Enc == EncStartTLS {
			if ok, _ := c.Extension("STARTTLS"); ok {
				if err = c.StartTLS(&tls.Config{ServerName: s.Host}); err != nil {
					_ = c.Close()
					return errors.Wrap(err, "email: starttls")
				}
			}
		}
	}
	defer c.Close()

	if s.Usuario != "" {
		if err = c.Auth(auth); err != nil {
			return errors.Wrap(err, "email: auth")
		}
	}
	if err = c.Mail(s.FromAddr); err != nil {
		return errors.Wrap(err, "email: MAIL FROM")
	}
	if err = c.Rcpt(strings.TrimSpace(m.Para)); err != nil {
		return errors.Wrapf(err, "email: RCPT TO %s", m.Para)
	}
	w, err := c.Data()
	if err != nil {
		return errors.Wrap(err, "email: DATA")
	}
	if _, err = w.Write(msg); err != nil {
		_ = w.Close()
		return errors.Wrap(err, "email: corpo")
	}
	if err = w.Close(); err != nil {
		return errors.Wrap(err, "email: fechando DATA")
	}
	return c.Quit()
}

func montarMIME(fromNome, fromAddr string, m Mensagem) []byte {
	from := fromAddr
	if fromNome != "" {
		from = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", fromNome), fromAddr)
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", m.Para)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", m.Assunto))
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("Content-Transfer-Encoding: quoted-printable\r\n\r\n")

	qp := quotedprintable.NewWriter(&b)
	_, _ = qp.Write([]byte(m.HTML))
	_ = qp.Close()
	return b.Bytes()
}
