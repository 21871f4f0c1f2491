package notificacao

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// AlertaPagamento é o corpo enviado quando um membro manda comprovante.
type AlertaPagamento struct {
	Mensagem       string  `json:"mensagem"`
	PagamentoID    string  `json:"pagamentoId"`
	MembroID       string  `json:"membroId"`
	Valor          float64 `json:"valor"`
	Referencia     string  `json:"referencia"`
	ComprovanteURL string  `json:"comprovanteUrl"`
}

type Webhook struct {
	URL    string
	Client *http.Client
}

func NovoWebhook(url string) *Webhook {
	return &Webhook{URL: url, Client: &http.Client{Timeout: 5 * time.Second}}
}

// Enviar posta o alerta. Sem URL configurada não faz nada.
func (w *Webhook) Enviar(ctx context.Context, alerta AlertaPagamento) error {
	if w == nil || w.URL == "" {
		return nil
	}
	body, err := json.Marshal(alerta)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.Client.Do(req)
	if err != nil {
		return errors.Wrap(err, "enviando webhook")
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return errors.Errorf("webhook respondeu %d", resp.StatusCode)
	}
	return nil
}

// EnviarWebhookAlerta dispara em segundo plano e só registra falhas.
func (w *Webhook) EnviarWebhookAlerta(log zerolog.Logger, alerta AlertaPagamento) {
	if w == nil || w.URL == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := w.Enviar(ctx, alerta); err != nil {
			log.Warn().Err(err).Str("pagamento", alerta.PagamentoID).Msg("Erro ao enviar webhook")
		}
	}()
}
