package notificacao

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Console não envia nada: registra a mensagem no log e guarda em memória.
// Usado em desenvolvimento e nos testes.
type Console struct {
	log zerolog.Logger

	mu       sync.Mutex
	Enviadas []Mensagem
}

func NovoConsole(log zerolog.Logger) *Console {
	return &Console{log: log}
}

func (c *Console) Enviar(_ context.Context, m Mensagem) error {
	c.mu.Lock()
	c.Enviadas = append(c.Enviadas, m)
	c.mu.Unlock()

	c.log.Info().Str("para", m.Para).Str("assunto", m.Assunto).Msg(m.Texto)
	return nil
}

// Ultima devolve a última mensagem enviada, se houver.
func (c *Console) Ultima() (Mensagem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.Enviadas) == 0 {
		return Mensagem{}, false
	}
	return c.Enviadas[len(c.Enviadas)-1], true
}
