package auth

import (
	"context"
	"sync"
)

type TipoEventoSessao string

const (
	SessaoLogin   TipoEventoSessao = "login"
	SessaoRefresh TipoEventoSessao = "refresh"
	SessaoLogout  TipoEventoSessao = "logout"
)

type EventoSessao struct {
	Tipo     TipoEventoSessao
	SessaoID string
	MembroID string
}

// Notificador distribui mudanças de sessão dentro do processo. Os assinantes
// rodam de forma síncrona, na goroutine de quem publica.
type Notificador struct {
	mu         sync.RWMutex
	proximo    int
	assinantes map[int]func(context.Context, EventoSessao)
}

func NovoNotificador() *Notificador {
	return &Notificador{assinantes: make(map[int]func(context.Context, EventoSessao))}
}

// Assinar registra fn e devolve a função que cancela a assinatura.
func (n *Notificador) Assinar(fn func(context.Context, EventoSessao)) (cancelar func()) {
	n.mu.Lock()
	id := n.proximo
	n.proximo++
	n.assinantes[id] = fn
	n.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.assinantes, id)
			n.mu.Unlock()
		})
	}
}

func (n *Notificador) Publicar(ctx context.Context, ev EventoSessao) {
	n.mu.RLock()
	fns := make([]func(context.Context, EventoSessao), 0, len(n.assinantes))
	for _, fn := range n.assinantes {
		fns = append(fns, fn)
	}
	n.mu.RUnlock()

	for _, fn := range fns {
		fn(ctx, ev)
	}
}

func (n *Notificador) Assinantes() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.assinantes)
}
