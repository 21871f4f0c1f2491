package kv

import (
	"context"
	"strconv"
	"sync"
	"time"
)

type item struct {
	valor  string
	expira time.Time
}

// Memoria é o Store usado sem Redis (dev e testes). Não é compartilhado entre
// réplicas.
type Memoria struct {
	mu    sync.Mutex
	itens map[string]item
	agora func() time.Time
}

func NovaMemoria() *Memoria {
	return &Memoria{itens: make(map[string]item), agora: time.Now}
}

func (m *Memoria) vivo(chave string) (item, bool) {
	it, ok := m.itens[chave]
	if !ok {
		return item{}, false
	}
	if !it.expira.IsZero() && !m.agora().Before(it.expira) {
		delete(m.itens, chave)
		return item{}, false
	}
	return it, true
}

func (m *Memoria) AllowRate(_ context.Context, chave string, limite int64, janela time.Duration) (bool, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	it, _ := m.vivo(chave)
	n, _ := strconv.ParseInt(it.valor, 10, 64)
	n++
	m.itens[chave] = item{valor: strconv.FormatInt(n, 10), expira: m.agora().Add(janela)}
	return n <= limite, n, nil
}

func (m *Memoria) Set(_ context.Context, chave, valor string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	it := item{valor: valor}
	if ttl > 0 {
		it.expira = m.agora().Add(ttl)
	}
	m.itens[chave] = it
	return nil
}

func (m *Memoria) Get(_ context.Context, chave string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	it, _ := m.vivo(chave)
	return it.valor, nil
}

func (m *Memoria) Del(_ context.Context, chaves ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range chaves {
		delete(m.itens, c)
	}
	return nil
}
