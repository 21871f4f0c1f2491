// Package kv guarda contadores e valores com TTL. Usa Redis quando configurado
// e cai para memória local quando não há Redis.
package kv

import (
	"context"
	"time"
)

// Store é o contrato usado pelo rate limit do link mágico e pelo cache de
// capacidades da sessão.
type Store interface {
	// AllowRate conta uma tentativa na janela e diz se ainda está dentro do limite.
	AllowRate(ctx context.Context, chave string, limite int64, janela time.Duration) (bool, int64, error)
	Set(ctx context.Context, chave, valor string, ttl time.Duration) error
	// Get devolve "" e nil quando a chave não existe.
	Get(ctx context.Context, chave string) (string, error)
	Del(ctx context.Context, chaves ...string) error
}
