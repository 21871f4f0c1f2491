package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/patotaccc/api-patota/internal/kv"
	"github.com/patotaccc/api-patota/internal/models"
)

// Capacidades é o que a sessão pode fazer. Membro desativado (ou apagado)
// vem com Ativo false e não usa nenhuma rota logada.
type Capacidades struct {
	Admin bool `json:"admin"`
	Ativo bool `json:"ativo"`
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// Gate responde se uma sessão está ativa e se é admin. A consulta ao banco é cacheada por
// sessão e o cache cai a cada login, refresh ou logout dessa sessão.
type Gate struct {
	db    *gorm.DB
	cache kv.Store
	ttl   time.Duration

	mu       sync.Mutex
	cancelar func()
}

func NovoGate(db *gorm.DB, cache kv.Store, ttl time.Duration) *Gate {
	return &Gate{db: db, cache: cache, ttl: ttl}
}

func chaveCapacidades(sessaoID string) string {
	return "capacidades:" + sessaoID
}

func (g *Gate) Capacidades(ctx context.Context, sessaoID, membroID string) (Capacidades, error) {
	if membroID == "" {
		return Capacidades{}, nil
	}
	if sessaoID != "" {
		if v, err := g.cache.Get(ctx, chaveCapacidades(sessaoID)); err == nil && v != "" {
			if partes := strings.Split(v, "|"); len(partes) == 3 && partes[0] == membroID {
				return Capacidades{Admin: partes[1] == "1", Ativo: partes[2] == "1"}, nil
			}
		}
	}

	var ativos []bool
	err := g.db.WithContext(ctx).Model(&models.Membro{}).
		Where("id = ?", membroID).Pluck("ativo", &ativos).Error
	if err != nil {
		return Capacidades{}, errors.Wrap(err, "consultando membro")
	}
	var n int64
	err = g.db.WithContext(ctx).Model(&models.Administrador{}).
		Where("membro_id = ?", membroID).Count(&n).Error
	if err != nil {
		return Capacidades{}, errors.Wrap(err, "consultando administradores")
	}
	caps := Capacidades{Admin: n > 0, Ativo: len(ativos) > 0 && ativos[0]}

	if sessaoID != "" {
		valor := membroID + "|" + flag(caps.Admin) + "|" + flag(caps.Ativo)
		if err := g.cache.Set(ctx, chaveCapacidades(sessaoID), valor, g.ttl); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("falha ao cachear capacidades")
		}
	}
	return caps, nil
}

func (g *Gate) Invalidar(ctx context.Context, sessaoID string) error {
	return g.cache.Del(ctx, chaveCapacidades(sessaoID))
}

// Assinar liga o Gate às mudanças de sessão. Chamar Encerrar no shutdown.
func (g *Gate) Assinar(n *Notificador) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cancelar != nil {
		g.cancelar()
	}
	g.cancelar = n.Assinar(func(ctx context.Context, ev EventoSessao) {
		if err := g.Invalidar(ctx, ev.SessaoID); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("sessao", ev.SessaoID).Msg("falha ao invalidar capacidades")
		}
	})
}

func (g *Gate) Encerrar() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cancelar != nil {
		g.cancelar()
		g.cancelar = nil
	}
}
