package auth

import (
	"net/url"
	"regexp"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/patotaccc/api-patota/internal/config"
	"github.com/patotaccc/api-patota/internal/kv"
	"github.com/patotaccc/api-patota/internal/models"
	"github.com/patotaccc/api-patota/internal/notificacao"
	"github.com/patotaccc/api-patota/internal/testutil"
)

type ambiente struct {
	db      *gorm.DB
	servico *Servico
	gate    *Gate
	emissor *Emissor
	console *notificacao.Console
	notif   *Notificador
}

func novoAmbiente(t *testing.T) *ambiente {
	t.Helper()
	db := testutil.AbrirBanco(t, append(models.Todos(), Modelos()...)...)

	cfg := &config.Config{
		LinkMagicoTTL:    time.Hour,
		RefreshTTL:       24 * time.Hour,
		LinkMagicoLimit:  3,
		LinkMagicoJanela: 15 * time.Minute,
		PublicBaseURL:    "http://localhost:5173/",
	}
	emissor := NovoEmissor("segredo-de-teste", "api-patota", "patota-web", 15*time.Minute)
	store := kv.NovaMemoria()
	gate := NovoGate(db, store, time.Minute)
	notif := NovoNotificador()
	gate.Assinar(notif)
	t.Cleanup(gate.Encerrar)

	console := notificacao.NovoConsole(zerolog.Nop())
	return &ambiente{
		db:      db,
		servico: NovoServico(db, cfg, emissor, gate, store, console, notif),
		gate:    gate,
		emissor: emissor,
		console: console,
		notif:   notif,
	}
}

var reToken = regexp.MustCompile(`token=([^\s"&]+)`)

func (a *ambiente) ultimoToken(t *testing.T) string {
	t.Helper()
	m, ok := a.console.Ultima()
	require.True(t, ok, "nenhum e-mail enviado")
	sub := reToken.FindStringSubmatch(m.Texto)
	require.Len(t, sub, 2)
	tok, err := url.QueryUnescape(sub[1])
	require.NoError(t, err)
	return tok
}

func (a *ambiente) criarMembro(t *testing.T, nome, email string, ativo, admin bool) models.Membro {
	t.Helper()
	m := models.Membro{Nome: nome, Email: email, Ativo: true}
	require.NoError(t, a.db.Create(&m).Error)
	if !ativo {
		require.NoError(t, a.db.Model(&m).Update("ativo", false).Error)
		m.Ativo = false
	}
	if admin {
		require.NoError(t, a.db.Create(&models.Administrador{MembroID: m.ID}).Error)
	}
	return m
}
