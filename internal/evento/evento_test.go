package evento

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/patotaccc/api-patota/internal/auth"
	"github.com/patotaccc/api-patota/internal/config"
	"github.com/patotaccc/api-patota/internal/financeiro"
	"github.com/patotaccc/api-patota/internal/models"
	"github.com/patotaccc/api-patota/internal/testutil"
	"github.com/patotaccc/api-patota/internal/utils"
)

var agora = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func novoServico(t *testing.T) (*Servico, *gorm.DB) {
	t.Helper()
	db := testutil.AbrirBanco(t, models.Todos()...)
	s := NovoServico(db, config.RegrasPadrao(), financeiro.NovoServico(db, config.RegrasPadrao(), nil, nil))
	s.agora = func() time.Time { return agora }
	return s, db
}

func criarMembro(t *testing.T, db *gorm.DB, nome string) models.Membro {
	t.Helper()
	m := models.Membro{Nome: nome, Email: strings.ToLower(nome) + "@patota.com", Ativo: true}
	require.NoError(t, db.Create(&m).Error)
	return m
}

func criarEvento(t *testing.T, db *gorm.DB, tipo models.TipoEvento, quando time.Time) models.Evento {
	t.Helper()
	e := models.Evento{Tipo: tipo, DataHora: quando, Local: "Arena"}
	require.NoError(t, db.Create(&e).Error)
	return e
}

func TestListarEventos(t *testing.T) {
	s, db := novoServico(t)
	ctx := context.Background()
	ze := criarMembro(t, db, "Ze")
	tiao := criarMembro(t, db, "Tiao")
	bia := criarMembro(t, db, "Bia")

	passado := criarEvento(t, db, models.EventoJogo, agora.Add(-48*time.Hour))
	antigo := criarEvento(t, db, models.EventoInterno, agora.Add(-96*time.Hour))
	depois := criarEvento(t, db, models.EventoJogo, agora.Add(72*time.Hour))
	proximo := criarEvento(t, db, models.EventoJogo, agora.Add(24*time.Hour))

	for _, m := range []models.Membro{ze, tiao} {
		_, err := s.ResponderRSVP(ctx, proximo.ID, m.ID, models.RSVPVou)
		require.NoError(t, err)
	}
	_, err := s.ResponderRSVP(ctx, proximo.ID, bia.ID, models.RSVPTalvez)
	require.NoError(t, err)

	futuros, err := s.Listar(ctx, ze.ID, true)
	require.NoError(t, err)
	require.Len(t, futuros, 2)
	assert.Equal(t, proximo.ID, futuros[0].ID)
	assert.Equal(t, depois.ID, futuros[1].ID)
	assert.EqualValues(t, 2, futuros[0].Confirmados)
	require.NotNil(t, futuros[0].MinhaConfirmacao)
	assert.Equal(t, models.RSVPVou, *futuros[0].MinhaConfirmacao)
	assert.Nil(t, futuros[1].MinhaConfirmacao)
	assert.Zero(t, futuros[1].Confirmados)

	passados, err := s.Listar(ctx, ze.ID, false)
	require.NoError(t, err)
	require.Len(t, passados, 2)
	assert.Equal(t, passado.ID, passados[0].ID)
	assert.Equal(t, antigo.ID, passados[1].ID)
}

func TestRSVPSobrescreve(t *testing.T) {
	s, db := novoServico(t)
	ctx := context.Background()
	ze := criarMembro(t, db, "Ze")
	ev := criarEvento(t, db, models.EventoJogo, agora.Add(24*time.Hour))

	_, err := s.ResponderRSVP(ctx, ev.ID, ze.ID, models.RSVPVou)
	require.NoError(t, err)
	_, err = s.AdicionarConvidados(ctx, ev.ID, ze.ID, 1)
	require.NoError(t, err)

	c, err := s.ResponderRSVP(ctx, ev.ID, ze.ID, models.RSVPTalvez)
	require.NoError(t, err)
	assert.Equal(t, models.RSVPTalvez, c.Status)
	assert.Equal(t, 1, c.Convidados, "trocar a resposta mantém os convidados")

	var n int64
	db.Model(&models.ConfirmacaoEvento{}).Where("evento_id = ? AND membro_id = ?", ev.ID, ze.ID).Count(&n)
	assert.EqualValues(t, 1, n)

	d, err := s.Detalhe(ctx, ev.ID, ze.ID)
	require.NoError(t, err)
	assert.Zero(t, d.Confirmados)
	assert.Equal(t, models.RSVPTalvez, *d.MinhaConfirmacao)
	assert.Equal(t, 1, d.MeusConvidados)

	_, err = s.ResponderRSVP(ctx, "nao-existe", ze.ID, models.RSVPVou)
	assert.ErrorIs(t, err, utils.ErrNaoEncontrado)
}

func TestAdicionarConvidados(t *testing.T) {
	s, db := novoServico(t)
	ctx := context.Background()
	ze := criarMembro(t, db, "Ze")
	ev := criarEvento(t, db, models.EventoJogo, agora.Add(24*time.Hour))

	_, err := s.AdicionarConvidados(ctx, ev.ID, ze.ID, 2)
	assert.ErrorIs(t, err, utils.ErrTransicaoInvalida, "sem RSVP não há convidados")

	_, err = s.ResponderRSVP(ctx, ev.ID, ze.ID, models.RSVPVou)
	require.NoError(t, err)

	resp, err := s.AdicionarConvidados(ctx, ev.ID, ze.ID, 2)
	require.NoError(t, err)
	require.NotNil(t, resp.Multa)
	assert.Equal(t, models.MultaConvidado, resp.Multa.Tipo)
	assert.InDelta(t, 10, resp.Multa.Valor, 0.001)
	primeira := resp.Multa.ID

	resp, err = s.AdicionarConvidados(ctx, ev.ID, ze.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, primeira, resp.Multa.ID, "continua uma multa só")
	assert.InDelta(t, 15, resp.Multa.Valor, 0.001)

	resp, err = s.AdicionarConvidados(ctx, ev.ID, ze.ID, 0)
	require.NoError(t, err)
	assert.Nil(t, resp.Multa)
	var n int64
	db.Model(&models.Multa{}).Count(&n)
	assert.Zero(t, n)

	resp, err = s.AdicionarConvidados(ctx, ev.ID, ze.ID, 2)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.Pagamento{MembroID: ze.ID, MultaID: &resp.Multa.ID, Valor: 10, Status: models.PagamentoPendente}).Error)

	_, err = s.AdicionarConvidados(ctx, ev.ID, ze.ID, 1)
	assert.ErrorIs(t, err, utils.ErrConflito)
	_, err = s.AdicionarConvidados(ctx, ev.ID, ze.ID, 2)
	assert.NoError(t, err, "mesmo valor não mexe na multa")

	var c models.ConfirmacaoEvento
	require.NoError(t, db.First(&c, "evento_id = ? AND membro_id = ?", ev.ID, ze.ID).Error)
	assert.Equal(t, 2, c.Convidados, "falha desfaz a transação")

	_, err = s.AdicionarConvidados(ctx, ev.ID, ze.ID, -1)
	assert.Equal(t, http.StatusBadRequest, utils.StatusDoErro(err))
}

func TestInicio(t *testing.T) {
	s, db := novoServico(t)
	ctx := context.Background()
	ze := criarMembro(t, db, "Ze")

	vazio, err := s.Inicio(ctx, ze.ID)
	require.NoError(t, err)
	assert.Nil(t, vazio.ProximoEvento)

	criarEvento(t, db, models.EventoJogo, agora.Add(-time.Hour))
	prox := criarEvento(t, db, models.EventoJogo, agora.Add(time.Hour))
	criarEvento(t, db, models.EventoInterno, agora.Add(48*time.Hour))
	require.NoError(t, db.Create(&models.Mensalidade{MembroID: ze.ID, Competencia: "2025-03", Valor: 35, Status: models.MensalidadePendente}).Error)
	require.NoError(t, db.Create(&models.Multa{MembroID: ze.ID, Tipo: models.MultaAtraso, Valor: 5}).Error)

	out, err := s.Inicio(ctx, ze.ID)
	require.NoError(t, err)
	require.NotNil(t, out.ProximoEvento)
	assert.Equal(t, prox.ID, out.ProximoEvento.ID)
	assert.Equal(t, 1, out.Pendencias.MensalidadesPendentes)
	assert.Equal(t, 1, out.Pendencias.MultasPendentes)
	assert.InDelta(t, 40, out.Pendencias.Total, 0.001)
}

func requisicao(method, alvo, body, membroID string, vars map[string]string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, alvo, nil)
	} else {
		req = httptest.NewRequest(method, alvo, strings.NewReader(body))
	}
	req = req.WithContext(auth.ComSessao(req.Context(), membroID, "s1"))
	if vars != nil {
		req = mux.SetURLVars(req, vars)
	}
	return req
}

func TestAdminCriaJogoEApareceNoPainel(t *testing.T) {
	s, db := novoServico(t)
	h := NewHandler(s)
	admin := criarMembro(t, db, "Admin")

	rec := httptest.NewRecorder()
	h.Criar(rec, requisicao(http.MethodPost, "/admin/eventos",
		`{"tipo":"JOGO","dataHora":"2025-03-08T09:00:00-03:00","local":"Arena X"}`, admin.ID, nil))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var criado models.Evento
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&criado))
	assert.Equal(t, time.Date(2025, 3, 8, 12, 0, 0, 0, time.UTC), criado.DataHora.UTC())
	require.NotNil(t, criado.CriadoPor)
	assert.Equal(t, admin.ID, *criado.CriadoPor)

	rec = httptest.NewRecorder()
	h.Painel(rec, requisicao(http.MethodGet, "/admin/painel", "", admin.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var p Painel
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&p))
	require.Len(t, p.ProximosEventos, 1)
	assert.Equal(t, "Arena X", p.ProximosEventos[0].Local)
	assert.Zero(t, p.ProximosEventos[0].Confirmados)
	assert.Empty(t, p.PagamentosPendentes)

	rec = httptest.NewRecorder()
	h.Listar(rec, requisicao(http.MethodGet, "/eventos", "", admin.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var list []EventoDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, criado.ID, list[0].ID)
	assert.Zero(t, list[0].Confirmados)
}

func TestHandlerValidacoes(t *testing.T) {
	s, db := novoServico(t)
	h := NewHandler(s)
	ze := criarMembro(t, db, "Ze")
	ev := criarEvento(t, db, models.EventoJogo, agora.Add(24*time.Hour))
	vars := map[string]string{"id": ev.ID}

	tests := []struct {
		name    string
		handler http.HandlerFunc
		req     *http.Request
		status  int
	}{
		{"periodo invalido", h.Listar, requisicao(http.MethodGet, "/eventos?periodo=ontem", "", ze.ID, nil), http.StatusBadRequest},
		{"periodo passados", h.Listar, requisicao(http.MethodGet, "/eventos?periodo=passados", "", ze.ID, nil), http.StatusOK},
		{"detalhe inexistente", h.Detalhe, requisicao(http.MethodGet, "/", "", ze.ID, map[string]string{"id": "x"}), http.StatusNotFound},
		{"rsvp status invalido", h.RSVP, requisicao(http.MethodPost, "/", `{"status":"TALVEZNAO"}`, ze.ID, vars), http.StatusBadRequest},
		{"rsvp ok", h.RSVP, requisicao(http.MethodPost, "/", `{"status":"VOU"}`, ze.ID, vars), http.StatusOK},
		{"convidados sem quantidade", h.Convidados, requisicao(http.MethodPost, "/", `{}`, ze.ID, vars), http.StatusBadRequest},
		{"convidados negativos", h.Convidados, requisicao(http.MethodPost, "/", `{"quantidade":-2}`, ze.ID, vars), http.StatusBadRequest},
		{"convidados ok", h.Convidados, requisicao(http.MethodPost, "/", `{"quantidade":1}`, ze.ID, vars), http.StatusOK},
		{"evento sem local", h.Criar, requisicao(http.MethodPost, "/", `{"tipo":"JOGO","dataHora":"2025-03-08T09:00:00Z","local":"  "}`, ze.ID, nil), http.StatusBadRequest},
		{"evento tipo invalido", h.Criar, requisicao(http.MethodPost, "/", `{"tipo":"FESTA","dataHora":"2025-03-08T09:00:00Z","local":"Arena"}`, ze.ID, nil), http.StatusBadRequest},
		{"evento sem data", h.Criar, requisicao(http.MethodPost, "/", `{"tipo":"JOGO","local":"Arena"}`, ze.ID, nil), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.handler(rec, tt.req)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}
