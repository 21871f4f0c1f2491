package presenca

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

	"github.com/patotaccc/api-patota/internal/auditoria"
	"github.com/patotaccc/api-patota/internal/auth"
	"github.com/patotaccc/api-patota/internal/config"
	"github.com/patotaccc/api-patota/internal/models"
	"github.com/patotaccc/api-patota/internal/testutil"
	"github.com/patotaccc/api-patota/internal/utils"
)

const admin = "admin-1"

type ambiente struct {
	db *gorm.DB
	s  *Servico
}

func novoAmbiente(t *testing.T) *ambiente {
	t.Helper()
	db := testutil.AbrirBanco(t, append(models.Todos(), &auditoria.Registro{})...)
	return &ambiente{db: db, s: NovoServico(db, config.RegrasPadrao())}
}

func (a *ambiente) membro(t *testing.T, nome string) models.Membro {
	t.Helper()
	m := models.Membro{Nome: nome, Email: strings.ToLower(nome) + "@patota.com", Ativo: true}
	require.NoError(t, a.db.Create(&m).Error)
	return m
}

func (a *ambiente) evento(t *testing.T, tipo models.TipoEvento) models.Evento {
	t.Helper()
	e := models.Evento{Tipo: tipo, DataHora: time.Date(2025, 3, 8, 12, 0, 0, 0, time.UTC), Local: "Arena"}
	require.NoError(t, a.db.Create(&e).Error)
	return e
}

func (a *ambiente) rsvp(t *testing.T, eventoID, membroID string, st models.StatusRSVP, convidados int) {
	t.Helper()
	require.NoError(t, a.db.Create(&models.ConfirmacaoEvento{EventoID: eventoID, MembroID: membroID, Status: st, Convidados: convidados}).Error)
}

func (a *ambiente) contar(t *testing.T, modelo any, where string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, a.db.Model(modelo).Where(where, args...).Count(&n).Error)
	return n
}

func TestPresenteDuasVezesGeraUmRegistroEUmPonto(t *testing.T) {
	a := novoAmbiente(t)
	ctx := context.Background()
	ze := a.membro(t, "Ze")
	jogo := a.evento(t, models.EventoJogo)
	a.rsvp(t, jogo.ID, ze.ID, models.RSVPVou, 0)

	for i := 0; i < 2; i++ {
		m, err := a.s.MarcarPresenca(ctx, jogo.ID, ze.ID, models.PresencaPresente, admin)
		require.NoError(t, err)
		assert.Equal(t, models.PresencaPresente, m.Presenca.Status)
		assert.Len(t, m.Pontos, 1)
		assert.Empty(t, m.Multas)
	}

	assert.EqualValues(t, 1, a.contar(t, &models.PresencaEvento{}, "evento_id = ?", jogo.ID))
	assert.EqualValues(t, 1, a.contar(t, &models.Ponto{}, "membro_id = ?", ze.ID))

	var p models.Ponto
	require.NoError(t, a.db.First(&p).Error)
	assert.Equal(t, 1, p.Pontos)
	assert.Equal(t, MotivoPresencaJogo, p.Motivo)
	assert.True(t, jogo.DataHora.Equal(p.Referencia))

	assert.EqualValues(t, 2, a.contar(t, &auditoria.Registro{}, "tabela = ?", "presencas_evento"))
}

func TestPresenteEmEventoInternoNaoPontua(t *testing.T) {
	a := novoAmbiente(t)
	ze := a.membro(t, "Ze")
	interno := a.evento(t, models.EventoInterno)

	m, err := a.s.MarcarPresenca(context.Background(), interno.ID, ze.ID, models.PresencaPresente, admin)
	require.NoError(t, err)
	assert.Empty(t, m.Pontos)
}

func TestAusenteDeQuemConfirmouGeraMulta(t *testing.T) {
	a := novoAmbiente(t)
	ctx := context.Background()
	ze := a.membro(t, "Ze")
	bia := a.membro(t, "Bia")
	jogo := a.evento(t, models.EventoJogo)
	a.rsvp(t, jogo.ID, ze.ID, models.RSVPVou, 0)
	a.rsvp(t, jogo.ID, bia.ID, models.RSVPTalvez, 0)

	m, err := a.s.MarcarPresenca(ctx, jogo.ID, ze.ID, models.PresencaAusente, admin)
	require.NoError(t, err)
	assert.Equal(t, models.PresencaAusente, m.Presenca.Status)
	require.Len(t, m.Multas, 1)
	assert.Equal(t, models.MultaFaltaConfirmada, m.Multas[0].Tipo)
	assert.InDelta(t, 10, m.Multas[0].Valor, 0.001)
	require.NotNil(t, m.Multas[0].EventoID)
	assert.Equal(t, jogo.ID, *m.Multas[0].EventoID)

	m, err = a.s.MarcarPresenca(ctx, jogo.ID, bia.ID, models.PresencaAusente, admin)
	require.NoError(t, err)
	assert.Empty(t, m.Multas, "TALVEZ ausente não leva multa")

	_, err = a.s.MarcarPresenca(ctx, jogo.ID, ze.ID, models.PresencaAusente, admin)
	require.NoError(t, err)
	assert.EqualValues(t, 1, a.contar(t, &models.Multa{}, "membro_id = ?", ze.ID))
}

func TestRemarcarRemoveEfeitosQueNaoValemMais(t *testing.T) {
	a := novoAmbiente(t)
	ctx := context.Background()
	ze := a.membro(t, "Ze")
	jogo := a.evento(t, models.EventoJogo)
	a.rsvp(t, jogo.ID, ze.ID, models.RSVPVou, 0)

	m, err := a.s.MarcarPresenca(ctx, jogo.ID, ze.ID, models.PresencaAtraso, admin)
	require.NoError(t, err)
	require.Len(t, m.Multas, 1)
	assert.Equal(t, models.MultaAtraso, m.Multas[0].Tipo)
	assert.InDelta(t, 5, m.Multas[0].Valor, 0.001)

	m, err = a.s.MarcarPresenca(ctx, jogo.ID, ze.ID, models.PresencaPresente, admin)
	require.NoError(t, err)
	assert.Empty(t, m.Multas)
	assert.Len(t, m.Pontos, 1)
	assert.Zero(t, a.contar(t, &models.Multa{}, "membro_id = ?", ze.ID))

	m, err = a.s.MarcarPresenca(ctx, jogo.ID, ze.ID, models.PresencaJustificado, admin)
	require.NoError(t, err)
	assert.Empty(t, m.Pontos)
	assert.Zero(t, a.contar(t, &models.Ponto{}, "membro_id = ?", ze.ID))
}

func TestMultaComPagamentoNaoERemovida(t *testing.T) {
	a := novoAmbiente(t)
	ctx := context.Background()
	ze := a.membro(t, "Ze")
	jogo := a.evento(t, models.EventoJogo)

	m, err := a.s.MarcarPresenca(ctx, jogo.ID, ze.ID, models.PresencaAtraso, admin)
	require.NoError(t, err)
	require.Len(t, m.Multas, 1)
	require.NoError(t, a.db.Create(&models.Pagamento{MembroID: ze.ID, MultaID: &m.Multas[0].ID, Valor: 5, Status: models.PagamentoConfirmado}).Error)

	m, err = a.s.MarcarPresenca(ctx, jogo.ID, ze.ID, models.PresencaPresente, admin)
	require.NoError(t, err)
	require.Len(t, m.Multas, 1, "multa paga continua valendo")
	assert.EqualValues(t, 1, a.contar(t, &models.Multa{}, "membro_id = ?", ze.ID))
}

func TestMarcarPresencaNaoEncontrado(t *testing.T) {
	a := novoAmbiente(t)
	ze := a.membro(t, "Ze")
	jogo := a.evento(t, models.EventoJogo)

	_, err := a.s.MarcarPresenca(context.Background(), "nao-existe", ze.ID, models.PresencaPresente, admin)
	assert.ErrorIs(t, err, utils.ErrNaoEncontrado)
	_, err = a.s.MarcarPresenca(context.Background(), jogo.ID, "nao-existe", models.PresencaPresente, admin)
	assert.ErrorIs(t, err, utils.ErrNaoEncontrado)
}

func TestListarOrdenaEResume(t *testing.T) {
	a := novoAmbiente(t)
	ctx := context.Background()
	jogo := a.evento(t, models.EventoJogo)
	ze, bia, ana, caio := a.membro(t, "Ze"), a.membro(t, "Bia"), a.membro(t, "Ana"), a.membro(t, "Caio")
	a.membro(t, "Semresposta")
	a.rsvp(t, jogo.ID, ze.ID, models.RSVPVou, 2)
	a.rsvp(t, jogo.ID, bia.ID, models.RSVPVou, 0)
	a.rsvp(t, jogo.ID, ana.ID, models.RSVPNaoVou, 0)
	a.rsvp(t, jogo.ID, caio.ID, models.RSVPTalvez, 1)

	_, err := a.s.MarcarPresenca(ctx, jogo.ID, ze.ID, models.PresencaPresente, admin)
	require.NoError(t, err)
	_, err = a.s.MarcarPresenca(ctx, jogo.ID, bia.ID, models.PresencaAtraso, admin)
	require.NoError(t, err)
	_, err = a.s.MarcarPresenca(ctx, jogo.ID, ana.ID, models.PresencaJustificado, admin)
	require.NoError(t, err)

	l, err := a.s.Listar(ctx, jogo.ID)
	require.NoError(t, err)
	require.Len(t, l.Linhas, 4)

	var nomes []string
	for _, ln := range l.Linhas {
		nomes = append(nomes, ln.Nome)
	}
	assert.Equal(t, []string{"Bia", "Ze", "Caio", "Ana"}, nomes)
	require.NotNil(t, l.Linhas[1].PresencaStatus)
	assert.Equal(t, models.PresencaPresente, *l.Linhas[1].PresencaStatus)
	assert.Nil(t, l.Linhas[2].PresencaStatus)

	assert.Equal(t, Resumo{Confirmados: 2, Convidados: 3, Presentes: 1, Atrasos: 1, Justificados: 1}, l.Resumo)
}

func TestSalvarTodosParaNaPrimeiraFalha(t *testing.T) {
	a := novoAmbiente(t)
	ctx := context.Background()
	jogo := a.evento(t, models.EventoJogo)
	ze, bia, ana := a.membro(t, "Ze"), a.membro(t, "Bia"), a.membro(t, "Ana")
	presente, ausente := models.PresencaPresente, models.PresencaAusente

	n, err := a.s.SalvarTodos(ctx, jogo.ID, []ItemLote{
		{MembroID: ze.ID, Status: &presente},
		{MembroID: bia.ID},
		{MembroID: "nao-existe", Status: &presente},
		{MembroID: ana.ID, Status: &ausente},
	}, admin)
	assert.ErrorIs(t, err, utils.ErrNaoEncontrado)
	assert.Equal(t, 1, n)
	assert.EqualValues(t, 1, a.contar(t, &models.PresencaEvento{}, "evento_id = ?", jogo.ID))
	assert.Zero(t, a.contar(t, &models.PresencaEvento{}, "membro_id = ?", ana.ID), "depois da falha nada é aplicado")
}

func requisicao(method, body string, vars map[string]string) *http.Request {
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	req = req.WithContext(auth.ComSessao(req.Context(), admin, "s1"))
	return mux.SetURLVars(req, vars)
}

func TestHandlerPresencas(t *testing.T) {
	a := novoAmbiente(t)
	h := NewHandler(a.s)
	jogo := a.evento(t, models.EventoJogo)
	ze, bia := a.membro(t, "Ze"), a.membro(t, "Bia")
	a.rsvp(t, jogo.ID, ze.ID, models.RSVPVou, 0)
	a.rsvp(t, jogo.ID, bia.ID, models.RSVPVou, 0)

	rec := httptest.NewRecorder()
	h.Marcar(rec, requisicao(http.MethodPut, `{"status":"FALTOU"}`, map[string]string{"id": jogo.ID, "membroId": ze.ID}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.Marcar(rec, requisicao(http.MethodPut, `{"status":"AUSENTE"}`, map[string]string{"id": jogo.ID, "membroId": ze.ID}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var m Marcacao
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&m))
	require.Len(t, m.Multas, 1)
	assert.Equal(t, models.MultaFaltaConfirmada, m.Multas[0].Tipo)

	rec = httptest.NewRecorder()
	body := `{"presencas":[{"membroId":"` + ze.ID + `","status":"PRESENTE"},{"membroId":"` + bia.ID + `","status":"ATRASO"}]}`
	h.SalvarTodos(rec, requisicao(http.MethodPost, body, map[string]string{"id": jogo.ID}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var l ListaPresenca
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&l))
	assert.Equal(t, 1, l.Resumo.Presentes)
	assert.Equal(t, 1, l.Resumo.Atrasos)

	rec = httptest.NewRecorder()
	body = `{"presencas":[{"membroId":"` + ze.ID + `","status":"AUSENTE"},{"membroId":"x","status":"PRESENTE"}]}`
	h.SalvarTodos(rec, requisicao(http.MethodPost, body, map[string]string{"id": jogo.ID}))
	require.Equal(t, http.StatusNotFound, rec.Code)
	var e ErroLote
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&e))
	assert.Equal(t, 1, e.Salvas)

	rec = httptest.NewRecorder()
	h.Listar(rec, requisicao(http.MethodGet, "", map[string]string{"id": "nao-existe"}))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
