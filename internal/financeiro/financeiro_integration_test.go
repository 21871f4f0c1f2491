//go:build integration

package financeiro

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patotaccc/api-patota/internal/auditoria"
	"github.com/patotaccc/api-patota/internal/config"
	"github.com/patotaccc/api-patota/internal/models"
	"github.com/patotaccc/api-patota/internal/testutil"
	"github.com/patotaccc/api-patota/internal/utils"
)

func TestFluxoDeCobrancaNoPostgres(t *testing.T) {
	db := testutil.AbrirPostgres(t, append(models.Todos(), &auditoria.Registro{})...)
	arm := &armazenamentoFake{arquivos: map[string]string{}}
	s := NovoServico(db, config.RegrasPadrao(), arm, nil)
	ctx := context.Background()

	ze := models.Membro{Nome: "Ze", Email: "ze@patota.com", Ativo: true}
	require.NoError(t, db.Create(&ze).Error)

	n, err := s.GerarMensalidades(ctx, GerarMensalidadesRequest{Competencia: "2025-03"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = s.GerarMensalidades(ctx, GerarMensalidadesRequest{Competencia: "2025-03"})
	require.NoError(t, err)
	assert.Zero(t, n)

	var mens models.Mensalidade
	require.NoError(t, db.First(&mens, "membro_id = ?", ze.ID).Error)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), mens.Vencimento.UTC())

	pag, err := s.EnviarComprovante(ctx, ze.ID, Alvo{MensalidadeID: mens.ID}, png())
	require.NoError(t, err)

	fila, err := s.PagamentosPendentes(ctx)
	require.NoError(t, err)
	require.Len(t, fila, 1)
	assert.Equal(t, "Ze", fila[0].MembroNome)

	_, err = s.Confirmar(ctx, pag.ID, ze.ID)
	require.NoError(t, err)
	_, err = s.Confirmar(ctx, pag.ID, ze.ID)
	assert.ErrorIs(t, err, utils.ErrTransicaoInvalida)

	require.NoError(t, db.First(&mens, "id = ?", mens.ID).Error)
	assert.Equal(t, models.MensalidadePago, mens.Status)

	multa := models.Multa{MembroID: ze.ID, Tipo: models.MultaAtraso, Valor: 5}
	require.NoError(t, db.Create(&multa).Error)
	pend, err := s.Pendencias(ctx, ze.ID)
	require.NoError(t, err)
	assert.Zero(t, pend.MensalidadesPendentes)
	assert.Equal(t, 1, pend.MultasPendentes)
}
