package auth

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patotaccc/api-patota/internal/models"
	"github.com/patotaccc/api-patota/internal/utils"
)

func TestFluxoLinkMagicoCadastraNoPrimeiroAcesso(t *testing.T) {
	a := novoAmbiente(t)
	ctx := context.Background()

	require.NoError(t, a.servico.SolicitarLink(ctx, "  Novo@Patota.com ", "10.0.0.1"))
	m, _ := a.console.Ultima()
	assert.Equal(t, "novo@patota.com", m.Para)
	assert.True(t, strings.HasPrefix(reToken.FindString(m.Texto), "token="))
	assert.Contains(t, m.Texto, "http://localhost:5173/auth/verificar?token=")

	tok, err := a.servico.Verificar(ctx, a.ultimoToken(t))
	require.NoError(t, err)
	assert.Equal(t, "novo", tok.Membro.Nome)
	assert.True(t, tok.Membro.Ativo)
	assert.False(t, tok.Admin)
	assert.Equal(t, "Bearer", tok.TokenType)
	assert.NotEmpty(t, tok.refresh)

	claims, err := a.emissor.Validar(tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, tok.Membro.ID, claims.MembroID)

	var n int64
	a.db.Model(&models.Membro{}).Where("email = ?", "novo@patota.com").Count(&n)
	assert.EqualValues(t, 1, n)
}

func TestVerificarUsoUnico(t *testing.T) {
	a := novoAmbiente(t)
	ctx := context.Background()
	a.criarMembro(t, "Zé", "ze@patota.com", true, true)

	require.NoError(t, a.servico.SolicitarLink(ctx, "ze@patota.com", "ip"))
	raw := a.ultimoToken(t)

	tok, err := a.servico.Verificar(ctx, raw)
	require.NoError(t, err)
	assert.True(t, tok.Admin)
	assert.Equal(t, "Zé", tok.Membro.Nome)

	_, err = a.servico.Verificar(ctx, raw)
	assert.ErrorIs(t, err, utils.ErrNaoAutenticado)
}

func TestVerificarTokenInvalido(t *testing.T) {
	a := novoAmbiente(t)
	ctx := context.Background()
	require.NoError(t, a.servico.SolicitarLink(ctx, "ze@patota.com", "ip"))
	seletor, _, _ := strings.Cut(a.ultimoToken(t), ".")

	for _, raw := range []string{"", "semponto", seletor + ".errado", "desconhecido.abc"} {
		_, err := a.servico.Verificar(ctx, raw)
		assert.ErrorIs(t, err, utils.ErrNaoAutenticado, raw)
	}
}

func TestSolicitarLinkMembroInativoNaoRecebe(t *testing.T) {
	a := novoAmbiente(t)
	a.criarMembro(t, "Inativo", "inativo@patota.com", false, false)

	require.NoError(t, a.servico.SolicitarLink(context.Background(), "inativo@patota.com", "ip"))
	_, ok := a.console.Ultima()
	assert.False(t, ok)
}

func TestVerificarMembroInativo(t *testing.T) {
	a := novoAmbiente(t)
	ctx := context.Background()
	m := a.criarMembro(t, "Zé", "ze@patota.com", true, false)

	require.NoError(t, a.servico.EnviarConvite(ctx, "ze@patota.com"))
	require.NoError(t, a.db.Model(&m).Update("ativo", false).Error)

	_, err := a.servico.Verificar(ctx, a.ultimoToken(t))
	assert.ErrorIs(t, err, utils.ErrAcessoNegado)
}

func TestSolicitarLinkLimite(t *testing.T) {
	a := novoAmbiente(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, a.servico.SolicitarLink(ctx, "ze@patota.com", "ip-1"))
	}
	err := a.servico.SolicitarLink(ctx, "ze@patota.com", "ip-2")
	assert.ErrorIs(t, err, utils.ErrLimiteExcedido)

	err = a.servico.SolicitarLink(ctx, "outro@patota.com", "ip-1")
	assert.ErrorIs(t, err, utils.ErrLimiteExcedido, "limite por IP também vale")
}

func TestEnviarConvite(t *testing.T) {
	a := novoAmbiente(t)
	require.NoError(t, a.servico.EnviarConvite(context.Background(), "Convidado@Patota.com"))
	m, ok := a.console.Ultima()
	require.True(t, ok)
	assert.Equal(t, "convidado@patota.com", m.Para)
	assert.Equal(t, "Convite para a Patota CCC", m.Assunto)
}

func login(t *testing.T, a *ambiente, email string) *Tokens {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, a.servico.EnviarConvite(ctx, email))
	tok, err := a.servico.Verificar(ctx, a.ultimoToken(t))
	require.NoError(t, err)
	return tok
}

func TestRenovarRotaciona(t *testing.T) {
	a := novoAmbiente(t)
	ctx := context.Background()
	primeiro := login(t, a, "ze@patota.com")
	c1, _ := a.emissor.Validar(primeiro.AccessToken)

	segundo, err := a.servico.Renovar(ctx, primeiro.refresh)
	require.NoError(t, err)
	assert.NotEqual(t, primeiro.refresh, segundo.refresh)
	c2, _ := a.emissor.Validar(segundo.AccessToken)
	assert.Equal(t, c1.SessaoID, c2.SessaoID, "refresh mantém a sessão")

	// reapresentar o antigo derruba a sessão inteira
	_, err = a.servico.Renovar(ctx, primeiro.refresh)
	assert.ErrorIs(t, err, utils.ErrNaoAutenticado)
	_, err = a.servico.Renovar(ctx, segundo.refresh)
	assert.ErrorIs(t, err, utils.ErrNaoAutenticado)
}

func TestRenovarMembroDesativado(t *testing.T) {
	a := novoAmbiente(t)
	tok := login(t, a, "ze@patota.com")
	require.NoError(t, a.db.Model(&models.Membro{}).Where("id = ?", tok.Membro.ID).Update("ativo", false).Error)

	_, err := a.servico.Renovar(context.Background(), tok.refresh)
	assert.ErrorIs(t, err, utils.ErrAcessoNegado)
}

func TestEncerrar(t *testing.T) {
	a := novoAmbiente(t)
	ctx := context.Background()
	tok := login(t, a, "ze@patota.com")

	var eventos []EventoSessao
	cancelar := a.notif.Assinar(func(_ context.Context, ev EventoSessao) { eventos = append(eventos, ev) })
	defer cancelar()

	require.NoError(t, a.servico.Encerrar(ctx, tok.refresh))
	require.Len(t, eventos, 1)
	assert.Equal(t, SessaoLogout, eventos[0].Tipo)

	_, err := a.servico.Renovar(ctx, tok.refresh)
	assert.ErrorIs(t, err, utils.ErrNaoAutenticado)

	assert.NoError(t, a.servico.Encerrar(ctx, "desconhecido"))
	assert.NoError(t, a.servico.Encerrar(ctx, ""))
}

func TestSessao(t *testing.T) {
	a := novoAmbiente(t)
	ctx := context.Background()

	estado, err := a.servico.Sessao(ctx, "", "")
	require.NoError(t, err)
	assert.False(t, estado.Autenticado)
	assert.Nil(t, estado.Membro)

	m := a.criarMembro(t, "Admin", "admin@patota.com", true, true)
	estado, err = a.servico.Sessao(ctx, "s1", m.ID)
	require.NoError(t, err)
	assert.True(t, estado.Autenticado)
	assert.True(t, estado.Admin)
	assert.Equal(t, "Admin", estado.Membro.Nome)

	estado, err = a.servico.Sessao(ctx, "s1", "nao-existe")
	require.NoError(t, err)
	assert.False(t, estado.Autenticado)
}
