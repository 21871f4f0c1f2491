package auditoria

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patotaccc/api-patota/internal/testutil"
)

func TestRegistrar(t *testing.T) {
	db := testutil.AbrirBanco(t, &Registro{})

	antes := map[string]string{"status": "PENDENTE"}
	depois := map[string]string{"status": "CONFIRMADO"}
	require.NoError(t, Registrar(db, "pagamentos", "confirmar", "p1", antes, depois, "admin-1"))
	require.NoError(t, Registrar(db, "pagamentos", "criar", "p2", nil, depois, ""))

	rs, err := Listar(db, "pagamentos", "p1")
	require.NoError(t, err)
	require.Len(t, rs, 1)
	assert.Equal(t, "confirmar", rs[0].Acao)
	require.NotNil(t, rs[0].UsuarioID)
	assert.Equal(t, "admin-1", *rs[0].UsuarioID)

	var got map[string]string
	require.NoError(t, json.Unmarshal(rs[0].DadosDepois, &got))
	assert.Equal(t, "CONFIRMADO", got["status"])

	rs, err = Listar(db, "pagamentos", "p2")
	require.NoError(t, err)
	require.Len(t, rs, 1)
	assert.Nil(t, rs[0].UsuarioID)
	assert.Empty(t, rs[0].DadosAntes)
}
