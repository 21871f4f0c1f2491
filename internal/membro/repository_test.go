package membro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patotaccc/api-patota/internal/models"
	"github.com/patotaccc/api-patota/internal/testutil"
	"github.com/patotaccc/api-patota/internal/utils"
)

func TestRepositoryCriarEmailDuplicado(t *testing.T) {
	db := testutil.AbrirBanco(t, models.Todos()...)
	repo := NewRepository()

	require.NoError(t, repo.Criar(db, &models.Membro{Nome: "Zé", Email: "ze@patota.com", Ativo: true}))

	// cadastro concorrente que passou pela checagem do handler
	err := repo.Criar(db, &models.Membro{Nome: "Outro Zé", Email: "ze@patota.com", Ativo: true})
	assert.ErrorIs(t, err, utils.ErrConflito)
	assert.Equal(t, 409, utils.StatusDoErro(err))
}
