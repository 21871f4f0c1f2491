package regras

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patotaccc/api-patota/internal/config"
)

func TestObter(t *testing.T) {
	regras := config.RegrasPadrao()
	regras.MultaAtraso = 7.5

	rec := httptest.NewRecorder()
	NewHandler(regras).Obter(rec, httptest.NewRequest(http.MethodGet, "/regras", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got config.Regras
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, regras, got)
}
