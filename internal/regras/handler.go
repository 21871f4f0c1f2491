// Package regras publica a tabela de valores da patota.
package regras

import (
	"net/http"

	"github.com/patotaccc/api-patota/internal/config"
	"github.com/patotaccc/api-patota/internal/utils"
)

type Handler struct {
	Regras config.Regras
}

func NewHandler(r config.Regras) *Handler {
	return &Handler{Regras: r}
}

// GET /regras
func (h *Handler) Obter(w http.ResponseWriter, r *http.Request) {
	utils.ResponderJSON(w, http.StatusOK, h.Regras)
}
