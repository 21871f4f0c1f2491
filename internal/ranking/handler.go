package ranking

import (
	"net/http"
	"strings"

	"github.com/patotaccc/api-patota/internal/utils"
)

type Handler struct {
	Ranking *Ranking
}

func NewHandler(r *Ranking) *Handler {
	return &Handler{Ranking: r}
}

// GET /ranking?visao=mensal|geral
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	visao := Visao(strings.ToLower(r.URL.Query().Get("visao")))
	if visao == "" {
		visao = VisaoMensal
	}
	if visao != VisaoMensal && visao != VisaoGeral {
		http.Error(w, "Visão inválida, use mensal ou geral", http.StatusBadRequest)
		return
	}

	linhas, err := h.Ranking.Listar(r.Context(), visao)
	if err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	utils.ResponderJSON(w, http.StatusOK, linhas)
}
