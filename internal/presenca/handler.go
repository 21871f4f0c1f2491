package presenca

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/patotaccc/api-patota/internal/auth"
	"github.com/patotaccc/api-patota/internal/utils"
)

type Handler struct {
	Servico *Servico
}

func NewHandler(s *Servico) *Handler {
	return &Handler{Servico: s}
}

// GET /admin/eventos/{id}/presencas
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParametroID(r, "id")
	if err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	lista, err := h.Servico.Listar(r.Context(), id)
	if err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	utils.ResponderJSON(w, http.StatusOK, lista)
}

// PUT /admin/eventos/{id}/presencas/{membroId}
func (h *Handler) Marcar(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParametroID(r, "id")
	if err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	membroID, err := utils.ParametroID(r, "membroId")
	if err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	var req MarcarRequest
	if err := utils.DecodificarJSON(r, &req); err != nil {
		utils.ResponderErro(w, r, err)
		return
	}

	m, err := h.Servico.MarcarPresenca(r.Context(), id, membroID, req.Status, auth.MembroID(r.Context()))
	if err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	utils.ResponderJSON(w, http.StatusOK, m)
}

// POST /admin/eventos/{id}/presencas
func (h *Handler) SalvarTodos(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParametroID(r, "id")
	if err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	var req LoteRequest
	if err := utils.DecodificarJSON(r, &req); err != nil {
		utils.ResponderErro(w, r, err)
		return
	}

	salvas, err := h.Servico.SalvarTodos(r.Context(), id, req.Presencas, auth.MembroID(r.Context()))
	if err != nil {
		status := utils.StatusDoErro(err)
		if status == http.StatusInternalServerError {
			zerolog.Ctx(r.Context()).Error().Err(err).Int("salvas", salvas).Msg("falha ao salvar presenças")
		}
		utils.ResponderJSON(w, status, ErroLote{Erro: err.Error(), Salvas: salvas})
		return
	}

	lista, err := h.Servico.Listar(r.Context(), id)
	if err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	utils.ResponderJSON(w, http.StatusOK, lista)
}
