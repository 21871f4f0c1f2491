package evento

import (
	"net/http"
	"strings"

	"github.com/patotaccc/api-patota/internal/auth"
	"github.com/patotaccc/api-patota/internal/utils"
)

type Handler struct {
	Servico *Servico
}

func NewHandler(s *Servico) *Handler {
	return &Handler{Servico: s}
}

// GET /eventos?periodo=futuros|passados
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	var futuros bool
	switch strings.ToLower(r.URL.Query().Get("periodo")) {
	case "", "futuros", "proximos":
		futuros = true
	case "passados":
	default:
		http.Error(w, "Período inválido, use futuros ou passados", http.StatusBadRequest)
		return
	}

	list, err := h.Servico.Listar(r.Context(), auth.MembroID(r.Context()), futuros)
	if err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	utils.ResponderJSON(w, http.StatusOK, list)
}

// GET /eventos/{id}
func (h *Handler) Detalhe(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParametroID(r, "id")
	if err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	d, err := h.Servico.Detalhe(r.Context(), id, auth.MembroID(r.Context()))
	if err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	utils.ResponderJSON(w, http.StatusOK, d)
}

// GET /inicio
func (h *Handler) Inicio(w http.ResponseWriter, r *http.Request) {
	out, err := h.Servico.Inicio(r.Context(), auth.MembroID(r.Context()))
	if err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	utils.ResponderJSON(w, http.StatusOK, out)
}

// POST /eventos/{id}/rsvp
func (h *Handler) RSVP(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParametroID(r, "id")
	if err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	var req RSVPRequest
	if err := utils.DecodificarJSON(r, &req); err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	c, err := h.Servico.ResponderRSVP(r.Context(), id, auth.MembroID(r.Context()), req.Status)
	if err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	utils.ResponderJSON(w, http.StatusOK, c)
}

// POST /eventos/{id}/convidados
func (h *Handler) Convidados(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParametroID(r, "id")
	if err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	var req ConvidadosRequest
	if err := utils.DecodificarJSON(r, &req); err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	resp, err := h.Servico.AdicionarConvidados(r.Context(), id, auth.MembroID(r.Context()), *req.Quantidade)
	if err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	utils.ResponderJSON(w, http.StatusOK, resp)
}

// POST /admin/eventos
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	var req CriarEventoRequest
	if err := utils.DecodificarJSON(r, &req); err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	e, err := h.Servico.Criar(r.Context(), req, auth.MembroID(r.Context()))
	if err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	utils.ResponderJSON(w, http.StatusCreated, e)
}

// GET /admin/painel
func (h *Handler) Painel(w http.ResponseWriter, r *http.Request) {
	p, err := h.Servico.Painel(r.Context(), auth.MembroID(r.Context()))
	if err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	utils.ResponderJSON(w, http.StatusOK, p)
}
