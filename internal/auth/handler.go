package auth

import (
	"net"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/patotaccc/api-patota/internal/utils"
)

type Handler struct {
	Servico      *Servico
	CookieSecure bool
}

func NewHandler(s *Servico, cookieSecure bool) *Handler {
	return &Handler{Servico: s, CookieSecure: cookieSecure}
}

type SolicitarLinkRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerificarRequest struct {
	Token string `json:"token" validate:"required"`
}

func ipDaRequisicao(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		primeiro, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(primeiro)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// POST /auth/link-magico
func (h *Handler) SolicitarLink(w http.ResponseWriter, r *http.Request) {
	var req SolicitarLinkRequest
	if err := utils.DecodificarJSON(r, &req); err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	err := h.Servico.SolicitarLink(r.Context(), req.Email, ipDaRequisicao(r))
	if errors.Is(err, utils.ErrLimiteExcedido) {
		utils.ResponderErro(w, r, err)
		return
	}
	if err != nil {
		// a resposta não muda para não revelar nada sobre o e-mail
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("falha ao enviar link mágico")
	}
	utils.ResponderJSON(w, http.StatusAccepted, map[string]string{
		"mensagem": "Se o e-mail puder acessar, um link foi enviado.",
	})
}

// POST /auth/verificar {token} ou GET /auth/verificar?token=
func (h *Handler) Verificar(w http.ResponseWriter, r *http.Request) {
	var req VerificarRequest
	if r.Method == http.MethodGet {
		req.Token = r.URL.Query().Get("token")
		if err := utils.Validar(&req); err != nil {
			utils.ResponderErro(w, r, err)
			return
		}
	} else if err := utils.DecodificarJSON(r, &req); err != nil {
		utils.ResponderErro(w, r, err)
		return
	}

	t, err := h.Servico.Verificar(r.Context(), req.Token)
	if err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	h.responderTokens(w, t)
}

// GET /auth/sessao
func (h *Handler) Sessao(w http.ResponseWriter, r *http.Request) {
	estado, err := h.Servico.Sessao(r.Context(), SessaoID(r.Context()), MembroID(r.Context()))
	if err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	utils.ResponderJSON(w, http.StatusOK, estado)
}
