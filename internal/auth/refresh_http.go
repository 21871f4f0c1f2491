package auth

import (
	"net/http"
	"time"

	"github.com/patotaccc/api-patota/internal/utils"
)

const RefreshCookie = "rt"

func (h *Handler) setRTCookie(w http.ResponseWriter, raw string, exp time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookie,
		Value:    raw,
		Path:     "/auth", // cobre /auth/refresh e /auth/logout
		HttpOnly: true,
		Secure:   h.CookieSecure, // false no DEV (localhost), true em produção
		SameSite: http.SameSiteLaxMode,
		Expires:  exp,
	})
}

func (h *Handler) clearRTCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookie,
		Value:    "",
		Path:     "/auth",
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

func (h *Handler) responderTokens(w http.ResponseWriter, t *Tokens) {
	h.setRTCookie(w, t.refresh, t.refreshExpira)
	utils.ResponderJSON(w, http.StatusOK, t)
}

// POST /auth/refresh
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(RefreshCookie)
	if err != nil || c.Value == "" {
		http.Error(w, "no refresh", http.StatusUnauthorized)
		return
	}
	t, err := h.Servico.Renovar(r.Context(), c.Value)
	if err != nil {
		h.clearRTCookie(w)
		utils.ResponderErro(w, r, err)
		return
	}
	h.responderTokens(w, t)
}

// POST /auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(RefreshCookie); err == nil && c.Value != "" {
		if err := h.Servico.Encerrar(r.Context(), c.Value); err != nil {
			utils.ResponderErro(w, r, err)
			return
		}
	}
	h.clearRTCookie(w)
	w.WriteHeader(http.StatusNoContent)
}
