package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

type ctxKey string

const (
	CtxMembroID ctxKey = "membroID"
	CtxSessaoID ctxKey = "sessaoID"
)

// ComSessao põe a identidade no contexto. Usado pelo middleware e pelos testes.
func ComSessao(ctx context.Context, membroID, sessaoID string) context.Context {
	ctx = context.WithValue(ctx, CtxMembroID, membroID)
	return context.WithValue(ctx, CtxSessaoID, sessaoID)
}

func MembroID(ctx context.Context) string {
	v, _ := ctx.Value(CtxMembroID).(string)
	return v
}

func SessaoID(ctx context.Context) string {
	v, _ := ctx.Value(CtxSessaoID).(string)
	return v
}

func bearer(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}

// Autenticacao exige um access token válido.
func Autenticacao(e *Emissor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			raw := bearer(r)
			if raw == "" {
				http.Error(w, "Token ausente", http.StatusUnauthorized)
				return
			}
			claims, err := e.Validar(raw)
			if err != nil {
				http.Error(w, "Token inválido", http.StatusUnauthorized)
				return
			}
			ctx := ComSessao(r.Context(), claims.MembroID, claims.SessaoID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Opcional injeta a identidade quando o token é válido e segue em frente
// mesmo sem ele.
func Opcional(e *Emissor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if raw := bearer(r); raw != "" {
				if claims, err := e.Validar(raw); err == nil {
					r = r.WithContext(ComSessao(r.Context(), claims.MembroID, claims.SessaoID))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func exigir(g *Gate, admin bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			membroID := MembroID(r.Context())
			if membroID == "" {
				http.Error(w, "Não autenticado", http.StatusUnauthorized)
				return
			}
			caps, err := g.Capacidades(r.Context(), SessaoID(r.Context()), membroID)
			if err != nil {
				zerolog.Ctx(r.Context()).Error().Err(err).Msg("consultando capacidades")
				http.Error(w, "Erro ao verificar permissões", http.StatusInternalServerError)
				return
			}
			if !caps.Ativo {
				http.Error(w, "Membro inativo", http.StatusUnauthorized)
				return
			}
			if admin && !caps.Admin {
				http.Error(w, "Acesso restrito a administradores", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAtivo barra sessões de membros desativados depois da emissão do token.
func RequireAtivo(g *Gate) func(http.Handler) http.Handler {
	return exigir(g, false)
}

// RequireAdmin pergunta ao Gate se a sessão pode usar rotas de admin.
func RequireAdmin(g *Gate) func(http.Handler) http.Handler {
	return exigir(g, true)
}
