package logger

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

// Middleware registra cada requisição e deixa o logger no contexto
// (recuperável com zerolog.Ctx nos handlers).
func Middleware(l zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			inicio := time.Now()
			sw := &statusWriter{ResponseWriter: w}
			next.ServeHTTP(sw, r.WithContext(l.WithContext(r.Context())))

			if sw.status == 0 {
				sw.status = http.StatusOK
			}
			ev := l.Info()
			if sw.status >= http.StatusInternalServerError {
				ev = l.Error()
			} else if sw.status >= http.StatusBadRequest {
				ev = l.Warn()
			}
			ev.Str("metodo", r.Method).
				Str("caminho", r.URL.Path).
				Int("status", sw.status).
				Dur("duracao", time.Since(inicio)).
				Msg("requisição")
		})
	}
}
