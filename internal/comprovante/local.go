package comprovante

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Local grava em disco sob Dir; os arquivos são servidos em BaseURL.
type Local struct {
	Dir     string
	BaseURL string
}

func NovoLocal(dir, baseURL string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "criando %s", dir)
	}
	return &Local{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (l *Local) Salvar(_ context.Context, caminho, _ string, r io.Reader) (string, error) {
	destino := filepath.Join(l.Dir, filepath.FromSlash(caminho))
	if !strings.HasPrefix(destino, filepath.Clean(l.Dir)+string(os.PathSeparator)) {
		return "", errors.Errorf("caminho inválido: %s", caminho)
	}
	if err := os.MkdirAll(filepath.Dir(destino), 0o755); err != nil {
		return "", errors.Wrap(err, "criando pasta do membro")
	}

	f, err := os.Create(destino)
	if err != nil {
		return "", errors.Wrap(err, "criando arquivo")
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(destino)
		return "", errors.Wrap(err, "gravando arquivo")
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return l.BaseURL + "/" + caminho, nil
}

// Handler serve os arquivos gravados, para montar em /comprovantes/.
func (l *Local) Handler() http.Handler {
	arquivos := http.StripPrefix("/comprovantes/", http.FileServer(http.Dir(l.Dir)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; sandbox")
		arquivos.ServeHTTP(w, r)
	})
}
