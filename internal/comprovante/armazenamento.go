// Package comprovante guarda os arquivos de comprovante de pagamento e
// devolve a URL pública de cada um.
package comprovante

import (
	"context"
	"fmt"
	"io"
	"mime"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/patotaccc/api-patota/internal/config"
	"github.com/patotaccc/api-patota/internal/utils"
)

type Armazenamento interface {
	Salvar(ctx context.Context, caminho, contentType string, r io.Reader) (urlPublica string, err error)
}

// Novo escolhe o armazenamento por STORAGE_DRIVER.
func Novo(ctx context.Context, cfg *config.Config) (Armazenamento, error) {
	switch strings.ToLower(cfg.StorageDriver) {
	case "s3":
		return NovoS3(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3PublicBaseURL)
	case "", "local":
		return NovoLocal(cfg.StorageDir, strings.TrimRight(cfg.PublicBaseURL, "/")+"/comprovantes")
	default:
		return nil, errors.Errorf("STORAGE_DRIVER desconhecido: %s", cfg.StorageDriver)
	}
}

var extensoes = map[string]string{
	"application/pdf": ".pdf",
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"image/heic":      ".heic",
	"image/gif":       ".gif",
}

// TipoAceito diz se o content type pode ser usado como comprovante. Só entram
// os tipos com extensão conhecida; svg e afins ficam de fora.
func TipoAceito(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	_, ok := extensoes[mt]
	return ok
}

// Caminho monta <membro>/<unix-nano>.<ext>. A extensão sai sempre do content
// type validado, nunca do nome enviado pelo cliente.
func Caminho(membroID, contentType string, agora time.Time) (string, error) {
	mt, _, err := mime.ParseMediaType(contentType)
	ext, ok := extensoes[mt]
	if err != nil || !ok {
		return "", utils.NovoErroValidacao("arquivo deve ser imagem ou PDF",
			utils.ErroCampo{Campo: "arquivo", Erro: "tipo não aceito: " + contentType})
	}
	return fmt.Sprintf("%s/%d%s", membroID, agora.UnixNano(), ext), nil
}
