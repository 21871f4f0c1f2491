package utils

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Erros de domínio compartilhados pelos pacotes da API.
var (
	ErrNaoEncontrado     = errors.New("registro não encontrado")
	ErrAcessoNegado      = errors.New("acesso negado")
	ErrNaoAutenticado    = errors.New("não autenticado")
	ErrTransicaoInvalida = errors.New("transição de status inválida")
	ErrConflito          = errors.New("registro já existe")
	ErrLimiteExcedido    = errors.New("muitas tentativas, tente novamente mais tarde")
)

// ErroCampo indica problema em um campo específico do payload.
type ErroCampo struct {
	Campo string `json:"campo"`
	Erro  string `json:"erro"`
}

// ErroValidacao agrupa os campos inválidos de uma requisição.
type ErroValidacao struct {
	Mensagem string
	Campos   []ErroCampo
}

func (e *ErroValidacao) Error() string {
	return e.Mensagem
}

// NovoErroValidacao cria um erro de validação simples, sem campos.
func NovoErroValidacao(msg string, campos ...ErroCampo) error {
	return &ErroValidacao{Mensagem: msg, Campos: campos}
}

// StatusDoErro traduz um erro de domínio para o status HTTP.
func StatusDoErro(err error) int {
	var ev *ErroValidacao
	switch {
	case errors.As(err, &ev):
		return http.StatusBadRequest
	case errors.Is(err, ErrNaoEncontrado):
		return http.StatusNotFound
	case errors.Is(err, ErrNaoAutenticado):
		return http.StatusUnauthorized
	case errors.Is(err, ErrAcessoNegado):
		return http.StatusForbidden
	case errors.Is(err, ErrTransicaoInvalida), errors.Is(err, ErrConflito):
		return http.StatusConflict
	case errors.Is(err, ErrLimiteExcedido):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// ResponderErro escreve a resposta de erro. Erros de validação vão como JSON
// com a lista de campos; o resto segue como texto, igual ao http.Error.
func ResponderErro(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusDoErro(err)

	var ev *ErroValidacao
	if errors.As(err, &ev) {
		ResponderJSON(w, status, map[string]any{
			"erro":   ev.Mensagem,
			"campos": ev.Campos,
		})
		return
	}
	if status == http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("caminho", r.URL.Path).Msg("erro interno")
	}
	http.Error(w, err.Error(), status)
}
