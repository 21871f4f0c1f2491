package utils

import (
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validador() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			nome := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if nome == "-" {
				return ""
			}
			return nome
		})
		_ = validate.RegisterValidation("competencia", func(fl validator.FieldLevel) bool {
			_, err := time.Parse("2006-01", fl.Field().String())
			return err == nil
		})
	})
	return validate
}

// Validar aplica as tags `validate` do DTO e converte as falhas em ErroValidacao.
func Validar(v any) error {
	err := validador().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return NovoErroValidacao("payload inválido")
	}
	campos := make([]ErroCampo, 0, len(verrs))
	for _, fe := range verrs {
		campos = append(campos, ErroCampo{Campo: fe.Field(), Erro: mensagemRegra(fe)})
	}
	return &ErroValidacao{Mensagem: "dados inválidos", Campos: campos}
}

func mensagemRegra(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "obrigatório"
	case "oneof":
		return "deve ser um de: " + fe.Param()
	case "email":
		return "e-mail inválido"
	case "gt", "gte", "min":
		return "deve ser no mínimo " + fe.Param()
	case "competencia":
		return "use o formato AAAA-MM"
	default:
		return "inválido"
	}
}
