// internal/logger/logger.go
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rollbar/rollbar-go"
	"github.com/rs/zerolog"
)

// Opcoes define como o logger da aplicação é montado.
type Opcoes struct {
	Nivel        string
	Ambiente     string
	Versao       string
	RollbarToken string
	Saida        io.Writer
}

// New cria o logger raiz. Em desenvolvimento usa saída legível no console,
// nos demais ambientes JSON. Com token do Rollbar, erros também são reportados lá.
func New(o Opcoes) zerolog.Logger {
	var w io.Writer = os.Stdout
	if o.Saida != nil {
		w = o.Saida
	}
	if o.Saida == nil && (o.Ambiente == "" || o.Ambiente == "development") {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	l := zerolog.New(w).
		Level(ParseNivel(o.Nivel)).
		With().
		Timestamp().
		Str("servico", "api-patota").
		Logger()

	if o.RollbarToken != "" {
		rollbar.SetToken(o.RollbarToken)
		rollbar.SetEnvironment(o.Ambiente)
		rollbar.SetCodeVersion(o.Versao)
		rollbar.SetEnabled(true)
		l = l.Hook(RollbarHook{})
	}
	return l
}

// ParseNivel aceita os nomes usados em LOG_LEVEL (DEBUG, INFO, WARN, ERROR).
func ParseNivel(s string) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARN", "WARNING":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	case "DISABLED", "OFF":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// RollbarHook encaminha eventos de erro para o Rollbar.
type RollbarHook struct{}

func (RollbarHook) Run(_ *zerolog.Event, level zerolog.Level, msg string) {
	switch level {
	case zerolog.ErrorLevel:
		rollbar.Error(msg)
	case zerolog.FatalLevel, zerolog.PanicLevel:
		rollbar.Critical(msg)
	}
}

// Fechar aguarda o envio pendente ao Rollbar.
func Fechar() {
	rollbar.Close()
}
