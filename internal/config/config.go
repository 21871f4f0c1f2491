// internal/config/config.go
package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config reúne tudo o que a API precisa para subir.
type Config struct {
	Ambiente string
	Host     string
	Port     string
	LogLevel string

	// Banco de dados
	DatabaseURL      string
	DBHost           string
	DBPort           int
	DBName           string
	DBUsername       string
	DBPassword       string
	DBSecretID       string
	DBSSLModeDisable bool

	// Autenticação
	JWTSecret        string
	AuthIssuer       string
	AuthAudience     string
	AccessTTL        time.Duration
	RefreshTTL       time.Duration
	CookieSecure     bool
	PublicBaseURL    string
	CORSOrigins      []string
	LinkMagicoTTL    time.Duration
	LinkMagicoLimit  int
	LinkMagicoJanela time.Duration

	// Redis (opcional)
	RedisURL  string
	RedisHost string
	RedisPort int
	RedisPass string

	// E-mail
	EmailProvider     string // smtp | sendgrid | console
	EmailSMTPHost     string
	EmailSMTPPort     int
	EmailSMTPUser     string
	EmailSMTPPassword string
	EmailSMTPEnc      string
	SendgridAPIKey    string
	EmailFromAddress  string
	EmailFromName     string

	// Comprovantes
	StorageDriver   string // local | s3
	StorageDir      string
	S3Bucket        string
	S3Region        string
	S3PublicBaseURL string

	RollbarToken         string
	WebhookPagamentosURL string

	Regras Regras
}

// Regras são os valores cobrados e pontuados pela patota.
type Regras struct {
	MensalidadeValor         float64 `json:"mensalidadeValor"`
	MensalidadeDiaVencimento int     `json:"mensalidadeDiaVencimento"`
	MultaAtraso              float64 `json:"multaAtraso"`
	MultaFaltaConfirmada     float64 `json:"multaFaltaConfirmada"`
	MultaConvidado           float64 `json:"multaConvidado"`
	PontosPresencaJogo       int     `json:"pontosPresencaJogo"`
	PixChave                 string  `json:"pixChave"`
	PixNome                  string  `json:"pixNome"`
}

// RegrasPadrao devolve a tabela de valores vigente.
func RegrasPadrao() Regras {
	return Regras{
		MensalidadeValor:         35,
		MensalidadeDiaVencimento: 10,
		MultaAtraso:              5,
		MultaFaltaConfirmada:     10,
		MultaConvidado:           5,
		PontosPresencaJogo:       1,
		PixChave:                 "patotaccc@email.com",
		PixNome:                  "PATOTA CCC",
	}
}

func novoViper() *viper.Viper {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	r := RegrasPadrao()
	v.SetDefault("DEPLOYMENT_ENVIRONMENT", "development")
	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "INFO")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_NAME", "patota")
	v.SetDefault("DB_USERNAME", "")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_SECRET_ID", "")
	v.SetDefault("DB_SSL_MODE_DISABLE", false)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("AUTH_ISSUER", "api-patota")
	v.SetDefault("AUTH_AUDIENCE", "patota-web")
	v.SetDefault("ACCESS_TTL_MINUTOS", 15)
	v.SetDefault("REFRESH_TTL_HORAS", 30*24)
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("PUBLIC_BASE_URL", "http://localhost:5173")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173")
	v.SetDefault("LINK_MAGICO_TTL_MINUTOS", 60)
	v.SetDefault("LINK_MAGICO_LIMITE", 5)
	v.SetDefault("LINK_MAGICO_JANELA_MINUTOS", 15)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_HOST", "")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("EMAIL_PROVIDER", "console")
	v.SetDefault("EMAIL_SMTP_HOST", "")
	v.SetDefault("EMAIL_SMTP_PORT", 587)
	v.SetDefault("EMAIL_SMTP_USERNAME", "")
	v.SetDefault("EMAIL_SMTP_PASSWORD", "")
	v.SetDefault("EMAIL_SMTP_ENCRYPTION", "STARTTLS")
	v.SetDefault("SENDGRID_API_KEY", "")
	v.SetDefault("EMAIL_FROM_ADDRESS", "noreply@patotaccc.com.br")
	v.SetDefault("EMAIL_FROM_NAME", "Patota CCC")
	v.SetDefault("STORAGE_DRIVER", "local")
	v.SetDefault("STORAGE_DIR", "comprovantes")
	v.SetDefault("S3_BUCKET", "")
	v.SetDefault("S3_REGION", "sa-east-1")
	v.SetDefault("S3_PUBLIC_BASE_URL", "")
	v.SetDefault("ROLLBAR_TOKEN", "")
	v.SetDefault("WEBHOOK_PAGAMENTOS_URL", "")
	v.SetDefault("MENSALIDADE_VALOR", r.MensalidadeValor)
	v.SetDefault("MENSALIDADE_DIA_VENCIMENTO", r.MensalidadeDiaVencimento)
	v.SetDefault("MULTA_ATRASO", r.MultaAtraso)
	v.SetDefault("MULTA_FALTA_CONFIRMADA", r.MultaFaltaConfirmada)
	v.SetDefault("MULTA_CONVIDADO", r.MultaConvidado)
	v.SetDefault("PONTOS_PRESENCA_JOGO", r.PontosPresencaJogo)
	v.SetDefault("PIX_CHAVE", r.PixChave)
	v.SetDefault("PIX_NOME", r.PixNome)

	v.AutomaticEnv()
	return v
}

// Load carrega o .env (se existir) e as variáveis de ambiente.
func Load() *Config {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Fatalf("config: erro ao carregar .env: %v", err)
		}
	}
	return fromViper(novoViper())
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Ambiente: v.GetString("DEPLOYMENT_ENVIRONMENT"),
		Host:     v.GetString("HOST"),
		Port:     v.GetString("PORT"),
		LogLevel: v.GetString("LOG_LEVEL"),

		DatabaseURL:      v.GetString("DATABASE_URL"),
		DBHost:           v.GetString("DB_HOST"),
		DBPort:           v.GetInt("DB_PORT"),
		DBName:           v.GetString("DB_NAME"),
		DBUsername:       v.GetString("DB_USERNAME"),
		DBPassword:       v.GetString("DB_PASSWORD"),
		DBSecretID:       v.GetString("DB_SECRET_ID"),
		DBSSLModeDisable: v.GetBool("DB_SSL_MODE_DISABLE"),

		JWTSecret:        v.GetString("JWT_SECRET"),
		AuthIssuer:       v.GetString("AUTH_ISSUER"),
		AuthAudience:     v.GetString("AUTH_AUDIENCE"),
		AccessTTL:        time.Duration(v.GetInt("ACCESS_TTL_MINUTOS")) * time.Minute,
		RefreshTTL:       time.Duration(v.GetInt("REFRESH_TTL_HORAS")) * time.Hour,
		CookieSecure:     v.GetBool("COOKIE_SECURE"),
		PublicBaseURL:    strings.TrimRight(v.GetString("PUBLIC_BASE_URL"), "/"),
		CORSOrigins:      splitLista(v.GetString("CORS_ORIGINS")),
		LinkMagicoTTL:    time.Duration(v.GetInt("LINK_MAGICO_TTL_MINUTOS")) * time.Minute,
		LinkMagicoLimit:  v.GetInt("LINK_MAGICO_LIMITE"),
		LinkMagicoJanela: time.Duration(v.GetInt("LINK_MAGICO_JANELA_MINUTOS")) * time.Minute,

		RedisURL:  v.GetString("REDIS_URL"),
		RedisHost: v.GetString("REDIS_HOST"),
		RedisPort: v.GetInt("REDIS_PORT"),
		RedisPass: v.GetString("REDIS_PASSWORD"),

		EmailProvider:     strings.ToLower(v.GetString("EMAIL_PROVIDER")),
		EmailSMTPHost:     v.GetString("EMAIL_SMTP_HOST"),
		EmailSMTPPort:     v.GetInt("EMAIL_SMTP_PORT"),
		EmailSMTPUser:     v.GetString("EMAIL_SMTP_USERNAME"),
		EmailSMTPPassword: v.GetString("EMAIL_SMTP_PASSWORD"),
		EmailSMTPEnc:      v.GetString("EMAIL_SMTP_ENCRYPTION"),
		SendgridAPIKey:    v.GetString("SENDGRID_API_KEY"),
		EmailFromAddress:  v.GetString("EMAIL_FROM_ADDRESS"),
		EmailFromName:     v.GetString("EMAIL_FROM_NAME"),

		StorageDriver:   strings.ToLower(v.GetString("STORAGE_DRIVER")),
		StorageDir:      v.GetString("STORAGE_DIR"),
		S3Bucket:        v.GetString("S3_BUCKET"),
		S3Region:        v.GetString("S3_REGION"),
		S3PublicBaseURL: strings.TrimRight(v.GetString("S3_PUBLIC_BASE_URL"), "/"),

		RollbarToken:         v.GetString("ROLLBAR_TOKEN"),
		WebhookPagamentosURL: v.GetString("WEBHOOK_PAGAMENTOS_URL"),

		Regras: Regras{
			MensalidadeValor:         v.GetFloat64("MENSALIDADE_VALOR"),
			MensalidadeDiaVencimento: v.GetInt("MENSALIDADE_DIA_VENCIMENTO"),
			MultaAtraso:              v.GetFloat64("MULTA_ATRASO"),
			MultaFaltaConfirmada:     v.GetFloat64("MULTA_FALTA_CONFIRMADA"),
			MultaConvidado:           v.GetFloat64("MULTA_CONVIDADO"),
			PontosPresencaJogo:       v.GetInt("PONTOS_PRESENCA_JOGO"),
			PixChave:                 v.GetString("PIX_CHAVE"),
			PixNome:                  v.GetString("PIX_NOME"),
		},
	}
}

// EhDesenvolvimento indica ambiente local.
func (c *Config) EhDesenvolvimento() bool {
	return c.Ambiente == "" || c.Ambiente == "development"
}

// Validar confere os valores obrigatórios fora do ambiente local.
func (c *Config) Validar() error {
	if c.JWTSecret == "" {
		if !c.EhDesenvolvimento() {
			return errJWTSecret
		}
		c.JWTSecret = "dev-secret-nao-usar-em-producao"
	}
	return nil
}

func splitLista(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
