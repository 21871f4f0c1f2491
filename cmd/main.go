package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/patotaccc/api-patota/internal/auditoria"
	"github.com/patotaccc/api-patota/internal/auth"
	"github.com/patotaccc/api-patota/internal/caixa"
	"github.com/patotaccc/api-patota/internal/comprovante"
	"github.com/patotaccc/api-patota/internal/config"
	"github.com/patotaccc/api-patota/internal/evento"
	"github.com/patotaccc/api-patota/internal/financeiro"
	"github.com/patotaccc/api-patota/internal/kv"
	"github.com/patotaccc/api-patota/internal/logger"
	"github.com/patotaccc/api-patota/internal/membro"
	"github.com/patotaccc/api-patota/internal/models"
	"github.com/patotaccc/api-patota/internal/notificacao"
	"github.com/patotaccc/api-patota/internal/presenca"
	"github.com/patotaccc/api-patota/internal/ranking"
	"github.com/patotaccc/api-patota/internal/regras"
	"github.com/patotaccc/api-patota/internal/utils/db"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Opcoes{
		Nivel:        cfg.LogLevel,
		Ambiente:     cfg.Ambiente,
		RollbarToken: cfg.RollbarToken,
	})
	defer logger.Fechar()

	if err := cfg.Validar(); err != nil {
		log.Fatal().Err(err).Msg("Configuração inválida")
	}

	ctx := context.Background()
	database, err := db.GetDB(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Erro ao conectar no banco")
	}

	// AutoMigrate para todos os modelos
	modelos := append(models.Todos(), auth.Modelos()...)
	modelos = append(modelos, &auditoria.Registro{})
	if err := db.Migrar(database, modelos...); err != nil {
		log.Fatal().Err(err).Msg("Erro no AutoMigrate")
	}

	store, fecharStore := novoStore(ctx, cfg, log)
	defer fecharStore()

	arm, err := comprovante.Novo(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Erro ao preparar armazenamento de comprovantes")
	}

	// Sessão e permissões
	emissor := auth.NovoEmissor(cfg.JWTSecret, cfg.AuthIssuer, cfg.AuthAudience, cfg.AccessTTL)
	notificador := auth.NovoNotificador()
	gate := auth.NovoGate(database, store, cfg.AccessTTL)
	gate.Assinar(notificador)
	defer gate.Encerrar()

	authServico := auth.NovoServico(database, cfg, emissor, gate, store,
		notificacao.NovoRemetente(cfg, log), notificador)

	relatorio, err := db.SQLX(database)
	if err != nil {
		log.Fatal().Err(err).Msg("Erro ao abrir conexão de relatórios")
	}

	finServico := financeiro.NovoServico(database, cfg.Regras, arm, notificacao.NovoWebhook(cfg.WebhookPagamentosURL))

	// Handlers
	authHandler := auth.NewHandler(authServico, cfg.CookieSecure)
	eventoHandler := evento.NewHandler(evento.NovoServico(database, cfg.Regras, finServico))
	presencaHandler := presenca.NewHandler(presenca.NovoServico(database, cfg.Regras))
	financeiroHandler := financeiro.NewHandler(finServico)
	caixaHandler := caixa.NewHandler(database, caixa.NewRelatorio(relatorio))
	rankingHandler := ranking.NewHandler(ranking.NewRanking(relatorio))
	membroHandler := membro.NewHandler(database, authServico, authServico)
	regrasHandler := regras.NewHandler(cfg.Regras)

	logado := func(h http.HandlerFunc) http.Handler {
		return auth.Autenticacao(emissor)(auth.RequireAtivo(gate)(h))
	}

	// Router
	r := mux.NewRouter()

	// Rotas de autenticação
	r.HandleFunc("/auth/link-magico", authHandler.SolicitarLink).Methods("POST")
	r.HandleFunc("/auth/verificar", authHandler.Verificar).Methods("GET", "POST")
	r.HandleFunc("/auth/refresh", authHandler.Refresh).Methods("POST")
	r.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST")
	r.Handle("/auth/sessao", auth.Opcional(emissor)(http.HandlerFunc(authHandler.Sessao))).Methods("GET")

	r.HandleFunc("/regras", regrasHandler.Obter).Methods("GET")
	if local, ok := arm.(*comprovante.Local); ok {
		r.PathPrefix("/comprovantes/").Handler(local.Handler()).Methods("GET")
	}

	// Rotas do membro
	r.Handle("/inicio", logado(eventoHandler.Inicio)).Methods("GET")
	r.Handle("/eventos", logado(eventoHandler.Listar)).Methods("GET")
	r.Handle("/eventos/{id}", logado(eventoHandler.Detalhe)).Methods("GET")
	r.Handle("/eventos/{id}/rsvp", logado(eventoHandler.RSVP)).Methods("POST")
	r.Handle("/eventos/{id}/convidados", logado(eventoHandler.Convidados)).Methods("POST")
	r.Handle("/financeiro", logado(financeiroHandler.Resumo)).Methods("GET")
	r.Handle("/financeiro/mensalidades/{id}/comprovante", logado(financeiroHandler.ComprovanteMensalidade)).Methods("POST")
	r.Handle("/financeiro/multas/{id}/comprovante", logado(financeiroHandler.ComprovanteMulta)).Methods("POST")
	r.Handle("/ranking", logado(rankingHandler.Listar)).Methods("GET")
	r.Handle("/membros/me", logado(membroHandler.Me)).Methods("GET")

	// Rotas de admin
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(auth.Autenticacao(emissor), auth.RequireAdmin(gate))

	admin.HandleFunc("/painel", eventoHandler.Painel).Methods("GET")
	admin.HandleFunc("/eventos", eventoHandler.Criar).Methods("POST")
	admin.HandleFunc("/eventos/{id}/presencas", presencaHandler.Listar).Methods("GET")
	admin.HandleFunc("/eventos/{id}/presencas", presencaHandler.SalvarTodos).Methods("POST")
	admin.HandleFunc("/eventos/{id}/presencas/{membroId}", presencaHandler.Marcar).Methods("PUT")

	admin.HandleFunc("/pagamentos/pendentes", financeiroHandler.Pendentes).Methods("GET")
	admin.HandleFunc("/pagamentos/{id}/confirmar", financeiroHandler.Confirmar).Methods("POST")
	admin.HandleFunc("/pagamentos/{id}/rejeitar", financeiroHandler.Rejeitar).Methods("POST")
	admin.HandleFunc("/mensalidades/gerar", financeiroHandler.GerarMensalidades).Methods("POST")
	admin.HandleFunc("/isencoes", financeiroHandler.CriarIsencao).Methods("POST")

	admin.HandleFunc("/caixa", caixaHandler.Listar).Methods("GET")
	admin.HandleFunc("/caixa/resumo-mensal", caixaHandler.ResumoMensal).Methods("GET")
	admin.HandleFunc("/caixa/lancamentos", caixaHandler.Lancar).Methods("POST")

	admin.HandleFunc("/membros", membroHandler.Listar).Methods("GET")
	admin.HandleFunc("/membros", membroHandler.Criar).Methods("POST")
	admin.HandleFunc("/membros/{id}/ativo", membroHandler.AlternarAtivo).Methods("PATCH")

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:           logger.Middleware(log)(c.Handler(r)),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	// Canal para sinal de encerramento
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Str("endereco", srv.Addr).Msg("Servidor rodando")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Erro ao iniciar servidor")
		}
	}()

	<-quit
	log.Info().Msg("Recebido sinal de encerramento")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Erro ao encerrar servidor")
	}
	fecharBanco(database, log)
	log.Info().Msg("Servidor encerrado com sucesso")
}

// novoStore usa Redis quando configurado e cai para memória caso contrário
// ou se o Redis não responder.
func novoStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (kv.Store, func()) {
	if cfg.RedisURL == "" && cfg.RedisHost == "" {
		log.Info().Msg("Redis não configurado, usando cache em memória")
		return kv.NovaMemoria(), func() {}
	}
	r, err := kv.NovoRedis(cfg.RedisURL, cfg.RedisHost, cfg.RedisPort, cfg.RedisPass)
	if err == nil {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err = r.Ping(pingCtx)
		cancel()
	}
	if err != nil {
		log.Warn().Err(err).Msg("Redis indisponível, usando cache em memória")
		return kv.NovaMemoria(), func() {}
	}
	return r, func() { _ = r.Close() }
}

func fecharBanco(database *gorm.DB, log zerolog.Logger) {
	sqlDB, err := database.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Error().Err(err).Msg("Erro ao fechar banco")
	}
}
