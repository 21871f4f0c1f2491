package db

import (
	"context"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/patotaccc/api-patota/internal/config"
)

// GetDB abre a conexão conforme a configuração: DATABASE_URL quando houver,
// senão host/porta com credenciais do ambiente ou do Secrets Manager.
func GetDB(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	if cfg.DatabaseURL != "" {
		driver, dsn := ParseDSN(cfg.DatabaseURL)
		return ConnectDataBase(driver, dsn)
	}

	var sm SecretGetter
	if cfg.DBUsername == "" || cfg.DBPassword == "" {
		client, err := novoSecretsClient(ctx)
		if err != nil {
			return nil, err
		}
		sm = client
	}
	cred, err := RecuperarCredenciais(ctx, sm, cfg.DBSecretID, cfg.DBUsername, cfg.DBPassword)
	if err != nil {
		return nil, err
	}
	dsn := DSNPostgres(cfg.DBHost, cfg.DBPort, cfg.DBName, cred.Username, cred.Password, cfg.DBSSLModeDisable)
	return ConnectDataBase(DriverPostgres, dsn)
}

func ConnectDataBase(driver Driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		dialector = sqlite.Open(dsn)
	}

	database, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Error),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "abrindo banco")
	}

	if driver == DriverSQLite {
		sqlDB, err := database.DB()
		if err != nil {
			return nil, err
		}
		// sqlite não lida bem com escritas concorrentes
		sqlDB.SetMaxOpenConns(1)
	}
	return database, nil
}

// Migrar cria/atualiza as tabelas dos modelos informados.
func Migrar(database *gorm.DB, modelos ...any) error {
	return errors.Wrap(database.AutoMigrate(modelos...), "migrando tabelas")
}

// SQLX expõe a mesma conexão do gorm para as consultas de relatório.
func SQLX(database *gorm.DB) (*sqlx.DB, error) {
	sqlDB, err := database.DB()
	if err != nil {
		return nil, err
	}
	return sqlx.NewDb(sqlDB, database.Dialector.Name()), nil
}
