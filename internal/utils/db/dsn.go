package db

import (
	"fmt"
	"net/url"
	"strings"
)

// Driver identifica o dialeto usado pelo gorm e pelo sqlx.
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// ParseDSN interpreta DATABASE_URL. Aceita sqlite://caminho.db, postgres:// e
// postgresql://; qualquer outra coisa é tratada como caminho de arquivo SQLite.
func ParseDSN(databaseURL string) (Driver, string) {
	if databaseURL == "" {
		return DriverSQLite, arquivoSQLite("patota.db")
	}
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		return DriverPostgres, databaseURL
	}
	if strings.HasPrefix(databaseURL, "sqlite://") {
		caminho := strings.TrimPrefix(databaseURL, "sqlite://")
		caminho = strings.TrimPrefix(caminho, "/")
		return DriverSQLite, arquivoSQLite(caminho)
	}
	if u, err := url.Parse(databaseURL); err == nil && (u.Scheme == "postgres" || u.Scheme == "postgresql") {
		return DriverPostgres, databaseURL
	}
	return DriverSQLite, arquivoSQLite(databaseURL)
}

func arquivoSQLite(caminho string) string {
	return fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", caminho)
}

// DSNPostgres monta o DSN no formato key=value a partir de host/porta.
func DSNPostgres(host string, port int, dbname, usuario, senha string, sslDesabilitado bool) string {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d", host, usuario, senha, dbname, port)
	if sslDesabilitado {
		dsn += " sslmode=disable"
	}
	return dsn
}
