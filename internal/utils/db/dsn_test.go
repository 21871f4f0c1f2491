package db

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDSN(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		driver Driver
		prefix string
	}{
		{"vazio usa sqlite local", "", DriverSQLite, "file:patota.db?"},
		{"sqlite com tres barras", "sqlite:///dados/patota.db", DriverSQLite, "file:dados/patota.db?"},
		{"postgres", "postgres://u:p@localhost:5432/patota", DriverPostgres, "postgres://u:p@localhost:5432/patota"},
		{"postgresql", "postgresql://u:p@db/patota", DriverPostgres, "postgresql://u:p@db/patota"},
		{"caminho puro", "teste.db", DriverSQLite, "file:teste.db?"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			driver, dsn := ParseDSN(tt.url)
			assert.Equal(t, tt.driver, driver)
			assert.Contains(t, dsn, tt.prefix)
		})
	}
}

func TestDSNPostgres(t *testing.T) {
	dsn := DSNPostgres("localhost", 5432, "patota", "u", "p", true)
	assert.Equal(t, "host=localhost user=u password=p dbname=patota port=5432 sslmode=disable", dsn)
}

type fakeSecrets struct {
	valor string
	id    string
}

func (f *fakeSecrets) GetSecretValue(_ context.Context, in *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.id = aws.ToString(in.SecretId)
	return &secretsmanager.GetSecretValueOutput{SecretString: aws.String(f.valor)}, nil
}

func TestRecuperarCredenciais(t *testing.T) {
	t.Run("ambiente tem prioridade", func(t *testing.T) {
		c, err := RecuperarCredenciais(context.Background(), nil, "x", "u", "p")
		require.NoError(t, err)
		assert.Equal(t, Credentials{Username: "u", Password: "p"}, c)
	})

	t.Run("busca no secrets manager", func(t *testing.T) {
		sm := &fakeSecrets{valor: `{"username":"patota","password":"s3nha"}`}
		c, err := RecuperarCredenciais(context.Background(), sm, "prod/db", "", "")
		require.NoError(t, err)
		assert.Equal(t, "prod/db", sm.id)
		assert.Equal(t, "patota", c.Username)
		assert.Equal(t, "s3nha", c.Password)
	})

	t.Run("sem segredo nem ambiente", func(t *testing.T) {
		_, err := RecuperarCredenciais(context.Background(), nil, "", "", "")
		assert.Error(t, err)
	})
}
