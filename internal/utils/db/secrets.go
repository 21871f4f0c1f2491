package db

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/pkg/errors"
)

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SecretGetter é o pedaço do cliente do Secrets Manager que usamos.
type SecretGetter interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

func novoSecretsClient(ctx context.Context) (*secretsmanager.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "carregando config AWS")
	}
	return secretsmanager.NewFromConfig(cfg), nil
}

// RecuperarCredenciais devolve usuário e senha do banco. Se vierem do ambiente,
// o Secrets Manager nem é consultado.
func RecuperarCredenciais(ctx context.Context, sm SecretGetter, secretID, usuario, senha string) (Credentials, error) {
	if usuario != "" && senha != "" {
		return Credentials{Username: usuario, Password: senha}, nil
	}
	if secretID == "" {
		return Credentials{}, errors.New("DB_USERNAME/DB_PASSWORD ou DB_SECRET_ID devem ser informados")
	}

	out, err := sm.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId:     aws.String(secretID),
		VersionStage: aws.String("AWSCURRENT"),
	})
	if err != nil {
		return Credentials{}, errors.Wrapf(err, "lendo segredo %s", secretID)
	}
	if out.SecretString == nil {
		return Credentials{}, errors.Errorf("segredo %s sem SecretString", secretID)
	}

	var c Credentials
	if err := json.Unmarshal([]byte(*out.SecretString), &c); err != nil {
		return Credentials{}, errors.Wrap(err, "segredo com formato inválido")
	}
	return c, nil
}
