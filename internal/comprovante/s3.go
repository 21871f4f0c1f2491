package comprovante

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
)

// PutObjecter é o pedaço do cliente S3 que usamos.
type PutObjecter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3 struct {
	client  PutObjecter
	bucket  string
	baseURL string
}

func NovoS3(ctx context.Context, bucket, region, publicBaseURL string) (*S3, error) {
	if bucket == "" {
		return nil, errors.New("S3_BUCKET não definido")
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, errors.Wrap(err, "carregando config AWS")
	}
	return NovoS3ComCliente(s3.NewFromConfig(cfg), bucket, region, publicBaseURL), nil
}

func NovoS3ComCliente(client PutObjecter, bucket, region, publicBaseURL string) *S3 {
	base := strings.TrimRight(publicBaseURL, "/")
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}
	return &S3{client: client, bucket: bucket, baseURL: base}
}

func (s *S3) Salvar(ctx context.Context, caminho, contentType string, r io.Reader) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(caminho),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", errors.Wrapf(err, "enviando %s para o S3", caminho)
	}
	return s.baseURL + "/" + caminho, nil
}
