package kv

import (
	"context"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

type Redis struct {
	client *redis.Client
}

// NovoRedis conecta usando REDIS_URL ou host/porta/senha separados.
func NovoRedis(redisURL, host string, port int, pass string) (*Redis, error) {
	if redisURL != "" {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, errors.Wrap(err, "REDIS_URL inválida")
		}
		return &Redis{client: redis.NewClient(opt)}, nil
	}
	addr := host
	if port > 0 {
		addr = host + ":" + strconv.Itoa(port)
	}
	return &Redis{client: redis.NewClient(&redis.Options{Addr: addr, Password: pass})}, nil
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) AllowRate(ctx context.Context, chave string, limite int64, janela time.Duration) (bool, int64, error) {
	pipe := r.client.Pipeline()
	incr := pipe.Incr(ctx, chave)
	pipe.Expire(ctx, chave, janela)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, 0, err
	}
	n := incr.Val()
	return n <= limite, n, nil
}

func (r *Redis) Set(ctx context.Context, chave, valor string, ttl time.Duration) error {
	return r.client.Set(ctx, chave, valor, ttl).Err()
}

func (r *Redis) Get(ctx context.Context, chave string) (string, error) {
	v, err := r.client.Get(ctx, chave).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return v, err
}

func (r *Redis) Del(ctx context.Context, chaves ...string) error {
	if len(chaves) == 0 {
		return nil
	}
	return r.client.Del(ctx, chaves...).Err()
}
