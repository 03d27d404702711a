package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// OpenRedis returns a client backing the idempotency store; it fails fast when the
// server cannot be pinged within 5s.
func OpenRedis(opts RedisOptions, log *logrus.Logger) (*redis.Client, error) {
	r := redis.NewClient(&redis.Options{Addr: opts.Addr, Password: opts.Password, DB: opts.DB})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.Ping(ctx).Err(); err != nil {
		_ = r.Close()
		return nil, err
	}
	if log != nil {
		log.WithFields(logrus.Fields{"addr": opts.Addr, "db": opts.DB}).Info("redis: connected")
	}
	return r, nil
}
