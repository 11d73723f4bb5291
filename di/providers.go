package di

import (
	"context"
	"time"

	"campusbook/config"
	"campusbook/infras/kafka"
	"campusbook/infras/otel"
	"campusbook/infras/postgres"
	"campusbook/infras/redis"
	auditRepository "campusbook/internal/domains/audit/repository"
	auditService "campusbook/internal/domains/audit/service"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const otelShutdownTimeout = 5 * time.Second

// The providers below pair each long-lived dependency with the cleanup wire runs in reverse order.

func provideDB(cfg *config.Config) (*postgres.Connection, func(), error) {
	conn, err := postgres.New(cfg)
	if err != nil {
		return nil, nil, err
	}

	return conn, func() {
		if err := conn.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database pools")
		}
	}, nil
}

func provideRedis(cfg *config.Config) (*goRedis.Client, func(), error) {
	client, err := redis.New(cfg)
	if err != nil {
		return nil, nil, err
	}

	return client, func() {
		if err := client.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close redis client")
		}
	}, nil
}

func provideOtel(cfg *config.Config) (otel.Otel, func()) {
	ot := otel.New(cfg)

	return ot, func() {
		ctx, cancel := context.WithTimeout(context.Background(), otelShutdownTimeout)
		defer cancel()

		if err := ot.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("Failed to flush traces")
		}
	}
}

func provideKafka(cfg *config.Config) (kafka.Client, func()) {
	client := kafka.New(cfg)

	return client, func() {
		if err := client.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close kafka client")
		}
	}
}

func provideAudit(repo auditRepository.Audit, client kafka.Client, cfg *config.Config, ot otel.Otel) (auditService.Audit, func()) {
	audit := auditService.New(repo, client, cfg, ot)

	return audit, audit.Wait
}
