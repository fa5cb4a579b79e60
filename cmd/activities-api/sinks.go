package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	awsclient "school-activities/internal/common/aws"
	"school-activities/internal/common/config"
	"school-activities/internal/common/database"
	"school-activities/internal/events"
)

const (
	connectRetries = 5
	connectDelay   = time.Second
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

// buildPublisher connects every sink enabled in cfg and fans events out to
// them. With nothing enabled the result publishes nowhere.
func buildPublisher(ctx context.Context, cfg config.EventsConfig, log *zap.Logger) (*events.Multi, error) {
	var sinks []events.Publisher
	fail := func(err error) (*events.Multi, error) {
		closeErr := events.NewMulti(sinks...).Close()
		return nil, errors.Join(err, closeErr)
	}

	if cfg.Kafka.Enabled {
		sinks = append(sinks, events.NewKafkaPublisher(cfg.Kafka))
		log.Info("Kafka roster events enabled", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	if cfg.Redis.Enabled {
		rc := database.NewRedis(cfg.Redis)
		err := retryWithBackoff(func() error {
			return rc.Ping(ctx)
		}, connectRetries, connectDelay, log, "Redis connection")
		if err != nil {
			_ = rc.Close()
			return fail(err)
		}
		sinks = append(sinks, events.NewRedisStreamPublisher(rc.Client, cfg.Redis.Stream, cfg.Redis.MaxLen))
		log.Info("Redis connected successfully", zap.String("stream", cfg.Redis.Stream))
	}

	if cfg.Audit.Enabled {
		pg, err := database.NewPostgres(cfg.Audit.Postgres)
		if err != nil {
			return fail(err)
		}
		err = retryWithBackoff(func() error {
			return pg.Ping(ctx)
		}, connectRetries, connectDelay, log, "PostgreSQL connection")
		if err != nil {
			_ = pg.Close()
			return fail(err)
		}
		sinks = append(sinks, events.NewAuditPublisher(pg.DB))
		log.Info("PostgreSQL connected successfully")
	}

	if cfg.Mail.Enabled {
		client, err := awsclient.NewSESClient(ctx, cfg.Mail.Region)
		if err != nil {
			return fail(err)
		}
		sinks = append(sinks, events.NewMailPublisher(client, cfg.Mail.FromEmail))
		log.Info("SES confirmation mail enabled", zap.String("region", cfg.Mail.Region))
	}

	return events.NewMulti(sinks...), nil
}
