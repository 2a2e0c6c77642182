package http

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	ticketServices "github.com/tdesk-io/tdesk/internal/application/ticket/services"
	"github.com/tdesk-io/tdesk/internal/infrastructure/auth"
	"github.com/tdesk-io/tdesk/internal/infrastructure/config"
	"github.com/tdesk-io/tdesk/internal/infrastructure/email"
	"github.com/tdesk-io/tdesk/internal/infrastructure/events"
	"github.com/tdesk-io/tdesk/internal/infrastructure/metrics"
	"github.com/tdesk-io/tdesk/internal/infrastructure/ratelimit"
	"github.com/tdesk-io/tdesk/internal/infrastructure/scheduler"
	"github.com/tdesk-io/tdesk/internal/infrastructure/storage"
	"github.com/tdesk-io/tdesk/internal/interfaces/http/middleware"
	"github.com/tdesk-io/tdesk/internal/shared/goroutine"
	"github.com/tdesk-io/tdesk/internal/shared/logger"
)

const resetCleanupInterval = time.Hour

// ticketCollaborators are the services shared by the ticket use cases.
type ticketCollaborators struct {
	audit    *ticketServices.AuditRecorder
	ledger   *ticketServices.AttachmentLedger
	notifier *ticketServices.MutationNotifier
	files    *storage.LocalFileStorage
	mailer   *email.SMTPEmailService
}

func (c *Container) initInfrastructure() error {
	cfg := c.cfg
	log := c.log

	if cfg.Redis.Enabled {
		client, err := initRedis(cfg, log)
		if err != nil {
			return err
		}
		c.redis = client
		c.limiter = ratelimit.NewRedisRateLimiter(client)
	} else {
		log.Infow("redis disabled, rate limiting is off")
		c.limiter = ratelimit.NoopRateLimiter{}
	}

	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		c.metrics = metrics.New(reg)
	}

	c.repos = newRepositories(c.db)

	c.jwtSvc = auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.Issuer, cfg.Auth.JWT.AccessExpMinutes)
	c.hasher = auth.NewBcryptPasswordHasher(cfg.Auth.Password.BcryptCost)

	c.publisher = newPublisher(cfg, c.redis, c.metrics, log)
	c.tracker = goroutine.NewTracker(log.Named("notifier"))

	c.authMiddleware = middleware.NewAuthMiddleware(c.jwtSvc, log.Named("auth"))
	c.rateLimiter = middleware.NewRateLimiter(
		c.limiter,
		cfg.RateLimit.IPRequests,
		time.Duration(cfg.RateLimit.IPWindowSeconds)*time.Second,
		log.Named("ratelimit"),
	)
	return nil
}

// initRedis creates the client and checks the connection.
func initRedis(cfg *config.Config, log logger.Interface) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.GetAddr(), err)
	}
	log.Infow("redis connection established", "addr", cfg.Redis.GetAddr())
	return client, nil
}

// newPublisher prefers Kafka, then Redis pub/sub, and otherwise drops events.
func newPublisher(cfg *config.Config, client *redis.Client, m *metrics.Metrics, log logger.Interface) events.Publisher {
	switch {
	case cfg.Kafka.Enabled:
		producer := events.NewProducer(events.ProducerConfig{
			Brokers:      cfg.Kafka.Brokers,
			Topic:        cfg.Kafka.Topic,
			ClientID:     cfg.Kafka.ClientID,
			WriteTimeout: time.Duration(cfg.Kafka.WriteTimeoutSeconds) * time.Second,
		})
		log.Infow("publishing ticket events to kafka", "topic", cfg.Kafka.Topic)
		return events.NewKafkaPublisher(producer, m, log.Named("events.kafka"))
	case client != nil:
		log.Infow("publishing ticket events to redis", "channel", events.RedisChannel)
		return events.NewRedisPublisher(client, m, log.Named("events.redis"))
	default:
		return events.NoopPublisher{}
	}
}

func (c *Container) newTicketCollaborators() *ticketCollaborators {
	cfg := c.cfg
	log := c.log
	tm := c.repos.txManager

	return &ticketCollaborators{
		audit:    ticketServices.NewAuditRecorder(c.repos.activityRepo, c.repos.userRepo, tm, c.metrics, log.Named("audit")),
		ledger:   ticketServices.NewAttachmentLedger(c.repos.attachmentRepo, tm, c.metrics, log.Named("attachments")),
		notifier: ticketServices.NewMutationNotifier(c.publisher, c.metrics, c.tracker, log.Named("notifier")),
		files: storage.NewLocalFileStorage(
			cfg.Storage.Root,
			cfg.Storage.MaxFileSize(),
			cfg.Storage.AllowedExtensions,
			log.Named("storage"),
		),
		mailer: email.NewSMTPEmailService(email.SMTPConfig{
			Host:        cfg.Email.SMTPHost,
			Port:        cfg.Email.SMTPPort,
			Username:    cfg.Email.SMTPUser,
			Password:    cfg.Email.SMTPPassword,
			FromAddress: cfg.Email.FromAddress,
			FromName:    cfg.Email.FromName,
			AppName:     cfg.Email.FromName,
			BaseURL:     cfg.Server.BaseURL,
		}),
	}
}

func (c *Container) initScheduler() error {
	mgr, err := scheduler.NewSchedulerManager(c.log.Named("scheduler"))
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	if err := mgr.RegisterResetCleanup(c.ucs.cleanupResets, resetCleanupInterval); err != nil {
		return fmt.Errorf("failed to register password reset cleanup: %w", err)
	}
	c.schedulerManager = mgr
	return nil
}
