package http

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/tdesk-io/tdesk/internal/infrastructure/auth"
	"github.com/tdesk-io/tdesk/internal/infrastructure/config"
	"github.com/tdesk-io/tdesk/internal/infrastructure/events"
	"github.com/tdesk-io/tdesk/internal/infrastructure/metrics"
	"github.com/tdesk-io/tdesk/internal/infrastructure/ratelimit"
	"github.com/tdesk-io/tdesk/internal/infrastructure/scheduler"
	"github.com/tdesk-io/tdesk/internal/interfaces/http/middleware"
	"github.com/tdesk-io/tdesk/internal/shared/goroutine"
	"github.com/tdesk-io/tdesk/internal/shared/logger"
)

// Container holds the infrastructure, repositories, use cases and handlers
// of one server process and knows how to shut them down in order.
type Container struct {
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	repos *repositories
	ucs   *allUseCases
	hdlrs *allHandlers

	authMiddleware *middleware.AuthMiddleware
	rateLimiter    *middleware.RateLimiter

	jwtSvc    *auth.JWTService
	hasher    *auth.BcryptPasswordHasher
	limiter   ratelimit.RateLimiter
	metrics   *metrics.Metrics
	publisher events.Publisher
	tracker   *goroutine.Tracker

	schedulerManager *scheduler.SchedulerManager
}

// NewContainer wires every component from cfg. Infrastructure first, then
// use cases, then handlers.
func NewContainer(db *gorm.DB, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
	}

	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}
	c.ucs = c.newUseCases()
	hdlrs, err := c.newHandlers()
	if err != nil {
		return nil, err
	}
	c.hdlrs = hdlrs

	if err := c.initScheduler(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Container) Engine() *gin.Engine {
	return c.engine
}

// Start launches background jobs.
func (c *Container) Start() {
	if c.schedulerManager != nil {
		c.schedulerManager.Start()
	}
}

// Shutdown stops background work, waits for in-flight notifications and
// closes external clients.
func (c *Container) Shutdown(ctx context.Context) error {
	var errs []error

	if c.schedulerManager != nil {
		if err := c.schedulerManager.Stop(); err != nil {
			errs = append(errs, err)
		}
	}

	done := make(chan struct{})
	go func() {
		c.tracker.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		c.log.Warnw("timed out waiting for ticket notifications")
	}

	if c.publisher != nil {
		if err := c.publisher.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
