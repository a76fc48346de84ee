package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/target/q-inventory/config"
	bcryptadapter "github.com/target/q-inventory/internal/adapters/bcrypt"
	"github.com/target/q-inventory/internal/adapters/memory"
	redisadapter "github.com/target/q-inventory/internal/adapters/redis"
	"github.com/target/q-inventory/internal/data"
	"github.com/target/q-inventory/internal/domain/model"
	"github.com/target/q-inventory/internal/observability/metrics"
	"github.com/target/q-inventory/internal/observability/prom"
	"github.com/target/q-inventory/internal/observability/statsd"
	"github.com/target/q-inventory/internal/ports"
	"github.com/target/q-inventory/internal/seed"
	"github.com/target/q-inventory/internal/service"
)

const sessionSweepInterval = 5 * time.Minute

// ServiceContainer holds all domain services.
type ServiceContainer struct {
	Identity  *service.IdentityService
	Inventory *service.InventoryService
	Editor    *service.QuantityEditor
	Calendar  *service.CalendarClock
}

// ObservabilityContainer groups the metrics sink and, for prometheus, its scrape handler.
type ObservabilityContainer struct {
	Sink    metrics.Sink
	Handler http.Handler // nil unless the prometheus backend is selected
	closer  func() error
}

// Close releases the metrics backend.
func (o ObservabilityContainer) Close() error {
	if o.closer == nil {
		return nil
	}
	return o.closer()
}

// Infrastructure holds the process-wide resources the services are built on.
type Infrastructure struct {
	Redis         redis.UniversalClient // nil unless the redis session store is selected
	Sessions      ports.SessionStore
	Observability ObservabilityContainer

	memorySessions *memory.SessionStore
}

// Close releases every resource held by the infrastructure.
func (i *Infrastructure) Close() error {
	if i == nil {
		return nil
	}
	var errs []error
	if err := i.Observability.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close metrics: %w", err))
	}
	if i.Redis != nil {
		if err := i.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	return errors.Join(errs...)
}

// InfrastructureDeps lets tests inject a Redis client instead of dialing one.
type InfrastructureDeps struct {
	Config *config.AppConfig
	Logger *slog.Logger
	Redis  redis.UniversalClient // Optional: reused when set
	Now    func() time.Time      // Optional: session store clock, defaults to time.Now
}

// BuildInfrastructure connects Redis when needed and picks the session store and metrics sink.
func BuildInfrastructure(ctx context.Context, deps InfrastructureDeps) (*Infrastructure, error) {
	if deps.Config == nil {
		return nil, errors.New("config is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	infra := &Infrastructure{
		Observability: buildObservability(logger, cfg.Observability),
	}

	if cfg.UsesRedis() {
		client := deps.Redis
		if client == nil {
			var err error
			client, err = ConnectRedis(ctx, RedisConnConfig{Redis: cfg.Redis, Logger: logger})
			if err != nil {
				_ = infra.Close()
				return nil, fmt.Errorf("connect redis: %w", err)
			}
		}
		infra.Redis = client
		infra.Sessions = redisadapter.NewSessionStore(client, redisadapter.SessionStoreOptions{
			KeyPrefix: cfg.Redis.KeyPrefix,
			Now:       now,
		})
		logger.Info("session store selected", "backend", "redis")
	} else {
		infra.memorySessions = memory.NewSessionStoreWithClock(now)
		infra.Sessions = infra.memorySessions
		logger.Info("session store selected", "backend", "memory")
	}

	return infra, nil
}

// buildObservability selects the metrics sink. A statsd dial failure degrades to no metrics.
func buildObservability(logger *slog.Logger, cfg config.ObservabilityConfig) ObservabilityContainer {
	switch cfg.Metrics.Backend {
	case config.MetricsBackendStatsd:
		client, err := statsd.NewClient(statsd.Config{
			Address: cfg.Metrics.StatsdAddress,
			Prefix:  cfg.Metrics.Prefix,
			Logger:  logger,
		})
		if err != nil {
			logger.Error("failed to initialise statsd client", "error", err)
			return ObservabilityContainer{Sink: metrics.NopSink{}}
		}
		return ObservabilityContainer{Sink: client, closer: client.Close}
	case config.MetricsBackendPrometheus:
		sink := prom.NewSink(cfg.Metrics.Prefix)
		return ObservabilityContainer{Sink: sink, Handler: sink.Handler()}
	default:
		return ObservabilityContainer{Sink: metrics.NopSink{}}
	}
}

// ServiceDeps contains dependencies for building services.
type ServiceDeps struct {
	Config *config.AppConfig
	Infra  *Infrastructure
	Logger *slog.Logger
	Now    func() time.Time // Optional: defaults to time.Now
}

// NewServices wires repositories and domain services. Nothing is started here.
func NewServices(deps *ServiceDeps) ServiceContainer {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config
	sink := deps.Infra.Observability.Sink

	identity := service.NewIdentityService(service.IdentityServiceOptions{
		Accounts: data.NewAccountRepo(),
		Auth: service.IdentityAuthDeps{
			Sessions: deps.Infra.Sessions,
			Hasher:   bcryptadapter.NewHasher(cfg.Auth.BcryptCost),
		},
		Runtime: service.IdentityRuntime{
			SessionTTL: cfg.Auth.SessionTTL,
			Now:        deps.Now,
			Logger:     logger,
			Metrics:    sink,
		},
	})

	var catalog []model.Item
	if cfg.Inventory.SeedCatalog {
		catalog = seed.Catalog()
	}
	inventory := service.NewInventoryService(service.InventoryServiceOptions{
		Items:   data.NewItemRepo(catalog),
		Logger:  logger,
		Metrics: sink,
	})

	return ServiceContainer{
		Identity:  identity,
		Inventory: inventory,
		Editor:    service.NewQuantityEditor(inventory),
		Calendar: service.NewCalendarClock(service.CalendarClockOptions{
			Interval: cfg.Inventory.CalendarRefresh,
			Now:      deps.Now,
			Logger:   logger,
		}),
	}
}

// SeedServices creates the bootstrap administrator.
func SeedServices(ctx context.Context, cfg *config.AppConfig, services ServiceContainer, logger *slog.Logger) error {
	return seed.Run(ctx, seed.Deps{
		Identity: services.Identity,
		Admin: service.BootstrapAdmin{
			Username:    cfg.Auth.Bootstrap.Username,
			Password:    cfg.Auth.Bootstrap.Password,
			DisplayName: cfg.Auth.Bootstrap.DisplayName,
		},
		Logger: logger,
	})
}
