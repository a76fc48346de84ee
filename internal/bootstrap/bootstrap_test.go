package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/q-inventory/config"
	"github.com/target/q-inventory/internal/adapters/memory"
	redisadapter "github.com/target/q-inventory/internal/adapters/redis"
	"github.com/target/q-inventory/internal/observability/metrics"
	"github.com/target/q-inventory/internal/observability/statsd"
	"github.com/target/q-inventory/internal/seed"
	"github.com/target/q-inventory/internal/testutil"
	"golang.org/x/crypto/bcrypt"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.AppConfig {
	cfg := &config.AppConfig{
		Auth: config.AuthConfig{
			Bootstrap: config.BootstrapAdminConfig{
				Username:    "harmad",
				Password:    "40222050",
				DisplayName: "مدیر",
			},
			BcryptCost: bcrypt.MinCost,
		},
		HTTP:      config.HTTPConfig{Addr: ":0"},
		Inventory: config.InventoryConfig{SeedCatalog: true, CalendarRefresh: time.Minute},
	}
	cfg.Sanitize()
	return cfg
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.AppConfig)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*config.AppConfig) {}},
		{
			name:    "missing bootstrap username",
			mutate:  func(c *config.AppConfig) { c.Auth.Bootstrap.Username = "" },
			wantErr: "bootstrap username",
		},
		{
			name:    "missing bootstrap password",
			mutate:  func(c *config.AppConfig) { c.Auth.Bootstrap.Password = "" },
			wantErr: "bootstrap password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(cfg)
			err := ValidateConfig(cfg)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	require.Error(t, ValidateConfig(nil))
}

func TestLoadConfig(t *testing.T) {
	t.Run("reads environment", func(t *testing.T) {
		t.Setenv("AUTH_BOOTSTRAP_USERNAME", "owner")
		t.Setenv("INVENTORY_SEED_CATALOG", "false")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "owner", cfg.Auth.Bootstrap.Username)
		assert.False(t, cfg.Inventory.SeedCatalog)
	})

	t.Run("blank bootstrap username is rejected", func(t *testing.T) {
		t.Setenv("AUTH_BOOTSTRAP_USERNAME", "   ")

		_, err := LoadConfig()
		require.Error(t, err)
	})

	t.Run("unknown session store is rejected", func(t *testing.T) {
		t.Setenv("AUTH_SESSION_STORE", "postgres")

		_, err := LoadConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse config")
	})
}

func TestBuildInfrastructure_Memory(t *testing.T) {
	infra, err := BuildInfrastructure(context.Background(), InfrastructureDeps{
		Config: testConfig(),
		Logger: discardLogger(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, infra.Close()) })

	assert.Nil(t, infra.Redis)
	assert.IsType(t, &memory.SessionStore{}, infra.Sessions)
	assert.Nil(t, healthChecks(infra))
}

func TestBuildInfrastructure_Redis(t *testing.T) {
	client := testutil.SetupTestRedis(t)

	cfg := testConfig()
	cfg.Auth.SessionStore = config.SessionStoreRedis

	infra, err := BuildInfrastructure(context.Background(), InfrastructureDeps{
		Config: cfg,
		Logger: discardLogger(),
		Redis:  client,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = infra.Close() })

	assert.IsType(t, &redisadapter.SessionStore{}, infra.Sessions)

	checks := healthChecks(infra)
	require.Contains(t, checks, "redis")
	assert.NoError(t, checks["redis"](context.Background()))
}

func TestBuildInfrastructure_RequiresConfig(t *testing.T) {
	_, err := BuildInfrastructure(context.Background(), InfrastructureDeps{})
	require.Error(t, err)
}

func TestBuildObservability(t *testing.T) {
	logger := discardLogger()

	t.Run("none", func(t *testing.T) {
		obs := buildObservability(logger, config.ObservabilityConfig{})
		assert.Equal(t, metrics.NopSink{}, obs.Sink)
		assert.Nil(t, obs.Handler)
		assert.NoError(t, obs.Close())
	})

	t.Run("prometheus exposes a handler", func(t *testing.T) {
		obs := buildObservability(logger, config.ObservabilityConfig{
			Metrics: config.ObservabilityMetricsConfig{Backend: config.MetricsBackendPrometheus, Prefix: "qinv"},
		})
		require.NotNil(t, obs.Handler)

		obs.Sink.Count("inventory_adjust", 1, map[string]string{"result": "ok"})

		rec := httptest.NewRecorder()
		obs.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "qinv_inventory_adjust_total")
	})

	t.Run("statsd dials udp", func(t *testing.T) {
		obs := buildObservability(logger, config.ObservabilityConfig{
			Metrics: config.ObservabilityMetricsConfig{
				Backend:       config.MetricsBackendStatsd,
				StatsdAddress: "127.0.0.1:8125",
				Prefix:        "qinv",
			},
		})
		assert.IsType(t, &statsd.Client{}, obs.Sink)
		assert.Nil(t, obs.Handler)
		assert.NoError(t, obs.Close())
	})
}

func newTestServices(t *testing.T, cfg *config.AppConfig) (ServiceContainer, *Infrastructure) {
	t.Helper()
	now := testutil.FixedTimeFunc(testutil.TestTime())
	infra, err := BuildInfrastructure(context.Background(), InfrastructureDeps{
		Config: cfg,
		Logger: discardLogger(),
		Now:    now,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = infra.Close() })

	services := NewServices(&ServiceDeps{
		Config: cfg,
		Infra:  infra,
		Logger: discardLogger(),
		Now:    now,
	})
	return services, infra
}

func TestNewServices_Catalog(t *testing.T) {
	ctx := context.Background()

	t.Run("seeded", func(t *testing.T) {
		services, _ := newTestServices(t, testConfig())
		items, err := services.Inventory.List(ctx)
		require.NoError(t, err)
		assert.Len(t, items, len(seed.Catalog()))
	})

	t.Run("empty", func(t *testing.T) {
		cfg := testConfig()
		cfg.Inventory.SeedCatalog = false
		services, _ := newTestServices(t, cfg)
		items, err := services.Inventory.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("calendar uses injected clock", func(t *testing.T) {
		services, _ := newTestServices(t, testConfig())
		today := services.Calendar.Current()
		assert.Equal(t, 1402, today.Year)
		assert.Equal(t, 10, today.Month)
		assert.Equal(t, 11, today.Day)
	})
}

func TestSeedServices_BootstrapAdminCanLogIn(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	services, _ := newTestServices(t, cfg)

	require.NoError(t, SeedServices(ctx, cfg, services, discardLogger()))
	// Running twice keeps the existing account.
	require.NoError(t, SeedServices(ctx, cfg, services, discardLogger()))

	accounts, err := services.Identity.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)

	sess, err := services.Identity.Authenticate(ctx, "harmad", "40222050")
	require.NoError(t, err)
	assert.Equal(t, "مدیر", sess.DisplayName)
}

func TestNewHTTPServer(t *testing.T) {
	assert.Nil(t, NewHTTPServer(nil))

	cfg := testConfig()
	cfg.HTTP.Addr = ""
	cfg.HTTP.CompressionEnabled = true
	cfg.Observability.Metrics = config.ObservabilityMetricsConfig{Backend: config.MetricsBackendPrometheus, Prefix: "qinv"}
	services, infra := newTestServices(t, cfg)

	server := NewHTTPServer(&HTTPServerConfig{Config: cfg, Services: services, Infra: infra, Logger: discardLogger()})
	require.NotNil(t, server)
	assert.Equal(t, ":8080", server.Addr)

	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRun_ServesUntilCanceled(t *testing.T) {
	cfg := testConfig()
	services, infra := newTestServices(t, cfg)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, &RunConfig{
			Config:   cfg,
			Services: services,
			Infra:    infra,
			Logger:   discardLogger(),
			Listener: ln,
		})
	}()

	url := "http://" + ln.Addr().String() + "/healthz"
	require.Eventually(t, func() bool {
		resp, getErr := http.Get(url) //nolint:noctx // test probe
		if getErr != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_RequiresConfig(t *testing.T) {
	require.Error(t, Run(context.Background(), nil))
	require.Error(t, Run(context.Background(), &RunConfig{}))
}
