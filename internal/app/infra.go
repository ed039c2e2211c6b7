package app

import (
	"context"
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/nabhcare/nabh-backend/config"
	"github.com/nabhcare/nabh-backend/internal/events"
	"github.com/nabhcare/nabh-backend/internal/store"
	"github.com/nabhcare/nabh-backend/pkg/ai"
	"github.com/nabhcare/nabh-backend/pkg/authorize"
	"github.com/nabhcare/nabh-backend/pkg/email"
	"github.com/nabhcare/nabh-backend/pkg/logs"
	"github.com/nabhcare/nabh-backend/pkg/observability"
	redispkg "github.com/nabhcare/nabh-backend/pkg/redis"
	"github.com/nabhcare/nabh-backend/pkg/sms"
)

// InfraModule provides all infrastructure dependencies.
var InfraModule = fx.Module("infra",
	fx.Provide(
		ProvideLogger,
		ProvideStore,
		ProvideRedis,
		ProvideAuthorization,
		ProvideEmailClient,
		ProvideSMSClient,
		ProvideAIClient,
		ProvideNatsClient,
		ProvideEventPublisher,
		ProvideOTel,
	),
	fx.Provide(
		func(s *store.Store) store.UserStore { return s.Users },
		func(s *store.Store) store.AppointmentStore { return s.Appointments },
		func(s *store.Store) store.MedicalRecordStore { return s.Records },
		func(s *store.Store) store.PrescriptionStore { return s.Prescriptions },
		func(s *store.Store) store.PharmacyStore { return s.Pharmacies },
		func(s *store.Store) store.OrderStore { return s.Orders },
		func(s *store.Store) store.NotificationStore { return s.Notifications },
	),
)

func ProvideLogger(cfg *config.Config) *slog.Logger {
	log := logs.New(cfg)
	slog.SetDefault(log)
	return log
}

func ProvideStore(lc fx.Lifecycle, cfg *config.Config) (*store.Store, error) {
	st, err := store.Connect(context.Background(), cfg.Database)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return st.EnsureIndexes(ctx)
		},
		OnStop: func(ctx context.Context) error {
			slog.Debug("closing MongoDB connection")
			return st.Close(ctx)
		},
	})
	return st, nil
}

func ProvideRedis(lc fx.Lifecycle, cfg *config.Config) (*redis.Client, error) {
	rdb, err := redispkg.NewRedisFromCentral(cfg.Redis)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("closing Redis connection")
			return rdb.Close()
		},
	})
	return rdb, nil
}

func ProvideAuthorization() (authorize.IAuthorization, error) {
	enforcer, err := authorize.NewEnforcer()
	if err != nil {
		return nil, err
	}
	auth, err := authorize.NewAuthorization(enforcer)
	if err != nil {
		return nil, err
	}
	if err := authorize.SeedDefaultPolicies(context.Background(), auth); err != nil {
		return nil, err
	}
	return auth, nil
}

func ProvideEmailClient(cfg *config.Config) (*email.Client, error) {
	return email.NewFromCentral(cfg.Email)
}

func ProvideSMSClient(cfg *config.Config) (*sms.Client, error) {
	return sms.NewFromConfig(cfg.SMS)
}

func ProvideAIClient(cfg *config.Config) *ai.Client {
	return ai.NewFromCentral(cfg.AI)
}

// ProvideNatsClient returns nil when no broker is configured. Downstream
// providers and workers treat a nil connection as "events disabled".
func ProvideNatsClient(lc fx.Lifecycle, cfg *config.Config) (*nats.Conn, error) {
	if cfg.Nats.URL == "" {
		slog.Info("NATS disabled, events will not be published")
		return nil, nil
	}
	nc, err := nats.Connect(cfg.Nats.URL)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("draining NATS connection")
			return nc.Drain()
		},
	})
	return nc, nil
}

func ProvideEventPublisher(nc *nats.Conn) events.Publisher {
	if nc == nil {
		return events.Nop{}
	}
	return events.NewNatsPublisher(nc)
}

func ProvideOTel(lc fx.Lifecycle, cfg *config.Config) (*observability.Provider, error) {
	if !cfg.Observability.Enabled {
		return nil, nil
	}
	provider, err := observability.InitTelemetry(context.Background(), observability.Config{
		ServiceName:    cfg.Observability.ServiceName,
		ServiceVersion: cfg.Observability.ServiceVersion,
		Environment:    cfg.Server.Environment,
		OTLPEndpoint:   cfg.Observability.Tracing.OTLPEndpoint,
		OTLPInsecure:   cfg.Observability.Tracing.OTLPInsecure,
		SamplingRate:   cfg.Observability.Tracing.SamplingRate,
	})
	if err != nil {
		return nil, err
	}
	slog.Info("observability initialized",
		"tracing", cfg.Observability.Tracing.Enabled,
		"metrics", cfg.Observability.Metrics.Enabled,
	)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("shutting down observability providers")
			return provider.Shutdown(ctx)
		},
	})
	return provider, nil
}
