package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectoinject/ectocontainer"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/Ramsey-B/edelweiss/internal/repositories/resolutionrun"
	"github.com/Ramsey-B/edelweiss/pkg/cache"
	"github.com/Ramsey-B/edelweiss/pkg/database"
	"github.com/Ramsey-B/edelweiss/pkg/kafka"
	"github.com/Ramsey-B/edelweiss/pkg/middleware"
	"github.com/Ramsey-B/edelweiss/pkg/processor"
	"github.com/Ramsey-B/edelweiss/pkg/resolver"
	"github.com/Ramsey-B/edelweiss/pkg/resorts"
	"github.com/Ramsey-B/edelweiss/pkg/routes/health"
	"github.com/Ramsey-B/edelweiss/pkg/routes/resolve"
	resortroutes "github.com/Ramsey-B/edelweiss/pkg/routes/resorts"
	"github.com/Ramsey-B/edelweiss/pkg/startup"
	"github.com/Ramsey-B/edelweiss/pkg/tracing"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and, when enabled, the Kafka resolution consumer.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		return newServer(a).run(cmd.Context())
	},
}

// server wires the service's dependencies and owns their lifecycle.
type server struct {
	*app
	container ectocontainer.DIContainer
	echo      *echo.Echo
	checker   *health.Checker

	db       *database.DatabaseInstance
	redis    *cache.Client
	service  *resolver.Service
	consumer *kafka.Consumer
	producer *kafka.Producer
}

func newServer(a *app) *server {
	return &server{app: a}
}

func (s *server) run(ctx context.Context) error {
	boot := startup.NewStartup(s.logger, s.cfg.StartupMaxAttempts)

	var shutdownTracing func(context.Context) error
	boot.AddDependency(&startup.Dependency{
		Name: "tracing",
		OnStart: func(ctx context.Context) (err error) {
			shutdownTracing, err = tracing.Setup(ctx, tracing.Config{
				ServiceName: s.cfg.AppName,
				Endpoint:    s.cfg.OtelExporterEndpoint,
				Protocol:    s.cfg.OtelExporterProtocol,
				Insecure:    s.cfg.OtelInsecure,
				Timeout:     10 * time.Second,
			})
			return err
		},
		OnStop: func(ctx context.Context) error {
			if shutdownTracing == nil {
				return nil
			}
			return shutdownTracing(ctx)
		},
	})

	boot.AddDependency(&startup.Dependency{
		Name: "catalog",
		OnStart: func(context.Context) error {
			if s.store != nil {
				return nil
			}
			return s.loadReference()
		},
	})

	resolverRequires := []string{"tracing", "catalog"}

	if s.cfg.DatabaseEnabled {
		resolverRequires = append(resolverRequires, "database")
		boot.AddDependency(&startup.Dependency{
			Name: "database",
			OnStart: func(ctx context.Context) error {
				if s.db == nil {
					db, err := database.Connect(ctx, s.databaseConfig(), s.logger)
					if err != nil {
						return err
					}
					s.db = db
				}
				return migrateDatabase(s.app, s.db)
			},
			OnStop: func(context.Context) error { return s.db.Close() },
		})
	}

	if s.cfg.RedisEnabled {
		resolverRequires = append(resolverRequires, "redis")
		boot.AddDependency(&startup.Dependency{
			Name: "redis",
			OnStart: func(ctx context.Context) (err error) {
				s.redis, err = cache.NewClient(ctx, cache.Config{
					Host:     s.cfg.RedisHost,
					Port:     s.cfg.RedisPort,
					Password: s.cfg.RedisPassword,
					DB:       s.cfg.RedisDB,
					Timeout:  s.cfg.RedisTimeout,
					PoolSize: s.cfg.RedisPoolSize,
				}, s.logger)
				return err
			},
			OnStop: func(context.Context) error { return s.redis.Close() },
		})
	}

	boot.AddDependency(&startup.Dependency{
		Name:     "resolver",
		Requires: resolverRequires,
		OnStart:  func(context.Context) error { return s.startResolver() },
	})

	if s.cfg.KafkaConsumerEnabled {
		boot.AddDependency(&startup.Dependency{
			Name:     "kafka",
			Requires: []string{"resolver"},
			OnStart:  s.startKafka,
			OnStop:   func(context.Context) error { return s.stopKafka() },
		})
	}

	boot.AddDependency(&startup.Dependency{
		Name:     "http",
		Requires: []string{"resolver"},
		OnStart:  func(context.Context) error { return s.startHTTP() },
		OnStop:   s.stopHTTP,
	})

	if err := boot.Start(ctx); err != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout())
		defer cancel()
		_ = boot.Stop(shutdownCtx)
		return err
	}
	s.checker.SetReady(true)
	s.logger.WithField("port", s.cfg.Port).Info("Service started")

	<-ctx.Done()
	s.logger.Info("Shutting down")
	s.checker.SetReady(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout())
	defer cancel()
	return boot.Stop(shutdownCtx)
}

func (s *server) shutdownTimeout() time.Duration {
	return time.Duration(s.cfg.ShutdownTimeoutSeconds) * time.Second
}

// startResolver builds the resolver service and registers it, with the
// resources routes depend on, in the dependency container.
func (s *server) startResolver() error {
	var resultCache resolver.ResultCache
	if s.redis != nil {
		resultCache = cache.NewResolutionCache(s.redis, s.cfg.ResultCacheTTL)
	}

	var recorder resolver.RunRecorder
	var runs *resolutionrun.Repository
	if s.db != nil {
		runs = resolutionrun.NewRepository(s.db, s.logger)
		recorder = runs
	}

	s.service = resolver.NewService(s.logger, s.store, s.registry, resultCache, recorder, s.resolverConfig())

	container := ectoinject.GetDefaultContainer()
	if container == nil {
		var err error
		if container, err = ectoinject.NewDIDefaultContainer(); err != nil {
			return err
		}
	}
	if err := ectoinject.RegisterInstance[ectologger.Logger](container, s.logger); err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[*resolver.Service](container, s.service); err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[*resorts.Registry](container, s.registry); err != nil {
		return err
	}
	if runs != nil {
		if err := ectoinject.RegisterInstance[*resolutionrun.Repository](container, runs); err != nil {
			return err
		}
	}
	s.container = container
	return nil
}

func (s *server) startKafka(ctx context.Context) error {
	// Clients left by a failed startup attempt are replaced, not leaked.
	if err := s.stopKafka(); err != nil {
		s.logger.WithError(err).Warn("Failed to close Kafka clients from a previous attempt")
	}
	s.consumer, s.producer = nil, nil

	s.producer = kafka.NewProducer(kafka.ProducerConfig{
		Brokers:      s.cfg.KafkaBrokers,
		Topic:        s.cfg.KafkaOutputTopic,
		BatchSize:    s.cfg.KafkaBatchSize,
		BatchTimeout: time.Duration(s.cfg.KafkaBatchTimeout) * time.Millisecond,
		RequiredAcks: s.cfg.KafkaRequiredAcks,
		Compression:  s.cfg.KafkaCompression,
	}, s.logger)

	proc := processor.NewProcessor(s.logger, s.service, s.producer)
	s.consumer = kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers:       s.cfg.KafkaBrokers,
		Topic:         s.cfg.KafkaInputTopic,
		ConsumerGroup: s.cfg.KafkaConsumerGroup,
	}, s.logger, proc.ProcessMessage)

	// The consumer outlives startup, so it must not inherit the startup context.
	return s.consumer.Start(context.WithoutCancel(ctx))
}

func (s *server) stopKafka() error {
	var errs []error
	if s.consumer != nil {
		errs = append(errs, s.consumer.Stop())
	}
	if s.producer != nil {
		errs = append(errs, s.producer.Close())
	}
	return errors.Join(errs...)
}

func (s *server) startHTTP() error {
	checks := map[string]health.Pinger{
		"catalog": health.PingFunc(func(context.Context) error {
			if s.store == nil {
				return errors.New("reference catalog is not loaded")
			}
			return nil
		}),
	}
	if s.consumer != nil {
		checks["kafka"] = s.consumer
	}
	if s.db != nil {
		checks["database"] = s.db
	}
	if s.redis != nil {
		checks["redis"] = s.redis
	}
	s.checker = health.NewChecker(s.cfg.Version, checks)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.Error(s.logger)

	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: s.cfg.AllowOrigins,
		AllowMethods: s.cfg.AllowMethods,
	}))
	e.Use(otelecho.Middleware(s.cfg.AppName))
	e.Use(middleware.Context())
	e.Use(middleware.Container(s.container.GetContainerID()))
	e.Use(middleware.Logger(s.logger))

	s.checker.RegisterRoutes(e)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")
	resolve.Register(api.Group("/resolve"))
	resortroutes.Register(api.Group("/resorts"))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		ReadTimeout:       time.Duration(s.cfg.HttpServerReadTimeoutSeconds) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.HttpServerWriteTimeoutSeconds) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.HttpServerIdleTimeoutSeconds) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.ReadHeaderTimeoutSeconds) * time.Second,
		MaxHeaderBytes:    s.cfg.MaxHeaderBytes,
	}

	go func() {
		if err := e.StartServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.WithError(err).Error("HTTP server stopped unexpectedly")
		}
	}()

	s.echo = e
	return nil
}

func (s *server) stopHTTP(ctx context.Context) error {
	if s.echo == nil {
		return nil
	}
	return s.echo.Shutdown(ctx)
}
