package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/barefootreset/backend/internal/auth"
	"github.com/barefootreset/backend/internal/badges"
	"github.com/barefootreset/backend/internal/config"
	"github.com/barefootreset/backend/internal/db"
	"github.com/barefootreset/backend/internal/middleware"
	"github.com/barefootreset/backend/internal/misc"
	"github.com/barefootreset/backend/internal/onboarding"
	"github.com/barefootreset/backend/internal/progress"
	"github.com/barefootreset/backend/internal/telemetry/metrics"
	metricsmiddleware "github.com/barefootreset/backend/internal/telemetry/metrics/middleware"
	"github.com/barefootreset/backend/internal/telemetry/tracing"
	"github.com/barefootreset/backend/internal/workouts"
	"github.com/barefootreset/backend/pkg"
)

// badgeUnlocksStore is what the badges handler needs from storage; both
// the postgres repo and the in-memory fallback satisfy it.
type badgeUnlocksStore interface {
	LoadUnlocks(ctx context.Context, userID int) ([]badges.UnlockRecord, error)
}

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config *config.Config
	dbPool *pgxpool.Pool

	redisClient  *redis.Client
	loginChecker *auth.LoginChecker
	authService  *auth.Service
	usersRepo    *auth.UsersRepo

	catalog       *workouts.Catalog
	badgeRegistry *badges.Registry
	badgeUnlocks  badgeUnlocksStore
	tracker       *progress.Tracker

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	dbPingErr := dbPool.Ping(ctx)
	if dbPingErr != nil {
		log.Warnf("failed to ping db: %s", dbPingErr)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": "barefoot_reset_db"},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("backend", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0) // will be set to 1 when all is set and ran

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	usersRepo := auth.NewUsersRepo(dbPool)
	authService := auth.NewService(usersRepo, auth.DefaultTTL, rdb)
	go func() {
		for range time.Tick(time.Hour * 8) {
			authService.ScanAndClean(ctx)
		}
	}()

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "barefoot-reset-backend", rdb)
	if err != nil {
		return nil, err
	}

	workoutList, err := workouts.LoadSeedFile(params.Config.WorkoutsSeedPath)
	if err != nil {
		return nil, fmt.Errorf("load workouts seed: %w", err)
	}
	badgeRegistry, err := badges.NewRegistryFromSeedFile(params.Config.BadgesSeedPath)
	if err != nil {
		return nil, fmt.Errorf("load badges seed: %w", err)
	}

	var (
		catalog      *workouts.Catalog
		badgeUnlocks badgeUnlocksStore
		tracker      *progress.Tracker
	)
	if dbPingErr != nil && params.Config.AllowMemoryFallback {
		log.Warnf("postgres unreachable, running on in-memory stores; progress data will be lost on restart")
		memStore := progress.NewMemoryStore()
		catalog = workouts.NewCatalog(workouts.NewStaticRepo(workoutList))
		badgeUnlocks = memStore
		tracker = progress.NewTracker(memStore, memStore, catalog, badgeRegistry)
	} else {
		workoutsRepo := workouts.NewRepo(dbPool)
		if err := workouts.Seed(ctx, workoutsRepo, workoutList); err != nil {
			return nil, fmt.Errorf("seed workouts: %w", err)
		}
		unlocksRepo := badges.NewUnlocksRepo(dbPool)
		catalog = workouts.NewCatalog(workoutsRepo)
		badgeUnlocks = unlocksRepo
		tracker = progress.NewTracker(progress.NewRepo(dbPool), unlocksRepo, catalog, badgeRegistry)
	}

	return &Server{
		config:      params.Config,
		dbPool:      dbPool,
		versionInfo: params.VersionInfo,

		redisClient:  rdb,
		authService:  authService,
		loginChecker: auth.NewLoginChecker(auth.DefaultTTL, rdb),
		usersRepo:    usersRepo,

		catalog:       catalog,
		badgeRegistry: badgeRegistry,
		badgeUnlocks:  badgeUnlocks,
		tracker:       tracker,

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	miscHandler := misc.NewHandler(s.versionInfo)
	miscHandler.SetupRoutes(r)

	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	authHandler := auth.NewHandler(s.authService, s.usersRepo, s.metricsManager)
	// rate limit the session endpoints to prevent abuse
	authHandler.SetupRoutes(
		r,
		middleware.RateLimit(reqRateLimiter, "login", s.config.LoginRateLimitAllowedPerMin, s.metricsManager),
		middleware.Cors(),
	)

	onboardingHandler := onboarding.NewHandler(
		onboarding.NewService(onboarding.NewRepo(s.dbPool), pkg.DefaultRetryPolicy()),
	)
	onboardingHandler.SetupRoutes(r)

	// progress routes go in before the workouts subrouter, so that
	// /workouts/next and /workouts/timeline win over /workouts/{id}
	progressHandler := progress.NewHandler(s.tracker, s.usersRepo, s.metricsManager)
	progressHandler.SetupRoutes(r)

	workoutsHandler := workouts.NewHandler(s.catalog)
	workoutsHandler.SetupRoutes(r)

	badgesHandler := badges.NewHandler(s.badgeRegistry, s.badgeUnlocks)
	badgesHandler.SetupRoutes(r)

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.loginChecker)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r, nil
}

func (s *Server) Serve(ctx context.Context, host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", metricsmiddleware.
		New(s.promRegistry, nil).
		WrapHandler("/metrics", promhttp.HandlerFor(
			s.promRegistry,
			promhttp.HandlerOpts{}),
		))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown http server")
	}
	log.Warnln("server shut down")

	if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown metrics http server")
	}
	log.Warnln("metrics server shut down")
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
