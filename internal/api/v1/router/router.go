package router

import (
	"context"
	"net/http"
	"time"

	"coursefinder/internal/api/v1/handler"
	"coursefinder/internal/backend"
	"coursefinder/internal/config"
	"coursefinder/internal/middleware"
	"coursefinder/internal/model"
	"coursefinder/internal/pubsub"
	"coursefinder/internal/repository"
	"coursefinder/internal/service"
	"coursefinder/internal/session"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awsmiddleware "github.com/aws/smithy-go/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

const sessionJanitorInterval = 10 * time.Minute

// Handlers groups everything mounted by Mount.
type Handlers struct {
	Course   *handler.CourseHandler
	Auth     *handler.AuthHandler
	ZScore   *handler.ZScoreHandler
	Media    *handler.MediaHandler
	Sessions middleware.SessionResolver
}

// New wires configuration into services and handlers. The returned cleanup
// closes the DB pool and Pub/Sub client; ctx bounds background work such as
// the session janitor.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (http.Handler, func(), error) {
	logger.Info().Msg("Router initialized")
	logger.Info().Str("environment", cfg.Environment).Str("backend", cfg.BackendBaseURL).Msg("App environment loaded")

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	// 1. Backend client
	client := backend.New(cfg.BackendBaseURL, cfg.BackendTimeout(), cfg.BackendMaxAttempts, logger)

	// 2. Sessions
	secret, err := service.ResolveSessionSecret(ctx, cfg, logger)
	if err != nil {
		return nil, cleanup, err
	}
	store := session.NewMemoryStore()
	go store.Run(ctx, sessionJanitorInterval)
	sessions := session.NewManager(store, secret, cfg.SessionTTL())

	// 3. Z-Score table: Postgres when configured, built-in table otherwise
	zscoreRepo := repository.NewStaticZScoreRepo()
	if cfg.DBConnectionString != "" {
		pool, err := repository.OpenPool(ctx, cfg.DBConnectionString, cfg.IsDevelopment(), logger)
		if err != nil {
			cleanup()
			return nil, func() {}, err
		}
		closers = append(closers, pool.Close)
		zscoreRepo = repository.NewZScoreRepo(pool, logger)
	} else {
		logger.Info().Msg("DB_CONNECTION_STRING not set, using built-in Z-Score table")
	}

	// 4. Media storage
	var objects service.ObjectGetter
	if cfg.S3Enabled() {
		s3Client, err := newS3Client(ctx, cfg)
		if err != nil {
			cleanup()
			return nil, func() {}, err
		}
		objects = s3Client
		logger.Info().Str("bucket", cfg.S3Bucket).Msg("Serving media from S3")
	}

	// 5. Course events
	var publisher pubsub.Publisher
	if cfg.PubSubEnabled() {
		p, err := pubsub.NewPublisher(ctx, cfg)
		if err != nil {
			cleanup()
			return nil, func() {}, err
		}
		closers = append(closers, func() {
			if err := p.Close(); err != nil {
				logger.Error().Err(err).Msg("Failed to close Pub/Sub client")
			}
		})
		publisher = p
		logger.Info().Str("topic", cfg.PubSubCourseEventsTopic).Msg("Publishing course events")
	}

	// 6. Validator
	validate := validator.New(validator.WithRequiredStructEnabled())

	// 7. Services & handlers
	courseSvc := service.NewCourseService(client, publisher, cfg.PubSubCourseEventsTopic, validate, cfg.CatalogTTL(), logger)
	authSvc := service.NewAuthService(client, sessions, cfg.GoogleClientID, logger)
	zscoreSvc := service.NewZScoreService(zscoreRepo, logger)
	mediaSvc := service.NewMediaService(objects, cfg.S3Bucket, client.MediaURL, logger)

	h := Handlers{
		Course:   handler.NewCourseHandler(courseSvc, publicMediaURL, cfg.RotationInterval(), logger),
		Auth:     handler.NewAuthHandler(authSvc, sessions, validate, !cfg.IsDevelopment(), logger),
		ZScore:   handler.NewZScoreHandler(zscoreSvc, logger),
		Media:    handler.NewMediaHandler(mediaSvc, logger),
		Sessions: sessions,
	}

	return Mount(h, cfg.Origins(), logger), cleanup, nil
}

// Mount builds the chi router around the handlers.
func Mount(h Handlers, origins []string, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.LoggerMiddleware(logger))
	r.Use(middleware.SessionMiddleware(h.Sessions, logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/v1", func(r chi.Router) {
		h.Course.RegisterRoutes(r)
		h.Auth.RegisterRoutes(r)
		h.ZScore.RegisterRoutes(r)
	})
	h.Media.RegisterRoutes(r)

	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	return c.Handler(r)
}

// publicMediaURL points course media at the gateway's own /media route.
func publicMediaURL(p string) string {
	return "/media/" + model.NormalizeMediaPath(p)
}

func newS3Client(ctx context.Context, cfg *config.Config) (*s3.Client, error) {
	s3Config, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")),
		awsconfig.WithAPIOptions([]func(*awsmiddleware.Stack) error{removeDisableGzip()}),
	)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(s3Config, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3URL)
		o.UsePathStyle = true
	}), nil
}

// removeDisableGzip is a workaround for S3 signature errors with some S3-compatible services.
// See: https://github.com/supabase/storage/issues/577
func removeDisableGzip() func(*awsmiddleware.Stack) error {
	return func(stack *awsmiddleware.Stack) error {
		if _, ok := stack.Finalize.Get("DisableAcceptEncodingGzip"); ok {
			_, err := stack.Finalize.Remove("DisableAcceptEncodingGzip")
			return err
		}
		return nil
	}
}
