package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "Backend-FormGen/docs"
	"Backend-FormGen/src/config"
	"Backend-FormGen/src/controllers"
	"Backend-FormGen/src/database"
	"Backend-FormGen/src/jobs"
	"Backend-FormGen/src/repository"
	"Backend-FormGen/src/routes"
	"Backend-FormGen/src/seeder"
	"Backend-FormGen/src/services/contact"
	"Backend-FormGen/src/services/email"
	"Backend-FormGen/src/services/forms"
	"Backend-FormGen/src/services/generator"
	"Backend-FormGen/src/services/submission"
	"Backend-FormGen/src/services/uploads"
	"Backend-FormGen/src/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/swagger"
	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// @title        FormGen API
// @version      1.0
// @description  AI form builder: generate, publish and collect form submissions.
// @BasePath     /api
// @securityDefinitions.apikey BearerAuth
// @in           header
// @name         Authorization
func main() {
	root := &cobra.Command{
		Use:          "formgen",
		Short:        "AI form builder backend",
		SilenceUsage: true,
	}

	var seedUser string
	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Create sample forms and submissions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
				return runSeed(ctx, cfg, log, seedUser)
			})
		},
	}
	seedCmd.Flags().StringVar(&seedUser, "user", "dev-user", "owner user id of the seeded forms")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd.Context(), runServe)
			},
		},
		&cobra.Command{
			Use:   "worker",
			Short: "Run the background job worker",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd.Context(), runWorker)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create tables and indexes",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd.Context(), func(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
					store, err := openStore(ctx, cfg, log)
					if err != nil {
						return err
					}
					defer store.Close(context.Background())
					log.Info("✅ Migration finished", zap.String("driver", cfg.Storage.Driver))
					return nil
				})
			},
		},
		seedCmd,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func withApp(ctx context.Context, run func(context.Context, *config.Config, *zap.Logger) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := utils.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("❌ command failed", zap.Error(err))
		return err
	}
	return nil
}

type migrator interface {
	Migrate(ctx context.Context) error
}

// openStore เลือก storage ตาม STORAGE_DRIVER แล้ว migrate ให้พร้อมใช้
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.Store, error) {
	var store repository.Store
	switch cfg.Storage.Driver {
	case "mongo":
		client, err := database.ConnectMongoDB(ctx, cfg.Storage.MongoURI, log)
		if err != nil {
			return nil, err
		}
		ms := repository.NewMongoStore(client, cfg.Storage.MongoDB)
		if err := ms.EnsureIndexes(ctx); err != nil {
			return nil, fmt.Errorf("ensure indexes: %w", err)
		}
		return ms, nil
	case "postgres":
		db, err := database.ConnectPostgres(cfg.Storage.PostgresDSN, log)
		if err != nil {
			return nil, err
		}
		store = repository.NewGormStore(db)
	default:
		db, err := database.OpenSQLite(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Info("✅ SQLite opened", zap.String("path", cfg.Storage.SQLitePath))
		store = repository.NewSQLiteStore(db)
	}

	if err := store.(migrator).Migrate(ctx); err != nil {
		store.Close(context.Background())
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return store, nil
}

// unconfiguredLLM answers every generate call with an upstream failure.
type unconfiguredLLM struct{}

func (unconfiguredLLM) GenerateText(context.Context, string, generator.GenerateOptions) (string, error) {
	return "", errors.New("GEMINI_API_KEY is not set")
}

func newGateway(ctx context.Context, cfg *config.Config, log *zap.Logger) (*generator.Gateway, error) {
	var llm generator.TextGenerator = unconfiguredLLM{}
	if cfg.Gemini.APIKey != "" {
		client, err := generator.NewGeminiClient(ctx, cfg.Gemini.APIKey)
		if err != nil {
			return nil, err
		}
		llm = client
		log.Info("✅ Gemini client ready")
	} else {
		log.Warn("⚠️ GEMINI_API_KEY not set. Form generation is unavailable.")
	}
	return generator.NewGateway(llm, cfg.Gemini.Model, cfg.Gemini.Timeout, log)
}

func newUploads(ctx context.Context, cfg *config.Config, log *zap.Logger) (*uploads.Service, error) {
	mc, err := database.ConnectMinIO(ctx, cfg.MinIO.Endpoint, cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, cfg.MinIO.Bucket, cfg.MinIO.UseSSL, log)
	if err != nil {
		return nil, err
	}
	if mc == nil {
		return uploads.NewService(nil, cfg.MinIO.Bucket, "", log), nil
	}

	baseURL := cfg.MinIO.PublicURL
	if baseURL == "" {
		scheme := "http://"
		if cfg.MinIO.UseSSL {
			scheme = "https://"
		}
		baseURL = scheme + cfg.MinIO.Endpoint
	}
	return uploads.NewService(mc, cfg.MinIO.Bucket, baseURL, log), nil
}

func newMailSender(cfg *config.Config, log *zap.Logger) email.MailSender {
	sender, err := email.NewSMTPSender(cfg.SMTP)
	if err != nil {
		log.Warn("⚠️ SMTP disabled", zap.Error(err))
		return nil
	}
	return sender
}

func runServe(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	store, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())

	rdb, err := database.InitRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
	}

	var queue contact.Enqueuer
	if rdb != nil {
		client := database.InitAsynq(cfg.Redis.Addr, cfg.Redis.Password, log)
		defer client.Close()
		queue = client
	}

	gateway, err := newGateway(ctx, cfg, log)
	if err != nil {
		return err
	}
	uploadSvc, err := newUploads(ctx, cfg, log)
	if err != nil {
		return err
	}

	loc := cfg.Location()
	formSvc := forms.NewService(store, log, cfg.Limits.CountConcurrency)
	subSvc := submission.NewService(store, log)
	contactSvc := contact.NewService(queue, newMailSender(cfg, log), cfg.SMTP.ContactInbox, log)

	app := fiber.New(fiber.Config{
		AppName:   "FormGen",
		BodyLimit: cfg.Server.BodyLimitMB << 20,
	})

	// ✅ เปิดใช้งาน CORS Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders:    "Content-Disposition",
		AllowCredentials: false, // ❌ ต้องเป็น false ถ้าใช้ "*"
	}))

	// เปิดใช้งาน Swagger ที่ URL /swagger
	app.Get("/swagger/*", swagger.HandlerDefault)

	routes.InitRoutes(app, routes.Deps{
		JWTSecret:         cfg.JWT.Secret,
		GenerateCounter:   utils.NewWindowCounter(rdb, "formgen:generate", time.Minute),
		GeneratePerMinute: cfg.Limits.GeneratePerMinute,
		Forms:             controllers.NewFormController(formSvc, gateway, loc, log),
		Submissions:       controllers.NewSubmissionController(formSvc, subSvc, loc, log),
		Public:            controllers.NewPublicController(formSvc, subSvc, log),
		Uploads:           controllers.NewUploadController(uploadSvc),
		Contact:           controllers.NewContactController(contactSvc, log),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info("🚀 Server is running", zap.String("port", cfg.Server.Port), zap.String("storage", cfg.Storage.Driver))
		errCh <- app.Listen(":" + strings.TrimPrefix(cfg.Server.Port, ":"))
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("🛑 Shutting down server")
		return app.ShutdownWithTimeout(10 * time.Second)
	}
}

func runWorker(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	if cfg.Redis.Addr == "" {
		return errors.New("REDIS_URI is required for the worker")
	}
	sender, err := email.NewSMTPSender(cfg.SMTP)
	if err != nil {
		return err
	}
	if cfg.SMTP.ContactInbox == "" {
		return errors.New("missing SMTP env: CONTACT_INBOX")
	}

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB},
		asynq.Config{Concurrency: 5},
	)
	if err := srv.Start(jobs.NewServeMux(sender, cfg.SMTP.ContactInbox, log)); err != nil {
		return fmt.Errorf("start worker: %w", err)
	}
	log.Info("✅ Worker started", zap.String("redis", cfg.Redis.Addr))

	<-ctx.Done()
	log.Info("🛑 Stopping worker")
	srv.Shutdown()
	return nil
}

func runSeed(ctx context.Context, cfg *config.Config, log *zap.Logger, userID string) error {
	store, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())

	_, err = seeder.SeedSampleForms(ctx, forms.NewService(store, log, cfg.Limits.CountConcurrency), submission.NewService(store, log), userID, log)
	return err
}
