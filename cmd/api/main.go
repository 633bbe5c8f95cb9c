package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/shift-autofill/internal/config"
	"github.com/cmlabs-hris/shift-autofill/internal/domain/run"
	"github.com/cmlabs-hris/shift-autofill/internal/domain/shift"
	appHTTP "github.com/cmlabs-hris/shift-autofill/internal/handler/http"
	"github.com/cmlabs-hris/shift-autofill/internal/pkg/cron"
	"github.com/cmlabs-hris/shift-autofill/internal/pkg/database"
	"github.com/cmlabs-hris/shift-autofill/internal/pkg/email"
	"github.com/cmlabs-hris/shift-autofill/internal/pkg/jwt"
	"github.com/cmlabs-hris/shift-autofill/internal/pkg/provider"
	"github.com/cmlabs-hris/shift-autofill/internal/pkg/sse"
	"github.com/cmlabs-hris/shift-autofill/internal/pkg/storage"
	"github.com/cmlabs-hris/shift-autofill/internal/repository/memory"
	"github.com/cmlabs-hris/shift-autofill/internal/repository/postgresql"
	"github.com/cmlabs-hris/shift-autofill/internal/service/job"
	runService "github.com/cmlabs-hris/shift-autofill/internal/service/run"
	"github.com/go-chi/httplog/v3"
	"golang.org/x/sync/errgroup"
)

const version = "v1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logFormat := httplog.SchemaECS.Concise(!cfg.IsProduction())
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.LogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "shift-autofill"),
		slog.String("version", version),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	// The form can carry its own credential, so a missing record only
	// means there are no defaults.
	creds, err := config.LoadCredentials(cfg.CredentialsPath)
	switch {
	case errors.Is(err, config.ErrCredentialsNotFound):
		slog.Warn("No credential record, every request must carry its own", "path", cfg.CredentialsPath)
		creds = nil
	case err != nil:
		slog.Error("Failed to load credential record", "error", err)
		os.Exit(1)
	}

	providerOpts := provider.Options{
		FactorialBaseURL: cfg.Provider.FactorialBaseURL,
		SesameBaseURL:    cfg.Provider.SesameBaseURL,
		Timeout:          cfg.Provider.HTTPTimeout,
	}
	defaults := job.Defaults{}
	if creds != nil {
		if providerOpts, err = creds.ProviderOptions(cfg.Provider); err != nil {
			slog.Error("Invalid provider settings", "error", err)
			os.Exit(1)
		}
		defaults = job.Defaults{
			Provider:   creds.Provider,
			EmployeeID: creds.EmployeeID.String(),
			Credential: creds.Credential,
		}
	}
	providers := func(id provider.ID) (shift.Provider, error) {
		return provider.New(id, providerOpts)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var runRepo run.RunRepository
	if cfg.Database.URL != "" {
		db, err := database.NewPostgreSQLDB(cfg.Database.URL, cfg.Database.MaxConns)
		if err != nil {
			slog.Error("Error connecting to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := postgresql.EnsureSchema(ctx, db); err != nil {
			slog.Error("Failed to prepare schema", "error", err)
			os.Exit(1)
		}
		runRepo = postgresql.NewRunRepository(db)
	} else {
		slog.Info("DATABASE_URL not set, run history is kept in memory")
		runRepo = memory.NewRunRepository()
	}

	var managerOpts []job.Option
	var transcripts run.TranscriptStore
	if cfg.Storage.BasePath != "" {
		local, err := storage.NewLocalStorage(cfg.Storage.BasePath)
		if err != nil {
			slog.Error("Failed to initialize local storage", "error", err)
			os.Exit(1)
		}
		transcripts = local
		managerOpts = append(managerOpts, job.WithTranscripts(local))
	}

	jwtService := jwt.NewJWTService(cfg.JobToken.Secret, cfg.JobToken.TTL)
	hub := sse.NewHub()
	manager := job.NewManager(ctx, runRepo, jwtService, hub, providers, defaults, managerOpts...)
	historyService := runService.NewHistoryService(runRepo, transcripts)

	defaultProvider := provider.Default
	if creds != nil {
		if id, err := creds.ProviderID(); err == nil {
			defaultProvider = id
		}
	}

	scheduleHandler := appHTTP.NewScheduleHandler(manager, defaultProvider)
	runHandler := appHTTP.NewRunHandler(historyService)
	router := appHTTP.NewRouter(logger, cfg.App.CORSAllowedOrigins, scheduleHandler, runHandler)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Server running", "addr", "http://localhost"+srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if scheduler := autofillScheduler(gctx, cfg, creds, defaultProvider, providers, manager); scheduler != nil {
		g.Go(func() error {
			scheduler.Start()
			<-gctx.Done()
			scheduler.Stop()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		slog.Error("Server error", "error", err)
	}

	// Runs observe the cancelled base context and stop at the next day.
	manager.Wait()
	slog.Info("Server stopped")
}

func autofillScheduler(ctx context.Context, cfg *config.Config, creds *config.Credentials, id provider.ID, providers job.ProviderFactory, jobs run.JobService) *cron.Scheduler {
	if !cfg.Autofill.Enabled {
		return nil
	}
	if creds == nil {
		slog.Warn("Autofill enabled but there is no credential record, skipping")
		return nil
	}
	p, err := providers(id)
	if err != nil || !provider.Reconciles(p) {
		slog.Warn("Autofill needs a provider that can check recorded time, skipping", "provider", string(id))
		return nil
	}

	var notifier run.Notifier
	if cfg.SMTP.Enabled() {
		n, err := email.NewRunNotifier(cfg.SMTP)
		if err != nil {
			slog.Error("Run summaries disabled", "error", err)
		} else {
			notifier = n
		}
	}

	scheduler := cron.NewScheduler(ctx)
	cron.NewAutofillJobs(jobs, notifier, time.Now).RegisterJobs(scheduler, cfg.Autofill.Interval)
	return scheduler
}
