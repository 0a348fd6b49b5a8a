package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"comfyui-gateway/config"
	"comfyui-gateway/services/comfyui"
	"comfyui-gateway/services/documents"
	"comfyui-gateway/services/images"
	"comfyui-gateway/services/prompt"
	"comfyui-gateway/services/todos"
	"comfyui-gateway/services/users"
	"comfyui-gateway/storage"
	"comfyui-gateway/web"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; real environments set variables directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	configureLogging(cfg.Server.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	store, err := storage.NewR2(cfg.Storage)
	if err != nil {
		return err
	}

	// single shared session for all ComfyUI traffic, closed once on shutdown
	httpClient := &http.Client{Timeout: cfg.ComfyUI.RequestTimeout}
	defer httpClient.CloseIdleConnections()
	comfyClient := comfyui.NewClient(httpClient, cfg.ComfyUI)

	openaiClient := openai.NewClient(option.WithAPIKey(cfg.OpenAI.APIKey))

	router := mux.NewRouter()
	router.Use(web.Recover)
	comfyui.NewService(comfyClient, store).RegisterRoutes(router)
	todos.NewService(pool).RegisterRoutes(router)
	users.NewService(pool).RegisterRoutes(router)
	documents.NewService(store).RegisterRoutes(router)
	images.NewService(store).RegisterRoutes(router)
	prompt.NewService(prompt.NewOpenAIGenerator(openaiClient), store).RegisterRoutes(router)

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}),
		handlers.AllowedHeaders([]string{"Content-Type", "X-User-ID"}),
	)
	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: handlers.CombinedLoggingHandler(os.Stdout, cors(router)),
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func configureLogging(level string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := tint.NewHandler(os.Stdout, &tint.Options{
		Level:      lvl,
		TimeFormat: time.Kitchen,
	})
	slog.SetDefault(slog.New(handler))
}
