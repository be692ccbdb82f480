package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"propgen/internal/api"
	"propgen/internal/config"
	"propgen/internal/content"
	"propgen/internal/llm"
	"propgen/internal/pipeline"
	"propgen/internal/render"
	"propgen/internal/synth"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	for _, dir := range []string{cfg.UploadDir, cfg.OutputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Error("cannot create directory", "dir", dir, "error", err)
			os.Exit(1)
		}
	}

	model := llm.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.LLMTimeout)
	if model.Available() {
		log.Info("generative model configured", "model", cfg.GeminiModel)
	} else {
		log.Info("no model credentials, running in fallback mode")
	}

	logos := render.NewLogoResolver()
	shaper := render.PassthroughShaper{}

	orch := &pipeline.Orchestrator{
		Store:        pipeline.NewJobStore(cfg.MaxActiveJobs),
		Synth:        synth.New(model, log),
		Generator:    content.NewGenerator(model, cfg.MaxConcurrentGenerate, log),
		Distiller:    content.NewDistiller(model, log),
		Docx:         &render.DocxRenderer{OutputDir: cfg.OutputDir, Logos: logos, Shaper: shaper},
		Xlsx:         &render.XlsxRenderer{OutputDir: cfg.OutputDir},
		HTML:         render.NewHTMLRenderer(cfg.OutputDir),
		OutputDir:    cfg.OutputDir,
		CleanupDelay: cfg.CleanupDelay,
		PDFFallback:  cfg.PDFFallbackPdftotext,
		Logger:       log,
	}

	srv := api.NewServer(orch, synth.New(model, log), model, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		model.Close()
	}()

	log.Info("starting propgen", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
