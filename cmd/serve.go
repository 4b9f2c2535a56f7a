package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/spf13/cobra"

	"subgen/config"
	"subgen/handlers"
	"subgen/internal/ffmpeg"
	"subgen/internal/jobs"
	"subgen/internal/pipeline"
	"subgen/internal/transcribe"
	"subgen/internal/translate"
	"subgen/internal/worker"
	"subgen/middleware"
)

// Uploads can be feature-length videos.
const maxUploadBytes = 2 << 30

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the subtitle generation HTTP service",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&listenAddr, "addr", "a", "", "listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if listenAddr != "" {
		cfg.Addr = listenAddr
	}
	if cfg.DeepL.AuthKey == "" {
		return errors.New("no DeepL auth key configured (set deepl.auth_key or SUBGEN_DEEPL_AUTH_KEY)")
	}

	log := config.NewLogger(cfg.LogLevel)

	engine := transcribe.NewEngine(cfg.Whisper.Bin, log)
	translator := translate.NewSegmentTranslator(translate.NewClient(cfg.DeepL.BaseURL, cfg.DeepL.AuthKey), log)
	muxer := ffmpeg.NewMuxer(cfg.FFmpeg.Bin, log)
	orchestrator := pipeline.New(engine, translator, muxer, log, pipeline.Options{
		OutputDir:       cfg.ArtifactDir(),
		DefaultLanguage: cfg.Whisper.DefaultLanguage,
	})

	store := jobs.NewStore()
	dispatcher := worker.NewDispatcher(cfg.Workers, cfg.QueueSize, log)
	dispatcher.Run()

	h := handlers.NewApplicationHandler(log, store, orchestrator, dispatcher, cfg.UploadDir())

	app := fiber.New(fiber.Config{
		BodyLimit: maxUploadBytes,
	})
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
	app.Use(middleware.RequestLogger(log))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "ok",
			"message": "subgen is healthy",
		})
	})

	apiV1 := app.Group("/api/v1")
	apiV1.Post("/subtitles", h.GenerateSubtitles)
	apiV1.Get("/subtitles/:id", h.GetSubtitleJob)
	apiV1.Get("/subtitles/:id/srt", h.DownloadSubtitle)
	apiV1.Get("/subtitles/:id/video", h.DownloadVideo)
	apiV1.Get("/languages", h.ListLanguages)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.Addr).Info("Starting subgen")
		errCh <- app.Listen(cfg.Addr)
	}()

	select {
	case err := <-errCh:
		dispatcher.Stop()
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
		log.Info("Shutting down")
		if err := app.Shutdown(); err != nil {
			log.WithError(err).Warn("Server shutdown reported an error")
		}
		dispatcher.Stop()
		return nil
	}
}
