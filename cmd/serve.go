package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/killallgit/dubber-api/api"
	"github.com/killallgit/dubber-api/api/types"
	"github.com/killallgit/dubber-api/internal/database"
	"github.com/killallgit/dubber-api/internal/services/audiocache"
	"github.com/killallgit/dubber-api/internal/services/cache"
	"github.com/killallgit/dubber-api/internal/services/captions"
	"github.com/killallgit/dubber-api/internal/services/dubbing"
	"github.com/killallgit/dubber-api/internal/services/maintenance"
	"github.com/killallgit/dubber-api/internal/services/scheduler"
	"github.com/killallgit/dubber-api/internal/services/segments"
	"github.com/killallgit/dubber-api/internal/services/sessions"
	"github.com/killallgit/dubber-api/internal/services/synthesis"
	"github.com/killallgit/dubber-api/internal/services/translation"
	"github.com/killallgit/dubber-api/internal/services/whisper"
	"github.com/killallgit/dubber-api/pkg/config"
	"github.com/killallgit/dubber-api/pkg/download"
	"github.com/spf13/cobra"
)

var (
	serverHost string
	serverPort int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long: `Start the Dubber API server with the configured settings.

The server accepts dubbing sessions and produces translated audio on demand,
driven by the playback positions consumers report.

Example:
  dubber-api serve
  dubber-api serve --port 9090
  dubber-api serve --host 0.0.0.0 --port 8080`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host (overrides config)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (overrides config)")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if serverHost == "" {
		serverHost = cfg.Server.Host
	}
	if serverPort == 0 {
		serverPort = cfg.Server.Port
	}

	db, err := database.Initialize(cfg.Database.Path, cfg.Database.LogQueries)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := db.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	deps, cleanup := buildDependencies(cfg, db)
	defer cleanup()

	server := api.NewServer(fmt.Sprintf("%s:%d", serverHost, serverPort))
	server.SetDatabase(db)
	server.SetDependencies(deps)
	if err := server.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("server error: %w", err)
		}
	}()

	log.Printf("Dubber API listening on %s:%d", serverHost, serverPort)

	select {
	case <-stop:
		log.Println("Shutting down server...")
	case err := <-serverErr:
		log.Printf("[ERROR] %v", err)
		log.Println("Shutting down server...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("[ERROR] Server forced to shutdown: %v", err)
		return err
	}

	log.Println("Server gracefully stopped")
	return nil
}

// buildDependencies wires the full production pipeline. The returned cleanup
// stops background work in reverse dependency order.
func buildDependencies(cfg *config.Config, db *database.DB) (*types.Dependencies, func()) {
	memCache := cache.NewMemoryCache(cfg.Cache.MemoryMaxSizeMB)
	resultCache := audiocache.NewService(memCache, audiocache.NewRepository(db.DB), cfg.Cache.MemoryTTL)

	captionSource := captions.NewClient(captions.Config{
		BaseURL:   cfg.Captions.BaseURL,
		UserAgent: cfg.Captions.UserAgent,
		Timeout:   cfg.Captions.Timeout,
	})

	var fallback captions.Transcriber
	if cfg.Whisper.APIKey != "" {
		fallback = whisper.NewClient(whisper.Config{
			APIKey:      cfg.Whisper.APIKey,
			APIURL:      cfg.Whisper.APIURL,
			Model:       cfg.Whisper.Model,
			Timeout:     cfg.Whisper.Timeout,
			MaxFileSize: cfg.Whisper.MaxFileSize,
		})
	}

	downloader := download.NewDownloader(download.Options{
		MaxSize:       cfg.Whisper.MaxFileSize,
		ValidateAudio: true,
	})

	translator := translation.NewClient(translation.Config{
		APIKey:  cfg.Translation.APIKey,
		BaseURL: cfg.Translation.BaseURL,
		Timeout: cfg.Translation.Timeout,
	})
	pipeline := translation.NewPipeline(translator, cfg.Translation.BatchSize, cfg.Translation.MaxConcurrency)

	store := sessions.NewStore(cfg.Sessions.MaxSessions)
	merger := segments.NewMerger(cfg.Scheduler.SegmentFloorSec)
	sessionService := sessions.NewService(store, captionSource, fallback, downloader, merger, pipeline)

	synth := synthesis.NewClient(synthesis.Config{
		APIKey:  cfg.Synthesis.APIKey,
		BaseURL: cfg.Synthesis.BaseURL,
		Voice:   cfg.Synthesis.Voice,
		Timeout: cfg.Synthesis.Timeout,
	})
	sched := scheduler.New(synth, resultCache, scheduler.Options{
		Lookahead:       cfg.Scheduler.Lookahead,
		PrefetchCascade: cfg.Scheduler.PrefetchCascade,
		SegmentTTL:      cfg.Cache.SegmentTTL,
		Voice:           cfg.Synthesis.Voice,
	})

	dubProvider := dubbing.NewClient(dubbing.Config{
		APIKey:  cfg.Dubbing.APIKey,
		BaseURL: cfg.Dubbing.BaseURL,
		Timeout: cfg.Dubbing.Timeout,
	})
	chunkSched := scheduler.NewChunkScheduler(dubProvider, resultCache, scheduler.ChunkOptions{
		ChunkDuration: time.Duration(cfg.Scheduler.ChunkDurationSec * float64(time.Second)),
		Lookahead:     cfg.Scheduler.Lookahead,
		PollInterval:  cfg.Dubbing.PollInterval,
		MaxAttempts:   cfg.Dubbing.MaxAttempts,
		DubTTL:        cfg.Cache.DubTTL,
	})

	janitor := maintenance.NewService(store, resultCache, cfg.Sessions.IdleTTL, cfg.Sessions.ReapSchedule)
	if err := janitor.Start(); err != nil {
		log.Printf("[ERROR] Failed to start maintenance: %v", err)
	}

	deps := &types.Dependencies{
		DB:             db,
		SessionService: sessionService,
		SessionStore:   store,
		Scheduler:      sched,
		ChunkScheduler: chunkSched,
		AudioCache:     resultCache,
	}

	cleanup := func() {
		janitor.Stop()
		sched.Wait()
		chunkSched.Wait()
		memCache.Stop()
		if err := db.Close(); err != nil {
			log.Printf("[ERROR] Failed to close database: %v", err)
		}
	}
	return deps, cleanup
}
