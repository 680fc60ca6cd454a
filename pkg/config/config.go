package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	once    sync.Once
	initErr error
)

// Init initializes the configuration system
// This should be called once at application startup
func Init() error {
	once.Do(func() {
		// Load .env before viper so DUBBER_* vars from it are visible
		_ = godotenv.Load()

		setDefaults()

		// Set up environment variable reading for overrides
		viper.SetEnvPrefix("DUBBER")
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.AutomaticEnv()

		// Load config from fixed location (cleaned for safety)
		configPath := filepath.Clean("./config/settings.yaml")
		viper.SetConfigFile(configPath)

		if err := viper.ReadInConfig(); err != nil {
			// Missing config file is fine - defaults and env vars apply
			if !os.IsNotExist(err) {
				initErr = fmt.Errorf("error reading config file %s: %w", configPath, err)
				return
			}
		}

		if err := validate(); err != nil {
			initErr = fmt.Errorf("invalid configuration: %w", err)
		}
	})

	return initErr
}

// GetConfig returns the current configuration as a struct
// Init() must be called before using this
func GetConfig() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &config, nil
}

// GetString returns a string config value
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration returns a time.Duration config value
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

// GetFloat64 returns a float64 config value
func GetFloat64(key string) float64 {
	return viper.GetFloat64(key)
}

// validate validates the configuration using Viper values
func validate() error {
	port := viper.GetInt("server.port")
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid server port: %d", port)
	}

	if viper.GetString("database.path") == "" {
		fmt.Println("Warning: No database path configured, result cache will not persist")
	}

	chunkDur := viper.GetFloat64("scheduler.chunk_duration_sec")
	if chunkDur <= 0 {
		return fmt.Errorf("invalid chunk duration: %f", chunkDur)
	}

	// Auto-correct invalid look-ahead and cascade widths
	if viper.GetInt("scheduler.lookahead") < 0 {
		viper.Set("scheduler.lookahead", 2)
	}
	if viper.GetInt("scheduler.prefetch_cascade") < 0 {
		viper.Set("scheduler.prefetch_cascade", 2)
	}

	if viper.GetInt("dubbing.max_attempts") <= 0 {
		viper.Set("dubbing.max_attempts", 60)
	}

	return nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)
	viper.SetDefault("server.max_header_bytes", 1<<20)

	// Database defaults
	viper.SetDefault("database.path", "./data/dubber.db")
	viper.SetDefault("database.log_queries", false)

	// Caption source defaults
	viper.SetDefault("captions.base_url", "https://www.youtube.com/api/timedtext")
	viper.SetDefault("captions.timeout", 15*time.Second)
	viper.SetDefault("captions.user_agent", "DubberAPI/1.0")

	// Fallback transcriber defaults
	viper.SetDefault("whisper.api_url", "https://api.openai.com/v1/audio/transcriptions")
	viper.SetDefault("whisper.model", "whisper-1")
	viper.SetDefault("whisper.timeout", 120*time.Second)
	viper.SetDefault("whisper.max_file_size", int64(25*1024*1024))

	// Translation defaults
	viper.SetDefault("translation.timeout", 30*time.Second)
	viper.SetDefault("translation.batch_size", 10)
	viper.SetDefault("translation.max_concurrency", 3)

	// Synthesis defaults
	viper.SetDefault("synthesis.voice", "alloy")
	viper.SetDefault("synthesis.timeout", 60*time.Second)

	// Remote dubbing defaults
	viper.SetDefault("dubbing.timeout", 30*time.Second)
	viper.SetDefault("dubbing.poll_interval", 5*time.Second)
	viper.SetDefault("dubbing.max_attempts", 60)

	// Scheduler defaults
	viper.SetDefault("scheduler.lookahead", 2)
	viper.SetDefault("scheduler.prefetch_cascade", 2)
	viper.SetDefault("scheduler.chunk_duration_sec", 30.0)
	viper.SetDefault("scheduler.segment_floor_sec", 8.0)

	// Session registry defaults
	viper.SetDefault("sessions.idle_ttl", 2*time.Hour)
	viper.SetDefault("sessions.reap_schedule", "@every 10m")
	viper.SetDefault("sessions.max_sessions", 256)

	// Result cache defaults: per-segment audio 24h, whole-chunk dubs 7d
	viper.SetDefault("cache.segment_ttl", 24*time.Hour)
	viper.SetDefault("cache.dub_ttl", 7*24*time.Hour)
	viper.SetDefault("cache.memory_ttl", 30*time.Minute)
	viper.SetDefault("cache.memory_max_size_mb", int64(256))

	// Playback synchronizer defaults
	viper.SetDefault("playback.tick_interval", 500*time.Millisecond)
	viper.SetDefault("playback.drift_threshold", 0.4)
	viper.SetDefault("playback.preload_count", 2)
}
