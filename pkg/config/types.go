package config

import "time"

// Config represents the complete application configuration
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Captions    CaptionsConfig    `mapstructure:"captions"`
	Whisper     WhisperConfig     `mapstructure:"whisper"`
	Translation TranslationConfig `mapstructure:"translation"`
	Synthesis   SynthesisConfig   `mapstructure:"synthesis"`
	Dubbing     DubbingConfig     `mapstructure:"dubbing"`
	Scheduler   SchedulerConfig   `mapstructure:"scheduler"`
	Sessions    SessionsConfig    `mapstructure:"sessions"`
	Cache       CacheConfig       `mapstructure:"cache"`
	Playback    PlaybackConfig    `mapstructure:"playback"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
}

// DatabaseConfig contains sqlite settings for the persisted result cache
type DatabaseConfig struct {
	Path       string `mapstructure:"path"`
	LogQueries bool   `mapstructure:"log_queries"`
}

// CaptionsConfig contains caption source settings
type CaptionsConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// WhisperConfig contains fallback transcriber settings
type WhisperConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	APIURL      string        `mapstructure:"api_url"`
	Model       string        `mapstructure:"model"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxFileSize int64         `mapstructure:"max_file_size"`
}

// TranslationConfig contains translation provider and batching settings
type TranslationConfig struct {
	APIKey    string        `mapstructure:"api_key"`
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	BatchSize int           `mapstructure:"batch_size"`
	// Concurrent batch calls per session
	MaxConcurrency int `mapstructure:"max_concurrency"`
}

// SynthesisConfig contains speech synthesis provider settings
type SynthesisConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Voice   string        `mapstructure:"voice"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// DubbingConfig contains remote whole-chunk dubbing provider settings
type DubbingConfig struct {
	APIKey       string        `mapstructure:"api_key"`
	BaseURL      string        `mapstructure:"base_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	MaxAttempts  int           `mapstructure:"max_attempts"`
}

// SchedulerConfig contains unit scheduling settings
type SchedulerConfig struct {
	// Units produced ahead of the reported playback position
	Lookahead int `mapstructure:"lookahead"`
	// Units opportunistically started when a unit finishes producing
	PrefetchCascade  int     `mapstructure:"prefetch_cascade"`
	ChunkDurationSec float64 `mapstructure:"chunk_duration_sec"`
	// Floor for merged segment duration
	SegmentFloorSec float64 `mapstructure:"segment_floor_sec"`
}

// SessionsConfig contains session registry settings
type SessionsConfig struct {
	IdleTTL      time.Duration `mapstructure:"idle_ttl"`
	ReapSchedule string        `mapstructure:"reap_schedule"`
	MaxSessions  int           `mapstructure:"max_sessions"`
}

// CacheConfig contains result-cache retention settings
type CacheConfig struct {
	SegmentTTL      time.Duration `mapstructure:"segment_ttl"`
	DubTTL          time.Duration `mapstructure:"dub_ttl"`
	MemoryTTL       time.Duration `mapstructure:"memory_ttl"`
	MemoryMaxSizeMB int64         `mapstructure:"memory_max_size_mb"`
}

// PlaybackConfig contains synchronizer loop settings
type PlaybackConfig struct {
	TickInterval   time.Duration `mapstructure:"tick_interval"`
	DriftThreshold float64       `mapstructure:"drift_threshold"`
	PreloadCount   int           `mapstructure:"preload_count"`
}
