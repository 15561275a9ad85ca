// Package config holds the process-wide configuration. It is read once at
// startup and treated as read-only afterwards.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Defaults mirror the service's production settings.
const (
	DefaultMinClipSeconds    = 30.0
	DefaultMaxClipSeconds    = 90.0
	DefaultHeuristicMinClip  = 30.0
	DefaultHeuristicMaxClip  = 60.0
	DefaultTargetClips       = 10
	DefaultOutputWidth       = 1080
	DefaultOutputHeight      = 1920
	DefaultOutputFPS         = 30
	DefaultFallbackDuration  = 300.0
	DefaultSceneThreshold    = 0.3
	DefaultRenderWorkers     = 2
	DefaultMaxUploadBytes    = 500 * 1024 * 1024
	DefaultListenAddr        = "127.0.0.1:8080"
	DefaultStoreBackend      = "memory"
	DefaultEncodeRetries     = 1
)

// DefaultImpactKeywords ranks transcript segments in content mode. The list
// is a configuration input so deployments can localize it.
var DefaultImpactKeywords = []string{
	"incredible", "surprising", "shocking", "revelation",
	"secret", "tip", "trick", "method", "strategy",
	"result", "transformation", "change", "success",
}

// AllowedFormats is the upload extension whitelist.
var AllowedFormats = []string{".mp4", ".mov", ".avi", ".webm", ".mkv"}

type Config struct {
	// Clip selection.
	MinClipSeconds   float64
	MaxClipSeconds   float64
	HeuristicMinClip float64
	HeuristicMaxClip float64
	TargetClips      int
	ImpactKeywords   []string
	SceneThreshold   float64
	FallbackDuration float64

	// Output format.
	OutputWidth  int
	OutputHeight int
	OutputFPS    int

	// Execution.
	RenderWorkers int
	EncodeRetries int

	// External tools.
	FFmpegPath   string
	FFprobePath  string
	WhisperBin   string
	WhisperModel string

	// Service.
	ListenAddr     string
	DataDir        string
	MaxUploadBytes int64
	StoreBackend   string // memory | sqlite | redis
	SQLitePath     string
	RedisURL       string
	LogLevel       string
}

// Load reads configuration from the environment, applying defaults for
// anything unset. Callers load .env beforehand if they want file-based
// config.
func Load() Config {
	cfg := Config{
		MinClipSeconds:   envFloat("VCUT_MIN_CLIP_SECONDS", DefaultMinClipSeconds),
		MaxClipSeconds:   envFloat("VCUT_MAX_CLIP_SECONDS", DefaultMaxClipSeconds),
		HeuristicMinClip: envFloat("VCUT_HEURISTIC_MIN_CLIP", DefaultHeuristicMinClip),
		HeuristicMaxClip: envFloat("VCUT_HEURISTIC_MAX_CLIP", DefaultHeuristicMaxClip),
		TargetClips:      envInt("VCUT_TARGET_CLIPS", DefaultTargetClips),
		SceneThreshold:   envFloat("VCUT_SCENE_THRESHOLD", DefaultSceneThreshold),
		FallbackDuration: envFloat("VCUT_FALLBACK_DURATION", DefaultFallbackDuration),

		OutputWidth:  envInt("VCUT_OUTPUT_WIDTH", DefaultOutputWidth),
		OutputHeight: envInt("VCUT_OUTPUT_HEIGHT", DefaultOutputHeight),
		OutputFPS:    envInt("VCUT_OUTPUT_FPS", DefaultOutputFPS),

		RenderWorkers: envInt("VCUT_RENDER_WORKERS", DefaultRenderWorkers),
		EncodeRetries: envInt("VCUT_ENCODE_RETRIES", DefaultEncodeRetries),

		FFmpegPath:   envDefault("VCUT_FFMPEG", "ffmpeg"),
		FFprobePath:  envDefault("VCUT_FFPROBE", "ffprobe"),
		WhisperBin:   envDefault("VCUT_WHISPER_BIN", ".cache/bin/whisper.cpp"),
		WhisperModel: envDefault("VCUT_WHISPER_MODEL", ".cache/models/ggml-base.bin"),

		ListenAddr:     envDefault("VCUT_LISTEN_ADDR", DefaultListenAddr),
		DataDir:        envDefault("VCUT_DATA_DIR", "data"),
		MaxUploadBytes: int64(envInt("VCUT_MAX_UPLOAD_BYTES", DefaultMaxUploadBytes)),
		StoreBackend:   envDefault("VCUT_STORE", DefaultStoreBackend),
		SQLitePath:     envDefault("VCUT_SQLITE_PATH", "data/jobs.db"),
		RedisURL:       os.Getenv("VCUT_REDIS_URL"),
		LogLevel:       envDefault("VCUT_LOG_LEVEL", "info"),
	}
	if raw := os.Getenv("VCUT_IMPACT_KEYWORDS"); raw != "" {
		for _, kw := range strings.Split(raw, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				cfg.ImpactKeywords = append(cfg.ImpactKeywords, kw)
			}
		}
	}
	if len(cfg.ImpactKeywords) == 0 {
		cfg.ImpactKeywords = append([]string(nil), DefaultImpactKeywords...)
	}
	return cfg
}

func (c Config) Validate() error {
	if c.MinClipSeconds <= 0 {
		return errors.New("min clip duration must be > 0")
	}
	if c.MaxClipSeconds < c.MinClipSeconds {
		return errors.New("max clip duration must be >= min clip duration")
	}
	if c.HeuristicMinClip < c.MinClipSeconds || c.HeuristicMaxClip > c.MaxClipSeconds {
		return errors.New("heuristic clip bounds must sit within the global clip bounds")
	}
	if c.HeuristicMaxClip < c.HeuristicMinClip {
		return errors.New("heuristic max clip must be >= heuristic min clip")
	}
	if c.TargetClips <= 0 {
		return errors.New("target clips must be > 0")
	}
	if c.OutputWidth <= 0 || c.OutputHeight <= 0 {
		return errors.New("output resolution must be positive")
	}
	if c.OutputFPS <= 0 {
		return errors.New("output fps must be > 0")
	}
	if c.FallbackDuration <= 0 {
		return errors.New("fallback duration must be > 0")
	}
	if c.RenderWorkers <= 0 {
		return errors.New("render workers must be > 0")
	}
	if c.EncodeRetries < 0 {
		return errors.New("encode retries must be >= 0")
	}
	switch c.StoreBackend {
	case "memory", "sqlite", "redis":
	default:
		return fmt.Errorf("unknown store backend %q", c.StoreBackend)
	}
	if c.StoreBackend == "redis" && c.RedisURL == "" {
		return errors.New("VCUT_REDIS_URL is required for the redis store")
	}
	return nil
}

// FormatAllowed reports whether the file extension is accepted for upload.
func FormatAllowed(ext string) bool {
	ext = strings.ToLower(ext)
	for _, allowed := range AllowedFormats {
		if ext == allowed {
			return true
		}
	}
	return false
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
