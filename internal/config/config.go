package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config defines the runtime configuration of the tracker.
type Config struct {
	Host        string
	Port        int
	CameraURL   string
	CapturesDir string

	// Detection
	TargetClass         string
	ConfidenceThreshold float64
	IoUThreshold        float64
	ModelPath           string
	ModelConfigPath     string

	// Event retention
	MaxEvents int
	TrimTo    int

	// HTTP surface
	StatsInterval time.Duration // push cadence of the /stats/stream SSE feed
	JPEGQuality   int
}

// Default returns the baseline configuration, aligned with the original
// tracker's constants.
func Default() Config {
	return Config{
		Host:                "0.0.0.0",
		Port:                5001,
		CameraURL:           "",
		CapturesDir:         "./captures",
		TargetClass:         "cat",
		ConfidenceThreshold: 0.6,
		IoUThreshold:        0.45,
		ModelPath:           "./models/frozen_inference_graph.pb",
		ModelConfigPath:     "./models/ssd_mobilenet_v1_coco_2017_11_17.pbtxt",
		MaxEvents:           1000,
		TrimTo:              500,
		StatsInterval:       2 * time.Second,
		JPEGQuality:         80,
	}
}

// Load builds the configuration from defaults, an optional .env file, and
// environment variables, then validates it. Flags applied by the caller on
// top of the result take final precedence.
func Load() (Config, error) {
	// A missing .env file is fine; explicit environment still applies.
	_ = godotenv.Load()

	cfg := Default()
	cfg.Host = getEnv("HOST", cfg.Host)
	cfg.Port = getEnvAsInt("PORT", cfg.Port)
	cfg.CameraURL = getEnv("CAMERA_URL", cfg.CameraURL)
	cfg.CapturesDir = getEnv("CAPTURES_DIR", cfg.CapturesDir)
	cfg.TargetClass = getEnv("TARGET_CLASS", cfg.TargetClass)
	cfg.ConfidenceThreshold = getEnvAsFloat("CONFIDENCE_THRESHOLD", cfg.ConfidenceThreshold)
	cfg.IoUThreshold = getEnvAsFloat("IOU_THRESHOLD", cfg.IoUThreshold)
	cfg.ModelPath = getEnv("MODEL_PATH", cfg.ModelPath)
	cfg.ModelConfigPath = getEnv("MODEL_CONFIG_PATH", cfg.ModelConfigPath)
	cfg.MaxEvents = getEnvAsInt("MAX_EVENTS", cfg.MaxEvents)
	cfg.TrimTo = getEnvAsInt("TRIM_TO", cfg.TrimTo)
	cfg.JPEGQuality = getEnvAsInt("JPEG_QUALITY", cfg.JPEGQuality)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and cross-field constraints.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence threshold out of range: %v", c.ConfidenceThreshold)
	}
	if c.IoUThreshold < 0 || c.IoUThreshold > 1 {
		return fmt.Errorf("iou threshold out of range: %v", c.IoUThreshold)
	}
	if c.TrimTo < 1 || c.MaxEvents < c.TrimTo {
		return fmt.Errorf("invalid retention thresholds: max_events=%d trim_to=%d", c.MaxEvents, c.TrimTo)
	}
	if c.TargetClass == "" {
		return fmt.Errorf("target class must not be empty")
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("invalid jpeg quality: %d", c.JPEGQuality)
	}
	return nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
