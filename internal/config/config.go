package config

import (
	_ "embed"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed overlay.yaml
var overlayYAML []byte

// Display modes.
const (
	DisplayWindow = "window"
	DisplayWeb    = "web"
	DisplayNone   = "none"
)

type Config struct {
	PoseService PoseServiceConfig
	Capture     CaptureConfig
	Display     DisplayConfig
	Web         WebConfig
	Database    DatabaseConfig
	Log         LogConfig
	Overlay     OverlayConfig
}

type PoseServiceConfig struct {
	URL       string // defaults to http://localhost:8001
	TimeoutMS int    // per request timeout, defaults to 2000
}

type CaptureConfig struct {
	Device     int    // camera index for the webcam device (default 0)
	Dir        string // replay images from this directory instead of a camera
	IntervalMS int    // tick interval in milliseconds (default 10)
	Mirror     bool   // flip frames horizontally (default true)
}

type DisplayConfig struct {
	Mode string // window, web or none
}

type WebConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string // CORS origins besides localhost
}

type DatabaseConfig struct {
	URL          string // PostgreSQL connection URL, journal disabled when empty
	MaxOpenConns int    // Maximum open connections (default 5)
	MaxIdleConns int    // Maximum idle connections (default 2)
}

type LogConfig struct {
	Level string // logrus level name (default info)
	File  string // optional rotating log file
}

type OverlayConfig struct {
	Label    LabelStyle    `yaml:"label"`
	Skeleton SkeletonStyle `yaml:"skeleton"`
	Window   WindowConfig  `yaml:"window"`
}

type LabelStyle struct {
	X             int    `yaml:"x"`
	Y             int    `yaml:"y"`
	Scale         int    `yaml:"scale"`
	OutlinePasses int    `yaml:"outline_passes"`
	Fill          string `yaml:"fill"`
	Border        string `yaml:"border"`
}

type SkeletonStyle struct {
	Enabled       bool       `yaml:"enabled"`
	JointRadius   int        `yaml:"joint_radius"`
	LineWidth     float64    `yaml:"line_width"`
	Line          string     `yaml:"line"`
	Joint         string     `yaml:"joint"`
	MinVisibility float64    `yaml:"min_visibility"`
	Connections   [][]string `yaml:"connections"`
}

type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// envInt reads an environment variable and parses it as a non-negative integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return n
	}
	return defaultVal
}

// envPositiveInt is envInt that also rejects zero.
func envPositiveInt(key string, defaultVal int) int {
	if n := envInt(key, defaultVal); n > 0 {
		return n
	}
	return defaultVal
}

func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

// envList splits a comma separated variable, dropping empty items.
func envList(key string) []string {
	var out []string
	for item := range strings.SplitSeq(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// envBool accepts the strconv.ParseBool spellings and falls back to the default.
func envBool(key string, defaultVal bool) bool {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return defaultVal
}

// DefaultOverlay returns the embedded render style.
func DefaultOverlay() OverlayConfig {
	var overlay OverlayConfig
	if err := yaml.Unmarshal(overlayYAML, &overlay); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded overlay.yaml: " + err.Error())
	}
	return overlay
}

func Load() *Config {
	mode := strings.ToLower(envString("DISPLAY_MODE", DisplayWindow))
	switch mode {
	case DisplayWindow, DisplayWeb, DisplayNone:
	default:
		mode = DisplayWindow
	}

	return &Config{
		PoseService: PoseServiceConfig{
			URL:       os.Getenv("POSE_SERVICE_URL"),
			TimeoutMS: envPositiveInt("POSE_SERVICE_TIMEOUT_MS", 2000),
		},
		Capture: CaptureConfig{
			Device:     envInt("CAPTURE_DEVICE", 0),
			Dir:        os.Getenv("CAPTURE_DIR"),
			IntervalMS: envPositiveInt("TICK_INTERVAL_MS", 10),
			Mirror:     envBool("CAPTURE_MIRROR", true),
		},
		Display: DisplayConfig{
			Mode: mode,
		},
		Web: WebConfig{
			Host:           envString("WEB_HOST", "127.0.0.1"),
			Port:           envPositiveInt("WEB_PORT", 8080),
			AllowedOrigins: envList("WEB_ALLOWED_ORIGINS"),
		},
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: envPositiveInt("DATABASE_MAX_OPEN_CONNS", 5),
			MaxIdleConns: envPositiveInt("DATABASE_MAX_IDLE_CONNS", 2),
		},
		Log: LogConfig{
			Level: envString("LOG_LEVEL", "info"),
			File:  os.Getenv("LOG_FILE"),
		},
		Overlay: DefaultOverlay(),
	}
}
