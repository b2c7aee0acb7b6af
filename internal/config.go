package internal

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Pipeline defaults. All of them are runtime configuration, overridable per
// session; none are compiled into algorithm bodies.
const (
	DefaultWebThreshold     = 0.90
	DefaultDesktopThreshold = 0.87
	DefaultDebounce         = 300 * time.Millisecond
	DefaultAXTimeout        = 2 * time.Second
	DefaultVisualTimeout    = 5 * time.Second
)

// Config holds all runtime configuration for the documentation engine.
type Config struct {
	Detection DetectionConfig `mapstructure:"detection"`
	Resolver  ResolverConfig  `mapstructure:"resolver"`
	Redaction RedactionConfig `mapstructure:"redaction"`
	Capture   CaptureConfig   `mapstructure:"capture"`
	Vision    VisionConfig    `mapstructure:"vision"`
	Storage   StorageConfig   `mapstructure:"storage"`
}

// DetectionConfig controls step-boundary detection.
type DetectionConfig struct {
	WebThreshold     float64       `mapstructure:"web_threshold"`
	DesktopThreshold float64       `mapstructure:"desktop_threshold"`
	Debounce         time.Duration `mapstructure:"debounce"`
}

// Threshold returns the mode-appropriate similarity threshold.
func (d DetectionConfig) Threshold(mode Mode) float64 {
	if mode == ModeDesktop {
		return d.DesktopThreshold
	}
	return d.WebThreshold
}

// ResolverConfig controls element-resolution backend timeouts.
type ResolverConfig struct {
	AccessibilityTimeout time.Duration `mapstructure:"accessibility_timeout"`
	VisualTimeout        time.Duration `mapstructure:"visual_timeout"`
}

// RedactionConfig sets per-category approval defaults. Structural password
// matches default to approved; heuristic text matches default to pending
// review.
type RedactionConfig struct {
	AutoApprove map[string]bool `mapstructure:"auto_approve"`
}

// ApproveDefault returns the approval default for a redaction reason.
func (r RedactionConfig) ApproveDefault(reason RedactionReason) bool {
	if v, ok := r.AutoApprove[string(reason)]; ok {
		return v
	}
	return reason == ReasonPassword || reason == ReasonUserSpecified
}

// HeuristicApprove returns the approval default for a heuristic label match.
// Only an explicit auto_approve entry can pre-approve a guess; without one
// heuristic matches stay pending review regardless of category.
func (r RedactionConfig) HeuristicApprove(reason RedactionReason) bool {
	if v, ok := r.AutoApprove[string(reason)]; ok {
		return v
	}
	return false
}

// CaptureConfig configures the capture collaborator.
type CaptureConfig struct {
	// URL is the page to drive in web mode.
	URL string `mapstructure:"url"`
	// Command is the desktop screenshot command. "%s" is replaced by the
	// output PNG path; empty selects a platform default.
	Command string `mapstructure:"command"`
	// OutputDir receives per-step screenshot PNGs. Empty disables saving.
	OutputDir string `mapstructure:"output_dir"`
}

// VisionConfig configures the vision-oracle backend.
type VisionConfig struct {
	Model     string `mapstructure:"model"`
	MaxTokens int    `mapstructure:"max_tokens"`
	APIKey    string `mapstructure:"api_key"`
	CacheSize int    `mapstructure:"cache_size"`
}

// StorageConfig locates the durable session store.
type StorageConfig struct {
	Path string `mapstructure:"path"`
}

// LoadConfig reads configuration from the given file (optional), DOCUGEN_*
// environment variables, and built-in defaults, then validates it.
// Configuration errors are rejected here, before any capture begins.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("DOCUGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("detection.web_threshold", DefaultWebThreshold)
	v.SetDefault("detection.desktop_threshold", DefaultDesktopThreshold)
	v.SetDefault("detection.debounce", DefaultDebounce)
	v.SetDefault("resolver.accessibility_timeout", DefaultAXTimeout)
	v.SetDefault("resolver.visual_timeout", DefaultVisualTimeout)
	v.SetDefault("vision.model", "claude-sonnet-4-20250514")
	v.SetDefault("vision.max_tokens", 2048)
	v.SetDefault("vision.cache_size", 128)
	v.SetDefault("storage.path", "")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, &ConfigError{Field: "config", Value: path, Msg: err.Error()}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &ConfigError{Field: "config", Value: path, Msg: err.Error()}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges. Invalid thresholds and negative intervals
// are construction-time errors, never deferred to the capture loop.
func (c *Config) Validate() error {
	if c.Detection.WebThreshold < 0 || c.Detection.WebThreshold > 1 {
		return &ConfigError{Field: "detection.web_threshold", Value: c.Detection.WebThreshold, Msg: "must be in [0,1]"}
	}
	if c.Detection.DesktopThreshold < 0 || c.Detection.DesktopThreshold > 1 {
		return &ConfigError{Field: "detection.desktop_threshold", Value: c.Detection.DesktopThreshold, Msg: "must be in [0,1]"}
	}
	if c.Detection.Debounce < 0 {
		return &ConfigError{Field: "detection.debounce", Value: c.Detection.Debounce, Msg: "must not be negative"}
	}
	if c.Resolver.AccessibilityTimeout < 0 {
		return &ConfigError{Field: "resolver.accessibility_timeout", Value: c.Resolver.AccessibilityTimeout, Msg: "must not be negative"}
	}
	if c.Resolver.VisualTimeout < 0 {
		return &ConfigError{Field: "resolver.visual_timeout", Value: c.Resolver.VisualTimeout, Msg: "must not be negative"}
	}
	if c.Vision.MaxTokens < 0 {
		return &ConfigError{Field: "vision.max_tokens", Value: c.Vision.MaxTokens, Msg: "must not be negative"}
	}
	return nil
}
