package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vango-dev/routekit/internal/errors"
	"github.com/vango-dev/routekit/pkg/convert"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "routekit.json"

	// DefaultCulture is the BCP-47 tag used for numeric and date parsing.
	DefaultCulture = "en-US"

	// DefaultTimeZone is the IANA zone date-time parameters are parsed in.
	DefaultTimeZone = "UTC"

	// DefaultNamespace is the Prometheus namespace for routing metrics.
	DefaultNamespace = "routekit"

	// DefaultTracerName is the OpenTelemetry tracer name.
	DefaultTracerName = "routekit"

	// DefaultManifest is the default route manifest path.
	DefaultManifest = "routes.yaml"
)

// Config represents the complete routekit.json configuration.
type Config struct {
	// Manifest is the path to the route manifest, relative to the config file.
	Manifest string `json:"manifest,omitempty"`

	// Culture controls how query parameter values are parsed.
	Culture CultureConfig `json:"culture,omitempty"`

	// Authorization contains the route authorization rule.
	Authorization AuthorizationConfig `json:"authorization,omitempty"`

	// Metrics contains Prometheus settings.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Tracing contains OpenTelemetry settings.
	Tracing TracingConfig `json:"tracing,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// CultureConfig selects the cultures used when converting query parameters.
type CultureConfig struct {
	// Numeric is the BCP-47 tag for number parsing (e.g., "de-DE").
	Numeric string `json:"numeric,omitempty"`

	// DateTime is the BCP-47 tag for date and time parsing.
	DateTime string `json:"dateTime,omitempty"`

	// TimeZone is the IANA zone date-times without an offset are read in.
	TimeZone string `json:"timeZone,omitempty"`
}

// AuthorizationConfig contains the route authorization rule.
type AuthorizationConfig struct {
	// Expr is an expression evaluated against route metadata.
	// An empty expression authorizes every route.
	Expr string `json:"expr,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Namespace prefixes every metric name.
	Namespace string `json:"namespace,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	// TracerName is the instrumentation name passed to otel.Tracer.
	TracerName string `json:"tracerName,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Manifest: DefaultManifest,
		Culture: CultureConfig{
			Numeric:  DefaultCulture,
			DateTime: DefaultCulture,
			TimeZone: DefaultTimeZone,
		},
		Metrics: MetricsConfig{
			Namespace: DefaultNamespace,
		},
		Tracing: TracingConfig{
			TracerName: DefaultTracerName,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for routekit.json in the directory.
func Load(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	return LoadFile(configPath)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("R020").
				WithDetail("No routekit.json found in " + filepath.Dir(path))
		}
		return nil, errors.New("R021").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("R021").
			WithDetail("Failed to parse routekit.json: " + err.Error())
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// LoadOrDefault loads routekit.json from dir, falling back to defaults
// when the file does not exist. Any other failure is returned.
func LoadOrDefault(dir string) (*Config, error) {
	if !Exists(dir) {
		cfg := New()
		cfg.configPath = filepath.Join(dir, ConfigFileName)
		return cfg, nil
	}
	return Load(dir)
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("R021").Wrap(err)
	}

	// Add newline at end of file
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("R021").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Manifest == "" {
		c.Manifest = DefaultManifest
	}

	// Culture
	if c.Culture.Numeric == "" {
		c.Culture.Numeric = DefaultCulture
	}
	if c.Culture.DateTime == "" {
		c.Culture.DateTime = DefaultCulture
	}
	if c.Culture.TimeZone == "" {
		c.Culture.TimeZone = DefaultTimeZone
	}

	// Telemetry
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = DefaultTracerName
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := c.ParseOptions(); err != nil {
		return err
	}
	if strings.ContainsAny(c.Metrics.Namespace, " -.") {
		return errors.New("R022").
			WithDetailf("metrics.namespace %q must be a valid Prometheus name", c.Metrics.Namespace)
	}
	return nil
}

// ParseOptions converts the culture section into converter options.
func (c *Config) ParseOptions() (convert.Options, error) {
	numeric, err := convert.ParseCulture(c.Culture.Numeric)
	if err != nil {
		return convert.Options{}, errors.New("R022").
			WithDetailf("culture.numeric: %v", err)
	}
	dateTime, err := convert.ParseCulture(c.Culture.DateTime)
	if err != nil {
		return convert.Options{}, errors.New("R022").
			WithDetailf("culture.dateTime: %v", err)
	}
	loc, err := time.LoadLocation(c.Culture.TimeZone)
	if err != nil {
		return convert.Options{}, errors.New("R022").
			WithDetailf("culture.timeZone: %v", err)
	}
	return convert.Options{
		NumericCulture:  numeric,
		DateTimeCulture: dateTime,
		Location:        loc,
	}, nil
}

// ManifestPath returns the absolute path to the route manifest.
func (c *Config) ManifestPath() string {
	path := c.Manifest
	if path == "" {
		path = DefaultManifest
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	path := filepath.Join(dir, ConfigFileName)
	_, err := os.Stat(path)
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing routekit.json, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("R020").
				WithDetail("No routekit.json found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}
