package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vango-dev/alerts/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "alerts.json"

	// EnvConfigPath names an alternative config file for the serve command.
	EnvConfigPath = "ALERTS_CONFIG"

	// DefaultPort is the default server port.
	DefaultPort = 3000

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultTransport is the default browser stream transport.
	DefaultTransport = "websocket"

	// DefaultBufferSize is the default per-stream update buffer.
	DefaultBufferSize = 64

	// DefaultHistorySize is the default number of recent patch frames kept
	// for reconnecting WebSocket clients.
	DefaultHistorySize = 256

	// DefaultMetricsPath is the default Prometheus scrape path.
	DefaultMetricsPath = "/metrics"

	// DefaultNamespace is the default metrics namespace and service name.
	DefaultNamespace = "alerts"

	// DefaultStylesheet is Bootstrap, which styles the alert classes.
	DefaultStylesheet = "https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css"
)

// Transports accepted by stream.transport.
const (
	TransportWebSocket = "websocket"
	TransportSSE       = "sse"
)

// Config represents the complete alerts.json configuration.
type Config struct {
	// Server contains HTTP listener configuration.
	Server ServerConfig `json:"server"`

	// Stream contains browser patch stream configuration.
	Stream StreamConfig `json:"stream"`

	// Page contains the served HTML shell configuration.
	Page PageConfig `json:"page"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics"`

	// Tracing contains OpenTelemetry configuration.
	Tracing TracingConfig `json:"tracing"`

	// Log contains logging configuration.
	Log LogConfig `json:"log"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP listener settings.
type ServerConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty"`

	// ShutdownTimeout bounds graceful shutdown (e.g., "10s").
	ShutdownTimeout string `json:"shutdownTimeout,omitempty"`

	// ReadTimeout bounds reading request headers (e.g., "15s").
	ReadTimeout string `json:"readTimeout,omitempty"`
}

// StreamConfig contains browser patch stream settings.
type StreamConfig struct {
	// Transport is "websocket" or "sse".
	Transport string `json:"transport,omitempty"`

	// BufferSize is the number of updates queued per stream before the
	// stream is dropped.
	BufferSize int `json:"bufferSize,omitempty"`

	// HistorySize is the number of recent patch frames kept so a
	// reconnecting WebSocket client can be replayed what it missed.
	HistorySize int `json:"historySize,omitempty"`

	// PingInterval is the WebSocket keepalive period (e.g., "30s").
	PingInterval string `json:"pingInterval,omitempty"`
}

// PageConfig contains settings for the served HTML shell.
type PageConfig struct {
	// Title is the document title.
	Title string `json:"title,omitempty"`

	// Stylesheets are linked in the head, in order.
	Stylesheets []string `json:"stylesheets,omitempty"`

	// Scripts are deferred script URLs loaded after the stylesheets.
	Scripts []string `json:"scripts,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled registers the metrics observer and the scrape route.
	Enabled bool `json:"enabled"`

	// Path is the scrape route.
	Path string `json:"path,omitempty"`

	// Namespace prefixes every metric name.
	Namespace string `json:"namespace,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	// Enabled installs the tracing observer.
	Enabled bool `json:"enabled"`

	// ServiceName is reported as the service.name resource attribute.
	ServiceName string `json:"serviceName,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of "debug", "info", "warn" or "error".
	Level string `json:"level,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			ShutdownTimeout: "10s",
			ReadTimeout:     "15s",
		},
		Stream: StreamConfig{
			Transport:    DefaultTransport,
			BufferSize:   DefaultBufferSize,
			HistorySize:  DefaultHistorySize,
			PingInterval: "30s",
		},
		Page: PageConfig{
			Title:       "Alerts",
			Stylesheets: []string{DefaultStylesheet},
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Path:      DefaultMetricsPath,
			Namespace: DefaultNamespace,
		},
		Tracing: TracingConfig{
			ServiceName: DefaultNamespace,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for alerts.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E101").
				WithDetail("No " + filepath.Base(path) + " found in " + filepath.Dir(path)).
				WithSuggestion("Run 'alerts config init' to create one")
		}
		return nil, errors.New("E102").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E102").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			WithSuggestion("Check that the file is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
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
		return errors.New("E108").Wrap(err)
	}

	// Add newline at end of file
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E108").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	d := New()

	if c.Server.Host == "" {
		c.Server.Host = d.Server.Host
	}
	if c.Server.Port == 0 {
		c.Server.Port = d.Server.Port
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = d.Server.ShutdownTimeout
	}
	if c.Server.ReadTimeout == "" {
		c.Server.ReadTimeout = d.Server.ReadTimeout
	}

	if c.Stream.Transport == "" {
		c.Stream.Transport = d.Stream.Transport
	}
	c.Stream.Transport = strings.ToLower(c.Stream.Transport)
	if c.Stream.BufferSize == 0 {
		c.Stream.BufferSize = d.Stream.BufferSize
	}
	if c.Stream.HistorySize == 0 {
		c.Stream.HistorySize = d.Stream.HistorySize
	}
	if c.Stream.PingInterval == "" {
		c.Stream.PingInterval = d.Stream.PingInterval
	}

	if c.Page.Title == "" {
		c.Page.Title = d.Page.Title
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = d.Metrics.Path
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = d.Metrics.Namespace
	}

	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = d.Tracing.ServiceName
	}

	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	c.Log.Level = strings.ToLower(c.Log.Level)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errors.New("E103").
			WithField("server.port").
			WithDetail("got " + strconv.Itoa(c.Server.Port))
	}

	switch c.Stream.Transport {
	case TransportWebSocket, TransportSSE:
	default:
		return errors.New("E104").
			WithField("stream.transport").
			WithDetail(strconv.Quote(c.Stream.Transport) + " is not a known transport").
			WithSuggestion(`Use "websocket" or "sse"`)
	}

	if c.Stream.BufferSize < 1 {
		return errors.New("E105").
			WithField("stream.bufferSize").
			WithDetail("got " + strconv.Itoa(c.Stream.BufferSize))
	}
	if c.Stream.HistorySize < 1 {
		return errors.New("E105").
			WithField("stream.historySize").
			WithDetail("got " + strconv.Itoa(c.Stream.HistorySize))
	}

	durations := []struct {
		field string
		value string
	}{
		{"server.shutdownTimeout", c.Server.ShutdownTimeout},
		{"server.readTimeout", c.Server.ReadTimeout},
		{"stream.pingInterval", c.Stream.PingInterval},
	}
	for _, d := range durations {
		if _, err := parsePositive(d.field, d.value); err != nil {
			return err
		}
	}

	if _, err := c.SlogLevel(); err != nil {
		return err
	}

	if c.Metrics.Enabled && !validMetricsPath(c.Metrics.Path) {
		return errors.New("E109").
			WithField("metrics.path").
			WithDetail(strconv.Quote(c.Metrics.Path) + " is not a usable route")
	}

	return nil
}

// reservedPaths are routes the server always mounts.
var reservedPaths = []string{"/", "/alerts", "/healthz"}

func validMetricsPath(p string) bool {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "/_alerts") {
		return false
	}
	for _, r := range reservedPaths {
		if p == r {
			return false
		}
	}
	return true
}

func parsePositive(field, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, errors.New("E106").WithField(field).Wrap(err)
	}
	if d <= 0 {
		return 0, errors.New("E106").WithField(field).WithDetail("got " + value)
	}
	return d, nil
}

// Address returns the host:port the server listens on.
func (c *Config) Address() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// URL returns the base URL of the server.
func (c *Config) URL() string {
	return "http://" + c.Address()
}

// ShutdownTimeout returns the parsed graceful shutdown timeout.
func (c *Config) ShutdownTimeout() time.Duration {
	return c.durationOr(c.Server.ShutdownTimeout, 10*time.Second)
}

// ReadTimeout returns the parsed header read timeout.
func (c *Config) ReadTimeout() time.Duration {
	return c.durationOr(c.Server.ReadTimeout, 15*time.Second)
}

// PingInterval returns the parsed WebSocket keepalive period.
func (c *Config) PingInterval() time.Duration {
	return c.durationOr(c.Stream.PingInterval, 30*time.Second)
}

func (c *Config) durationOr(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// SlogLevel maps log.level onto a slog.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, errors.New("E107").
			WithField("log.level").
			WithDetail(strconv.Quote(c.Log.Level) + " is not a known level")
	}
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// Resolve finds the config for the serve command. An explicit path wins,
// then $ALERTS_CONFIG, then alerts.json in dir. When none of them names an
// existing file the defaults are returned.
func Resolve(explicit, dir string) (*Config, error) {
	if explicit != "" {
		return LoadFile(explicit)
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return LoadFile(env)
	}
	if Exists(dir) {
		return Load(dir)
	}
	return New(), nil
}
