package config

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/csheth/arxivsocial/internal/papers"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

const (
	envAPIURL   = "ARXIVSOCIAL_API_URL"
	envLogFile  = "ARXIVSOCIAL_LOG_FILE"
	envPageSize = "ARXIVSOCIAL_PAGE_SIZE"
)

type Config struct {
	APIURL         string   `yaml:"api_url"`
	PageSize       int      `yaml:"page_size"`
	RequestTimeout string   `yaml:"request_timeout"`
	AbsURLTemplate string   `yaml:"abs_url_template"`
	PDFURLTemplate string   `yaml:"pdf_url_template"`
	PDFTimeout     string   `yaml:"pdf_timeout"`
	Categories     []string `yaml:"categories"`
	LogFile        string   `yaml:"log_file,omitempty"`
}

// Links returns the templates used for abstract and PDF URLs.
func (c *Config) Links() papers.Links {
	return papers.Links{AbsTemplate: c.AbsURLTemplate, PDFTemplate: c.PDFURLTemplate}
}

// RequestDuration is the API timeout; zero disables it.
func (c *Config) RequestDuration() time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(c.RequestTimeout))
	if err != nil || d < 0 {
		return 0
	}
	return d
}

func (c *Config) PDFDuration() time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(c.PDFTimeout))
	if err != nil || d <= 0 {
		return 90 * time.Second
	}
	return d
}

// LogPath resolves where the interactive UI writes its log.
func (c *Config) LogPath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return filepath.Join(xdg.StateHome, "arxivsocial", "arxivsocial.log")
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "arxivsocial", "config.yaml")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

// Option adjusts the configuration after the file and environment are
// applied and before validation.
type Option func(*Config)

// WithAPIURL overrides the API base URL when url is not empty.
func WithAPIURL(url string) Option {
	return func(c *Config) {
		if url = strings.TrimSpace(url); url != "" {
			c.APIURL = url
		}
	}
}

// Load layers the embedded defaults, the YAML file at path and environment
// overrides, then opts. An empty path reads the default location and
// tolerates its absence; an explicit path must exist.
func Load(path string, opts ...Option) (*Config, error) {
	cfg, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv(envAPIURL)); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(os.Getenv(envLogFile)); v != "" {
		cfg.LogFile = v
	}
	if v := strings.TrimSpace(os.Getenv(envPageSize)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s must be an integer, got %q", envPageSize, v)
		}
		cfg.PageSize = n
	}
	return nil
}

func validate(cfg *Config) error {
	if _, err := papers.NewClient(cfg.APIURL, nil); err != nil {
		return fmt.Errorf("api_url: %w", err)
	}
	if cfg.PageSize <= 0 {
		return fmt.Errorf("page_size must be positive, got %d", cfg.PageSize)
	}
	if v := strings.TrimSpace(cfg.RequestTimeout); v != "" {
		if d, err := time.ParseDuration(v); err != nil || d < 0 {
			return fmt.Errorf("request_timeout: invalid duration %q", cfg.RequestTimeout)
		}
	}
	for name, tmpl := range map[string]string{"abs_url_template": cfg.AbsURLTemplate, "pdf_url_template": cfg.PDFURLTemplate} {
		if tmpl != "" && !strings.Contains(tmpl, "{id}") {
			return fmt.Errorf("%s must contain {id}, got %q", name, tmpl)
		}
	}
	cleaned := cfg.Categories[:0]
	for _, c := range cfg.Categories {
		if c = strings.TrimSpace(c); c != "" {
			cleaned = append(cleaned, c)
		}
	}
	cfg.Categories = cleaned
	return nil
}
