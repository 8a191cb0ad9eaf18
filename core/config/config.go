// Package config loads paperback settings from defaults, an optional YAML
// file and PAPERBACK_* environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/gaurav-prasanna/paperback/catalog"
	"github.com/gaurav-prasanna/paperback/core/checkpoint"
	"github.com/gaurav-prasanna/paperback/core/llm"
	"github.com/gaurav-prasanna/paperback/core/logging"
	"github.com/gaurav-prasanna/paperback/core/policy"
	"github.com/gaurav-prasanna/paperback/core/render"
	"github.com/gaurav-prasanna/paperback/core/segment"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up when no path is given.
const FileName = "paperback.yaml"

// ErrMissingAPIKey is returned when a command needs the language model and
// no API key is configured.
var ErrMissingAPIKey = errors.New("no LLM API key configured (set llm.api_key or OPENAI_API_KEY)")

// Config is the full paperback configuration.
type Config struct {
	OutputDir  string            `mapstructure:"output_dir" yaml:"output_dir"`
	Workbook   string            `mapstructure:"workbook" yaml:"workbook"`
	Workers    int               `mapstructure:"workers" yaml:"workers"`
	Checkpoint checkpoint.Config `mapstructure:"checkpoint" yaml:"checkpoint"`
	Catalog    Catalog           `mapstructure:"catalog" yaml:"catalog"`
	LLM        LLM               `mapstructure:"llm" yaml:"llm"`
	Render     render.Layout     `mapstructure:"render" yaml:"render"`
	Segment    segment.Config    `mapstructure:"segment" yaml:"segment"`
	Policy     policy.Config     `mapstructure:"policy" yaml:"policy"`
	Log        logging.Config    `mapstructure:"log" yaml:"log"`
}

// Catalog configures catalog access.
type Catalog struct {
	// TextURL holds one %d verb for the book id.
	TextURL   string        `mapstructure:"text_url" yaml:"text_url"`
	SearchURL string        `mapstructure:"search_url" yaml:"search_url"`
	UserAgent string        `mapstructure:"user_agent" yaml:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Retries   uint          `mapstructure:"retries" yaml:"retries"`
	// Metadata toggles the Open Library, Google Books, Wikipedia and
	// Wikidata lookups.
	Metadata bool `mapstructure:"metadata" yaml:"metadata"`
}

// LLM configures the language model.
type LLM struct {
	// APIKey may reference the environment as ${VAR}.
	APIKey            string      `mapstructure:"api_key" yaml:"api_key"`
	BaseURL           string      `mapstructure:"base_url" yaml:"base_url"`
	Model             string      `mapstructure:"model" yaml:"model"`
	RequestsPerMinute int         `mapstructure:"requests_per_minute" yaml:"requests_per_minute"`
	MaxTokens         int         `mapstructure:"max_tokens" yaml:"max_tokens"`
	ExcerptWords      int         `mapstructure:"excerpt_words" yaml:"excerpt_words"`
	Prompts           llm.Prompts `mapstructure:"prompts" yaml:"prompts"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		OutputDir:  ".",
		Workbook:   "paperback.xlsx",
		Workers:    4,
		Checkpoint: checkpoint.Config{Backend: checkpoint.BackendFile, Path: ".paperback"},
		Catalog: Catalog{
			TextURL:   catalog.DefaultTextURL,
			SearchURL: catalog.DefaultSearchURL,
			UserAgent: "paperback/1.0",
			Timeout:   30 * time.Second,
			Retries:   3,
			Metadata:  true,
		},
		LLM: LLM{
			APIKey:            "${OPENAI_API_KEY}",
			Model:             "gpt-4o-mini",
			RequestsPerMinute: 60,
			MaxTokens:         600,
			ExcerptWords:      300,
			Prompts:           llm.DefaultPrompts(),
		},
		Render:  render.DefaultLayout(),
		Segment: segment.DefaultConfig(),
		Policy:  policy.DefaultConfig(),
		Log:     logging.DefaultConfig(),
	}
}

// Load reads the configuration. path may be empty, in which case
// ./paperback.yaml and $HOME/.config/paperback/paperback.yaml are tried.
// A missing file is not an error unless path names it.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	defaults, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("encoding defaults: %w", err)
	}
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	v.SetEnvPrefix("PAPERBACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, ".yaml"))
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/paperback")
	}
	if err := v.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.resolve()
	return &cfg, nil
}

func (c *Config) resolve() {
	for _, s := range []*string{
		&c.OutputDir, &c.Workbook, &c.Checkpoint.Path,
		&c.LLM.APIKey, &c.LLM.BaseURL,
		&c.Render.FontDir, &c.Render.WordTemplate, &c.Log.File,
	} {
		*s = ResolveEnvVars(*s)
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
}

// RequireLLM reports ErrMissingAPIKey when no API key is set.
func (c *Config) RequireLLM() error {
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		return ErrMissingAPIKey
	}
	return nil
}

var envRef = regexp.MustCompile(`\$\{([^}]+)\}`)

// ResolveEnvVars expands ${VAR} references in value.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	return envRef.ReplaceAllStringFunc(value, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})
}

// WriteDefault writes the default configuration to path. It refuses to
// overwrite an existing file.
func WriteDefault(path string) error {
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	header := []byte(`# paperback configuration
# Values of the form ${VAR} are read from the environment.
# Any key can be overridden with PAPERBACK_<SECTION>_<KEY>, e.g. PAPERBACK_LLM_MODEL.

`)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	if _, err := f.Write(append(header, data...)); err != nil {
		f.Close()
		return fmt.Errorf("writing config file: %w", err)
	}
	return f.Close()
}
