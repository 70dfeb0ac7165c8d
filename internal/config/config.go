package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that decodes YAML duration strings like "30s"
// or "10m", which the yaml package does not do for the standard type.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the standard library representation
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config represents the application configuration
type Config struct {
	Server struct {
		Port           int      `yaml:"port"`
		Host           string   `yaml:"host"`
		ReadTimeout    Duration `yaml:"read_timeout"`
		WriteTimeout   Duration `yaml:"write_timeout"`
		IdleTimeout    Duration `yaml:"idle_timeout"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`

	Workers struct {
		PoolSize     int      `yaml:"pool_size"`
		QueueSize    int      `yaml:"queue_size"`
		RateLimit    int      `yaml:"rate_limit"` // requests per minute per site
		Timeout      Duration `yaml:"timeout"`
		QueueTimeout Duration `yaml:"queue_timeout"` // bound on waiting for queue admission
	} `yaml:"workers"`

	Cache struct {
		TTL             Duration `yaml:"ttl"`
		CleanupInterval Duration `yaml:"cleanup_interval"`
	} `yaml:"cache"`

	Source struct {
		BaseURL           string   `yaml:"base_url"`
		Timeout           Duration `yaml:"timeout"`
		MaxRetries        int      `yaml:"max_retries"`
		Country           string   `yaml:"country"`
		DescriptionFormat string   `yaml:"description_format"`
	} `yaml:"source"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`

		Adapters []AdapterConfig `yaml:"adapters"`
	} `yaml:"logging"`
}

// AdapterConfig configures one logging adapter
type AdapterConfig struct {
	Name    string         `yaml:"name"`
	Type    string         `yaml:"type"`
	Enabled bool           `yaml:"enabled"`
	Options map[string]any `yaml:"options"`
}

// expandEnvVars expands environment variables in a string using ${VAR} or $VAR syntax
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	s = re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	re2 := regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
	s = re2.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[1:]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	return s
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (ignore errors if file doesn't exist)
	_ = godotenv.Load()

	config := &Config{}

	// Set defaults
	config.Server.Port = 8000
	config.Server.Host = "0.0.0.0"
	config.Server.ReadTimeout = Duration(30 * time.Second)
	config.Server.WriteTimeout = Duration(30 * time.Second)
	config.Server.IdleTimeout = Duration(60 * time.Second)
	config.Server.AllowedOrigins = []string{"*"}

	config.Workers.PoolSize = 4
	config.Workers.QueueSize = 100
	config.Workers.RateLimit = 60
	config.Workers.Timeout = Duration(60 * time.Second)
	config.Workers.QueueTimeout = Duration(5 * time.Second)

	config.Cache.TTL = Duration(30 * time.Minute)
	config.Cache.CleanupInterval = Duration(10 * time.Minute)

	config.Source.Timeout = Duration(60 * time.Second)
	config.Source.MaxRetries = 3
	config.Source.Country = "usa"
	config.Source.DescriptionFormat = "markdown"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
	config.Logging.Output = "stdout"

	// Load from YAML file if it exists
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			yamlContent := expandEnvVars(string(data))

			if err := yaml.Unmarshal([]byte(yamlContent), config); err != nil {
				return nil, err
			}
		}
	}

	// Override with environment variables
	config.loadFromEnv()

	return config, nil
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		c.Server.Host = host
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	if logFormat := os.Getenv("LOG_FORMAT"); logFormat != "" {
		c.Logging.Format = logFormat
	}

	if baseURL := os.Getenv("SOURCE_BASE_URL"); baseURL != "" {
		c.Source.BaseURL = baseURL
	}

	if timeout := os.Getenv("SOURCE_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			c.Source.Timeout = Duration(d)
		}
	}

	if retries := os.Getenv("SOURCE_MAX_RETRIES"); retries != "" {
		if n, err := strconv.Atoi(retries); err == nil {
			c.Source.MaxRetries = n
		}
	}

	if country := os.Getenv("SOURCE_COUNTRY"); country != "" {
		c.Source.Country = country
	}

	if poolSize := os.Getenv("WORKERS_POOL_SIZE"); poolSize != "" {
		if n, err := strconv.Atoi(poolSize); err == nil {
			c.Workers.PoolSize = n
		}
	}

	if queueSize := os.Getenv("WORKERS_QUEUE_SIZE"); queueSize != "" {
		if n, err := strconv.Atoi(queueSize); err == nil {
			c.Workers.QueueSize = n
		}
	}

	if timeout := os.Getenv("WORKERS_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			c.Workers.Timeout = Duration(d)
		}
	}

	if queueTimeout := os.Getenv("WORKERS_QUEUE_TIMEOUT"); queueTimeout != "" {
		if d, err := time.ParseDuration(queueTimeout); err == nil {
			c.Workers.QueueTimeout = Duration(d)
		}
	}

	if ttl := os.Getenv("CACHE_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil {
			c.Cache.TTL = Duration(d)
		}
	}

	if interval := os.Getenv("CACHE_CLEANUP_INTERVAL"); interval != "" {
		if d, err := time.ParseDuration(interval); err == nil {
			c.Cache.CleanupInterval = Duration(d)
		}
	}
}
