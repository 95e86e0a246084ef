package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/weberc2/reels/pkg/types"
	"gopkg.in/yaml.v2"
)

const (
	envVarPrefix = "REELS"
	appName      = "reels"

	defaultRegion           = "us-east-1"
	defaultContainer        = "videos/"
	defaultOperationTimeout = 30 * time.Second
	defaultRefreshInterval  = time.Minute
	defaultProfilesTable    = "Profiles"
)

type Config struct {
	Region           string   `envconfig:"REGION"            yaml:"region"`
	Bucket           string   `envconfig:"BUCKET"            yaml:"bucket"`
	Container        string   `envconfig:"CONTAINER"         yaml:"container"`
	CacheDir         string   `envconfig:"CACHE_DIR"         yaml:"cacheDir"`
	OperationTimeout Duration `envconfig:"OPERATION_TIMEOUT" yaml:"operationTimeout"`
	RefreshInterval  Duration `envconfig:"REFRESH_INTERVAL"  yaml:"refreshInterval"`
	AuthBaseURL      BaseURL  `envconfig:"AUTH_BASE_URL"     yaml:"authBaseURL"`
	ProfilesTable    string   `envconfig:"PROFILES_TABLE"    yaml:"profilesTable"`
	FunctionPrefix   string   `envconfig:"FUNCTION_PREFIX"   yaml:"functionPrefix"`
}

func configFile() string {
	if configFile := os.Getenv(envVarPrefix + "_CONFIG_FILE"); configFile != "" {
		return configFile
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}
	return filepath.Join(home, ".config", appName+".yaml")
}

// LoadConfig reads the optional config file and overlays environment
// variables on top of it.
func LoadConfig() (*Config, error) {
	return loadConfig(configFile())
}

func loadConfig(configFile string) (*Config, error) {
	var c Config
	data, err := os.ReadFile(configFile)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	} else if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return nil, fmt.Errorf("unmarshaling config file: %w", err)
	}

	if err := envconfig.Process(envVarPrefix, &c); err != nil {
		return nil, fmt.Errorf("parsing environment variables: %w", err)
	}

	if err := c.setDefaults(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) setDefaults() error {
	if c.Region == "" {
		c.Region = defaultRegion
	}
	if c.Container = types.NormalizeContainer(c.Container); c.Container == "" {
		c.Container = defaultContainer
	}
	if c.OperationTimeout == 0 {
		c.OperationTimeout = Duration(defaultOperationTimeout)
	}
	if c.RefreshInterval == 0 {
		c.RefreshInterval = Duration(defaultRefreshInterval)
	}
	if c.ProfilesTable == "" {
		c.ProfilesTable = defaultProfilesTable
	}
	if c.CacheDir == "" {
		cacheDir, err := os.UserCacheDir()
		if err != nil {
			return fmt.Errorf("finding default cache directory: %w", err)
		}
		c.CacheDir = filepath.Join(cacheDir, appName, "videos")
	}
	return nil
}

// Validate checks the fields every command needs. Commands that need more
// call the narrower validators below.
func (c *Config) Validate() error {
	return c.require(func() (string, string) {
		if c.Region == "" {
			return "region", "REGION"
		}
		if c.CacheDir == "" {
			return "cacheDir", "CACHE_DIR"
		}
		return "", ""
	})
}

func (c *Config) ValidateStorage() error {
	if err := c.Validate(); err != nil {
		return err
	}
	return c.require(func() (string, string) {
		if c.Bucket == "" {
			return "bucket", "BUCKET"
		}
		return "", ""
	})
}

func (c *Config) ValidateAuth() error {
	if err := c.Validate(); err != nil {
		return err
	}
	return c.require(func() (string, string) {
		if c.AuthBaseURL == "" {
			return "authBaseURL", "AUTH_BASE_URL"
		}
		return "", ""
	})
}

func (c *Config) require(missing func() (string, string)) error {
	if y, e := missing(); y != "" {
		return fmt.Errorf(
			"missing required configuration: %s / %s_%s",
			y,
			envVarPrefix,
			e,
		)
	}
	return nil
}

type BaseURL string

func (burl *BaseURL) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	return burl.Decode(s)
}

func (burl *BaseURL) Decode(value string) error {
	*burl = BaseURL(strings.TrimSuffix(value, "/"))
	return nil
}

type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	return d.Decode(s)
}

func (d *Duration) Decode(value string) error {
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parsing duration `%s`: %w", value, err)
	}
	*d = Duration(parsed)
	return nil
}
