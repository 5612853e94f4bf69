package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Client data layer mode. Chosen once at startup, never re-evaluated per call.
const (
	ClientModeAPI   = "api"
	ClientModeLocal = "local"
)

type Database struct {
	// Driver is "mysql" (remote mode) or "sqlite" (local mode).
	Driver string `yaml:"Driver"`
	DSN    string `yaml:"DSN"`
}

type Auth struct {
	JWTSecret    string `yaml:"JWTSecret"`
	TokenTTLDays int    `yaml:"TokenTTLDays"`
	CookieDomain string `yaml:"CookieDomain"`
	CookieSecure bool   `yaml:"CookieSecure"`
}

type ObjectStorage struct {
	Endpoint  string `yaml:"Endpoint"`
	AccessKey string `yaml:"AccessKey"`
	SecretKey string `yaml:"SecretKey"`
	Bucket    string `yaml:"Bucket"`
	Region    string `yaml:"Region"`
}

// SMTP is the optional outbound relay used when a message is sent.
// When Addr is empty, sending only updates the message status.
type SMTP struct {
	Addr     string `yaml:"Addr"`
	Username string `yaml:"Username"`
	Password string `yaml:"Password"`
}

// Client configures the agenda client's data layer. FallbackOnError is an
// explicit policy value: when true, a failed remote load degrades to the last
// local snapshot instead of surfacing an error.
type Client struct {
	Mode            string `yaml:"Mode"`
	BaseURL         string `yaml:"BaseURL"`
	CacheDir        string `yaml:"CacheDir"`
	FallbackOnError bool   `yaml:"FallbackOnError"`
}

type Config struct {
	Listen        string        `yaml:"Listen"`
	LogFile       string        `yaml:"LogFile"`
	Database      Database      `yaml:"Database"`
	Auth          Auth          `yaml:"Auth"`
	ObjectStorage ObjectStorage `yaml:"ObjectStorage"`
	SMTP          SMTP          `yaml:"SMTP"`
	Client        Client        `yaml:"Client"`
}

func Load(path string) (*Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var conf Config
	if err := yaml.Unmarshal(buf, &conf); err != nil {
		return nil, err
	}

	// Secrets may come from the environment instead of the file.
	if v := os.Getenv("TASKSAVER_JWT_SECRET"); v != "" {
		conf.Auth.JWTSecret = v
	}
	if v := os.Getenv("TASKSAVER_DSN"); v != "" {
		conf.Database.DSN = v
	}

	if err := conf.validate(); err != nil {
		return nil, err
	}

	return &conf, nil
}

func (c *Config) validate() error {
	if c.Listen == "" {
		c.Listen = ":8080"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.Driver != "mysql" && c.Database.Driver != "sqlite" {
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		if c.Database.Driver == "sqlite" {
			c.Database.DSN = "tasksaver.db"
		} else {
			return fmt.Errorf("Database.DSN is required for driver %q", c.Database.Driver)
		}
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("Auth.JWTSecret is required")
	}
	if c.Auth.TokenTTLDays <= 0 {
		c.Auth.TokenTTLDays = 7
	}
	if c.Client.Mode == "" {
		c.Client.Mode = ClientModeAPI
	}
	if c.Client.Mode != ClientModeAPI && c.Client.Mode != ClientModeLocal {
		return fmt.Errorf("unknown client mode %q", c.Client.Mode)
	}
	if c.Client.BaseURL == "" {
		c.Client.BaseURL = "http://localhost:8080"
	}
	if c.Client.CacheDir == "" {
		c.Client.CacheDir = ".tasksaver"
	}
	return nil
}
