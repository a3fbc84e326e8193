package config

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"ENV" default:"development"`

	// Marketplace REST backend
	BackendBaseURL     string `envconfig:"BACKEND_BASE_URL" default:"http://127.0.0.1:5000"`
	BackendTimeoutSec  int    `envconfig:"BACKEND_TIMEOUT_SEC" default:"15"`
	BackendMaxAttempts int    `envconfig:"BACKEND_MAX_ATTEMPTS" default:"3"`

	// Course catalog behaviour
	CatalogTTLSec      int `envconfig:"CATALOG_TTL_SEC" default:"60"`
	RotationIntervalMs int `envconfig:"ROTATION_INTERVAL_MS" default:"3000"`

	// Sessions. SessionSecretName, when set, is a Secret Manager resource
	// (projects/<p>/secrets/<s>/versions/<v>) that overrides SessionSecret.
	SessionSecret     string `envconfig:"SESSION_SECRET"`
	SessionSecretName string `envconfig:"SESSION_SECRET_NAME"`
	SessionTTLHours   int    `envconfig:"SESSION_TTL_HOURS" default:"24"`
	GoogleClientID    string `envconfig:"GOOGLE_CLIENT_ID"`

	// Optional Postgres holding the zscore_cutoffs table
	DBConnectionString string `envconfig:"DB_CONNECTION_STRING"`

	// Optional S3-compatible media storage
	S3URL       string `envconfig:"S3_URL"`
	S3Bucket    string `envconfig:"S3_BUCKET"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey string `envconfig:"S3_SECRET_KEY"`

	// Course events
	GCPProjectID            string `envconfig:"GCP_PROJECT_ID"`
	PubSubEmulatorHost      string `envconfig:"PUBSUB_EMULATOR_HOST"`
	PubSubCourseEventsTopic string `envconfig:"PUBSUB_COURSE_EVENTS_TOPIC" default:"course-events"`

	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"*"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsDevelopment reports whether the gateway runs in local development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) BackendTimeout() time.Duration {
	return time.Duration(c.BackendTimeoutSec) * time.Second
}

func (c *Config) CatalogTTL() time.Duration {
	return time.Duration(c.CatalogTTLSec) * time.Second
}

func (c *Config) RotationInterval() time.Duration {
	return time.Duration(c.RotationIntervalMs) * time.Millisecond
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

// S3Enabled reports whether media should be served from object storage.
func (c *Config) S3Enabled() bool {
	return c.S3URL != "" && c.S3Bucket != ""
}

// PubSubEnabled reports whether course events should be published.
func (c *Config) PubSubEnabled() bool {
	return c.GCPProjectID != "" && c.PubSubCourseEventsTopic != ""
}

// Origins splits ALLOWED_ORIGINS on commas.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
