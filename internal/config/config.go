package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	LocalStore  = "local"
	MongoStore  = "mongo"
	PgsqlStore  = "pgsql"
	SqliteStore = "sqlite"

	HeaderAuthentication = "header"
	JWTAuthentication    = "jwt"

	SimulatedIdentity = "simulated"
	GoogleIdentity    = "google"
)

var singleConfig *Config = nil

type Config struct {
	Store    *storeConfig
	Local    *localConfig
	Mongo    *mongoConfig
	Database *dbConfig
	Service  *svcConfig
}

type storeConfig struct {
	Type string `envconfig:"STORE_TYPE" default:"local"`
}

type localConfig struct {
	DataDir string        `envconfig:"DATA_DIR" default:"data"`
	Latency time.Duration `envconfig:"LOCAL_LATENCY" default:"0s"`
}

// mongoConfig keeps the variable names of the original hosted deployment.
type mongoConfig struct {
	User           string        `envconfig:"DBUSER" default:""`
	Password       string        `envconfig:"PASSWORD" default:""`
	Cluster        string        `envconfig:"CLUSTER" default:""`
	Name           string        `envconfig:"DBNAME" default:""`
	URI            string        `envconfig:"MONGODB_URI" default:""`
	ConnectTimeout time.Duration `envconfig:"MONGO_CONNECT_TIMEOUT" default:"10s"`
}

type dbConfig struct {
	Hostname string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"jobs"`
	User     string `envconfig:"DB_USER" default:"admin"`
	Password string `envconfig:"DB_PASS" default:"adminpass"`
}

type svcConfig struct {
	Address        string   `envconfig:"JOB_TRACKER_ADDRESS" default:":3000"`
	LogLevel       string   `envconfig:"JOB_TRACKER_LOG_LEVEL" default:"info"`
	CorsOrigins    []string `envconfig:"JOB_TRACKER_CORS_ORIGINS" default:"http://localhost:3000"`
	Metrics        Metrics
	Auth           Auth
	Identity       Identity
}

// Metrics configures the separate /metrics listener.
type Metrics struct {
	Address           string        `envconfig:"JOB_TRACKER_METRICS_ADDRESS" default:":8080"`
	ReadHeaderTimeout time.Duration `envconfig:"JOB_TRACKER_METRICS_READ_HEADER_TIMEOUT" default:"5s"`
	WriteTimeout      time.Duration `envconfig:"JOB_TRACKER_METRICS_WRITE_TIMEOUT" default:"30s"`
	// ActiveUsersWindow is how often the active users gauge starts over.
	ActiveUsersWindow time.Duration `envconfig:"JOB_TRACKER_ACTIVE_USERS_WINDOW" default:"168h"`
}

type Auth struct {
	AuthenticationType string `envconfig:"JOB_TRACKER_AUTH" default:"header"`
	JwkCertURL         string `envconfig:"JOB_TRACKER_JWK_URL" default:""`
}

type Identity struct {
	Provider           string        `envconfig:"JOB_TRACKER_IDENTITY" default:"simulated"`
	SignInDelay        time.Duration `envconfig:"JOB_TRACKER_SIGNIN_DELAY" default:"1s"`
	SignInRateLimit    float64       `envconfig:"JOB_TRACKER_SIGNIN_RATE_LIMIT" default:"5"`
	GoogleClientID     string        `envconfig:"GOOGLE_CLIENT_ID" default:""`
	GoogleClientSecret string        `envconfig:"GOOGLE_CLIENT_SECRET" default:""`
	GoogleRedirectURL  string        `envconfig:"GOOGLE_REDIRECT_URL" default:"http://localhost:3000/api/auth/google/callback"`
}

func NewDefault() *Config {
	return &Config{
		Store: &storeConfig{
			Type: LocalStore,
		},
		Local: &localConfig{
			DataDir: "data",
		},
		Mongo: &mongoConfig{
			ConnectTimeout: 10 * time.Second,
		},
		Database: &dbConfig{
			Hostname: "localhost",
			Port:     "5432",
			Name:     "jobs",
			User:     "admin",
			Password: "adminpass",
		},
		Service: &svcConfig{
			Address:        ":3000",
			Metrics: Metrics{
				Address:           ":8080",
				ReadHeaderTimeout: 5 * time.Second,
				WriteTimeout:      30 * time.Second,
				ActiveUsersWindow: 7 * 24 * time.Hour,
			},
			LogLevel:       "info",
			CorsOrigins:    []string{"http://localhost:3000"},
			Auth: Auth{
				AuthenticationType: HeaderAuthentication,
			},
			Identity: Identity{
				Provider:        SimulatedIdentity,
				SignInDelay:     time.Second,
				SignInRateLimit: 5,
			},
		},
	}
}

// New reads the configuration from the environment once and validates it.
func New() (*Config, error) {
	if singleConfig == nil {
		cfg, err := Load()
		if err != nil {
			return nil, err
		}
		singleConfig = cfg
	}
	return singleConfig, nil
}

// Load reads and validates the environment on every call.
func Load() (*Config, error) {
	cfg := new(Config)
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Store.Type {
	case LocalStore:
		if c.Local.DataDir == "" {
			return fmt.Errorf("DATA_DIR must be set for the %s store", LocalStore)
		}
	case MongoStore:
		if err := c.Mongo.validate(); err != nil {
			return err
		}
	case PgsqlStore, SqliteStore:
		if c.Database.Name == "" {
			return fmt.Errorf("DB_NAME must be set for the %s store", c.Store.Type)
		}
	default:
		return fmt.Errorf("unknown store type %q", c.Store.Type)
	}

	if c.Service.Metrics.ActiveUsersWindow <= 0 {
		return fmt.Errorf("JOB_TRACKER_ACTIVE_USERS_WINDOW must be positive")
	}

	switch c.Service.Auth.AuthenticationType {
	case HeaderAuthentication:
	case JWTAuthentication:
		if c.Service.Auth.JwkCertURL == "" {
			return fmt.Errorf("JOB_TRACKER_JWK_URL must be set for %s authentication", JWTAuthentication)
		}
	default:
		return fmt.Errorf("unknown authentication type %q", c.Service.Auth.AuthenticationType)
	}

	switch c.Service.Identity.Provider {
	case SimulatedIdentity:
	case GoogleIdentity:
		if c.Service.Identity.GoogleClientID == "" || c.Service.Identity.GoogleClientSecret == "" {
			return fmt.Errorf("GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET must be set for the %s identity provider", GoogleIdentity)
		}
	default:
		return fmt.Errorf("unknown identity provider %q", c.Service.Identity.Provider)
	}

	return nil
}

func (m *mongoConfig) validate() error {
	if m.URI != "" {
		return nil
	}
	params := []struct{ name, value string }{
		{"DBUSER", m.User},
		{"PASSWORD", m.Password},
		{"CLUSTER", m.Cluster},
		{"DBNAME", m.Name},
	}
	missing := []string{}
	for _, p := range params {
		if p.value == "" {
			missing = append(missing, p.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing mongo connection parameters: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ConnectionURI builds the SRV connection string unless MONGODB_URI overrides it.
func (m *mongoConfig) ConnectionURI() string {
	if m.URI != "" {
		return m.URI
	}
	return fmt.Sprintf("mongodb+srv://%s:%s@%s.mongodb.net/%s?retryWrites=true&w=majority",
		url.QueryEscape(m.User),
		url.QueryEscape(m.Password),
		m.Cluster,
		m.Name,
	)
}

// Database returns the database name, falling back to "jobs" when only a URI is given.
func (m *mongoConfig) Database() string {
	if m.Name != "" {
		return m.Name
	}
	return "jobs"
}
