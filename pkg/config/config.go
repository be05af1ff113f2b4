package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	Features      FeaturesConfig
	Taxonomy      TaxonomyConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	Eventing      EventingConfig
	AuthRateLimit AuthRateLimitConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PLANTSWAP_APP_ENV" required:"true"`
	Port         string `envconfig:"PLANTSWAP_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PLANTSWAP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PLANTSWAP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PLANTSWAP_DB_DSN"`
	Driver string `envconfig:"PLANTSWAP_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"PLANTSWAP_DB_HOST"`
	Port     int    `envconfig:"PLANTSWAP_DB_PORT" default:"5432"`
	User     string `envconfig:"PLANTSWAP_DB_USER"`
	Password string `envconfig:"PLANTSWAP_DB_PASSWORD"`
	Name     string `envconfig:"PLANTSWAP_DB_NAME"`
	SSLMode  string `envconfig:"PLANTSWAP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PLANTSWAP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PLANTSWAP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PLANTSWAP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PLANTSWAP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PLANTSWAP_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PLANTSWAP_REDIS_ADDR"`
	Password     string        `envconfig:"PLANTSWAP_REDIS_PASSWORD"`
	DB           int           `envconfig:"PLANTSWAP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PLANTSWAP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PLANTSWAP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PLANTSWAP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PLANTSWAP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PLANTSWAP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"PLANTSWAP_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"PLANTSWAP_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"PLANTSWAP_JWT_EXPIRATION_MINUTES" default:"60"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"PLANTSWAP_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"PLANTSWAP_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"PLANTSWAP_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"PLANTSWAP_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"PLANTSWAP_ARGON_KEY_LEN" default:"32"`
}

type FeaturesConfig struct {
	UseSQLite   bool `envconfig:"PLANTSWAP_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"PLANTSWAP_AUTO_MIGRATE" default:"false"`
}

type TaxonomyConfig struct {
	// MaxLineageDepth caps parent-chain traversal during name composition.
	MaxLineageDepth int `envconfig:"PLANTSWAP_TAXONOMY_MAX_LINEAGE_DEPTH" default:"32"`
}

type GCPConfig struct {
	ProjectID       string `envconfig:"PLANTSWAP_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON string `envconfig:"PLANTSWAP_GCP_CREDENTIALS_JSON"`
}

type PubSubConfig struct {
	NotificationTopic        string `envconfig:"PLANTSWAP_PUBSUB_NOTIFICATION_TOPIC" default:"plantswap-notification-events"`
	NotificationSubscription string `envconfig:"PLANTSWAP_PUBSUB_NOTIFICATION_SUBSCRIPTION" required:"true"`
}

type EventingConfig struct {
	IdempotencyTTL time.Duration `envconfig:"PLANTSWAP_EVENTING_IDEMPOTENCY_TTL" default:"720h"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"PLANTSWAP_AUTH_RL_LOGIN_WINDOW" default:"5m"`
	LoginIPLimit       int           `envconfig:"PLANTSWAP_AUTH_RL_LOGIN_IP_LIMIT" default:"20"`
	LoginEmailLimit    int           `envconfig:"PLANTSWAP_AUTH_RL_LOGIN_EMAIL_LIMIT" default:"10"`
	RegisterWindow     time.Duration `envconfig:"PLANTSWAP_AUTH_RL_REGISTER_WINDOW" default:"15m"`
	RegisterIPLimit    int           `envconfig:"PLANTSWAP_AUTH_RL_REGISTER_IP_LIMIT" default:"10"`
	RegisterEmailLimit int           `envconfig:"PLANTSWAP_AUTH_RL_REGISTER_EMAIL_LIMIT" default:"5"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, envVar := range requiredDBEnvVars {
		if values[envVar] == "" {
			missing = append(missing, envVar)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
