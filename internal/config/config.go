package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultBaseURL = "https://www.mintme.com/dev/api/v2"

var ErrMissingEnv = errors.New("missing required env")

type Config struct {
	PublicURL   string
	PrivateURL  string
	PublicKey   string
	PrivateKey  string
	MinInterval time.Duration
	Timeout     time.Duration

	HTTPAddr          string
	DBDSN             string
	RedisAddr         string
	AssetsCacheTTL    time.Duration
	JWTIssuer         string
	JWTSecret         string
	InternalTokenHash string
	WebSocketOrigin   string
}

// LoadEnvFile reads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

// Load reads the configuration from the environment. Only the API key pair
// is required; when it is missing the rest of c is still populated and the
// error wraps ErrMissingEnv.
func Load() (Config, error) {
	var c Config
	var missing []string
	c.PublicKey = strings.TrimSpace(os.Getenv("PUB_API_KEY"))
	if c.PublicKey == "" {
		missing = append(missing, "PUB_API_KEY")
	}
	c.PrivateKey = strings.TrimSpace(os.Getenv("PRIV_API_KEY"))
	if c.PrivateKey == "" {
		missing = append(missing, "PRIV_API_KEY")
	}
	c.PublicURL = envOr("MINTME_PUBLIC_URL", defaultBaseURL)
	c.PrivateURL = envOr("MINTME_PRIVATE_URL", defaultBaseURL)

	var err error
	if c.MinInterval, err = durationEnv("MINTME_MIN_INTERVAL", time.Second); err != nil {
		return c, err
	}
	if c.Timeout, err = durationEnv("MINTME_TIMEOUT", 0); err != nil {
		return c, err
	}

	c.HTTPAddr = envOr("HTTP_ADDR", ":8090")
	c.DBDSN = os.Getenv("DB_DSN")
	c.RedisAddr = os.Getenv("REDIS_ADDR")
	if c.AssetsCacheTTL, err = durationEnv("ASSETS_CACHE_TTL", time.Minute); err != nil {
		return c, err
	}
	c.JWTIssuer = envOr("JWT_ISSUER", "mintme-bridge")
	c.JWTSecret = os.Getenv("JWT_SECRET")
	c.InternalTokenHash = os.Getenv("INTERNAL_TOKEN_HASH")
	c.WebSocketOrigin = envOr("WS_ORIGIN", "*")

	if len(missing) > 0 {
		return c, fmt.Errorf("%w: %s", ErrMissingEnv, strings.Join(missing, ","))
	}
	return c, nil
}

// ValidateServer checks the settings the gateway needs on top of Load.
func (c Config) ValidateServer() error {
	if c.HTTPAddr == "" {
		return errors.New("missing required env: HTTP_ADDR")
	}
	if c.JWTSecret == "" && c.InternalTokenHash == "" {
		return errors.New("gateway needs JWT_SECRET or INTERNAL_TOKEN_HASH")
	}
	return nil
}

func envOr(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, errors.New("invalid " + key + ": " + err.Error())
	}
	return d, nil
}
