package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"halalfood-backend/internal/env"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

type Config struct {
	Env               string
	Port              int
	StoreDriver       string
	DBUser            string
	DBPassword        string `json:"-"`
	DBHost            string
	DBName            string
	DatabaseURL       string `json:"-"`
	AccessTokenSecret string `json:"-"`
	StoreID           string
	StorePasswd       string `json:"-"`
	GatewayLive       bool
	PublicBaseURL     string
	ClientBaseURL     string
	AMQPURL           string `json:"-"`
	LogJSON           bool
	RateRPS           float64
	RateBurst         int
	// TrustedProxies lists the proxy IPs/CIDRs whose X-Forwarded-For is
	// believed. Empty means the peer address is the client address.
	TrustedProxies []string
	// AdminEmails are granted the admin role at startup.
	AdminEmails []string
	// SeedFile is a JSON catalog loaded into the memory store.
	SeedFile string
}

func Default() Config {
	return Config{
		Env:           "dev",
		Port:          5000,
		StoreDriver:   DriverMemory,
		DBHost:        "cluster0.p56ror2.mongodb.net",
		DBName:        "halalfoodDB",
		PublicBaseURL: "http://localhost:5000",
		ClientBaseURL: "http://localhost:5173",
		LogJSON:       true,
		RateRPS:       5,
		RateBurst:     10,
	}
}

func EnvDefaults() Config {
	return fromEnv(Default())
}

func fromEnv(c Config) Config {
	c.Env = env.String("APP_ENV", c.Env)
	c.Port = env.Int("PORT", c.Port)
	c.StoreDriver = strings.ToLower(env.String("STORE_DRIVER", c.StoreDriver))
	c.DBUser = env.String("DB_USER", c.DBUser)
	c.DBPassword = env.String("DB_PASSWORD", c.DBPassword)
	c.DBHost = env.String("DB_HOST", c.DBHost)
	c.DBName = env.String("DB_NAME", c.DBName)
	c.DatabaseURL = env.String("DATABASE_URL", c.DatabaseURL)
	c.AccessTokenSecret = env.String("ACCESS_TOKEN_SECRET", c.AccessTokenSecret)
	c.StoreID = env.String("STORE_ID", c.StoreID)
	c.StorePasswd = env.String("STORE_PASSWD", c.StorePasswd)
	c.GatewayLive = env.Bool("SSLCOMMERZ_LIVE", c.GatewayLive)
	c.PublicBaseURL = env.String("PUBLIC_BASE_URL", c.PublicBaseURL)
	c.ClientBaseURL = env.String("CLIENT_BASE_URL", c.ClientBaseURL)
	c.AMQPURL = env.String("AMQP_URL", c.AMQPURL)
	c.LogJSON = env.Bool("LOG_JSON", c.LogJSON)
	if v := env.String("RATE_RPS", ""); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.RateRPS = f
		}
	}
	c.RateBurst = env.Int("RATE_BURST", c.RateBurst)
	c.TrustedProxies = env.List("TRUSTED_PROXIES", c.TrustedProxies)
	c.AdminEmails = env.List("ADMIN_EMAILS", c.AdminEmails)
	c.SeedFile = env.String("SEED_FILE", c.SeedFile)
	return c
}

func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.AccessTokenSecret) == "" {
		errs = append(errs, errors.New("ACCESS_TOKEN_SECRET is required"))
	}
	if strings.TrimSpace(c.StoreID) == "" || strings.TrimSpace(c.StorePasswd) == "" {
		errs = append(errs, errors.New("STORE_ID and STORE_PASSWD are required"))
	}
	switch c.StoreDriver {
	case DriverMemory, DriverPostgres, DriverMongo:
	default:
		errs = append(errs, errors.New("STORE_DRIVER must be memory, postgres or mongo"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, errors.New("PORT out of range"))
	}
	for _, p := range c.TrustedProxies {
		if net.ParseIP(p) == nil {
			if _, _, err := net.ParseCIDR(p); err != nil {
				errs = append(errs, fmt.Errorf("TRUSTED_PROXIES: %q is not an IP or CIDR", p))
			}
		}
	}
	return errors.Join(errs...)
}

// DSN returns the connection string for the configured driver. DATABASE_URL
// wins when set; otherwise one is assembled from the DB_* parts.
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{Host: c.DBHost}
	if c.DBUser != "" {
		u.User = url.UserPassword(c.DBUser, c.DBPassword)
	}
	switch c.StoreDriver {
	case DriverMongo:
		u.Scheme = "mongodb+srv"
		u.Path = "/"
		u.RawQuery = "retryWrites=true&w=majority&appName=Cluster0"
	case DriverPostgres:
		u.Scheme = "postgres"
		u.Path = "/" + c.DBName
		u.RawQuery = "sslmode=disable"
	default:
		return ""
	}
	return u.String()
}
