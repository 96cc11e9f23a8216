package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
)

// Config holds all runtime configuration. Each field corresponds to an
// environment variable; required values are enforced by must() and missing
// ones abort startup. The two token secrets are required to differ so a
// refresh token can never pass as an access token.
type Config struct {
	Env  string // application environment (e.g. "dev", "prod")
	Port string // HTTP port to listen on

	DBUser string
	DBPass string // optional, empty allowed
	DBHost string
	DBPort string
	DBName string

	AccessTokenSecret  string // signing secret for access tokens
	RefreshTokenSecret string // signing secret for refresh tokens (must differ)
	AccessTTLSecond    int    // access token time-to-live in seconds
	RefreshTTLSecond   int    // refresh token time-to-live in seconds

	ActivatePersonURL string // base URL put in activation mails
	ResetPasswordURL  string // base URL put in password-reset mails

	AdminEmail     string // bootstrap admin account, created when no admin exists
	AdminPassword  string
	AdminFirstName string
	AdminLastName  string
}

// Load reads configuration from the environment. Missing required variables
// or equal token secrets cause a fatal log and exit.
func Load() Config {
	cfg := Config{
		Env:                must("APP_ENV"),
		Port:               must("APP_PORT"),
		DBUser:             must("DB_USER"),
		DBPass:             os.Getenv("DB_PASS"),
		DBHost:             must("DB_HOST"),
		DBPort:             must("DB_PORT"),
		DBName:             must("DB_NAME"),
		AccessTokenSecret:  must("ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret: must("REFRESH_TOKEN_SECRET"),
		AccessTTLSecond:    mustInt("ACCESS_TOKEN_TTL_SEC"),
		RefreshTTLSecond:   mustInt("REFRESH_TOKEN_TTL_SEC"),
		ActivatePersonURL:  getenv("ACTIVATE_PERSON_URL", "http://localhost:3000/auth/activate"),
		ResetPasswordURL:   getenv("RESET_PASSWORD_URL", "http://localhost:3000/auth/password-reset"),
		AdminEmail:         getenv("ADMIN_EMAIL", ""),
		AdminPassword:      getenv("ADMIN_PASSWORD", ""),
		AdminFirstName:     getenv("ADMIN_FIRST_NAME", "Admin"),
		AdminLastName:      getenv("ADMIN_LAST_NAME", "Admin"),
	}
	if cfg.AccessTokenSecret == cfg.RefreshTokenSecret {
		log.Fatal("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ")
	}
	return cfg
}

// must retrieves a required environment variable or exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the value to an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
