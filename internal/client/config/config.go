package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/cascaessama/MobileConectaEdu/internal/client/vault"
)

const DefaultAPIURL = "https://conectaedu.onrender.com"

type Config struct {
	APIURL       string
	SessionDSN   string
	VaultPath    string
	LoginTimeout time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() Config {
	_ = godotenv.Load()
	return Config{
		APIURL:       getEnv("CONECTAEDU_API_URL", DefaultAPIURL),
		SessionDSN:   getEnv("CONECTAEDU_SESSION_DSN", defaultSessionDSN()),
		VaultPath:    getEnv("CONECTAEDU_VAULT_PATH", vault.DefaultPath()),
		LoginTimeout: getEnvDuration("CONECTAEDU_LOGIN_TIMEOUT", 15*time.Second),
	}
}

func defaultSessionDSN() string {
	home, _ := os.UserHomeDir()
	return "file:" + home + string(os.PathSeparator) + ".conectaedu_session.db"
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}
