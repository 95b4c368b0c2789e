package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              int
	DatabaseURL       string
	DatabaseType      string
	AdminKey          string
	ImageDir          string
	PublicBaseURL     string
	AllowedImageHosts []string
	MaxUploadBytes    int64
	RateLimitRPS      float64
	RateLimitBurst    int
}

// ParseFlags validates flags and sets port number
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var envFile, allowedHosts string
	var maxUploadMB int

	fs := flag.NewFlagSet("tierboard", flag.ContinueOnError)

	fs.StringVar(&envFile, "env-file", ".env", "Optional dotenv file loaded before reading env")

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.PublicBaseURL, "base-url", "", "Public base URL used for uploaded image links")

	// Storage
	fs.StringVar(&cfg.ImageDir, "image-dir", "", "Directory for uploaded images")
	fs.StringVar(&allowedHosts, "allowed-hosts", "", "Comma separated hosts the image proxy may fetch from")
	fs.IntVar(&maxUploadMB, "max-upload-mb", 0, "Maximum upload request size in MB")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminKey, "admin-key", "", "Shared admin key (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Existing env variables win over the dotenv file
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	if cfg.ImageDir == "" {
		cfg.ImageDir = os.Getenv("IMAGE_DIR")
		if cfg.ImageDir == "" {
			cfg.ImageDir = "./data/images"
		}
	}

	if cfg.PublicBaseURL == "" {
		cfg.PublicBaseURL = os.Getenv("PUBLIC_BASE_URL")
		if cfg.PublicBaseURL == "" {
			cfg.PublicBaseURL = "http://localhost:" + strconv.Itoa(cfg.Port)
		}
	}
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")
	base, err := url.Parse(cfg.PublicBaseURL)
	if err != nil || base.Host == "" {
		return Config{}, fmt.Errorf("invalid public base URL %q", cfg.PublicBaseURL)
	}

	if allowedHosts == "" {
		allowedHosts = os.Getenv("ALLOWED_IMAGE_HOSTS")
	}
	cfg.AllowedImageHosts = []string{base.Hostname()}
	for _, h := range strings.Split(allowedHosts, ",") {
		if h = strings.TrimSpace(h); h != "" && h != base.Hostname() {
			cfg.AllowedImageHosts = append(cfg.AllowedImageHosts, h)
		}
	}

	if maxUploadMB == 0 {
		maxUploadMB, err = intEnv("MAX_UPLOAD_MB", 10)
		if err != nil {
			return Config{}, err
		}
	}
	cfg.MaxUploadBytes = int64(maxUploadMB) << 20

	if cfg.RateLimitRPS, err = floatEnv("RATE_LIMIT_RPS", 5); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitBurst, err = intEnv("RATE_LIMIT_BURST", 20); err != nil {
		return Config{}, err
	}

	// Secrets - MUST be provided
	if cfg.AdminKey == "" {
		cfg.AdminKey = os.Getenv("ADMIN_KEY")
	}
	if cfg.AdminKey == "" {
		return Config{}, errors.New("ADMIN_KEY required")
	}

	return cfg, nil
}

// DriverName maps the configured database type to a database/sql driver.
func (c Config) DriverName() string {
	if c.DatabaseType == "postgres" {
		return "postgres"
	}
	return "sqlite"
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable", key)
	}
	return n, nil
}

func floatEnv(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable", key)
	}
	return f, nil
}
