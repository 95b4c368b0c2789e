// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: database connection string (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - AdminKey: shared secret for catalog management (required)
  - ImageDir: where uploaded images are written (default: ./data/images)
  - PublicBaseURL: prefix for uploaded image URLs (default: http://localhost:<port>)
  - AllowedImageHosts: hosts the image proxy may fetch from; always includes
    the public base URL host
  - MaxUploadBytes: upload request size cap (default: 10MB)
  - RateLimitRPS / RateLimitBurst: per-IP limits on write endpoints

# CLI Flags

	-p              Server port
	-d              Database URL
	-t              Database type
	-admin-key      Shared admin key
	-image-dir      Upload directory
	-base-url       Public base URL
	-allowed-hosts  Extra proxy hosts (comma separated)
	-max-upload-mb  Upload size cap
	-env-file       Dotenv file (default: .env)

# Environment Variables

Flags fall back to environment variables:

	PORT                → -p
	DATABASE_URL        → -d
	DATABASE_TYPE       → -t
	ADMIN_KEY           → -admin-key
	IMAGE_DIR           → -image-dir
	PUBLIC_BASE_URL     → -base-url
	ALLOWED_IMAGE_HOSTS → -allowed-hosts
	MAX_UPLOAD_MB       → -max-upload-mb
	RATE_LIMIT_RPS, RATE_LIMIT_BURST

Before reading the environment, the dotenv file is loaded if it exists.
Variables already set in the environment are not overwritten by it.
CLI flags take precedence over both.

# Example

	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	db, err := sql.Open(cfg.DriverName(), cfg.DatabaseURL)
	// ...
	mux := router.NewRouter(db, cfg, registry)
*/
package cliparse
