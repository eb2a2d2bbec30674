package config

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"florist-backend/internal/models"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

const defaultDSN = "host=localhost user=postgres password=1 dbname=postgres port=5433 sslmode=disable"

type Config struct {
	HTTPPort       string
	DatabaseDSN    string
	DBLogLevel     string
	JWTSecret      string
	TokenTTL       time.Duration // 0: tokens never expire
	CORSOrigins    string
	ReportDir      string // generated PDF files
	FontPath       string // TTF with Cyrillic glyphs for PDFs
	StylesheetPath string
	ImageTempDir   string
	Users          map[string]models.User
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[WARN] .env file not found, using process environment")
	}

	cfg := &Config{
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:    getEnv("DATABASE_DSN", defaultDSN),
		DBLogLevel:     getEnv("DB_LOG_LEVEL", "warn"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		CORSOrigins:    getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		ReportDir:      getEnv("REPORT_DIR", "./reports"),
		FontPath:       getEnv("PDF_FONT_PATH", "./fonts/times.ttf"),
		StylesheetPath: getEnv("STYLESHEET_PATH", "./styles.css"),
		ImageTempDir:   getEnv("IMAGE_TEMP_DIR", os.TempDir()),
		Users:          DefaultUsers(),
	}

	if ttl := getEnv("TOKEN_TTL", ""); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			log.Fatalf("[FATAL] invalid TOKEN_TTL: %v", err)
		}
		cfg.TokenTTL = d
	}

	if raw := getEnv("APP_USERS", ""); raw != "" {
		users, err := ParseUsers(raw)
		if err != nil {
			log.Fatalf("[FATAL] invalid APP_USERS: %v", err)
		}
		cfg.Users = users
	}

	if cfg.JWTSecret == "" {
		// Tokens issued with this secret do not survive a restart.
		cfg.JWTSecret = strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
		log.Println("[WARN] JWT_SECRET is not set, generated an ephemeral secret.")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET must be at least 32 characters.")
	}
	if cfg.DatabaseDSN == defaultDSN {
		log.Println("[WARN] DATABASE_DSN is not set, using the default local Postgres.")
	}

	return cfg
}

// DefaultUsers is the built-in static user table: both accounts use password "123456".
func DefaultUsers() map[string]models.User {
	digest := SHA256Hex("123456")
	return map[string]models.User{
		"direktor": {Login: "direktor", Role: models.RoleDirector, PasswordHash: digest},
		"florist":  {Login: "florist", Role: models.RoleFlorist, PasswordHash: digest},
	}
}

// ParseUsers reads "login:role:hash" entries separated by commas.
func ParseUsers(raw string) (map[string]models.User, error) {
	users := make(map[string]models.User)
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, ":", 3)
		if len(parts) != 3 || parts[0] == "" || parts[2] == "" {
			return nil, &UserEntryError{Entry: entry}
		}
		role := models.UserRole(parts[1])
		if role != models.RoleDirector && role != models.RoleFlorist {
			return nil, &UserEntryError{Entry: entry}
		}
		users[parts[0]] = models.User{Login: parts[0], Role: role, PasswordHash: parts[2]}
	}
	if len(users) == 0 {
		return nil, &UserEntryError{Entry: raw}
	}
	return users, nil
}

type UserEntryError struct {
	Entry string
}

func (e *UserEntryError) Error() string {
	return fmt.Sprintf("bad user entry %q, expected login:role:hash", e.Entry)
}

func SHA256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
