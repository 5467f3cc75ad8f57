package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	HTTPHost string
	HTTPPort string
	GRPCHost string
	GRPCPort string
	MySQLDSN string

	App      AppConfig
	JWT      JWTConfig
	Tokens   TokenConfig
	Password PasswordConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Mail     MailConfig
	Storage  StorageConfig
	Worker   WorkerConfig
	Log      LogConfig
}

type AppConfig struct {
	// BaseURL is the public address used when building links sent by mail.
	BaseURL        string
	CORSOrigins    []string
	// TrustedProxies lists the CIDRs whose X-Forwarded-For is believed.
	// Empty means the TCP peer address identifies the client.
	TrustedProxies []string
}

type JWTConfig struct {
	Secret          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

type TokenConfig struct {
	VerificationTTL time.Duration
}

type PasswordConfig struct {
	BcryptCost int
	Policy     PasswordPolicy
}

type RedisConfig struct {
	URL string
}

type CacheConfig struct {
	ContactsTTL time.Duration
}

type MailConfig struct {
	Driver   string
	From     string
	SMTP     SMTPConfig
	Mailgun  MailgunConfig
	SendGrid SendGridConfig
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
}

type MailgunConfig struct {
	Domain string
	APIKey string
}

type SendGridConfig struct {
	APIKey string
}

type StorageConfig struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string
}

type WorkerConfig struct {
	Count     int
	QueueSize int
}

type LogConfig struct {
	Level  string
	Format string
}

type PasswordPolicy struct {
	MinLength        int
	RequireUppercase bool
	RequireLowercase bool
	RequireNumber    bool
	RequireSpecial   bool
}

func (p PasswordPolicy) Validate(password string) error {
	if len(password) < p.MinLength {
		return fmt.Errorf("password must be at least %d characters long", p.MinLength)
	}

	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, ch := range password {
		switch {
		case unicode.IsUpper(ch):
			hasUpper = true
		case unicode.IsLower(ch):
			hasLower = true
		case unicode.IsDigit(ch):
			hasNumber = true
		case unicode.IsPunct(ch) || unicode.IsSymbol(ch):
			hasSpecial = true
		}
	}

	var missing []string
	if p.RequireUppercase && !hasUpper {
		missing = append(missing, "uppercase letter")
	}
	if p.RequireLowercase && !hasLower {
		missing = append(missing, "lowercase letter")
	}
	if p.RequireNumber && !hasNumber {
		missing = append(missing, "number")
	}
	if p.RequireSpecial && !hasSpecial {
		missing = append(missing, "special character")
	}

	if len(missing) > 0 {
		return fmt.Errorf("password must contain at least one: %s", strings.Join(missing, ", "))
	}

	return nil
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignores error if not found)
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, errors.New("JWT_SECRET environment variable is required")
	}

	mysqlDSN := os.Getenv("MYSQL_DSN")
	if mysqlDSN == "" {
		return nil, errors.New("MYSQL_DSN environment variable is required")
	}

	mailDriver := strings.ToLower(getEnv("MAIL_DRIVER", "smtp"))
	switch mailDriver {
	case "smtp", "mailgun", "sendgrid", "log":
	default:
		return nil, fmt.Errorf("unsupported MAIL_DRIVER %q", mailDriver)
	}

	return &Config{
		HTTPHost: getEnv("HTTP_HOST", ""),
		HTTPPort: getEnv("HTTP_PORT", "8000"),
		GRPCHost: getEnv("GRPC_HOST", ""),
		GRPCPort: getEnv("GRPC_PORT", "9090"),
		MySQLDSN: mysqlDSN,
		App: AppConfig{
			BaseURL:        strings.TrimRight(getEnv("APP_BASE_URL", "http://localhost:8000"), "/"),
			CORSOrigins:    getListEnv("CORS_ORIGINS", []string{"http://localhost:3000"}),
			TrustedProxies: getListEnv("TRUSTED_PROXIES", nil),
		},
		JWT: JWTConfig{
			Secret:          jwtSecret,
			AccessTokenTTL:  getDurationEnv("JWT_ACCESS_TOKEN_TTL", 30*time.Minute),
			RefreshTokenTTL: getDurationEnv("JWT_REFRESH_TOKEN_TTL", 7*24*time.Hour),
		},
		Tokens: TokenConfig{
			VerificationTTL: getDurationEnv("VERIFICATION_TOKEN_TTL", 24*time.Hour),
		},
		Password: PasswordConfig{
			BcryptCost: getIntEnv("BCRYPT_COST", bcrypt.DefaultCost),
			Policy:     loadPasswordPolicy(),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
		Cache: CacheConfig{
			ContactsTTL: time.Duration(getIntEnv("CONTACTS_CACHE_TTL", 600)) * time.Second,
		},
		Mail: MailConfig{
			Driver: mailDriver,
			From:   getEnv("MAIL_FROM", "admin@23web.com"),
			SMTP: SMTPConfig{
				Host:     getEnv("MAIL_SERVER", "localhost"),
				Port:     getEnv("MAIL_PORT", "1025"),
				Username: getEnv("MAIL_USERNAME", ""),
				Password: getEnv("MAIL_PASSWORD", ""),
			},
			Mailgun: MailgunConfig{
				Domain: getEnv("MAILGUN_DOMAIN", ""),
				APIKey: getEnv("MAILGUN_API_KEY", ""),
			},
			SendGrid: SendGridConfig{
				APIKey: getEnv("SENDGRID_API_KEY", ""),
			},
		},
		Storage: StorageConfig{
			Bucket:          getEnv("S3_BUCKET", ""),
			Region:          getEnv("S3_REGION", "us-east-1"),
			Endpoint:        getEnv("S3_ENDPOINT", ""),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			PublicBaseURL:   strings.TrimRight(getEnv("S3_PUBLIC_BASE_URL", ""), "/"),
		},
		Worker: WorkerConfig{
			Count:     getIntEnv("WORKER_COUNT", 4),
			QueueSize: getIntEnv("WORKER_QUEUE_SIZE", 256),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}, nil
}

func (c *Config) DSN() string {
	return c.MySQLDSN
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv reads a whole number of minutes.
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func loadPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:        getIntEnv("PASSWORD_MIN_LENGTH", 1),
		RequireUppercase: getBoolEnv("PASSWORD_REQUIRE_UPPERCASE", false),
		RequireLowercase: getBoolEnv("PASSWORD_REQUIRE_LOWERCASE", false),
		RequireNumber:    getBoolEnv("PASSWORD_REQUIRE_NUMBER", false),
		RequireSpecial:   getBoolEnv("PASSWORD_REQUIRE_SPECIAL", false),
	}
}
