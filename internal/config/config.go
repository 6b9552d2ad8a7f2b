package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all the configuration for the application.
type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	Google       GoogleConfig
	Apple        AppleConfig
	SMTP         SMTPConfig
	MailerSend   MailerSendConfig
	Mail         MailConfig
	S3           S3Config
	NATS         NATSConfig
	Verification VerificationConfig
	Geo          GeoConfig
	Frontend     FrontendConfig
	Log          LogConfig
	JWTSecret    string `env:"JWT_SECRET,required"`
}

type GoogleConfig struct {
	ClientID     string `env:"GOOGLE_CLIENT_ID"`
	ClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	RedirectURL  string `env:"GOOGLE_REDIRECT_URL"`
}

type AppleConfig struct {
	ClientID    string `env:"APPLE_CLIENT_ID"`
	TeamID      string `env:"APPLE_TEAM_ID"`
	KeyID       string `env:"APPLE_KEY_ID"`
	PrivateKey  string `env:"APPLE_PRIVATE_KEY"`
	RedirectURL string `env:"APPLE_REDIRECT_URL"`
}

// ServerConfig holds the server configuration.
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Env  string `mapstructure:"env"`
}

// DatabaseConfig holds the database configuration.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// RedisConfig holds the Redis configuration.
type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type SMTPConfig struct {
	From     string `env:"SMTP_FROM"`
	Password string `env:"SMTP_PASSWORD"`
	Username string `env:"SMTP_USERNAME"`
	Port     int    `env:"SMTP_PORT"`
	Host     string `env:"SMTP_HOST"`
}

// MailerSendConfig holds credentials for the MailerSend HTTP API.
type MailerSendConfig struct {
	APIKey    string `env:"MAILERSEND_API_KEY"`
	FromName  string `env:"MAILERSEND_FROM_NAME"`
	FromEmail string `env:"MAILERSEND_FROM_EMAIL"`
}

// MailConfig selects the outbound email transport: "smtp", "mailersend" or "log".
type MailConfig struct {
	Provider     string `env:"MAIL_PROVIDER"`
	SupportEmail string `env:"MAIL_SUPPORT_EMAIL"`
}

// S3Config configures the blob store used for family photos and identity documents.
type S3Config struct {
	Region        string `env:"S3_REGION"`
	Bucket        string `env:"S3_BUCKET"`
	PublicBaseURL string `env:"S3_PUBLIC_BASE_URL"`
}

// NATSConfig configures domain event publishing. An empty URL disables publishing.
type NATSConfig struct {
	URL string `env:"NATS_URL"`
}

// VerificationConfig tunes the one-time code ledger.
type VerificationConfig struct {
	TTLMinutes       int      `env:"VERIFICATION_TTL_MINUTES"`
	IssueLockSeconds int      `env:"VERIFICATION_ISSUE_LOCK_SECONDS"`
	ResetRoles       []string `env:"VERIFICATION_RESET_ROLES"`
}

// GeoConfig holds the proximity search defaults.
type GeoConfig struct {
	DefaultRadiusMiles float64 `env:"GEO_DEFAULT_RADIUS_MILES"`
	MaxRadiusMiles     float64 `env:"GEO_MAX_RADIUS_MILES"`
	NearbyLimit        int     `env:"GEO_NEARBY_LIMIT"`
	FallbackLimit      int     `env:"GEO_FALLBACK_LIMIT"`
}

// FrontendConfig holds the URLs the social login callback redirects to.
type FrontendConfig struct {
	SocialSuccessURL   string `env:"FRONTEND_SOCIAL_SUCCESS_URL"`
	CompleteProfileURL string `env:"FRONTEND_COMPLETE_PROFILE_URL"`
}

type LogConfig struct {
	Level string `env:"LOG_LEVEL"`
}

// Load creates a new Config object from environment variables.
func Load() *Config {
	// --- Set up Viper ---
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()
	// Use a replacer to map env vars like SERVER_PORT to Server.Port
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Load .env into process environment for BindEnv to work with file-based envs
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️ godotenv could not load .env: %v", err)
	} else {
		log.Printf("ℹ️ .env loaded into process environment via godotenv")
	}

	// Bind structured keys to environment variables
	_ = viper.BindEnv("server.port", "SERVER_PORT")
	_ = viper.BindEnv("server.env", "SERVER_ENV")
	_ = viper.BindEnv("database.url", "DATABASE_URL")
	_ = viper.BindEnv("redis.url", "REDIS_URL")
	_ = viper.BindEnv("jwtsecret", "JWT_SECRET")
	_ = viper.BindEnv("google.clientid", "GOOGLE_CLIENT_ID")
	_ = viper.BindEnv("google.clientsecret", "GOOGLE_CLIENT_SECRET")
	_ = viper.BindEnv("google.redirecturl", "GOOGLE_REDIRECT_URL")
	_ = viper.BindEnv("apple.clientid", "APPLE_CLIENT_ID")
	_ = viper.BindEnv("apple.teamid", "APPLE_TEAM_ID")
	_ = viper.BindEnv("apple.keyid", "APPLE_KEY_ID")
	_ = viper.BindEnv("apple.privatekey", "APPLE_PRIVATE_KEY")
	_ = viper.BindEnv("apple.redirecturl", "APPLE_REDIRECT_URL")
	_ = viper.BindEnv("smtp.from", "SMTP_FROM")
	_ = viper.BindEnv("smtp.password", "SMTP_PASSWORD")
	_ = viper.BindEnv("smtp.username", "SMTP_USERNAME")
	_ = viper.BindEnv("smtp.port", "SMTP_PORT")
	_ = viper.BindEnv("smtp.host", "SMTP_HOST")
	_ = viper.BindEnv("mailersend.apikey", "MAILERSEND_API_KEY")
	_ = viper.BindEnv("mailersend.fromname", "MAILERSEND_FROM_NAME")
	_ = viper.BindEnv("mailersend.fromemail", "MAILERSEND_FROM_EMAIL")
	_ = viper.BindEnv("mail.provider", "MAIL_PROVIDER")
	_ = viper.BindEnv("mail.supportemail", "MAIL_SUPPORT_EMAIL")
	_ = viper.BindEnv("s3.region", "S3_REGION")
	_ = viper.BindEnv("s3.bucket", "S3_BUCKET")
	_ = viper.BindEnv("s3.publicbaseurl", "S3_PUBLIC_BASE_URL")
	_ = viper.BindEnv("nats.url", "NATS_URL")
	_ = viper.BindEnv("verification.ttlminutes", "VERIFICATION_TTL_MINUTES")
	_ = viper.BindEnv("verification.issuelockseconds", "VERIFICATION_ISSUE_LOCK_SECONDS")
	_ = viper.BindEnv("verification.resetroles", "VERIFICATION_RESET_ROLES")
	_ = viper.BindEnv("geo.defaultradiusmiles", "GEO_DEFAULT_RADIUS_MILES")
	_ = viper.BindEnv("geo.maxradiusmiles", "GEO_MAX_RADIUS_MILES")
	_ = viper.BindEnv("geo.nearbylimit", "GEO_NEARBY_LIMIT")
	_ = viper.BindEnv("geo.fallbacklimit", "GEO_FALLBACK_LIMIT")
	_ = viper.BindEnv("frontend.socialsuccessurl", "FRONTEND_SOCIAL_SUCCESS_URL")
	_ = viper.BindEnv("frontend.completeprofileurl", "FRONTEND_COMPLETE_PROFILE_URL")
	_ = viper.BindEnv("log.level", "LOG_LEVEL")

	// --- Read Configuration ---
	if err := viper.ReadInConfig(); err != nil {
		// We can still proceed if all config is set via environment variables.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Fatalf("❌ Error reading config file: %s", err)
		} else {
			log.Printf("⚠️ .env file not found, relying on environment variables")
		}
	} else {
		log.Printf("ℹ️ Using config file: %s", viper.ConfigFileUsed())
	}

	// --- Unmarshal configuration into our struct ---
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		log.Fatalf("❌ Unable to decode config into struct: %v", err)
	}

	// Comma separated env values arrive as a single element.
	if len(cfg.Verification.ResetRoles) == 1 && strings.Contains(cfg.Verification.ResetRoles[0], ",") {
		cfg.Verification.ResetRoles = strings.Split(cfg.Verification.ResetRoles[0], ",")
	}

	cfg.ApplyDefaults()

	log.Printf("🔎 Config loaded: Server.Port=%q Server.Env=%q Mail.Provider=%q NATSEnabled=%t JWTSecretEmpty=%t",
		cfg.Server.Port,
		cfg.Server.Env,
		cfg.Mail.Provider,
		cfg.NATS.URL != "",
		cfg.JWTSecret == "",
	)

	log.Println("✅ Configuration loaded successfully")
	return &cfg
}

// ApplyDefaults fills zero values with the application defaults.
func (cfg *Config) ApplyDefaults() {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Server.Env == "" {
		cfg.Server.Env = "development"
	}
	if cfg.Mail.Provider == "" {
		cfg.Mail.Provider = "log"
	}
	if cfg.Mail.SupportEmail == "" {
		cfg.Mail.SupportEmail = cfg.SMTP.From
	}
	if cfg.Verification.TTLMinutes <= 0 {
		cfg.Verification.TTLMinutes = 10
	}
	if cfg.Verification.IssueLockSeconds <= 0 {
		cfg.Verification.IssueLockSeconds = 15
	}
	if len(cfg.Verification.ResetRoles) == 0 {
		cfg.Verification.ResetRoles = []string{"admin"}
	}
	for i, r := range cfg.Verification.ResetRoles {
		cfg.Verification.ResetRoles[i] = strings.TrimSpace(r)
	}
	if cfg.Geo.DefaultRadiusMiles <= 0 {
		cfg.Geo.DefaultRadiusMiles = 50
	}
	if cfg.Geo.MaxRadiusMiles <= 0 {
		cfg.Geo.MaxRadiusMiles = 500
	}
	if cfg.Geo.NearbyLimit <= 0 {
		cfg.Geo.NearbyLimit = 10
	}
	if cfg.Geo.FallbackLimit <= 0 {
		cfg.Geo.FallbackLimit = 20
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}
