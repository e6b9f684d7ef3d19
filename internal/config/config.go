package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/loganpetree/homesellphotography/internal/domain"
)

const envPrefix = "HOMESELL"

// Storage providers
const (
	StorageProviderS3         = "s3"
	StorageProviderCloudflare = "cloudflare"
)

// Document store providers
const (
	DocstoreProviderFirestore = "firestore"
	DocstoreProviderPostgres  = "postgres"
	DocstoreProviderMemory    = "memory"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	Console   bool   `mapstructure:"console"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// HDPhotoHubConfig holds the upstream photo-hosting API configuration
type HDPhotoHubConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	APIKey      string        `mapstructure:"api_key"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	UserAgent   string        `mapstructure:"user_agent"`
	// FallbackURLTemplates are media URL templates with {mid} and {ext} tokens
	FallbackURLTemplates []string `mapstructure:"fallback_url_templates"`
	MaxMediaBytes        int64    `mapstructure:"max_media_bytes"`
	// RateLimit throttles site API calls, MediaRateLimit media downloads
	RateLimit      RateLimitConfig `mapstructure:"rate_limit"`
	MediaRateLimit RateLimitConfig `mapstructure:"media_rate_limit"`
}

// RateLimitConfig is a token bucket. A zero rate disables limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// S3Config holds S3 object storage configuration
type S3Config struct {
	Bucket        string `mapstructure:"bucket"`
	Region        string `mapstructure:"region"`
	Endpoint      string `mapstructure:"endpoint"`
	UsePathStyle  bool   `mapstructure:"use_path_style"`
	PublicBaseURL string `mapstructure:"public_base_url"`
}

// CloudflareConfig holds Cloudflare Images configuration
type CloudflareConfig struct {
	AccountID string `mapstructure:"account_id"`
	APIToken  string `mapstructure:"api_token"`
}

// StorageConfig selects and configures the object storage backend
type StorageConfig struct {
	Provider   string           `mapstructure:"provider"`
	KeyPrefix  string           `mapstructure:"key_prefix"`
	S3         S3Config         `mapstructure:"s3"`
	Cloudflare CloudflareConfig `mapstructure:"cloudflare"`
}

// FirestoreConfig holds Firestore configuration
type FirestoreConfig struct {
	ProjectID       string `mapstructure:"project_id"`
	CredentialsFile string `mapstructure:"credentials_file"`
	// CredentialsJSON is the raw service account JSON, used before CredentialsFile
	CredentialsJSON string `mapstructure:"credentials_json"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// DocstoreConfig selects and configures the document store backend
type DocstoreConfig struct {
	Provider  string          `mapstructure:"provider"`
	Firestore FirestoreConfig `mapstructure:"firestore"`
	Database  DatabaseConfig  `mapstructure:"database"`
}

// IndexRange is an inclusive CSV row range. From < 0 disables it.
type IndexRange struct {
	From int `mapstructure:"from"`
	To   int `mapstructure:"to"`
}

// Enabled reports whether the range is active
func (r IndexRange) Enabled() bool {
	return r.From >= 0 && r.To >= r.From
}

// Contains reports whether index falls inside an active range
func (r IndexRange) Contains(index int) bool {
	return r.Enabled() && index >= r.From && index <= r.To
}

// RetryConfig holds the low-success-rate retry policy
type RetryConfig struct {
	SuccessThreshold float64       `mapstructure:"success_threshold"`
	MinMedia         int           `mapstructure:"min_media"`
	Cooldown         time.Duration `mapstructure:"cooldown"`
	MaxRetries       int           `mapstructure:"max_retries"`
}

// MigrationConfig holds the checkpointing driver configuration
type MigrationConfig struct {
	CSVPath          string        `mapstructure:"csv_path"`
	BatchSize        int           `mapstructure:"batch_size"`
	InterBatchDelay  time.Duration `mapstructure:"inter_batch_delay"`
	CandidateDelay   time.Duration `mapstructure:"candidate_delay"`
	MediaConcurrency int           `mapstructure:"media_concurrency"`
	// StartIndex overrides the checkpoint resume position when >= 0
	StartIndex           int         `mapstructure:"start_index"`
	ForceReprocess       IndexRange  `mapstructure:"force_reprocess"`
	PersistSleepingMedia bool        `mapstructure:"persist_sleeping_media"`
	SiteAdminURL         string      `mapstructure:"site_admin_url"`
	Retry                RetryConfig `mapstructure:"retry"`
}

// ResizeConfig holds the derived-resolution pass configuration
type ResizeConfig struct {
	SiteBatchSize    int           `mapstructure:"site_batch_size"`
	MediaConcurrency int           `mapstructure:"media_concurrency"`
	BatchDelay       time.Duration `mapstructure:"batch_delay"`
	Force            bool          `mapstructure:"force"`
	SiteIDs          []string      `mapstructure:"site_ids"`
}

// WakeUpConfig holds the browser wake-up configuration
type WakeUpConfig struct {
	WakeURLTemplate     string        `mapstructure:"wake_url_template"`
	ChromeProfileDir    string        `mapstructure:"chrome_profile_dir"`
	ChromeExecPath      string        `mapstructure:"chrome_exec_path"`
	Headless            bool          `mapstructure:"headless"`
	LoginWait           time.Duration `mapstructure:"login_wait"`
	InitialDelay        time.Duration `mapstructure:"initial_delay"`
	PollInterval        time.Duration `mapstructure:"poll_interval"`
	MaxAttempts         int           `mapstructure:"max_attempts"`
	RequiredClearChecks int           `mapstructure:"required_clear_checks"`
	FinalBuffer         time.Duration `mapstructure:"final_buffer"`
	SiteDelay           time.Duration `mapstructure:"site_delay"`
	Limit               int           `mapstructure:"limit"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int    `mapstructure:"idle_timeout"`  // in seconds
}

// AuthConfig holds admin API authentication configuration
type AuthConfig struct {
	JWTSecret      string   `mapstructure:"jwt_secret"`
	APIKeys        []string `mapstructure:"api_keys"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// MigrateConfig holds configuration for migrate-sites
type MigrateConfig struct {
	BaseConfig `mapstructure:",squash"`
	HDPhotoHub HDPhotoHubConfig `mapstructure:"hdphotohub"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Docstore   DocstoreConfig   `mapstructure:"docstore"`
	Migration  MigrationConfig  `mapstructure:"migration"`
}

// ResizeMediaConfig holds configuration for resize-media
type ResizeMediaConfig struct {
	BaseConfig `mapstructure:",squash"`
	HDPhotoHub HDPhotoHubConfig `mapstructure:"hdphotohub"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Docstore   DocstoreConfig   `mapstructure:"docstore"`
	Resize     ResizeConfig     `mapstructure:"resize"`
}

// SeedConfig holds configuration for seed-wake-sites
type SeedConfig struct {
	BaseConfig `mapstructure:",squash"`
	Docstore   DocstoreConfig `mapstructure:"docstore"`
	CSVPath    string         `mapstructure:"csv_path"`
	WakeUp     WakeUpConfig   `mapstructure:"wakeup"`
	Overwrite  bool           `mapstructure:"overwrite"`
}

// WakeConfig holds configuration for wake-and-migrate
type WakeConfig struct {
	BaseConfig `mapstructure:",squash"`
	HDPhotoHub HDPhotoHubConfig `mapstructure:"hdphotohub"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Docstore   DocstoreConfig   `mapstructure:"docstore"`
	Migration  MigrationConfig  `mapstructure:"migration"`
	WakeUp     WakeUpConfig     `mapstructure:"wakeup"`
}

// APIConfig holds configuration for the admin API
type APIConfig struct {
	BaseConfig `mapstructure:",squash"`
	HDPhotoHub HDPhotoHubConfig `mapstructure:"hdphotohub"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Docstore   DocstoreConfig   `mapstructure:"docstore"`
	Migration  MigrationConfig  `mapstructure:"migration"`
	Server     ServerConfig     `mapstructure:"server"`
	Auth       AuthConfig       `mapstructure:"auth"`
}

// LoadMigrateConfig loads configuration for the migrate-sites program
func LoadMigrateConfig(configFile string, envPath string) (*MigrateConfig, error) {
	v := configureViper("migrate-sites", configFile, envPath)
	setHDPhotoHubDefaults(v)
	setStorageDefaults(v)
	setDocstoreDefaults(v)
	setMigrationDefaults(v)

	var cfg MigrateConfig
	if err := readAndUnmarshal(v, &cfg); err != nil {
		return nil, err
	}

	if cfg.Migration.CSVPath == "" {
		return nil, errors.New("migration.csv_path is required")
	}
	if cfg.HDPhotoHub.APIKey == "" {
		return nil, errors.New("hdphotohub.api_key is required")
	}
	if err := validateMigration(&cfg.Migration); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadResizeConfig loads configuration for the resize-media program
func LoadResizeConfig(configFile string, envPath string) (*ResizeMediaConfig, error) {
	v := configureViper("resize-media", configFile, envPath)
	setHDPhotoHubDefaults(v)
	setStorageDefaults(v)
	setDocstoreDefaults(v)
	v.SetDefault("resize.site_batch_size", 3)
	v.SetDefault("resize.media_concurrency", 8)
	v.SetDefault("resize.batch_delay", "0s")
	v.SetDefault("resize.force", false)

	var cfg ResizeMediaConfig
	if err := readAndUnmarshal(v, &cfg); err != nil {
		return nil, err
	}

	if cfg.Resize.SiteBatchSize <= 0 {
		return nil, errors.New("resize.site_batch_size must be positive")
	}

	return &cfg, nil
}

// LoadSeedConfig loads configuration for the seed-wake-sites program
func LoadSeedConfig(configFile string, envPath string) (*SeedConfig, error) {
	v := configureViper("seed-wake-sites", configFile, envPath)
	setDocstoreDefaults(v)
	setWakeUpDefaults(v)
	v.SetDefault("overwrite", false)

	var cfg SeedConfig
	if err := readAndUnmarshal(v, &cfg); err != nil {
		return nil, err
	}

	if cfg.CSVPath == "" {
		return nil, errors.New("csv_path is required")
	}

	return &cfg, nil
}

// LoadWakeConfig loads configuration for the wake-and-migrate program
func LoadWakeConfig(configFile string, envPath string) (*WakeConfig, error) {
	v := configureViper("wake-and-migrate", configFile, envPath)
	setHDPhotoHubDefaults(v)
	setStorageDefaults(v)
	setDocstoreDefaults(v)
	setMigrationDefaults(v)
	setWakeUpDefaults(v)

	var cfg WakeConfig
	if err := readAndUnmarshal(v, &cfg); err != nil {
		return nil, err
	}

	if cfg.HDPhotoHub.APIKey == "" {
		return nil, errors.New("hdphotohub.api_key is required")
	}
	if err := validateMigration(&cfg.Migration); err != nil {
		return nil, err
	}
	if cfg.WakeUp.RequiredClearChecks <= 0 {
		return nil, errors.New("wakeup.required_clear_checks must be positive")
	}

	return &cfg, nil
}

// LoadAPIConfig loads configuration for the admin API
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)
	setHDPhotoHubDefaults(v)
	setStorageDefaults(v)
	setDocstoreDefaults(v)
	setMigrationDefaults(v)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 300)
	v.SetDefault("server.idle_timeout", 120)
	v.SetDefault("auth.allowed_origins", []string{"*"})

	var cfg APIConfig
	if err := readAndUnmarshal(v, &cfg); err != nil {
		return nil, err
	}

	if cfg.Auth.JWTSecret == "" && len(cfg.Auth.APIKeys) == 0 {
		return nil, errors.New("auth.jwt_secret or auth.api_keys is required")
	}

	return &cfg, nil
}

func setHDPhotoHubDefaults(v *viper.Viper) {
	v.SetDefault("hdphotohub.base_url", domain.DEFAULT_HDPHOTOHUB_API_URL)
	v.SetDefault("hdphotohub.http_timeout", "60s")
	v.SetDefault("hdphotohub.user_agent", "homesell-migrator/1.0")
	v.SetDefault("hdphotohub.fallback_url_templates", domain.DefaultMediaFallbackTemplates)
	v.SetDefault("hdphotohub.max_media_bytes", 200*1024*1024)
	v.SetDefault("hdphotohub.rate_limit.requests_per_second", 2)
	v.SetDefault("hdphotohub.rate_limit.burst", 5)
	v.SetDefault("hdphotohub.media_rate_limit.requests_per_second", 0)
	v.SetDefault("hdphotohub.media_rate_limit.burst", 0)
}

func setStorageDefaults(v *viper.Viper) {
	v.SetDefault("storage.provider", StorageProviderS3)
	v.SetDefault("storage.key_prefix", "sites/")
	v.SetDefault("storage.s3.region", "us-east-1")
}

func setDocstoreDefaults(v *viper.Viper) {
	v.SetDefault("docstore.provider", DocstoreProviderFirestore)
	v.SetDefault("docstore.database.port", 5432)
	v.SetDefault("docstore.database.sslmode", "disable")
	v.SetDefault("docstore.database.max_open_conns", 5)
	v.SetDefault("docstore.database.max_idle_conns", 2)
	v.SetDefault("docstore.database.conn_max_lifetime", "1h")
	v.SetDefault("docstore.database.conn_max_idle_time", "10m")
}

func setMigrationDefaults(v *viper.Viper) {
	v.SetDefault("migration.batch_size", 5)
	v.SetDefault("migration.inter_batch_delay", "5s")
	v.SetDefault("migration.candidate_delay", "500ms")
	v.SetDefault("migration.media_concurrency", 16)
	v.SetDefault("migration.start_index", -1)
	v.SetDefault("migration.force_reprocess.from", -1)
	v.SetDefault("migration.force_reprocess.to", -1)
	v.SetDefault("migration.persist_sleeping_media", false)
	v.SetDefault("migration.site_admin_url", domain.DEFAULT_SITE_ADMIN_URL)
	v.SetDefault("migration.retry.success_threshold", 0.5)
	v.SetDefault("migration.retry.min_media", 5)
	v.SetDefault("migration.retry.cooldown", "5s")
	v.SetDefault("migration.retry.max_retries", 1)
}

func setWakeUpDefaults(v *viper.Viper) {
	v.SetDefault("wakeup.wake_url_template", domain.DEFAULT_WAKE_UP_URL)
	v.SetDefault("wakeup.headless", true)
	v.SetDefault("wakeup.login_wait", "10s")
	v.SetDefault("wakeup.initial_delay", "15s")
	v.SetDefault("wakeup.poll_interval", "10s")
	v.SetDefault("wakeup.max_attempts", 24)
	v.SetDefault("wakeup.required_clear_checks", 2)
	v.SetDefault("wakeup.final_buffer", "10s")
	v.SetDefault("wakeup.site_delay", "5s")
	v.SetDefault("wakeup.limit", 0)
}

func validateMigration(m *MigrationConfig) error {
	if m.BatchSize <= 0 {
		return errors.New("migration.batch_size must be positive")
	}
	if m.MediaConcurrency <= 0 {
		return errors.New("migration.media_concurrency must be positive")
	}
	if m.Retry.SuccessThreshold < 0 || m.Retry.SuccessThreshold > 1 {
		return errors.New("migration.retry.success_threshold must be within [0, 1]")
	}
	if m.ForceReprocess.From >= 0 && m.ForceReprocess.To < m.ForceReprocess.From {
		return errors.New("migration.force_reprocess.to must not be below from")
	}
	return nil
}

// readAndUnmarshal reads the config file if any and decodes into cfg.
// A missing config file is not an error: env vars and defaults still apply.
func readAndUnmarshal(v *viper.Viper, cfg interface{}) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return nil
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	loadEnv(envPath, service)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		v.AddConfigPath("config/")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds every key so env-only setups unmarshal fully
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"console",
		"sentry_dsn",
		"csv_path",
		"overwrite",
		// HDPhotoHub
		"hdphotohub.base_url",
		"hdphotohub.api_key",
		"hdphotohub.http_timeout",
		"hdphotohub.user_agent",
		"hdphotohub.fallback_url_templates",
		"hdphotohub.max_media_bytes",
		"hdphotohub.rate_limit.requests_per_second",
		"hdphotohub.rate_limit.burst",
		"hdphotohub.media_rate_limit.requests_per_second",
		"hdphotohub.media_rate_limit.burst",
		// Storage
		"storage.provider",
		"storage.key_prefix",
		"storage.s3.bucket",
		"storage.s3.region",
		"storage.s3.endpoint",
		"storage.s3.use_path_style",
		"storage.s3.public_base_url",
		"storage.cloudflare.account_id",
		"storage.cloudflare.api_token",
		// Document store
		"docstore.provider",
		"docstore.firestore.project_id",
		"docstore.firestore.credentials_file",
		"docstore.firestore.credentials_json",
		"docstore.database.host",
		"docstore.database.port",
		"docstore.database.user",
		"docstore.database.password",
		"docstore.database.dbname",
		"docstore.database.sslmode",
		"docstore.database.max_open_conns",
		"docstore.database.max_idle_conns",
		"docstore.database.conn_max_lifetime",
		"docstore.database.conn_max_idle_time",
		// Migration
		"migration.csv_path",
		"migration.batch_size",
		"migration.inter_batch_delay",
		"migration.candidate_delay",
		"migration.media_concurrency",
		"migration.start_index",
		"migration.force_reprocess.from",
		"migration.force_reprocess.to",
		"migration.persist_sleeping_media",
		"migration.site_admin_url",
		"migration.retry.success_threshold",
		"migration.retry.min_media",
		"migration.retry.cooldown",
		"migration.retry.max_retries",
		// Resize
		"resize.site_batch_size",
		"resize.media_concurrency",
		"resize.batch_delay",
		"resize.force",
		"resize.site_ids",
		// Wake-up
		"wakeup.wake_url_template",
		"wakeup.chrome_profile_dir",
		"wakeup.chrome_exec_path",
		"wakeup.headless",
		"wakeup.login_wait",
		"wakeup.initial_delay",
		"wakeup.poll_interval",
		"wakeup.max_attempts",
		"wakeup.required_clear_checks",
		"wakeup.final_buffer",
		"wakeup.site_delay",
		"wakeup.limit",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		// Auth
		"auth.jwt_secret",
		"auth.api_keys",
		"auth.allowed_origins",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads .env overlays from envPath, later files overriding earlier ones
func loadEnv(envPath string, service string) {
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		_ = godotenv.Overload(filepath.Join(envPath, envFile))
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
