package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}
	cfg, err := Parse(content, path)
	if err != nil {
		return nil, err
	}
	if abs, err := filepath.Abs(path); err == nil {
		cfg.baseDir = filepath.Dir(abs)
	}
	return cfg, nil
}

// Parse decodes YAML content over the defaults. name is only used in error
// messages. Unknown keys are rejected.
func Parse(content []byte, name string) (*AppConfig, error) {
	cfg := defaultAppConfig()
	if len(bytes.TrimSpace(content)) > 0 {
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse config file %q: %w", name, err)
		}
	}

	normalize(&cfg)
	if err := validate(&cfg, name); err != nil {
		return nil, err
	}
	dsn, err := cfg.Database.FormatDSN()
	if err != nil {
		return nil, fmt.Errorf("database config in %q: %w", name, err)
	}
	cfg.DSN = dsn
	cfg.RedisURL = cfg.Redis.FormatURL()
	return &cfg, nil
}

func validate(cfg *AppConfig, path string) error {
	ports := []struct {
		key  string
		port int
	}{
		{"port", cfg.Port},
		{"database.port", cfg.Database.Port},
		{"redis.port", cfg.Redis.Port},
	}
	for _, p := range ports {
		if p.port < 1 || p.port > 65535 {
			return fmt.Errorf("invalid %s %d in %q, expected 1-65535", p.key, p.port, path)
		}
	}
	if cfg.Redis.DB < 0 {
		return fmt.Errorf("invalid redis.db %d in %q, expected >= 0", cfg.Redis.DB, path)
	}
	switch cfg.Storage.Driver {
	case StorageLocal:
	case StorageS3:
		if cfg.Storage.S3.Bucket == "" {
			return fmt.Errorf("storage.s3.bucket is required in %q when storage.driver is s3", path)
		}
	default:
		return fmt.Errorf("invalid storage.driver %q in %q, expected local or s3", cfg.Storage.Driver, path)
	}
	if cfg.Upload.MaxImageSizeKB < 1 {
		return fmt.Errorf("invalid upload.max_image_size_kb %d in %q, expected > 0", cfg.Upload.MaxImageSizeKB, path)
	}
	if cfg.TokenTTLHours < 1 {
		return fmt.Errorf("invalid token_ttl_hours %d in %q, expected > 0", cfg.TokenTTLHours, path)
	}
	if cfg.OrphanSweep.MinAgeMinutes < 1 {
		return fmt.Errorf("invalid orphan_sweep.min_age_minutes %d in %q, expected > 0", cfg.OrphanSweep.MinAgeMinutes, path)
	}
	if cfg.RateLimit.WindowSeconds < 1 {
		return fmt.Errorf("invalid rate_limit.window_seconds %d in %q, expected > 0", cfg.RateLimit.WindowSeconds, path)
	}
	if cfg.Timezone != "" {
		if _, err := time.LoadLocation(cfg.Timezone); err != nil {
			return fmt.Errorf("invalid timezone %q in %q: %w", cfg.Timezone, path, err)
		}
	}
	return nil
}

func defaultAppConfig() AppConfig {
	return AppConfig{
		Port: defaultPort,
		Env:  defaultEnv,
		Database: DatabaseConfig{
			Host:     defaultDBHost,
			Port:     defaultDBPort,
			User:     defaultDBUser,
			Password: defaultDBPassword,
			Name:     defaultDBName,
			Charset:  defaultDBCharset,
			Loc:      defaultDBLoc,
		},
		Redis: RedisConfig{
			Host: defaultRedisHost,
			Port: defaultRedisPort,
			DB:   defaultRedisDB,
		},
		TokenTTLHours: defaultTokenTTLHours,
		Storage: StorageConfig{
			Driver: defaultStorageDriver,
			S3:     S3Options{Region: defaultS3Region},
		},
		Upload: UploadConfig{MaxImageSizeKB: defaultMaxImageSizeKB},
		OrphanSweep: OrphanSweepConfig{
			Spec:          defaultOrphanSweepSpec,
			MinAgeMinutes: defaultOrphanSweepMinAge,
		},
		RateLimit: RateLimitConfig{
			Max:           defaultRateLimitMax,
			WindowSeconds: defaultRateLimitWindow,
		},
	}
}

func (c *AppConfig) IsDev() bool {
	return c.Env == defaultEnv
}

func (c *AppConfig) LogDir() string {
	return c.resolvePath(c.Paths.Logs, "logs")
}

func (c *AppConfig) StaticDir() string {
	return c.resolvePath(c.Paths.Static, "static")
}

func (c *AppConfig) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHours) * time.Hour
}

func (c *AppConfig) MaxImageBytes() int64 {
	return int64(c.Upload.MaxImageSizeKB) * 1024
}

func (c *AppConfig) OrphanMinAge() time.Duration {
	return time.Duration(c.OrphanSweep.MinAgeMinutes) * time.Minute
}

func (c *AppConfig) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimit.WindowSeconds) * time.Second
}
