package config

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"
	defaultPort       = 8000
	defaultEnv        = "development"
	defaultDBHost     = "127.0.0.1"
	defaultDBPort     = 3306
	defaultDBUser     = "root"
	defaultDBPassword = "password"
	defaultDBName     = "portal_berita"
	defaultDBCharset  = "utf8mb4"
	defaultDBLoc      = "Local"
	defaultRedisHost  = "localhost"
	defaultRedisPort  = 6379
	defaultRedisDB    = 0

	defaultTokenTTLHours     = 7 * 24
	defaultStorageDriver     = StorageLocal
	defaultMaxImageSizeKB    = 2048
	defaultOrphanSweepSpec   = "@every 6h"
	defaultOrphanSweepMinAge = 60
	defaultRateLimitMax      = 60
	defaultRateLimitWindow   = 60
	defaultS3Region          = "us-east-1"

	StorageLocal = "local"
	StorageS3    = "s3"
)
