package config

// AppConfig is the YAML configuration. Fields absent from the file keep the
// defaults from defaultAppConfig.
type AppConfig struct {
	Port           int               `yaml:"port"`
	Env            string            `yaml:"env"` // "development" | "production"
	Database       DatabaseConfig    `yaml:"database"`
	Redis          RedisConfig       `yaml:"redis"`
	Paths          PathsConfig       `yaml:"paths"`
	AllowedOrigins []string          `yaml:"allowed_origins"`
	JWTSecret      string            `yaml:"jwt_secret"`
	TokenTTLHours  int               `yaml:"token_ttl_hours"`
	Timezone       string            `yaml:"timezone"`
	Storage        StorageConfig     `yaml:"storage"`
	Upload         UploadConfig      `yaml:"upload"`
	OrphanSweep    OrphanSweepConfig `yaml:"orphan_sweep"`
	RateLimit      RateLimitConfig   `yaml:"rate_limit"`

	// Derived from Database and Redis after decoding.
	DSN      string `yaml:"-"`
	RedisURL string `yaml:"-"`

	// directory relative paths are resolved against
	baseDir string
}

// DatabaseConfig describes the MySQL connection. DSN, when set, is used
// as is and the other fields are ignored.
type DatabaseConfig struct {
	DSN      string            `yaml:"dsn"`
	Host     string            `yaml:"host"`
	Port     int               `yaml:"port"`
	User     string            `yaml:"user"`
	Password string            `yaml:"password"`
	Name     string            `yaml:"name"`
	Charset  string            `yaml:"charset"`
	Loc      string            `yaml:"loc"`
	Params   map[string]string `yaml:"params"`
}

// RedisConfig describes the Redis connection. URL wins over the other fields.
type RedisConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TLS      bool   `yaml:"tls"`
}

type PathsConfig struct {
	Logs   string `yaml:"logs"`
	Static string `yaml:"static"`
}

// StorageConfig selects where article images are kept.
type StorageConfig struct {
	Driver string    `yaml:"driver"` // "local" | "s3"
	S3     S3Options `yaml:"s3"`
}

type S3Options struct {
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	CustomDomain    string `yaml:"custom_domain"`
	PathStyleAccess bool   `yaml:"path_style"`
}

type UploadConfig struct {
	MaxImageSizeKB int `yaml:"max_image_size_kb"`
}

type OrphanSweepConfig struct {
	Spec          string `yaml:"spec"`
	MinAgeMinutes int    `yaml:"min_age_minutes"`
}

type RateLimitConfig struct {
	Max           int `yaml:"max"`
	WindowSeconds int `yaml:"window_seconds"`
}
