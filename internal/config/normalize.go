package config

import "strings"

func normalize(cfg *AppConfig) {
	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))
	if cfg.Env == "" {
		cfg.Env = defaultEnv
	}
	cfg.JWTSecret = strings.TrimSpace(cfg.JWTSecret)
	cfg.Timezone = strings.TrimSpace(cfg.Timezone)
	cfg.Paths.Logs = strings.TrimSpace(cfg.Paths.Logs)
	cfg.Paths.Static = strings.TrimSpace(cfg.Paths.Static)

	origins := cfg.AllowedOrigins[:0]
	for _, o := range cfg.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	cfg.AllowedOrigins = origins

	db := &cfg.Database
	db.DSN = strings.TrimSpace(db.DSN)
	db.Host = strings.TrimSpace(db.Host)
	db.User = strings.TrimSpace(db.User)
	db.Name = strings.TrimSpace(db.Name)
	if db.Charset = strings.TrimSpace(db.Charset); db.Charset == "" {
		db.Charset = defaultDBCharset
	}
	if db.Loc = strings.TrimSpace(db.Loc); db.Loc == "" {
		db.Loc = defaultDBLoc
	}

	rd := &cfg.Redis
	rd.URL = strings.TrimSpace(rd.URL)
	rd.Host = strings.TrimSpace(rd.Host)
	rd.Username = strings.TrimSpace(rd.Username)

	st := &cfg.Storage
	st.Driver = strings.ToLower(strings.TrimSpace(st.Driver))
	st.S3.Bucket = strings.TrimSpace(st.S3.Bucket)
	st.S3.Endpoint = strings.TrimRight(strings.TrimSpace(st.S3.Endpoint), "/")
	st.S3.CustomDomain = strings.TrimRight(strings.TrimSpace(st.S3.CustomDomain), "/")
	if st.S3.Region = strings.TrimSpace(st.S3.Region); st.S3.Region == "" {
		st.S3.Region = defaultS3Region
	}
	cfg.OrphanSweep.Spec = strings.TrimSpace(cfg.OrphanSweep.Spec)
	if cfg.OrphanSweep.Spec == "" {
		cfg.OrphanSweep.Spec = defaultOrphanSweepSpec
	}
}
