package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/portal-berita/core/internal/config"
	jwtpkg "github.com/portal-berita/core/internal/pkg/jwt"
	"github.com/portal-berita/core/internal/pkg/response"
	"github.com/portal-berita/core/internal/pkg/validate"
	"go.uber.org/zap"
)

const staticURLPrefix = "/static"

func applyRuntimeSettings(cfg *config.AppConfig, logger *zap.Logger) error {
	if secret := strings.TrimSpace(cfg.JWTSecret); secret != "" {
		jwtpkg.SetSecret(secret)
	} else {
		logger.Warn("jwt_secret is empty, using built-in default secret")
	}
	response.ExposeInternalErrors(cfg.IsDev())
	validate.Setup()

	tz := strings.TrimSpace(cfg.Timezone)
	if tz == "" {
		return nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	time.Local = loc
	_ = os.Setenv("TZ", tz)
	return nil
}

func humanizeDuration(d time.Duration) string {
	if d < time.Minute {
		return d.Truncate(time.Second).String()
	}
	if d < time.Hour {
		return d.Truncate(time.Minute).String()
	}
	if d < 24*time.Hour {
		return d.Truncate(time.Hour).String()
	}
	return d.Truncate(24 * time.Hour).String()
}
