package config

import (
	"fmt"
	"net"
	neturl "net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// FormatDSN renders the connection string for the MySQL driver. parseTime
// is always on since every model carries time.Time columns.
func (c DatabaseConfig) FormatDSN() (string, error) {
	if c.DSN != "" {
		if _, err := mysql.ParseDSN(c.DSN); err != nil {
			return "", fmt.Errorf("invalid dsn: %w", err)
		}
		return c.DSN, nil
	}

	loc, err := time.LoadLocation(c.Loc)
	if err != nil {
		return "", fmt.Errorf("invalid loc %q: %w", c.Loc, err)
	}

	mc := mysql.NewConfig()
	mc.User = c.User
	mc.Passwd = c.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	mc.DBName = c.Name
	mc.ParseTime = true
	mc.Loc = loc
	mc.Params = map[string]string{"charset": c.Charset}
	for k, v := range c.Params {
		mc.Params[k] = v
	}
	return mc.FormatDSN(), nil
}

// FormatURL renders a redis:// or rediss:// URL for redis.ParseURL.
func (c RedisConfig) FormatURL() string {
	if c.URL != "" {
		if !strings.Contains(c.URL, "://") {
			return "redis://" + c.URL
		}
		return c.URL
	}

	u := &neturl.URL{
		Scheme: "redis",
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + strconv.Itoa(c.DB),
	}
	if c.TLS {
		u.Scheme = "rediss"
	}
	if c.Username != "" || c.Password != "" {
		u.User = neturl.UserPassword(c.Username, c.Password)
	}
	return u.String()
}
