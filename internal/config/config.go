package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
	DriverRedis  = "redis"
)

type Config struct {
	AppPort string

	StorageDriver string
	StorageSlot   string
	SaveTimeout   time.Duration

	SQLitePath string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisDB   int

	IdempEnabled bool
	IdempTTLSecs int
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func atoi(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func Load() *Config {
	c := &Config{
		AppPort:       getenv("APP_PORT", "8080"),
		StorageDriver: getenv("STORAGE_DRIVER", DriverSQLite),
		StorageSlot:   getenv("STORAGE_SLOT", "cuotas_pwa_debts_v1"),
		SaveTimeout:   time.Duration(atoi("SAVE_TIMEOUT_SECONDS", 5)) * time.Second,
		SQLitePath:    getenv("SQLITE_PATH", "debts.db"),

		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "cuotas"),
		MySQLUser: getenv("MYSQL_USER", "cuotas"),
		MySQLPass: getenv("MYSQL_PASS", "cuotas"),

		RedisAddr:    getenv("REDIS_ADDR", "redis:6379"),
		RedisDB:      atoi("REDIS_DB", 0),
		IdempTTLSecs: atoi("IDEMPOTENCY_TTL_SECONDS", 300),
	}
	if v, err := strconv.ParseBool(os.Getenv("IDEMPOTENCY_ENABLED")); err == nil {
		c.IdempEnabled = v
	}
	return c
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.StorageSlot == "" {
		return errors.New("missing STORAGE_SLOT")
	}
	switch c.StorageDriver {
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("missing SQLITE_PATH")
		}
	case DriverMySQL:
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		// ensure port is valid
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	case DriverRedis:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q (want sqlite, mysql or redis)", c.StorageDriver)
	}
	if c.NeedsRedis() && c.RedisAddr == "" {
		return errors.New("missing REDIS_ADDR")
	}
	return nil
}

func (c *Config) NeedsRedis() bool { return c.StorageDriver == DriverRedis || c.IdempEnabled }

func (c *Config) IdempTTL() time.Duration { return time.Duration(c.IdempTTLSecs) * time.Second }

// SQLDSN is the gorm DSN for the sql drivers.
func (c *Config) SQLDSN() string {
	if c.StorageDriver == DriverMySQL {
		return c.MySQLDSN()
	}
	return c.SQLitePath
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
