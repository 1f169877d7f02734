package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"ROBOT_APP_NAME":                os.Getenv("ROBOT_APP_NAME"),
		"ROBOT_APP_ENV":                 os.Getenv("ROBOT_APP_ENV"),
		"ROBOT_DATABASE_HOST":           os.Getenv("ROBOT_DATABASE_HOST"),
		"ROBOT_DATABASE_PORT":           os.Getenv("ROBOT_DATABASE_PORT"),
		"ROBOT_DATABASE_USER":           os.Getenv("ROBOT_DATABASE_USER"),
		"ROBOT_DATABASE_PASSWORD":       os.Getenv("ROBOT_DATABASE_PASSWORD"),
		"ROBOT_DATABASE_DBNAME":         os.Getenv("ROBOT_DATABASE_DBNAME"),
		"ROBOT_DATABASE_SSLMODE":        os.Getenv("ROBOT_DATABASE_SSLMODE"),
		"ROBOT_DATABASE_MAX_OPEN_CONNS": os.Getenv("ROBOT_DATABASE_MAX_OPEN_CONNS"),
		"ROBOT_DATABASE_MAX_IDLE_CONNS": os.Getenv("ROBOT_DATABASE_MAX_IDLE_CONNS"),
		"ROBOT_ROBOT_CRON_SCHEDULE":     os.Getenv("ROBOT_ROBOT_CRON_SCHEDULE"),
		"ROBOT_ROBOT_RUN_TIMEOUT":       os.Getenv("ROBOT_ROBOT_RUN_TIMEOUT"),
		"ROBOT_ROBOT_LOCK_TTL":          os.Getenv("ROBOT_ROBOT_LOCK_TTL"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "invoice-robot", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "", cfg.Database.Password)
		assert.Equal(t, "invoicerobot", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, "0 3 * * *", cfg.Robot.CronSchedule)
		assert.Equal(t, 30*time.Minute, cfg.Robot.RunTimeout)
		assert.Equal(t, time.Hour, cfg.Robot.LockTTL)
	})

	t.Run("loads values from environment variables with ROBOT prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("ROBOT_APP_NAME", "test-robot")
		os.Setenv("ROBOT_APP_ENV", "testing")
		os.Setenv("ROBOT_DATABASE_HOST", "testdb.local")
		os.Setenv("ROBOT_DATABASE_PORT", "5433")
		os.Setenv("ROBOT_DATABASE_USER", "testuser")
		os.Setenv("ROBOT_DATABASE_PASSWORD", "testpass")
		os.Setenv("ROBOT_DATABASE_DBNAME", "testdb")
		os.Setenv("ROBOT_DATABASE_SSLMODE", "require")
		os.Setenv("ROBOT_DATABASE_MAX_OPEN_CONNS", "50")
		os.Setenv("ROBOT_DATABASE_MAX_IDLE_CONNS", "10")
		os.Setenv("ROBOT_ROBOT_CRON_SCHEDULE", "30 4 * * *")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-robot", cfg.App.Name)
		assert.Equal(t, "testing", cfg.App.Env)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testuser", cfg.Database.User)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, "testdb", cfg.Database.DBName)
		assert.Equal(t, "require", cfg.Database.SSLMode)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.Equal(t, "30 4 * * *", cfg.Robot.CronSchedule)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("ROBOT_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("ROBOT_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("zero MaxOpenConns uses default", func(t *testing.T) {
		clearEnv()
		os.Setenv("ROBOT_DATABASE_MAX_OPEN_CONNS", "0")

		cfg, err := Load()
		require.NoError(t, err)
		// 0 is treated as "not set", so default (25) is used
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	})

	t.Run("validates MaxIdleConns cannot be negative", func(t *testing.T) {
		clearEnv()
		os.Setenv("ROBOT_DATABASE_MAX_IDLE_CONNS", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns cannot be negative")
	})

	t.Run("validates run timeout must be shorter than lock ttl", func(t *testing.T) {
		clearEnv()
		os.Setenv("ROBOT_ROBOT_RUN_TIMEOUT", "2h")
		os.Setenv("ROBOT_ROBOT_LOCK_TTL", "1h")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "run_timeout")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	originalEnv := map[string]string{
		"ROBOT_APP_ENV":           os.Getenv("ROBOT_APP_ENV"),
		"ROBOT_DATABASE_PASSWORD": os.Getenv("ROBOT_DATABASE_PASSWORD"),
		"ROBOT_DATABASE_SSLMODE":  os.Getenv("ROBOT_DATABASE_SSLMODE"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("requires database.password in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("ROBOT_APP_ENV", "production")
		os.Setenv("ROBOT_DATABASE_SSLMODE", "require")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("ROBOT_APP_ENV", "production")
		os.Setenv("ROBOT_DATABASE_PASSWORD", "secure-password")
		os.Setenv("ROBOT_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable' in production")
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		clearEnv()
		os.Setenv("ROBOT_APP_ENV", "production")
		os.Setenv("ROBOT_DATABASE_PASSWORD", "secure-password")
		os.Setenv("ROBOT_DATABASE_SSLMODE", "require")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost")
		assert.Contains(t, dsn, "5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		// URL-encoded password should be in the DSN
		assert.Contains(t, dsn, "pass%40word%23123")
	})

	t.Run("handles empty password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "",
			DBName:   "db",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.NotEmpty(t, dsn)
	})
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := RedisConfig{Host: "cache.local", Port: 6380}
	assert.Equal(t, "cache.local:6380", cfg.Addr())
}
