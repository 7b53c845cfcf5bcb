package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"

	"github.com/mycosoft/unified-search/internal/pkg/logger"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "default", mutate: func(c *Config) {}},
		{name: "missing host", mutate: func(c *Config) { c.Host = "" }, wantErr: true},
		{name: "bad port", mutate: func(c *Config) { c.Port = 0 }, wantErr: true},
		{name: "bad sslmode", mutate: func(c *Config) { c.SSLMode = "maybe" }, wantErr: true},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "loud" }, wantErr: true},
		{name: "idle above open", mutate: func(c *Config) { c.MaxIdleConns = 50 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_DSN(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Password = "secret"
	assert.Equal(t,
		"host=localhost port=5432 user=mindex password=secret dbname=mindex sslmode=disable TimeZone=UTC",
		cfg.DSN())
}

type widget struct {
	ID        uint
	Name      string
	Kind      string
	CreatedAt time.Time
}

func TestOpen_SQLite(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxOpenConns = 1
	cfg.MaxIdleConns = 1

	db, err := Open(sqlite.Open("file::memory:"), cfg, logger.NewNop())
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.HealthCheck(context.Background()))
	require.NoError(t, db.AutoMigrate(&widget{}))

	for i, kind := range []string{"a", "b", "a"} {
		require.NoError(t, db.Create(&widget{Name: string(rune('x' + i)), Kind: kind}).Error)
	}

	var got []widget
	err = db.Scopes(WhereIf(true, "kind = ?", "a"), OrderBy("id", true), Limit(0, 10, 50)).Find(&got).Error
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "z", got[0].Name)

	var none widget
	err = db.Where("kind = ?", "c").First(&none).Error
	assert.True(t, IsRecordNotFoundError(err))
}
