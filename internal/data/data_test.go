package data

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mycosoft/unified-search/internal/conf"
	"github.com/mycosoft/unified-search/internal/pkg/logger"
)

func TestNewData_Disabled(t *testing.T) {
	d, cleanup, err := NewData(&conf.Config{}, logger.NewNop())
	require.NoError(t, err)
	defer cleanup()

	assert.Nil(t, d.DB)
	assert.Nil(t, d.Redis)
}

func TestNewData_Redis(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := &conf.Config{Redis: conf.RedisConfig{Enabled: true, Addr: mr.Addr()}}
	d, cleanup, err := NewData(cfg, logger.NewNop())
	require.NoError(t, err)
	defer cleanup()

	require.NotNil(t, d.Redis)
	assert.NoError(t, d.Redis.Ping(context.Background()))
}

func TestNewData_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, _, err := NewData(&conf.Config{Redis: conf.RedisConfig{Enabled: true, Addr: addr}}, logger.NewNop())
	assert.Error(t, err)
}
