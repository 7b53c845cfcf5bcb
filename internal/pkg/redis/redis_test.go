package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mycosoft/unified-search/internal/pkg/logger"
)

func setupTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	cfg := DefaultConfig()
	cfg.Addr = mr.Addr()

	client, err := New(cfg, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return client, mr
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{name: "missing addr", config: &Config{}, wantErr: true},
		{name: "negative db", config: &Config{Addr: "localhost:6379", DB: -1}, wantErr: true},
		{name: "unreachable", config: &Config{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.config, logger.NewNop())
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSetGet(t *testing.T) {
	client, mr := setupTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "k", "v", time.Minute))
	assert.True(t, mr.Exists("unified-search:k"))

	val, err := client.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", val)

	_, err = client.Get(ctx, "missing")
	assert.True(t, IsNil(err))

	n, err := client.Del(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestJSON(t *testing.T) {
	client, mr := setupTestClient(t)
	ctx := context.Background()

	type payload struct {
		Query string   `json:"query"`
		Tags  []string `json:"tags"`
	}

	in := payload{Query: "amanita", Tags: []string{"toxic"}}
	require.NoError(t, client.SetJSON(ctx, "search:1", in, time.Minute))

	var out payload
	found, err := client.GetJSON(ctx, "search:1", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, in, out)

	mr.FastForward(2 * time.Minute)
	found, err = client.GetJSON(ctx, "search:1", &out)
	require.NoError(t, err)
	assert.False(t, found, "entry expires with its TTL")
}
