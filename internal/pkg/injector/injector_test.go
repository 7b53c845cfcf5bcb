package injector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mycosoft/unified-search/internal/conf"
	"github.com/mycosoft/unified-search/internal/pkg/logger"
	trendtypes "github.com/mycosoft/unified-search/internal/trend/types"
)

func defaultConfig(t *testing.T) *conf.Config {
	t.Helper()
	config, err := conf.LoadConfig("")
	require.NoError(t, err)
	config.Redis.Enabled = false
	config.Database.Enabled = false
	return config
}

func TestInitializeToolkit(t *testing.T) {
	config := defaultConfig(t)
	config.Trends.BaseURL = ""

	kit, cleanup, err := InitializeToolkit(config, logger.NewNop())
	require.NoError(t, err)
	defer cleanup()

	require.NotNil(t, kit.Search)
	require.NotNil(t, kit.Trends)

	list := kit.Trends.GetTrends(context.Background(), 3, "")
	assert.Equal(t, trendtypes.SourceFallback, list.Source)
	assert.Len(t, list.Trends, 3)
}

func TestInitializeApp(t *testing.T) {
	app, cleanup, err := InitializeApp(defaultConfig(t), logger.NewNop())
	require.NoError(t, err)
	defer cleanup()

	require.NotNil(t, app.HTTPServer)
}
