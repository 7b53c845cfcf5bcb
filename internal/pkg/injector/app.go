package injector

import (
	"github.com/mycosoft/unified-search/internal/server"
	searchbiz "github.com/mycosoft/unified-search/internal/search/biz"
	trendbiz "github.com/mycosoft/unified-search/internal/trend/biz"
)

// App is the HTTP service graph
type App struct {
	HTTPServer *server.HTTPServer
}

// Toolkit is the server-less graph used by the command line client
type Toolkit struct {
	Search *searchbiz.SearchUseCase
	Trends *trendbiz.TrendUseCase
}

func newApp(httpServer *server.HTTPServer) *App {
	return &App{HTTPServer: httpServer}
}

func newToolkit(search *searchbiz.SearchUseCase, trends *trendbiz.TrendUseCase) *Toolkit {
	return &Toolkit{Search: search, Trends: trends}
}
