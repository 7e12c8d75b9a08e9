package routesV1

import (
	routesV1Match "github.com/ghaniswara/algolove/internal/routes/v1/match"
	"github.com/ghaniswara/algolove/internal/usecase/match"
	"github.com/labstack/echo"
)

// InitV1Routes mounts the match API. session guards every route.
func InitV1Routes(e *echo.Echo, matchCase match.IMatchUseCase, session echo.MiddlewareFunc) {
	api := e.Group("/api/match", session)

	api.GET("/discover", func(c echo.Context) error {
		return routesV1Match.DiscoverHandler(c, matchCase)
	})
	api.GET("/list", func(c echo.Context) error {
		return routesV1Match.ListHandler(c, matchCase)
	})
	api.POST("/action", func(c echo.Context) error {
		return routesV1Match.ActionHandler(c, matchCase)
	})
}
