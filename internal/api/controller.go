package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/markusressel/therm2go/internal/control_loop"
)

func registerControllerEndpoints(rest *echo.Echo, controllers []control_loop.StatusProvider) {
	group := rest.Group("/controller")

	group.GET("/", func(c echo.Context) error {
		result := map[string]control_loop.Status{}
		for _, contr := range controllers {
			result[contr.GetId()] = contr.Status()
		}
		return c.JSONPretty(http.StatusOK, result, indentationChar)
	})
	group.GET("/:"+urlParamId+"/", func(c echo.Context) error {
		id := c.Param(urlParamId)
		for _, contr := range controllers {
			if contr.GetId() == id {
				return c.JSONPretty(http.StatusOK, contr.Status(), indentationChar)
			}
		}
		return returnNotFound(c, id)
	})
}
