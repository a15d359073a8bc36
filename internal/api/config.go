package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/markusressel/therm2go/internal/actuators"
	"github.com/markusressel/therm2go/internal/configuration"
	"github.com/markusressel/therm2go/internal/sensors"
	"github.com/qdm12/reprint"
)

func registerConfigEndpoints(rest *echo.Echo) {
	rest.GET("/config/", getConfig)
}

func registerIoEndpoints(rest *echo.Echo) {
	rest.GET("/sensor/", getSensors)
	rest.GET("/actuator/", getActuators)
}

func getConfig(c echo.Context) error {
	data := reprint.This(configuration.CurrentConfig)
	return c.JSONPretty(http.StatusOK, data, indentationChar)
}

func getSensors(c echo.Context) error {
	result := map[string]configuration.SensorConfig{}
	for id, sensor := range sensors.SensorMap.Items() {
		result[id] = sensor.GetConfig()
	}
	return c.JSONPretty(http.StatusOK, reprint.This(result), indentationChar)
}

func getActuators(c echo.Context) error {
	result := map[string]configuration.ActuatorConfig{}
	for id, actuator := range actuators.ActuatorMap.Items() {
		result[id] = actuator.GetConfig()
	}
	return c.JSONPretty(http.StatusOK, reprint.This(result), indentationChar)
}
