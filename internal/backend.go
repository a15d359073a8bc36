package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/markusressel/therm2go/internal/actuators"
	"github.com/markusressel/therm2go/internal/api"
	"github.com/markusressel/therm2go/internal/buffer"
	"github.com/markusressel/therm2go/internal/configuration"
	"github.com/markusressel/therm2go/internal/control_loop"
	"github.com/markusressel/therm2go/internal/persistence"
	"github.com/markusressel/therm2go/internal/sensors"
	"github.com/markusressel/therm2go/internal/statistics"
	"github.com/markusressel/therm2go/internal/ui"
	"github.com/markusressel/therm2go/internal/util"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	persistInterval = 10 * time.Second
	shutdownTimeout = 5 * time.Second
)

func RunDaemon() {
	pers := persistence.NewPersistence(configuration.CurrentConfig.DbPath)
	if err := pers.Init(); err != nil {
		ui.Fatal("Cannot initialize persistence: %v", err)
	}

	driver, err := InitializeObjects()
	if err != nil {
		ui.Fatal("%v", err)
	}
	defer closeTransports()
	logLastRecord(pers, driver.GetId())

	controllers := []control_loop.StatusProvider{driver}

	ctx, cancel := context.WithCancel(context.Background())

	var g run.Group
	{
		if configuration.CurrentConfig.Statistics.Enabled {
			// === Prometheus Exporter
			statistics.Register(statistics.NewControllerCollector(controllers))

			port := configuration.CurrentConfig.Statistics.Port
			if port <= 0 || port >= 65535 {
				port = 9000
			}
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			server := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}

			g.Add(func() error {
				ui.Info("Serving statistics on %s/metrics", server.Addr)
				err := server.ListenAndServe()
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("cannot start prometheus metrics endpoint: %w", err)
			}, func(err error) {
				ui.Info("Stopping statistics server...")
				timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer timeoutCancel()
				if err := server.Shutdown(timeoutCtx); err != nil {
					ui.Warning("Error stopping statistics server: %v", err)
				} else {
					ui.Info("Statistics server stopped.")
				}
			})
		}
	}
	{
		if configuration.CurrentConfig.Api.Enabled {
			// === REST API
			rest := api.CreateRestService(controllers)
			addr := fmt.Sprintf("%s:%d", configuration.CurrentConfig.Api.Host, configuration.CurrentConfig.Api.Port)

			g.Add(func() error {
				ui.Info("Serving API on %s", addr)
				err := rest.Start(addr)
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("cannot start API server: %w", err)
			}, func(err error) {
				ui.Info("Stopping API server...")
				timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer timeoutCancel()
				if err := rest.Shutdown(timeoutCtx); err != nil {
					ui.Warning("Error stopping API server: %v", err)
				} else {
					ui.Info("API server stopped.")
				}
			})
		}
	}
	{
		if configuration.CurrentConfig.Profiling.Enabled {
			// === pprof
			mux := http.NewServeMux()
			mux.HandleFunc("/debug/pprof/", pprof.Index)
			mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
			mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
			mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
			mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
			server := &http.Server{
				Addr:    fmt.Sprintf("%s:%d", configuration.CurrentConfig.Profiling.Host, configuration.CurrentConfig.Profiling.Port),
				Handler: mux,
			}

			g.Add(func() error {
				ui.Info("Serving profiling data on %s/debug/pprof/", server.Addr)
				err := server.ListenAndServe()
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("cannot start profiling endpoint: %w", err)
			}, func(err error) {
				timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer timeoutCancel()
				_ = server.Shutdown(timeoutCtx)
			})
		}
	}
	{
		// === control loop
		g.Add(func() error {
			ui.Info("Starting controller %s (interval: %v)", driver.GetId(), configuration.CurrentConfig.Controller.Interval)
			err := driver.Run(ctx)
			ui.Info("Controller %s stopped.", driver.GetId())
			return err
		}, func(err error) {
			if err != nil {
				ui.Error("Controller %s failed: %v", driver.GetId(), err)
			}
			cancel()
		})
	}
	{
		// === persistence
		g.Add(func() error {
			return runPersistence(ctx, pers, driver, persistInterval)
		}, func(err error) {
			cancel()
		})
	}
	{
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		g.Add(func() error {
			select {
			case <-sig:
				ui.Info("Received SIGTERM signal, exiting...")
			case <-ctx.Done():
			}
			return nil
		}, func(err error) {
			signal.Stop(sig)
			cancel()
		})
	}

	if err := g.Run(); err != nil {
		closeTransports()
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	ui.Info("Done.")
}

// InitializeObjects creates the configured sensors and actuators and the controller driver.
func InitializeObjects() (*control_loop.Driver, error) {
	for _, config := range configuration.CurrentConfig.Sensors {
		sensor, err := sensors.NewSensor(config)
		if err != nil {
			return nil, fmt.Errorf("unable to process sensor configuration %s: %w", config.ID, err)
		}
		sensors.SensorMap.Set(config.ID, sensor)
	}

	for _, config := range configuration.CurrentConfig.Actuators {
		actuator, err := actuators.NewActuator(config)
		if err != nil {
			return nil, fmt.Errorf("unable to process actuator configuration %s: %w", config.ID, err)
		}
		actuators.ActuatorMap.Set(config.ID, actuator)
	}

	config := configuration.CurrentConfig.Controller
	sensor, ok := sensors.SensorMap.Get(config.Sensor)
	if !ok {
		return nil, fmt.Errorf("controller %s: sensor %s not found", config.ID, config.Sensor)
	}
	actuator, ok := actuators.ActuatorMap.Get(config.Actuator)
	if !ok {
		return nil, fmt.Errorf("controller %s: actuator %s not found", config.ID, config.Actuator)
	}

	input, err := buffer.NewInput(sensor, config.Input)
	if err != nil {
		return nil, fmt.Errorf("controller %s: invalid input layout: %w", config.ID, err)
	}
	output, err := buffer.NewOutput(actuator, config.Output)
	if err != nil {
		return nil, fmt.Errorf("controller %s: invalid output layout: %w", config.ID, err)
	}

	driver, err := control_loop.NewDriverFromConfig(config, input, output)
	if err != nil {
		return nil, fmt.Errorf("controller %s: %w", config.ID, err)
	}
	return driver, nil
}

// runPersistence periodically saves the controller status, and once more on shutdown
func runPersistence(ctx context.Context, pers persistence.Persistence, controller control_loop.StatusProvider, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			saveStatus(pers, controller)
			return nil
		case <-ticker.C:
			saveStatus(pers, controller)
		}
	}
}

func saveStatus(pers persistence.Persistence, controller control_loop.StatusProvider) {
	status := controller.Status()
	if !status.HasCommand {
		return
	}
	if err := pers.SaveControllerRecord(status); err != nil {
		ui.Warning("Cannot persist status of controller %s: %v", controller.GetId(), err)
	}
}

func logLastRecord(pers persistence.Persistence, controllerId string) {
	record, err := pers.LoadControllerRecord(controllerId)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			ui.Warning("Cannot load last status of controller %s: %v", controllerId, err)
		}
		return
	}
	ui.Info("Last command of controller %s was %.4f (saved at %s)", controllerId, record.Status.LastCommand.Value, record.SavedAt.Format(time.RFC3339))
}

func closeTransports() {
	sensorItems := sensors.SensorMap.Items()
	for _, id := range util.SortedKeys(sensorItems) {
		ui.Debug("Closing sensor %s", id)
		if err := sensorItems[id].Close(); err != nil {
			ui.Warning("Error closing sensor %s: %v", id, err)
		}
		sensors.SensorMap.Remove(id)
	}
	actuatorItems := actuators.ActuatorMap.Items()
	for _, id := range util.SortedKeys(actuatorItems) {
		ui.Debug("Closing actuator %s", id)
		if err := actuatorItems[id].Close(); err != nil {
			ui.Warning("Error closing actuator %s: %v", id, err)
		}
		actuators.ActuatorMap.Remove(id)
	}
}
