package statistics

import (
	"github.com/markusressel/therm2go/internal/control_loop"
	"github.com/prometheus/client_golang/prometheus"
)

const controllerSubsystem = "controller"

type ControllerCollector struct {
	controllers []control_loop.StatusProvider

	cycles         *prometheus.Desc
	failures       *prometheus.Desc
	saturations    *prometheus.Desc
	failSafeWrites *prometheus.Desc
	command        *prometheus.Desc
	measured       *prometheus.Desc
	target         *prometheus.Desc
	avgError       *prometheus.Desc
	term           *prometheus.Desc
}

func NewControllerCollector(controllers []control_loop.StatusProvider) *ControllerCollector {
	return &ControllerCollector{
		controllers: controllers,
		cycles: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "cycles_total"),
			"Number of control cycles run by this controller",
			[]string{"id"}, nil,
		),
		failures: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "failures_total"),
			"Number of control cycles that did not produce a command",
			[]string{"id"}, nil,
		),
		saturations: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "saturations_total"),
			"Number of commands that were clamped to the output limits",
			[]string{"id"}, nil,
		),
		failSafeWrites: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "fail_safe_writes_total"),
			"Number of times the fail-safe value was written instead of a computed command",
			[]string{"id"}, nil,
		),
		command: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "command"),
			"Last actuator command written by this controller",
			[]string{"id"}, nil,
		),
		measured: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "measured_value"),
			"Last valid measured value",
			[]string{"id"}, nil,
		),
		target: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "target_value"),
			"Last valid target value",
			[]string{"id"}, nil,
		),
		avgError: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "avg_error"),
			"Average control error over the recent window",
			[]string{"id"}, nil,
		),
		term: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "term"),
			"Contribution of the individual PID terms to the last command",
			[]string{"id", "term"}, nil,
		),
	}
}

func (collector *ControllerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.cycles
	ch <- collector.failures
	ch <- collector.saturations
	ch <- collector.failSafeWrites
	ch <- collector.command
	ch <- collector.measured
	ch <- collector.target
	ch <- collector.avgError
	ch <- collector.term
}

// Collect implements required collect function for all prometheus collectors
func (collector *ControllerCollector) Collect(ch chan<- prometheus.Metric) {
	for _, contr := range collector.controllers {
		status := contr.Status()
		id := status.ID
		ch <- prometheus.MustNewConstMetric(collector.cycles, prometheus.CounterValue, float64(status.Cycles), id)
		ch <- prometheus.MustNewConstMetric(collector.failures, prometheus.CounterValue, float64(status.Failures), id)
		ch <- prometheus.MustNewConstMetric(collector.saturations, prometheus.CounterValue, float64(status.Saturations), id)
		ch <- prometheus.MustNewConstMetric(collector.failSafeWrites, prometheus.CounterValue, float64(status.FailSafeWrites), id)
		ch <- prometheus.MustNewConstMetric(collector.measured, prometheus.GaugeValue, status.LastSample.Measured, id)
		ch <- prometheus.MustNewConstMetric(collector.target, prometheus.GaugeValue, status.LastSample.Target, id)
		ch <- prometheus.MustNewConstMetric(collector.avgError, prometheus.GaugeValue, status.AvgError, id)
		if !status.HasCommand {
			continue
		}
		ch <- prometheus.MustNewConstMetric(collector.command, prometheus.GaugeValue, status.LastCommand.Value, id)
		ch <- prometheus.MustNewConstMetric(collector.term, prometheus.GaugeValue, status.LastCommand.P, id, "p")
		ch <- prometheus.MustNewConstMetric(collector.term, prometheus.GaugeValue, status.LastCommand.I, id, "i")
		ch <- prometheus.MustNewConstMetric(collector.term, prometheus.GaugeValue, status.LastCommand.D, id, "d")
	}
}
