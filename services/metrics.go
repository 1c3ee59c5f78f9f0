package services

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Supervisor and tunnel instrumentation, exposed by the daemon at /metrics.
var (
	metricState = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "mckeeper_server_state",
			Help: "Server lifecycle state (0=stopped 1=starting 2=running 3=stopping)",
		},
	)

	metricCPU = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "mckeeper_server_cpu_percent",
			Help: "CPU usage of the server process in percent",
		},
	)

	metricMemory = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "mckeeper_server_memory_bytes",
			Help: "Resident memory of the server process in bytes",
		},
	)

	metricLogLines = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mckeeper_console_lines_total",
			Help: "Console lines read from the server process",
		},
	)

	metricRestarts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mckeeper_server_restarts_total",
			Help: "Server restarts requested through the supervisor",
		},
	)

	metricTunnels = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mckeeper_tunnel_agents",
			Help: "Running tunnel agent processes by service",
		},
		[]string{"service"},
	)
)

func init() {
	prometheus.MustRegister(metricState)
	prometheus.MustRegister(metricCPU)
	prometheus.MustRegister(metricMemory)
	prometheus.MustRegister(metricLogLines)
	prometheus.MustRegister(metricRestarts)
	prometheus.MustRegister(metricTunnels)
}
