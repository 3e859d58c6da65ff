package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the service
	Registry = prometheus.NewRegistry()

	// OptimizerMoves counts applied local-search moves by kind (exchange, reversal)
	OptimizerMoves = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "route_optimizer_moves_total", Help: "Improving local-search moves applied."},
		[]string{"kind"},
	)
	// OptimizerCapped counts optimizations stopped by the pass limit
	OptimizerCapped = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "route_optimizer_pass_limit_total", Help: "Optimizations that hit the pass limit."},
	)
	// RebalanceSwaps counts tentative item swaps by outcome (committed, rolled_back)
	RebalanceSwaps = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "rebalance_swaps_total", Help: "Tentative item swaps by outcome."},
		[]string{"outcome"},
	)
	// VehicleMileage holds the planned route distance per vehicle
	VehicleMileage = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: "vehicle_planned_mileage", Help: "Planned route distance per vehicle."},
		[]string{"vehicle"},
	)
	// PlanDuration records end-to-end planning time in seconds
	PlanDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "plan_duration_seconds", Help: "Planning pipeline duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"status"},
	)
	// HTTPRequests counts query requests by method, path, and status
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
)

// RegisterDefault registers collectors to the service registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(OptimizerMoves)
		Registry.MustRegister(OptimizerCapped)
		Registry.MustRegister(RebalanceSwaps)
		Registry.MustRegister(VehicleMileage)
		Registry.MustRegister(PlanDuration)
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

var regOnce sync.Once
