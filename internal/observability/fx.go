package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/fieldserve/contractbill/internal/observability/metrics"
)

// Module provides the prometheus registry and application instruments.
var Module = fx.Module("observability",
	fx.Provide(
		func() *prometheus.Registry { return prometheus.NewRegistry() },
		func(reg *prometheus.Registry) prometheus.Registerer { return reg },
		metrics.New,
		metrics.NewHTTPMetrics,
	),
)
