// Package metrics exports engine operation counts and latencies to
// Prometheus.
//
//	reg := prometheus.NewRegistry()
//	obs, err := metrics.New(reg)
//	...
//	eng := sidh.New(sidh.Config{Observer: obs})
//	http.Handle("/metrics", metrics.Handler(reg))
package metrics
