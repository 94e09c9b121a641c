/*
Package observability turns engine lifecycle events into logs and Prometheus metrics.

Both are exposed as domain.LifecycleHooks so they compose with Merge:

	metrics := observability.NewMetrics(prometheus.NewRegistry())
	hooks := metrics.Hooks().Merge(observability.LogHooks(logger))
	engine := runtime.NewEngine(model, runtime.WithLifecycleHooks(hooks))
*/
package observability
