// Package runtime wires config, store, and ingestion into a single-node
// logtail instance. It exposes Open/Close, a basic health check, and
// accessors used by higher-level services and transports.
//
// Example:
//
//	cfg := config.Default()
//	rt, _ := runtime.Open(runtime.Options{Config: cfg})
//	defer rt.Close()
//	_ = rt.CheckHealth(context.Background())
//	_, _ = rt.Handler().Handle(handler.Record{Level: "INFO", Message: "hello"})
package runtime
