// Package infra holds the technology adapters: the zerolog logger, the
// Prometheus and InfluxDB metrics sinks, the Sentry monitor and the MQTT
// gateway. Adapters implement interfaces declared core-side and carry the
// third-party dependencies so the core packages stay free of them.
package infra
