// Package httpserver provides the production HTTP server shared by the
// project's daemons: chi routing, request logging, liveness/readiness and
// drain endpoints, optional pprof, a Prometheus metrics listener, and
// graceful shutdown.
package httpserver
