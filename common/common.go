// Package common holds project-wide constants and the logger setup shared by
// all binaries.
package common

// PackageName is the service name reported in logs and metrics.
const PackageName = "trusty-lib"

// Version is set at build time via -ldflags.
var Version = "dev"
