// Package types contains the leaf types and collaborator interfaces shared by
// the polling core and its backends.
//
// The package exists so that internal packages (coordination, pipeline
// loading, logging, metrics) can depend on the shared contracts without
// depending on the root agent package, which would create an import cycle.
// The agent package re-exports the commonly used names via type aliases, so
// most consumers never import this package directly.
package types
