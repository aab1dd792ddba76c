// Package entities provides the core value types shared by the execution engine,
// the installation resolver and the toolchain adapters.
// All entities are immutable once constructed; configuration changes produce new values.
package entities
