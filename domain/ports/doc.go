// Package ports defines the boundaries the execution core consumes from its
// collaborators: configuration snapshots, execution observers and installation lookup.
package ports
