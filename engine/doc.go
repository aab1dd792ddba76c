// Package engine runs toolchain executables as subprocesses under a deadline and
// turns every result, including failures, into an ExecutionOutcome.
//
// A single Engine serves every toolchain. Toolchain-specific behaviour is supplied
// per call through a Toolchain value whose hooks customise executable resolution,
// pre-flight validation, argument formatting, environment and post-processing.
// Nil hooks fall back to the defaults, so most adapters only set Name and Location.
//
// Each Execute call spawns at most one process, never through a shell, and never
// returns while that process is still running.
package engine
