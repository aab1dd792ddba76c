// Package toolchains binds the execution engine to the supported build and run
// tools: the .NET CLI, cargo, Python, MSBuild, MSBuild for Delphi projects and the
// Delphi command-line compilers.
//
// Each adapter builds an engine.Toolchain per call. Hooks close over per-call
// state such as the project path or the resolved installation, so a single
// Adapters value can serve concurrent callers.
package toolchains
