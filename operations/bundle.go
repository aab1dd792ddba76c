package operations

import (
	"context"

	"github.com/toolforge-dev/toolforge/domain/entities"
)

// Operation names published by ToolchainBundle.
const (
	OpDotnet             = "execute_dotnet_command"
	OpCargo              = "execute_cargo_command"
	OpPython             = "execute_python_command"
	OpBuildProject       = "build_project"
	OpBuildDelphiProject = "build_delphi_project"
	OpCompileDelphiDpr   = "compile_delphi_dpr"
)

// Bundle is a pre-configured set of related operations.
type Bundle interface {
	Operations() []Operation
}

// Toolchains is the set of adapters exposed by ToolchainBundle.
type Toolchains interface {
	Dotnet(ctx context.Context, command, workingDirectory string) *entities.ExecutionOutcome
	Cargo(ctx context.Context, command, workingDirectory string) *entities.ExecutionOutcome
	Python(ctx context.Context, command, workingDirectory string) *entities.ExecutionOutcome
	BuildProject(ctx context.Context, projectPath, buildOptions string) *entities.ExecutionOutcome
	BuildDelphiProject(ctx context.Context, projectPath, buildOptions string) *entities.ExecutionOutcome
	CompileDpr(ctx context.Context, dprPath, architecture string) *entities.ExecutionOutcome
}

// DotnetRequest is the input of execute_dotnet_command.
type DotnetRequest struct {
	Command          string `json:"command" jsonschema_description:"The dotnet CLI command to execute (e.g., 'build', 'run', 'test', 'new console')"`
	WorkingDirectory string `json:"workingDirectory,omitempty" jsonschema_description:"Working directory for the command execution (optional)"`
}

// CargoRequest is the input of execute_cargo_command.
type CargoRequest struct {
	Command          string `json:"command" jsonschema_description:"The cargo command to execute (e.g., 'build', 'run', 'test', 'new myproject')"`
	WorkingDirectory string `json:"workingDirectory,omitempty" jsonschema_description:"Working directory for the command execution (optional)"`
}

// PythonRequest is the input of execute_python_command.
type PythonRequest struct {
	Command          string `json:"command" jsonschema_description:"The Python command to execute (e.g., 'script.py', '-m pip install package', '-c \"print(1)\"')"`
	WorkingDirectory string `json:"workingDirectory,omitempty" jsonschema_description:"Working directory for the command execution (optional)"`
}

// BuildProjectRequest is the input of build_project.
type BuildProjectRequest struct {
	ProjectPath  string `json:"projectPath" jsonschema_description:"Path to the project file (.dproj for Delphi, .vcxproj for C/C++, .csproj for C#, or .sln for solution)"`
	BuildOptions string `json:"buildOptions,omitempty" jsonschema_description:"Additional MSBuild options (optional, e.g., '/t:Rebuild' or '/p:Configuration=Release /p:Platform=x64')"`
}

// BuildDelphiProjectRequest is the input of build_delphi_project.
type BuildDelphiProjectRequest struct {
	ProjectPath  string `json:"projectPath" jsonschema_description:"Path to the Delphi project file (.dproj)"`
	BuildOptions string `json:"buildOptions,omitempty" jsonschema_description:"Additional MSBuild options (optional, e.g., '/t:Rebuild' or '/p:Configuration=Release /p:Platform=Win64')"`
}

// CompileDprRequest is the input of compile_delphi_dpr.
type CompileDprRequest struct {
	DprPath      string `json:"dprPath,omitempty" jsonschema_description:"Path to the .dpr file"`
	Architecture string `json:"architecture,omitempty" jsonschema_description:"Target architecture (Win32 or Win64)"`
}

// Response is the JSON response of every toolchain operation.
type Response = *entities.ExecutionOutcome

type toolchainBundle struct {
	t Toolchains
}

// ToolchainBundle returns the six toolchain operations backed by t.
func ToolchainBundle(t Toolchains) Bundle {
	return &toolchainBundle{t: t}
}

func (b *toolchainBundle) Operations() []Operation {
	t := b.t
	return []Operation{
		mustOperation(OpDotnet,
			"Execute .NET CLI commands for building, running, or managing .NET projects",
			func(ctx context.Context, req DotnetRequest) Response {
				return t.Dotnet(ctx, req.Command, req.WorkingDirectory)
			}),
		mustOperation(OpCargo,
			"Execute Rust cargo commands for building, running, or managing Rust projects",
			func(ctx context.Context, req CargoRequest) Response {
				return t.Cargo(ctx, req.Command, req.WorkingDirectory)
			}),
		mustOperation(OpPython,
			"Execute Python scripts or commands using the Python interpreter",
			func(ctx context.Context, req PythonRequest) Response {
				return t.Python(ctx, req.Command, req.WorkingDirectory)
			}),
		mustOperation(OpBuildProject,
			"Build projects using MSBuild. Supports Delphi (.dproj), C++ (.vcxproj), C# (.csproj), "+
				"and other MSBuild-compatible projects.",
			func(ctx context.Context, req BuildProjectRequest) Response {
				return t.BuildProject(ctx, req.ProjectPath, req.BuildOptions)
			}),
		mustOperation(OpBuildDelphiProject,
			"Build Delphi projects using MSBuild. Supports .dproj files.",
			func(ctx context.Context, req BuildDelphiProjectRequest) Response {
				return t.BuildDelphiProject(ctx, req.ProjectPath, req.BuildOptions)
			}),
		mustOperation(OpCompileDelphiDpr,
			"Compile Delphi .dpr project using dcc32/dcc64",
			func(ctx context.Context, req CompileDprRequest) Response {
				arch := req.Architecture
				if arch == "" {
					arch = "Win32"
				}
				return t.CompileDpr(ctx, req.DprPath, arch)
			}),
	}
}

// WithBundle registers all operations from a bundle.
func WithBundle(bundle Bundle) RegistryOption {
	return func(b *registryBuilder) {
		for _, op := range bundle.Operations() {
			b.add(op)
		}
	}
}

func mustOperation[Req any](name, description string, fn OperationFunc[Req, Response]) Operation {
	op, err := NewOperation(name, description, fn)
	if err != nil {
		panic(err)
	}
	return op
}
