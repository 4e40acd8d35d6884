package app

import (
	"github.com/zx06/keybridge/internal/errors"
	"github.com/zx06/keybridge/internal/ipc"
	"github.com/zx06/keybridge/internal/output"
	"github.com/zx06/keybridge/internal/spec"
)

type App struct {
	Version string
	Commit  string
	Date    string
}

func New(version, commit, date string) App {
	return App{Version: version, Commit: commit, Date: date}
}

func (a App) BuildSpec() spec.Spec {
	globalFlags := []spec.FlagSpec{
		{Name: "config", Default: "", Description: "Config file path (YAML); default: ./keybridge.yaml or $HOME/.config/keybridge/keybridge.yaml"},
		{Name: "format", Shorthand: "f", Env: "KEYBRIDGE_FORMAT", Default: "auto", Description: "Output format: json|yaml|table|csv|auto"},
		{Name: "log-level", Env: "KEYBRIDGE_LOG_LEVEL", Default: "info", Description: "Log level (stderr): debug|info|warn|error"},
	}
	with := func(extra ...spec.FlagSpec) []spec.FlagSpec {
		out := make([]spec.FlagSpec, 0, len(globalFlags)+len(extra))
		out = append(out, globalFlags...)
		return append(out, extra...)
	}

	ipcCommands := make([]spec.IPCCommandSpec, 0, len(ipc.Commands()))
	for _, name := range ipc.Commands() {
		ipcCommands = append(ipcCommands, spec.IPCCommandSpec{Name: name, Params: ipc.Params(name)})
	}

	return spec.Spec{
		SchemaVersion: output.SchemaVersion,
		Commands: []spec.CommandSpec{
			{Name: "set", Description: "Store a secret: set <service> <key> [value]", Flags: with(
				spec.FlagSpec{Name: "stdin", Default: "false", Description: "Read the value from stdin"},
			)},
			{Name: "get", Description: "Read a secret: get <service> <key>", Flags: with(
				spec.FlagSpec{Name: "raw", Default: "false", Description: "Print only the value"},
			)},
			{Name: "delete", Description: "Delete a secret: delete <service> <key>", Flags: with()},
			{Name: "probe", Description: "Check that the OS secret store is reachable: probe [service]", Flags: with(
				spec.FlagSpec{Name: "service", Env: "KEYBRIDGE_SERVICE", Default: "keybridge", Description: "Service used for the probe lookup when no positional service is given"},
			)},
			{Name: "serve", Description: "Serve keychain commands over stdin/stdout", Flags: with(
				spec.FlagSpec{Name: "framing", Env: "KEYBRIDGE_FRAMING", Default: "lines", Description: "Message framing: lines|native"},
			)},
			{Name: "mcp server", Description: "Start MCP server exposing keychain tools", Flags: with(
				spec.FlagSpec{Name: "transport", Env: "KEYBRIDGE_MCP_TRANSPORT", Default: "stdio", Description: "MCP transport: stdio|streamable_http"},
				spec.FlagSpec{Name: "http-addr", Env: "KEYBRIDGE_MCP_HTTP_ADDR", Default: "127.0.0.1:8787", Description: "Streamable HTTP listen address"},
				spec.FlagSpec{Name: "http-auth-token", Env: "KEYBRIDGE_MCP_HTTP_AUTH_TOKEN", Description: "Streamable HTTP bearer token"},
			)},
			{Name: "spec", Description: "Export tool spec for AI/agents", Flags: with()},
			{Name: "version", Description: "Print version information", Flags: with()},
		},
		IPCCommands: ipcCommands,
		ErrorCodes:  errors.AllCodes(),
	}
}

type VersionInfo struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"date" yaml:"date"`
}

func (a App) VersionInfo() VersionInfo {
	return VersionInfo{Version: a.Version, Commit: a.Commit, Date: a.Date}
}
