package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zalando/go-keyring"

	"github.com/zx06/keybridge/internal/errors"
)

type envelope struct {
	OK            bool           `json:"ok"`
	SchemaVersion int            `json:"schema_version"`
	Data          map[string]any `json:"data"`
	Error         *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

// cli runs the command in-process against the mock keyring and an isolated config.
func cli(t *testing.T, stdin string, args ...string) (envelope, string, string, int) {
	t.Helper()
	for _, k := range []string{"KEYBRIDGE_FORMAT", "KEYBRIDGE_LOG_LEVEL", "KEYBRIDGE_SERVICE", "KEYBRIDGE_FRAMING",
		"KEYBRIDGE_MCP_TRANSPORT", "KEYBRIDGE_MCP_HTTP_ADDR", "KEYBRIDGE_MCP_HTTP_AUTH_TOKEN"} {
		t.Setenv(k, "")
	}
	cfgPath := filepath.Join(t.TempDir(), "keybridge.yaml")
	if err := os.WriteFile(cfgPath, []byte("service: argos\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	var out, errOut bytes.Buffer
	full := append([]string{"--config", cfgPath}, args...)
	code := runWith(full, strings.NewReader(stdin), &out, &errOut)

	var env envelope
	if trimmed := strings.TrimSpace(out.String()); strings.HasPrefix(trimmed, "{\"ok\"") {
		if err := json.Unmarshal(out.Bytes(), &env); err != nil {
			t.Fatalf("bad envelope %q: %v", out.String(), err)
		}
	}
	return env, out.String(), errOut.String(), code
}

func TestCLI_SetGetDelete(t *testing.T) {
	keyring.MockInit()

	env, _, _, code := cli(t, "", "set", "argos", "mistral", "sk-123", "-f", "json")
	if code != 0 || !env.OK {
		t.Fatalf("set: code=%d env=%+v", code, env)
	}
	if env.Data["success"] != true || env.Data["value"] != nil || env.Data["error"] != nil {
		t.Fatalf("set data: %+v", env.Data)
	}

	env, _, _, code = cli(t, "", "get", "argos", "mistral", "-f", "json")
	if code != 0 || env.Data["value"] != "sk-123" {
		t.Fatalf("get: code=%d env=%+v", code, env)
	}

	env, _, _, code = cli(t, "", "delete", "argos", "mistral", "-f", "json")
	if code != 0 || env.Data["success"] != true {
		t.Fatalf("delete: code=%d env=%+v", code, env)
	}

	env, _, _, code = cli(t, "", "get", "argos", "mistral", "-f", "json")
	if code != int(errors.ExitKeychain) {
		t.Fatalf("get after delete: expected exit %d, got %d", errors.ExitKeychain, code)
	}
	if env.OK || env.Error == nil || env.Error.Code != string(errors.CodeKeychainFailed) {
		t.Fatalf("get after delete: %+v", env)
	}
	if env.Error.Message != keyring.ErrNotFound.Error() {
		t.Fatalf("platform text should pass through, got %q", env.Error.Message)
	}
	result, _ := env.Error.Details["result"].(map[string]any)
	if result["success"] != false || result["error"] != keyring.ErrNotFound.Error() {
		t.Fatalf("details.result: %+v", env.Error.Details)
	}
}

func TestCLI_SetFromStdin(t *testing.T) {
	keyring.MockInit()

	_, _, _, code := cli(t, "line-secret\n", "set", "argos", "token", "--stdin", "-f", "json")
	if code != 0 {
		t.Fatalf("set --stdin exit %d", code)
	}
	_, out, _, code := cli(t, "", "get", "argos", "token", "--raw")
	if code != 0 || out != "line-secret\n" {
		t.Fatalf("get --raw: code=%d out=%q", code, out)
	}
}

func TestCLI_SetValueRequired(t *testing.T) {
	keyring.MockInit()
	prev := stdinIsTerminal
	stdinIsTerminal = func() bool { return false }
	t.Cleanup(func() { stdinIsTerminal = prev })

	env, _, _, code := cli(t, "", "set", "argos", "token", "-f", "json")
	if code != int(errors.ExitConfig) || env.Error == nil || env.Error.Code != string(errors.CodeCfgInvalid) {
		t.Fatalf("expected config error, code=%d env=%+v", code, env)
	}

	_, _, _, code = cli(t, "x", "set", "argos", "token", "v", "--stdin", "-f", "json")
	if code != int(errors.ExitConfig) {
		t.Fatalf("value twice: expected exit 2, got %d", code)
	}
}

func TestCLI_SetPrompt(t *testing.T) {
	keyring.MockInit()
	prevTTY, prevPrompt := stdinIsTerminal, promptValue
	stdinIsTerminal = func() bool { return true }
	promptValue = func(service, key string) (string, error) {
		return service + ":" + key + ":typed", nil
	}
	t.Cleanup(func() { stdinIsTerminal, promptValue = prevTTY, prevPrompt })

	if _, _, _, code := cli(t, "", "set", "argos", "token", "-f", "json"); code != 0 {
		t.Fatalf("set via prompt exit %d", code)
	}
	env, _, _, _ := cli(t, "", "get", "argos", "token", "-f", "json")
	if env.Data["value"] != "argos:token:typed" {
		t.Fatalf("unexpected value: %+v", env.Data)
	}
}

func TestCLI_UsageErrorsExitConfig(t *testing.T) {
	keyring.MockInit()
	cases := []struct {
		name string
		args []string
	}{
		{"get missing key", []string{"get", "argos", "-f", "json"}},
		{"set too many args", []string{"set", "a", "b", "c", "d", "-f", "json"}},
		{"serve extra arg", []string{"serve", "now", "-f", "json"}},
		{"probe two services", []string{"probe", "a", "b", "-f", "json"}},
		{"unknown subcommand", []string{"fetch", "-f", "json"}},
		{"unknown flag", []string{"get", "argos", "k", "--bogus", "-f", "json"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env, out, _, code := cli(t, "", tc.args...)
			if code != int(errors.ExitConfig) {
				t.Fatalf("expected exit %d, got %d: %s", errors.ExitConfig, code, out)
			}
			if env.Error == nil || env.Error.Code != string(errors.CodeCfgInvalid) {
				t.Fatalf("expected %s, got %s", errors.CodeCfgInvalid, out)
			}
		})
	}
}

func TestCLI_ProbePositionalService(t *testing.T) {
	keyring.MockInit()
	env, _, _, code := cli(t, "", "probe", "myservice", "-f", "json")
	if code != 0 || env.Data["service"] != "myservice" || env.Data["available"] != true {
		t.Fatalf("probe: code=%d env=%+v", code, env)
	}

	env, _, _, code = cli(t, "", "probe", "positional", "--service", "flag", "-f", "json")
	if code != 0 || env.Data["service"] != "positional" {
		t.Fatalf("positional should win over --service: code=%d env=%+v", code, env)
	}

	env, _, _, code = cli(t, "", "probe", "--service", "flag", "-f", "json")
	if code != 0 || env.Data["service"] != "flag" {
		t.Fatalf("--service should win over config: code=%d env=%+v", code, env)
	}
}

func TestCLI_Probe(t *testing.T) {
	keyring.MockInit()
	env, _, _, code := cli(t, "", "probe", "-f", "json")
	if code != 0 || env.Data["available"] != true || env.Data["service"] != "argos" {
		t.Fatalf("probe: code=%d env=%+v", code, env)
	}

	keyring.MockInitWithError(os.ErrPermission)
	t.Cleanup(keyring.MockInit)
	env, _, _, code = cli(t, "", "probe", "--service", "other", "-f", "json")
	if code != int(errors.ExitKeychain) || env.Error == nil {
		t.Fatalf("probe failure: code=%d env=%+v", code, env)
	}
	if env.Error.Details["service"] != "other" {
		t.Fatalf("details: %+v", env.Error.Details)
	}
}

func TestCLI_Serve(t *testing.T) {
	keyring.MockInit()
	in := `{"id":1,"command":"keychain_set","args":{"service":"argos","key":"k","value":"v"}}` + "\n" +
		`{"id":2,"command":"keychain_get","args":{"service":"argos","key":"k"}}` + "\n"

	_, out, _, code := cli(t, in, "serve")
	if code != 0 {
		t.Fatalf("serve exit %d", code)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 responses, got %q", out)
	}
	if lines[1] != `{"id":2,"success":true,"value":"v","error":null}` {
		t.Fatalf("unexpected get response %q", lines[1])
	}
}

func TestCLI_ServeInvalidFraming(t *testing.T) {
	_, _, _, code := cli(t, "", "serve", "--framing", "xml", "-f", "json")
	if code != int(errors.ExitConfig) {
		t.Fatalf("expected exit 2, got %d", code)
	}
}

func TestCLI_LogsGoToStderr(t *testing.T) {
	keyring.MockInit()
	_, out, errOut, code := cli(t, "", "set", "argos", "k", "topsecret", "-f", "json", "--log-level", "debug")
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	if !strings.Contains(errOut, "keychain call") {
		t.Fatalf("expected debug log on stderr, got %q", errOut)
	}
	if strings.Contains(out, "keychain call") {
		t.Fatal("logs leaked to stdout")
	}
	if strings.Contains(errOut, "topsecret") {
		t.Fatal("secret value leaked to logs")
	}
}

func TestCLI_SpecAndVersion(t *testing.T) {
	env, _, _, code := cli(t, "", "spec", "-f", "json")
	if code != 0 || !env.OK || env.SchemaVersion != 1 {
		t.Fatalf("spec: code=%d env=%+v", code, env)
	}
	if _, ok := env.Data["ipc_commands"]; !ok {
		t.Fatalf("spec should list ipc commands: %+v", env.Data)
	}

	env, _, _, code = cli(t, "", "version", "-f", "json")
	if code != 0 || env.Data["version"] != version {
		t.Fatalf("version: code=%d env=%+v", code, env)
	}
}

func TestCLI_InvalidFormat(t *testing.T) {
	_, _, _, code := cli(t, "", "version", "--format", "invalid")
	if code != int(errors.ExitConfig) {
		t.Fatalf("expected exit 2, got %d", code)
	}
}

func TestCLI_InvalidLogLevel(t *testing.T) {
	_, _, _, code := cli(t, "", "get", "a", "b", "-f", "json", "--log-level", "loud")
	if code != int(errors.ExitConfig) {
		t.Fatalf("expected exit 2, got %d", code)
	}
}

func TestCLI_MissingConfig(t *testing.T) {
	var out bytes.Buffer
	code := runWith([]string{"version", "--config", filepath.Join(t.TempDir(), "nope.yaml"), "-f", "json"}, strings.NewReader(""), &out, &bytes.Buffer{})
	if code != int(errors.ExitConfig) {
		t.Fatalf("expected exit 2, got %d", code)
	}
	if !strings.Contains(out.String(), string(errors.CodeCfgNotFound)) {
		t.Fatalf("expected CFG_NOT_FOUND, got %s", out.String())
	}
}
