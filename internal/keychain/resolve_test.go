package keychain

import (
	"testing"

	"github.com/zx06/keybridge/internal/errors"
)

func TestParseKeyringRef(t *testing.T) {
	tests := []struct {
		name        string
		ref         string
		def         string
		wantService string
		wantKey     string
		wantErr     bool
	}{
		{name: "default service", ref: "token", def: "argos", wantService: "argos", wantKey: "token"},
		{name: "explicit service", ref: "mcp/token", def: "argos", wantService: "mcp", wantKey: "token"},
		{name: "key with slash", ref: "argos/prod/token", def: "x", wantService: "argos", wantKey: "prod/token"},
		{name: "empty ref", ref: "", def: "argos", wantErr: true},
		{name: "no default service", ref: "token", def: "", wantErr: true},
		{name: "empty key", ref: "argos/", def: "argos", wantErr: true},
		{name: "empty service", ref: "/token", def: "argos", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, key, xe := parseKeyringRef(tt.ref, tt.def)
			if tt.wantErr {
				if xe == nil {
					t.Fatalf("parseKeyringRef(%q) expected error", tt.ref)
				}
				if xe.Code != errors.CodeCfgInvalid {
					t.Fatalf("expected CodeCfgInvalid, got %s", xe.Code)
				}
				return
			}
			if xe != nil {
				t.Fatalf("unexpected error: %v", xe)
			}
			if service != tt.wantService || key != tt.wantKey {
				t.Fatalf("got (%q, %q), want (%q, %q)", service, key, tt.wantService, tt.wantKey)
			}
		})
	}
}

func TestResolve_KeyringRef(t *testing.T) {
	st := newMemStore()
	st.put("keybridge", "mcp_token", "tok123")
	st.put("other", "prod/token", "tok456")

	val, xe := Resolve("keyring:mcp_token", Options{Service: "keybridge", Store: st})
	if xe != nil {
		t.Fatalf("unexpected err: %v", xe)
	}
	if val != "tok123" {
		t.Fatalf("val=%q", val)
	}

	val, xe = Resolve("keyring:other/prod/token", Options{Service: "keybridge", Store: st})
	if xe != nil {
		t.Fatalf("unexpected err: %v", xe)
	}
	if val != "tok456" {
		t.Fatalf("val=%q", val)
	}
}

func TestResolve_KeyringNotFound(t *testing.T) {
	_, xe := Resolve("keyring:no_such", Options{Service: "keybridge", Store: newMemStore()})
	if xe == nil || xe.Code != errors.CodeSecretNotFound {
		t.Fatalf("expected KEYBRIDGE_SECRET_NOT_FOUND, got %v", xe)
	}
}

func TestResolve_EmptyRef(t *testing.T) {
	_, xe := Resolve("keyring:", Options{Service: "keybridge", Store: newMemStore()})
	if xe == nil || xe.Code != errors.CodeCfgInvalid {
		t.Fatalf("expected KEYBRIDGE_CFG_INVALID, got %v", xe)
	}
}

func TestResolve_Plaintext(t *testing.T) {
	val, xe := Resolve("plain", Options{AllowPlaintext: true})
	if xe != nil || val != "plain" {
		t.Fatalf("val=%q err=%v", val, xe)
	}
	_, xe = Resolve("plain", Options{})
	if xe == nil || xe.Code != errors.CodeCfgInvalid {
		t.Fatalf("expected KEYBRIDGE_CFG_INVALID, got %v", xe)
	}
}

func TestIsKeyringRef(t *testing.T) {
	if !IsKeyringRef("keyring:foo") {
		t.Fatal("expected true")
	}
	if IsKeyringRef("plaintext") {
		t.Fatal("expected false")
	}
}
