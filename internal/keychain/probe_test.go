package keychain

import (
	stderrors "errors"
	"testing"
)

func TestProbe_NotFoundIsAvailable(t *testing.T) {
	b := New(newMemStore(), nil)
	if err := b.Probe("argos"); err != nil {
		t.Fatalf("expected store to be available, got %v", err)
	}
}

func TestProbe_ExistingKeyIsAvailable(t *testing.T) {
	st := newMemStore()
	st.put("argos", probeKey, "x")
	if err := New(st, nil).Probe("argos"); err != nil {
		t.Fatalf("expected store to be available, got %v", err)
	}
}

func TestProbe_PlatformError(t *testing.T) {
	platformErr := stderrors.New("dbus: connection refused")
	err := New(failingStore{err: platformErr}, nil).Probe("argos")
	if err != platformErr {
		t.Fatalf("expected platform error, got %v", err)
	}
}
