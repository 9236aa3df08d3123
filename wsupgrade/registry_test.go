package wsupgrade

import "testing"

func TestRegistry_RegisterAndLookupCaseInsensitive(t *testing.T) {
	r := NewRegistry()
	r.Register(&WebSocket{})

	p, ok := r.Lookup("WebSocket")
	if !ok {
		t.Fatal("expected lookup to find registered provider")
	}
	if p.Name() != "websocket" {
		t.Fatalf("Name() = %q, want %q", p.Name(), "websocket")
	}
}

func TestRegistry_LookupUnknownFails(t *testing.T) {
	r := NewRegistry()
	_, ok := r.Lookup("graphql-ws")
	if ok {
		t.Fatal("expected lookup of unregistered protocol to fail")
	}
}
