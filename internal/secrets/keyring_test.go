package secrets_test

import (
	"context"
	"errors"
	"testing"

	"github.com/zalando/go-keyring"

	"jobboard-engine/internal/bookmarks"
	"jobboard-engine/internal/secrets"
)

func TestKeyringKV(t *testing.T) {
	keyring.MockInit()
	ctx := context.Background()
	kv := secrets.NewKeyringKV("")

	if _, ok, err := kv.Get(ctx, "k"); err != nil || ok {
		t.Fatalf("Get missing = %v, %v", ok, err)
	}
	if err := kv.Set(ctx, "k", "[1,2]"); err != nil {
		t.Fatal(err)
	}
	if v, ok, err := kv.Get(ctx, "k"); err != nil || !ok || v != "[1,2]" {
		t.Fatalf("Get = %q, %v, %v", v, ok, err)
	}
	if err := kv.Remove(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if err := kv.Remove(ctx, "k"); err != nil {
		t.Errorf("removing a missing key: %v", err)
	}
	if err := kv.Set(ctx, " ", "x"); err == nil {
		t.Error("expected error for blank key")
	}
}

func TestKeyringKVBackendError(t *testing.T) {
	sentinel := errors.New("locked")
	keyring.MockInitWithError(sentinel)
	t.Cleanup(keyring.MockInit)

	kv := secrets.NewKeyringKV("svc")
	if _, _, err := kv.Get(context.Background(), "k"); !errors.Is(err, sentinel) {
		t.Errorf("Get err = %v", err)
	}
	store := bookmarks.NewStore(kv, "", nil)
	if got := store.Load(context.Background()); len(got) != 0 {
		t.Errorf("Load = %v, want empty", got)
	}
}

func TestResolve(t *testing.T) {
	keyring.MockInit()
	if err := keyring.Set("svc", "postgres", "postgres://u:p@db/jobs"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"postgres://plain", "postgres://plain", false},
		{"keyring:postgres", "postgres://u:p@db/jobs", false},
		{"keyring:missing", "", true},
		{"keyring:", "", true},
	}
	for _, tc := range tests {
		got, err := secrets.Resolve("svc", tc.in)
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Errorf("Resolve(%q) = %q, %v", tc.in, got, err)
		}
	}
}
