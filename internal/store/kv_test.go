package store_test

import (
	"errors"
	"testing"

	"github.com/olegiv/sotorko-go/internal/store"
	"github.com/olegiv/sotorko-go/internal/testutil"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestKVRoundTrip(t *testing.T) {
	kv := testutil.TestStore(t)

	var missing payload
	if err := kv.Get("absent", &missing); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Get(absent) = %v; want ErrNotFound", err)
	}

	in := payload{Name: "reports", Count: 3}
	if err := kv.Set(store.KeyReports, in); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var out payload
	if err := kv.Get(store.KeyReports, &out); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if out != in {
		t.Errorf("Get = %+v; want %+v", out, in)
	}
}

func TestKVSetOverwrites(t *testing.T) {
	kv := testutil.TestStore(t)

	if err := kv.Set("k", payload{Name: "first"}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := kv.Set("k", payload{Name: "second"}); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}

	var out payload
	if err := kv.Get("k", &out); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if out.Name != "second" {
		t.Errorf("Get.Name = %q; want second", out.Name)
	}
}

func TestKVRemoveAndHas(t *testing.T) {
	kv := testutil.TestStore(t)

	// Removing an absent key is not an error.
	if err := kv.Remove("nope"); err != nil {
		t.Errorf("Remove(nope) = %v", err)
	}

	if err := kv.Set(store.KeySession, payload{Name: "s"}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	ok, err := kv.Has(store.KeySession)
	if err != nil || !ok {
		t.Fatalf("Has = (%v, %v); want (true, nil)", ok, err)
	}

	if err := kv.Remove(store.KeySession); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	ok, err = kv.Has(store.KeySession)
	if err != nil || ok {
		t.Errorf("Has after Remove = (%v, %v); want (false, nil)", ok, err)
	}
}

func TestKVStoresSlices(t *testing.T) {
	kv := testutil.TestStore(t)

	in := []payload{{Name: "a", Count: 1}, {Name: "b", Count: 2}}
	if err := kv.Set(store.KeyUsers, in); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var out []payload
	if err := kv.Get(store.KeyUsers, &out); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(out) != 2 || out[1].Name != "b" {
		t.Errorf("Get = %+v", out)
	}
}
