package store_test

import (
	"testing"

	"github.com/olegiv/sotorko-go/internal/auth"
	"github.com/olegiv/sotorko-go/internal/model"
	"github.com/olegiv/sotorko-go/internal/store"
	"github.com/olegiv/sotorko-go/internal/testutil"
)

func TestSeedDisabled(t *testing.T) {
	kv := testutil.TestStore(t)

	if err := store.Seed(kv, store.DefaultAdminPassword, false); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if ok, _ := kv.Has(store.KeyUsers); ok {
		t.Error("disabled seed wrote users")
	}
}

func TestSeedUsersAndReports(t *testing.T) {
	kv := testutil.TestStore(t)

	if err := store.Seed(kv, store.DefaultAdminPassword, true); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	var users []model.User
	if err := kv.Get(store.KeyUsers, &users); err != nil {
		t.Fatalf("reading seeded users: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("seeded %d users; want 2", len(users))
	}

	var admin *model.User
	for i := range users {
		if users[i].Email == store.DefaultAdminEmail {
			admin = &users[i]
		}
	}
	if admin == nil {
		t.Fatal("admin not seeded")
	}
	if admin.Role != model.RoleAdmin {
		t.Errorf("admin role = %q", admin.Role)
	}
	if ok, err := auth.CheckPassword(store.DefaultAdminPassword, admin.PasswordHash); err != nil || !ok {
		t.Errorf("seeded admin hash does not verify: (%v, %v)", ok, err)
	}

	var reports []model.ScamReport
	if err := kv.Get(store.KeyReports, &reports); err != nil {
		t.Fatalf("reading seeded reports: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("seeded %d reports; want 2", len(reports))
	}
	statuses := map[string]bool{}
	for _, r := range reports {
		statuses[r.Status] = true
	}
	if !statuses[model.StatusApproved] || !statuses[model.StatusPending] {
		t.Errorf("seeded statuses = %v; want one approved and one pending", statuses)
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	kv := testutil.TestStore(t)

	if err := store.Seed(kv, store.DefaultAdminPassword, true); err != nil {
		t.Fatalf("first Seed: %v", err)
	}

	var before []model.User
	if err := kv.Get(store.KeyUsers, &before); err != nil {
		t.Fatalf("Get: %v", err)
	}

	if err := store.Seed(kv, store.DefaultAdminPassword, true); err != nil {
		t.Fatalf("second Seed: %v", err)
	}

	var after []model.User
	if err := kv.Get(store.KeyUsers, &after); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(after) != len(before) {
		t.Errorf("reseeding changed user count: %d -> %d", len(before), len(after))
	}
}
