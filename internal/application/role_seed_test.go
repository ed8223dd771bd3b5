package application

import (
	"context"
	"testing"

	"github.com/finchlabs/finch/internal/domain/entity"
)

func TestSeedDefaultsRunTwiceProducesIdenticalRoles(t *testing.T) {
	t.Parallel()
	roles := newFakeRoleRepo() // first seed runs in the constructor

	before := map[string]entity.Role{}
	for name, r := range roles.roles {
		before[name] = *r
	}

	if err := roles.SeedDefaults(context.Background(), entity.DefaultRoleTable(), entity.RoleNameUser); err != nil {
		t.Fatalf("reseed: %v", err)
	}

	if len(roles.roles) != len(before) {
		t.Fatalf("role count changed: %d -> %d", len(before), len(roles.roles))
	}
	for name, want := range before {
		got, ok := roles.roles[name]
		if !ok {
			t.Fatalf("role %q missing after reseed", name)
		}
		if got.ID != want.ID || got.Default != want.Default || got.Permissions != want.Permissions {
			t.Fatalf("role %q changed after reseed: got %+v, want %+v", name, *got, want)
		}
	}

	def, err := roles.DefaultRole(context.Background())
	if err != nil {
		t.Fatalf("default role after reseed: %v", err)
	}
	if def.Name != entity.RoleNameUser {
		t.Fatalf("default role = %q, want %q", def.Name, entity.RoleNameUser)
	}
}
