package entity

import "testing"

func TestPermissionMaskOps(t *testing.T) {
	t.Parallel()

	mask := ResetPermissions()
	if mask != 0 {
		t.Fatalf("reset mask = %d, want 0", mask)
	}

	mask = AddPermission(mask, PermFollow)
	mask = AddPermission(mask, PermWrite)
	if !HasPermission(mask, PermFollow) || !HasPermission(mask, PermWrite) {
		t.Fatalf("mask %d missing added permissions", mask)
	}
	if HasPermission(mask, PermModerate) {
		t.Fatalf("mask %d has permission that was never added", mask)
	}

	// adding twice must not change the mask
	again := AddPermission(mask, PermFollow)
	if again != mask {
		t.Fatalf("re-adding changed mask: %d != %d", again, mask)
	}

	mask = RemovePermission(mask, PermWrite)
	if HasPermission(mask, PermWrite) {
		t.Fatalf("mask %d still has removed permission", mask)
	}
	// removing an absent permission is a no-op
	if got := RemovePermission(mask, PermAdmin); got != mask {
		t.Fatalf("removing absent permission changed mask: %d != %d", got, mask)
	}
}

func TestPermissionValues(t *testing.T) {
	t.Parallel()

	want := map[Permission]int{
		PermFollow:   1,
		PermComment:  2,
		PermWrite:    4,
		PermModerate: 8,
		PermAdmin:    16,
	}
	for p, v := range want {
		if int(p) != v {
			t.Errorf("permission value = %d, want %d", int(p), v)
		}
	}
}

func TestRolePermissions(t *testing.T) {
	t.Parallel()

	r := &Role{}
	r.AddPermission(PermFollow)
	r.AddPermission(PermComment)
	if !r.HasPermission(PermFollow) || !r.HasPermission(PermComment) {
		t.Fatal("role missing granted permissions")
	}
	if r.HasPermission(PermAdmin) {
		t.Fatal("role has permission that was never granted")
	}
	r.RemovePermission(PermComment)
	if r.HasPermission(PermComment) {
		t.Fatal("role still has removed permission")
	}
	r.ResetPermissions()
	if r.HasPermission(PermFollow) {
		t.Fatal("role has permissions after reset")
	}
}

func TestDefaultRoleTable(t *testing.T) {
	t.Parallel()

	table := DefaultRoleTable()
	if len(table) != 3 {
		t.Fatalf("role table has %d entries, want 3", len(table))
	}

	cases := []struct {
		role string
		has  []Permission
		not  []Permission
	}{
		{RoleNameUser, []Permission{PermFollow, PermComment, PermWrite}, []Permission{PermModerate, PermAdmin}},
		{RoleNameModerator, []Permission{PermFollow, PermComment, PermWrite, PermModerate}, []Permission{PermAdmin}},
		{RoleNameAdministrator, []Permission{PermFollow, PermComment, PermWrite, PermModerate, PermAdmin}, nil},
	}
	for _, tc := range cases {
		perms, ok := table[tc.role]
		if !ok {
			t.Fatalf("role %q missing from table", tc.role)
		}
		mask := ResetPermissions()
		for _, p := range perms {
			mask = AddPermission(mask, p)
		}
		for _, p := range tc.has {
			if !HasPermission(mask, p) {
				t.Errorf("role %q missing permission %d", tc.role, p)
			}
		}
		for _, p := range tc.not {
			if HasPermission(mask, p) {
				t.Errorf("role %q unexpectedly has permission %d", tc.role, p)
			}
		}
	}
}
