package share

import "testing"

func TestCategory(t *testing.T) {
	cases := []struct {
		pt   PrincipalType
		want Category
	}{
		{PrincipalUser, CategoryUser},
		{PrincipalGroup, CategoryGroup},
		{PrincipalRole, CategoryGroup},
		{PrincipalLocation, CategoryLDD},
		{PrincipalDivision, CategoryLDD},
		{PrincipalDepartment, CategoryLDD},
	}
	for _, c := range cases {
		got, ok := c.pt.Category()
		if !ok {
			t.Fatalf("Category(%q) not ok", c.pt)
		}
		if got != c.want {
			t.Fatalf("Category(%q) = %q, want %q", c.pt, got, c.want)
		}
	}
}

func TestCategoryUnknown(t *testing.T) {
	if _, ok := PrincipalType("team").Category(); ok {
		t.Fatal("expected unknown principal type to be rejected")
	}
	if _, ok := PrincipalType("").Category(); ok {
		t.Fatal("expected empty principal type to be rejected")
	}
}

func TestNormalizePermission(t *testing.T) {
	if got := NormalizePermission("full"); got != PermissionFull {
		t.Fatalf("NormalizePermission(full) = %q", got)
	}
	for _, v := range []string{"view", "", "edit", "FULL"} {
		if got := NormalizePermission(v); got != PermissionView {
			t.Fatalf("NormalizePermission(%q) = %q, want view", v, got)
		}
	}
}
