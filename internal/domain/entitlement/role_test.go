package entitlement

import "testing"

func TestRoleRankOrder(t *testing.T) {
	t.Parallel()

	ordered := []Role{RoleUser, RoleEditor, RoleAdmin, RoleOwner}
	for i := 1; i < len(ordered); i++ {
		if ordered[i-1].Rank() >= ordered[i].Rank() {
			t.Errorf("expected %s to rank below %s", ordered[i-1], ordered[i])
		}
	}
}

func TestRoleAtLeast(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		role Role
		min  Role
		want bool
	}{
		{name: "owner at least user", role: RoleOwner, min: RoleUser, want: true},
		{name: "owner at least owner", role: RoleOwner, min: RoleOwner, want: true},
		{name: "admin at least editor", role: RoleAdmin, min: RoleEditor, want: true},
		{name: "editor at least editor", role: RoleEditor, min: RoleEditor, want: true},
		{name: "editor not at least admin", role: RoleEditor, min: RoleAdmin, want: false},
		{name: "user not at least editor", role: RoleUser, min: RoleEditor, want: false},
		{name: "user not at least owner", role: RoleUser, min: RoleOwner, want: false},
		{name: "invalid role never at least", role: Role("GUEST"), min: RoleUser, want: false},
		{name: "empty role never at least", role: Role(""), min: RoleUser, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.role.AtLeast(tt.min); got != tt.want {
				t.Errorf("%s.AtLeast(%s) = %v, want %v", tt.role, tt.min, got, tt.want)
			}
		})
	}
}

func TestParseRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    Role
		wantErr bool
	}{
		{name: "exact match", input: "OWNER", want: RoleOwner},
		{name: "lowercase", input: "editor", want: RoleEditor},
		{name: "mixed case with spaces", input: "  Admin ", want: RoleAdmin},
		{name: "user", input: "user", want: RoleUser},
		{name: "unknown role", input: "SUPERUSER", wantErr: true},
		{name: "empty string", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseRole(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseRole(%q) expected error, got %s", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRole(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseRole(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestRoleIsValid(t *testing.T) {
	t.Parallel()

	for _, role := range []Role{RoleUser, RoleEditor, RoleAdmin, RoleOwner} {
		if !role.IsValid() {
			t.Errorf("expected %s to be valid", role)
		}
	}
	for _, role := range []Role{"", "owner", "ROOT"} {
		if Role(role).IsValid() {
			t.Errorf("expected %q to be invalid", role)
		}
	}
}
