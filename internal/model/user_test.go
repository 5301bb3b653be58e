package model

import "testing"

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Admin@Sotorko.com", "admin@sotorko.com"},
		{"  user@example.com ", "user@example.com"},
		{"UPPER@EXAMPLE.COM", "upper@example.com"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeEmail(tt.in); got != tt.want {
			t.Errorf("NormalizeEmail(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestDisplayNameFromEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"jane@example.com", "Jane"},
		{"jane.doe@example.com", "Jane.doe"},
		{"ADMIN@sotorko.com", "Admin"},
		{"@example.com", "Anonymous"},
		{"", "Anonymous"},
	}

	for _, tt := range tests {
		if got := DisplayNameFromEmail(tt.in); got != tt.want {
			t.Errorf("DisplayNameFromEmail(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsValidRole(t *testing.T) {
	for _, role := range ValidRoles {
		if !IsValidRole(role) {
			t.Errorf("IsValidRole(%q) = false; want true", role)
		}
	}
	if IsValidRole("editor") {
		t.Error("IsValidRole(\"editor\") = true; want false")
	}
	if IsValidRole("") {
		t.Error("IsValidRole(\"\") = true; want false")
	}
}

func TestUserPrivilege(t *testing.T) {
	u := User{Role: RoleUser}
	if u.IsPrivileged() || u.IsAdmin() {
		t.Error("user role should not be privileged")
	}

	m := User{Role: RoleModerator}
	if !m.IsPrivileged() {
		t.Error("moderator should be privileged")
	}
	if m.IsAdmin() {
		t.Error("moderator should not be admin")
	}

	a := User{Role: RoleAdmin}
	if !a.IsPrivileged() || !a.IsAdmin() {
		t.Error("admin should be privileged and admin")
	}
}

func TestUserPublicStripsHash(t *testing.T) {
	u := User{ID: "u1", Email: "admin@sotorko.com", PasswordHash: "$argon2id$..."}
	pub := u.Public()
	if pub.PasswordHash != "" {
		t.Error("Public() must strip the password hash")
	}
	if u.PasswordHash == "" {
		t.Error("Public() must not mutate the receiver")
	}
}

func TestIsValidRiskLevel(t *testing.T) {
	for _, l := range ValidRiskLevels {
		if !IsValidRiskLevel(l) {
			t.Errorf("IsValidRiskLevel(%q) = false; want true", l)
		}
	}
	if IsValidRiskLevel("severe") {
		t.Error("IsValidRiskLevel(\"severe\") = true; want false")
	}
}
