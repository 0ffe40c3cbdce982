package domain

import "testing"

func TestRoleLabel(t *testing.T) {
	tests := []struct {
		role Role
		want string
	}{
		{RoleUser, "User"},
		{RoleAssistant, "Assistant"},
		{Role("unknown"), "User"},
	}

	for _, tt := range tests {
		if got := tt.role.Label(); got != tt.want {
			t.Errorf("Label(%s) = %q, want %q", tt.role, got, tt.want)
		}
	}
}
