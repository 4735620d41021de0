package roles

import "testing"

func TestHasPermission(t *testing.T) {
	tests := []struct {
		name     string
		role     Role
		required Role
		expected bool
	}{
		{"staff covers user", Staff, User, true},
		{"staff covers staff", Staff, Staff, true},
		{"user covers user", User, User, true},
		{"user lacks staff", User, Staff, false},
		{"unknown behaves as user", Role("guest"), Staff, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.role.HasPermission(tt.required); got != tt.expected {
				t.Errorf("HasPermission() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestFromStaffFlag(t *testing.T) {
	if FromStaffFlag(true) != Staff {
		t.Errorf("FromStaffFlag(true) = %v, want %v", FromStaffFlag(true), Staff)
	}
	if FromStaffFlag(false) != User {
		t.Errorf("FromStaffFlag(false) = %v, want %v", FromStaffFlag(false), User)
	}
	if Role("guest").IsValid() {
		t.Errorf("guest role should not be valid")
	}
}
