package roles

// Role is the permission level of a console user
type Role string

const (
	User  Role = "user"
	Staff Role = "staff"
)

// HierarchyLevel orders roles
type HierarchyLevel int

const (
	UserLevel  HierarchyLevel = 1
	StaffLevel HierarchyLevel = 2
)

// FromStaffFlag maps the API's is_staff flag to a role
func FromStaffFlag(isStaff bool) Role {
	if isStaff {
		return Staff
	}
	return User
}

func (r Role) GetHierarchyLevel() HierarchyLevel {
	switch r {
	case Staff:
		return StaffLevel
	default:
		return UserLevel
	}
}

// HasPermission reports whether r covers requiredRole
func (r Role) HasPermission(requiredRole Role) bool {
	return r.GetHierarchyLevel() >= requiredRole.GetHierarchyLevel()
}

func (r Role) IsValid() bool {
	switch r {
	case User, Staff:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}
