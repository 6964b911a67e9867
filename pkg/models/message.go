package models

// Role is the closed category a message's author selects when posting.
type Role string

const (
	RoleStudent    Role = "student"
	RoleShopkeeper Role = "shopkeeper"
	RoleParent     Role = "parent"
)

// Roles lists every valid role in display order.
func Roles() []Role {
	return []Role{RoleStudent, RoleShopkeeper, RoleParent}
}

// Valid reports whether r is one of the closed role set.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleShopkeeper, RoleParent:
		return true
	}
	return false
}

// Label returns the Turkish display label for the role.
func (r Role) Label() string {
	switch r {
	case RoleStudent:
		return "Öğrenci"
	case RoleShopkeeper:
		return "Esnaf"
	case RoleParent:
		return "Veli"
	}
	return string(r)
}

// ParseRole resolves a role code or its Turkish display label. The second
// return value is false when the input matches neither.
func ParseRole(s string) (Role, bool) {
	switch s {
	case string(RoleStudent), "Öğrenci":
		return RoleStudent, true
	case string(RoleShopkeeper), "Esnaf":
		return RoleShopkeeper, true
	case string(RoleParent), "Veli":
		return RoleParent, true
	}
	return "", false
}

// SolidarityMessage is a single posted ad. Messages are immutable after
// creation; the only mutation is deletion.
type SolidarityMessage struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Message  string `json:"message"`
	Role     Role   `json:"role"`
	// District is an optional free-text neighborhood label; empty means
	// unknown.
	District string `json:"district,omitempty"`
	// CreatedAt is milliseconds since epoch, assigned at creation.
	CreatedAt int64 `json:"createdAt"`
}

// Draft is a raw submission before validation. Create only accepts drafts
// that passed validation.
type Draft struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Message  string `json:"message"`
	Role     Role   `json:"role"`
	District string `json:"district,omitempty"`
}
