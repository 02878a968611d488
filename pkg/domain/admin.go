package domain

import "time"

// Role is an admin account role.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleSeller Role = "seller"
)

// Roles lists the assignable roles in cycle order.
var Roles = []Role{RoleAdmin, RoleSeller}

// ValidRole returns true if r is a known admin role.
func ValidRole(r Role) bool {
	return r == RoleAdmin || r == RoleSeller
}

// AdminUser is an operator account. Created through the console, never
// mutated or deleted by it.
type AdminUser struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AdminPage is a page of admin accounts with its pagination envelope.
type AdminPage struct {
	Admins     []AdminUser `json:"adminUsers"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"totalPages"`
}
