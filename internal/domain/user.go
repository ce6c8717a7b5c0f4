package domain

import "time"

// Role is the closed set of user roles known to the platform.
// Only RoleAdmin and RoleManager may use the admin dashboard.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleCustomer Role = "customer"
)

// Dashboard reports whether the role is allowed to use this client at all.
func (r Role) Dashboard() bool {
	return r == RoleAdmin || r == RoleManager
}

// User is the identity payload returned by the auth service.
type User struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Store     *Store    `json:"store,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// CreateUser is the payload for creating or updating a dashboard user.
type CreateUser struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password,omitempty"`
	Role      Role   `json:"role"`
	StoreID   string `json:"storeId,omitempty"`
}
