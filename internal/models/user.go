package models

import "time"

// Role represents user roles in the system.
type Role string

const (
	RoleAdmin         Role = "admin"
	RolePartner       Role = "partner"
	RoleSubcontractor Role = "subcontractor"
	RoleCustomer      Role = "customer"
	RoleUser          Role = "user"
)

// IsValidRole checks if a role is valid.
func IsValidRole(role Role) bool {
	switch role {
	case RoleAdmin, RolePartner, RoleSubcontractor, RoleCustomer, RoleUser:
		return true
	default:
		return false
	}
}

// User is the store-side mirror of an authentication record. The Admin flag
// and Role string are written together by every writer; SyncUsers reconciles
// drift between this mirror and the auth records.
type User struct {
	UID         string     `json:"uid"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	PhotoURL    string     `json:"photo_url"`
	Role        Role       `json:"role"`
	Admin       bool       `json:"admin"`
	Providers   []string   `json:"providers"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	LastSignIn  *time.Time `json:"last_sign_in,omitempty"`
}

// AuthRecord is the authentication provider's view of a user: credentials
// plus the custom claims the provider attaches to issued tokens.
type AuthRecord struct {
	UID          string     `json:"uid" bson:"uid"`
	Email        string     `json:"email" bson:"email"`
	PasswordHash string     `json:"-" bson:"password_hash"`
	DisplayName  string     `json:"display_name" bson:"display_name"`
	PhotoURL     string     `json:"photo_url" bson:"photo_url"`
	Role         Role       `json:"role" bson:"role"`
	Admin        bool       `json:"admin" bson:"admin"`
	Providers    []string   `json:"providers" bson:"providers"`
	CreatedAt    time.Time  `json:"created_at" bson:"created_at"`
	LastSignIn   *time.Time `json:"last_sign_in,omitempty" bson:"last_sign_in,omitempty"`
}

// Claims represents the JWT claims carried by an issued token.
type Claims struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
	Admin bool   `json:"admin"`
	Exp   int64  `json:"exp"`
}

// SignInRequest represents a sign-in request.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInResponse represents a successful sign-in.
type SignInResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// CreateUserRequest is the payload of the privileged create-user call.
type CreateUserRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	Role        Role   `json:"role"`
}

// UpdateRoleRequest is the payload of the privileged update-user-role call.
type UpdateRoleRequest struct {
	Role Role `json:"role"`
}
