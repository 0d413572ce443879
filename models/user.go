package models

import "time"

// Account roles.
const (
	RoleMentor = "mentor"
	RoleMentee = "mentee"
)

// Account is the minimal identity record the core needs: an id, a role set,
// and a push target. Everything else about identity lives outside this
// service.
type Account struct {
	ID           string    `bson:"id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	Roles        []string  `bson:"roles" json:"roles"`
	FCMToken     string    `bson:"fcm_token,omitempty" json:"-"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updatedAt"`
}

// HasRole reports whether the account carries the given role.
func (a *Account) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// SignupRequest registers a new account.
type SignupRequest struct {
	Name     string   `json:"name" binding:"required"`
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password" binding:"required,min=8"`
	Roles    []string `json:"roles" binding:"required"`
}

// SigninRequest authenticates an account.
type SigninRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse carries the issued token.
type AuthResponse struct {
	Token   string   `json:"token"`
	Account *Account `json:"account"`
}
