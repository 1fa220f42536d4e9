package models

type ActorRole string

const (
	ActorRoleMentor ActorRole = "mentor"
	ActorRoleMentee ActorRole = "mentee"
	ActorRoleAdmin  ActorRole = "admin"
)

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID   string    `json:"id"`
	Role ActorRole `json:"role"`
}

func (a Actor) IsAdmin() bool {
	return a.Role == ActorRoleAdmin
}

// Contact is how a user is reached for notifications.
type Contact struct {
	UserID string `json:"user_id" bson:"user_id"`
	Email  string `json:"email" bson:"email"`
	Name   string `json:"name" bson:"name"`
}
