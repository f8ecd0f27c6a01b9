package domain

import "time"

type Role string

const (
	RolePlayer  Role = "PLAYER"
	RoleAdmin   Role = "ADMIN"
	RoleVisitor Role = "VISITOR"
)

type User struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	TeamName  string    `json:"team_name"`
	Role      Role      `json:"role"`
	AvatarURL string    `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanPredict reports whether the user may write predictions. Visitors are
// read-only.
func (u User) CanPredict() bool {
	return u.Role == RolePlayer || u.Role == RoleAdmin
}
