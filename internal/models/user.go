package models

import "time"

// Role enumerates the two roles known to the access control rules. Any
// other value yields empty reads and denied writes.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleProfessor Role = "professor"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleProfessor
}

// User represents an application account stored in the users table.
// Admins manage everything; professors own zero or more classes through
// classes.professor_id.
type User struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Username  string    `db:"username" json:"username"`
	Email     string    `db:"email" json:"email"`
	Password  string    `db:"password" json:"-"`
	Role      Role      `db:"role" json:"role"`
	Phone     *string   `db:"phone" json:"phone"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
