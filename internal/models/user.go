package models

// Role scopes what an authenticated user may do.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleStaff
}

// UserColumns is the declared column order of the User table.
var UserColumns = []string{"User_ID", "Username", "Password", "Role", "External_ID"}

// User represents an account allowed to log in.
// Password is stored as given unless hashing is enabled in the auth service.
type User struct {
	ID         uint    `json:"id" gorm:"column:User_ID;primaryKey"`
	Username   string  `json:"username" gorm:"column:Username;uniqueIndex;not null"`
	Password   string  `json:"-" gorm:"column:Password;not null"`
	Role       Role    `json:"role" gorm:"column:Role;not null"`
	ExternalID *string `json:"external_id,omitempty" gorm:"column:External_ID"`
}

func (User) TableName() string { return "User" }
