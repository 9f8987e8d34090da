package entity

// Role represents a user role stored in the database. Administrators are not users.
type Role struct {
	ID          int    `gorm:"primaryKey;autoIncrement" json:"id"`
	RoleName    string `gorm:"type:varchar(50);uniqueIndex;not null" json:"role_name"`
	Description string `gorm:"type:text" json:"description,omitempty"`

	// Relationships
	Users []User `gorm:"foreignKey:RoleID" json:"users,omitempty"`
}

func (Role) TableName() string {
	return "roles"
}

// Role ID constants, seeded by the initial migration
const (
	RoleIDDoctor  = 1
	RoleIDPatient = 2
)

// RoleNames constants
const (
	RoleDoctor  = "doctor"
	RolePatient = "patient"
)

// RoleName returns the role name for a seeded role ID.
func RoleName(roleID int) string {
	switch roleID {
	case RoleIDDoctor:
		return RoleDoctor
	case RoleIDPatient:
		return RolePatient
	default:
		return ""
	}
}
