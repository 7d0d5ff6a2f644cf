package entity

import (
	"time"

	"github.com/google/uuid"
)

// Patient represents a registered patient. The scheduling core treats
// patients as read-only reference data.
type Patient struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	FirstName      string     `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName       string     `gorm:"type:varchar(100);not null" json:"last_name"`
	Age            int        `gorm:"not null" json:"age"`
	Gender         string     `gorm:"type:varchar(10);not null" json:"gender"`
	ContactNumber  string     `gorm:"type:varchar(20);not null" json:"contact_number"`
	Email          string     `gorm:"type:varchar(255);not null;index" json:"email"`
	Address        string     `gorm:"type:text;not null" json:"address"`
	MedicalHistory string     `gorm:"type:text" json:"medical_history,omitempty"`
	Extra          Attributes `gorm:"type:jsonb" json:"extra,omitempty"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Appointments []Appointment `gorm:"foreignKey:PatientID" json:"appointments,omitempty"`
}

func (Patient) TableName() string {
	return "patients"
}
