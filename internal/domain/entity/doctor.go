package entity

import (
	"time"

	"medisched/pkg/weekday"

	"github.com/google/uuid"
)

// Doctor represents a practicing doctor. Specialization and AvailableDays
// are authoritative for every scheduling decision; the scheduling core
// reads doctors but never mutates them.
type Doctor struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	FirstName      string     `gorm:"type:varchar(100);not null;index" json:"first_name"`
	LastName       string     `gorm:"type:varchar(100);not null" json:"last_name"`
	Specialization string     `gorm:"type:varchar(100);not null;index" json:"specialization"`
	AvailableDays  string     `gorm:"type:varchar(100)" json:"available_days,omitempty"`
	ContactNumber  string     `gorm:"type:varchar(20)" json:"contact_number,omitempty"`
	Email          string     `gorm:"type:varchar(255);index" json:"email,omitempty"`
	ConsultationFee float64   `gorm:"type:numeric(10,2)" json:"consultation_fee,omitempty"`
	Extra          Attributes `gorm:"type:jsonb" json:"extra,omitempty"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Appointments []Appointment `gorm:"foreignKey:DoctorID" json:"appointments,omitempty"`
	Leaves       []DoctorLeave `gorm:"foreignKey:DoctorID" json:"leaves,omitempty"`
}

func (Doctor) TableName() string {
	return "doctors"
}

// AvailabilitySet parses AvailableDays into a weekday set. An empty
// AvailableDays string yields an empty set, meaning no constraint.
func (d *Doctor) AvailabilitySet() weekday.Set {
	return weekday.ParseDays(d.AvailableDays)
}

// IsAvailableOn reports whether the doctor works on the given date's weekday.
func (d *Doctor) IsAvailableOn(date time.Time) bool {
	return d.AvailabilitySet().Allows(date)
}

// FullName returns the doctor's display name.
func (d *Doctor) FullName() string {
	return d.FirstName + " " + d.LastName
}
