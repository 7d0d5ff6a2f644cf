package entity

import (
	"time"

	"github.com/google/uuid"
)

// DoctorLeave is an append-only record declaring a doctor unavailable on
// a specific date, independent of their weekly availability set. The
// scheduling core creates leaves and never mutates or deletes them.
type DoctorLeave struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID  uuid.UUID  `gorm:"type:uuid;not null;index:idx_doctor_leaves_doctor_date" json:"doctor_id"`
	LeaveDate time.Time  `gorm:"type:date;not null;index:idx_doctor_leaves_doctor_date" json:"leave_date"`
	Reason    string     `gorm:"type:text" json:"reason,omitempty"`
	Extra     Attributes `gorm:"type:jsonb" json:"extra,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Doctor Doctor `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (DoctorLeave) TableName() string {
	return "doctor_leaves"
}
