package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the lifecycle status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusScheduled         AppointmentStatus = "scheduled"
	AppointmentStatusRescheduled       AppointmentStatus = "rescheduled"
	AppointmentStatusRescheduledOnLeave AppointmentStatus = "rescheduled_on_leave"
)

// Appointment represents a booked consultation between a patient and a
// doctor on a calendar date. DoctorName and Specialization are captured
// at booking time and never re-synced with the doctor record.
// Cancellation deletes the row, so counting remaining rows for a
// (doctor, date) key counts active appointments.
type Appointment struct {
	ID                uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID         uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID          uuid.UUID         `gorm:"type:uuid;not null;index:idx_appointments_doctor_date" json:"doctor_id"`
	DoctorName        string            `gorm:"type:varchar(100);not null" json:"doctor_name"`
	Specialization    string            `gorm:"type:varchar(100);not null" json:"specialization"`
	AppointmentDate   time.Time         `gorm:"type:date;not null;index:idx_appointments_doctor_date" json:"appointment_date"`
	Status            AppointmentStatus `gorm:"type:varchar(30);not null;default:'scheduled';index" json:"status"`
	ConsultationNotes string            `gorm:"type:text" json:"consultation_notes,omitempty"`
	CreatedAt         time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  Doctor  `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsScheduled checks if the appointment still sits on its original slot
func (a *Appointment) IsScheduled() bool {
	return a.Status == AppointmentStatusScheduled
}

// MoveTo moves the appointment to a new date with the given status.
func (a *Appointment) MoveTo(date time.Time, status AppointmentStatus) {
	a.AppointmentDate = date
	a.Status = status
}
