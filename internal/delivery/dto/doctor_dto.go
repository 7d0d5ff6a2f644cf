package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateDoctorRequest struct {
	FirstName       string            `json:"first_name" validate:"required,max=100"`
	LastName        string            `json:"last_name" validate:"required,max=100"`
	Specialization  string            `json:"specialization" validate:"required,max=100"`
	AvailableDays   string            `json:"available_days,omitempty"`
	ContactNumber   string            `json:"contact_number,omitempty"`
	Email           string            `json:"email,omitempty" validate:"omitempty,email"`
	ConsultationFee float64           `json:"consultation_fee,omitempty" validate:"omitempty,gte=0"`
	Extra           map[string]string `json:"extra,omitempty"`
}

type UpdateDoctorRequest struct {
	FirstName       string            `json:"first_name,omitempty"`
	LastName        string            `json:"last_name,omitempty"`
	Specialization  string            `json:"specialization,omitempty"`
	AvailableDays   *string           `json:"available_days,omitempty"`
	ContactNumber   string            `json:"contact_number,omitempty"`
	Email           string            `json:"email,omitempty" validate:"omitempty,email"`
	ConsultationFee *float64          `json:"consultation_fee,omitempty" validate:"omitempty,gte=0"`
	Extra           map[string]string `json:"extra,omitempty"`
}

type RegisterLeaveRequest struct {
	DoctorID  uuid.UUID `json:"doctor_id" validate:"required"`
	LeaveDate string    `json:"leave_date" validate:"required"`
	Reason    string    `json:"reason,omitempty"`
}

// Response DTOs

type DoctorResponse struct {
	ID              uuid.UUID         `json:"id"`
	FirstName       string            `json:"first_name"`
	LastName        string            `json:"last_name"`
	Specialization  string            `json:"specialization"`
	AvailableDays   string            `json:"available_days,omitempty"`
	ContactNumber   string            `json:"contact_number,omitempty"`
	Email           string            `json:"email,omitempty"`
	ConsultationFee float64           `json:"consultation_fee,omitempty"`
	Extra           map[string]string `json:"extra,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}

// LeaveSummaryResponse reports the outcome of a leave registration: how
// many appointments moved and the date they moved to.
type LeaveSummaryResponse struct {
	DoctorID         uuid.UUID `json:"doctor_id"`
	LeaveDate        string    `json:"leave_date"`
	RescheduledCount int       `json:"rescheduled_count"`
	NextDate         string    `json:"next_date"`
	Message          string    `json:"message"`
}
