package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type BookAppointmentRequest struct {
	PatientID         uuid.UUID `json:"patient_id" validate:"required"`
	DoctorName        string    `json:"doctor_name" validate:"required"`
	Specialization    string    `json:"specialization,omitempty"`
	AppointmentDate   string    `json:"appointment_date" validate:"required"`
	ConsultationNotes string    `json:"consultation_notes,omitempty"`
}

type RescheduleAppointmentRequest struct {
	AppointmentDate string `json:"appointment_date" validate:"required"`
}

// Response DTOs

type AppointmentResponse struct {
	ID                uuid.UUID `json:"id"`
	PatientID         uuid.UUID `json:"patient_id"`
	DoctorID          uuid.UUID `json:"doctor_id"`
	DoctorName        string    `json:"doctor_name"`
	Specialization    string    `json:"specialization"`
	AppointmentDate   string    `json:"appointment_date"`
	Status            string    `json:"status"`
	ConsultationNotes string    `json:"consultation_notes,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}
