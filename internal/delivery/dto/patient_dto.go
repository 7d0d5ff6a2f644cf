package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreatePatientRequest struct {
	FirstName      string            `json:"first_name" validate:"required,max=100"`
	LastName       string            `json:"last_name" validate:"required,max=100"`
	Age            int               `json:"age" validate:"required,gte=0,lte=150"`
	Gender         string            `json:"gender" validate:"required"`
	ContactNumber  string            `json:"contact_number" validate:"required,max=20"`
	Email          string            `json:"email" validate:"required,email"`
	Address        string            `json:"address" validate:"required"`
	MedicalHistory string            `json:"medical_history,omitempty"`
	Extra          map[string]string `json:"extra,omitempty"`
}

type UpdatePatientRequest struct {
	FirstName      string            `json:"first_name,omitempty"`
	LastName       string            `json:"last_name,omitempty"`
	Age            *int              `json:"age,omitempty" validate:"omitempty,gte=0,lte=150"`
	Gender         string            `json:"gender,omitempty"`
	ContactNumber  string            `json:"contact_number,omitempty"`
	Email          string            `json:"email,omitempty" validate:"omitempty,email"`
	Address        string            `json:"address,omitempty"`
	MedicalHistory string            `json:"medical_history,omitempty"`
	Extra          map[string]string `json:"extra,omitempty"`
}

// Response DTOs

type PatientResponse struct {
	ID             uuid.UUID         `json:"id"`
	FirstName      string            `json:"first_name"`
	LastName       string            `json:"last_name"`
	Age            int               `json:"age"`
	Gender         string            `json:"gender"`
	ContactNumber  string            `json:"contact_number"`
	Email          string            `json:"email"`
	Address        string            `json:"address"`
	MedicalHistory string            `json:"medical_history,omitempty"`
	Extra          map[string]string `json:"extra,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

type PatientListResponse struct {
	Patients []PatientResponse `json:"patients"`
	Total    int               `json:"total"`
}
