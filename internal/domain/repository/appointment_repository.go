package repository

import (
	"time"

	"medisched/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	FindAll(db *gorm.DB) ([]entity.Appointment, error)
	FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error)
	// FindByDoctorAndDate returns every appointment held by the doctor on
	// the given date, regardless of status.
	FindByDoctorAndDate(db *gorm.DB, doctorID uuid.UUID, date time.Time) ([]entity.Appointment, error)
	// CountByDoctorAndDate counts the doctor's appointments on the date.
	// Cancelled appointments are deleted rows, so every remaining row is
	// active.
	CountByDoctorAndDate(db *gorm.DB, doctorID uuid.UUID, date time.Time) (int64, error)
	Update(db *gorm.DB, appointment *entity.Appointment) error
	Delete(db *gorm.DB, id uuid.UUID) error
}
