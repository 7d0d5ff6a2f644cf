package repository

import (
	"medisched/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DoctorRepository interface {
	Create(db *gorm.DB, doctor *entity.Doctor) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Doctor, error)
	FindAll(db *gorm.DB) ([]entity.Doctor, error)
	// FindByFirstName resolves a doctor by exact first name, optionally
	// narrowed by specialization when it is non-empty.
	FindByFirstName(db *gorm.DB, firstName, specialization string) (*entity.Doctor, error)
	// FindAlternate returns the first doctor sharing the specialization,
	// excluding the given doctor id. No load balancing or preference order.
	FindAlternate(db *gorm.DB, specialization string, excludeID uuid.UUID) (*entity.Doctor, error)
	Update(db *gorm.DB, doctor *entity.Doctor) error
	Delete(db *gorm.DB, id uuid.UUID) error
}
