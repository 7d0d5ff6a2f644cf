package repository

import (
	"time"

	"medisched/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DoctorLeaveRepository is append-only from the scheduling core's
// perspective: leaves are created and read, never updated or deleted.
type DoctorLeaveRepository interface {
	Create(db *gorm.DB, leave *entity.DoctorLeave) error
	FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.DoctorLeave, error)
	ExistsForDoctorAndDate(db *gorm.DB, doctorID uuid.UUID, date time.Time) (bool, error)
}
