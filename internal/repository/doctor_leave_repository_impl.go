package repository

import (
	"time"

	"medisched/internal/domain/entity"
	domainRepo "medisched/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type doctorLeaveRepository struct{}

func NewDoctorLeaveRepository() domainRepo.DoctorLeaveRepository {
	return &doctorLeaveRepository{}
}

func (r *doctorLeaveRepository) Create(db *gorm.DB, leave *entity.DoctorLeave) error {
	return db.Create(leave).Error
}

func (r *doctorLeaveRepository) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.DoctorLeave, error) {
	var leaves []entity.DoctorLeave
	err := db.Where("doctor_id = ?", doctorID).
		Order("leave_date DESC").
		Find(&leaves).Error
	if err != nil {
		return nil, err
	}
	return leaves, nil
}

func (r *doctorLeaveRepository) ExistsForDoctorAndDate(db *gorm.DB, doctorID uuid.UUID, date time.Time) (bool, error) {
	var count int64
	err := db.Model(&entity.DoctorLeave{}).
		Where("doctor_id = ? AND leave_date = ?", doctorID, date).
		Count(&count).Error
	return count > 0, err
}
