package converter

import (
	"medisched/internal/delivery/dto"
	"medisched/internal/domain/entity"
)

// DoctorToResponse converts a Doctor entity to its DTO
func DoctorToResponse(doctor *entity.Doctor) *dto.DoctorResponse {
	if doctor == nil {
		return nil
	}

	return &dto.DoctorResponse{
		ID:              doctor.ID,
		FirstName:       doctor.FirstName,
		LastName:        doctor.LastName,
		Specialization:  doctor.Specialization,
		AvailableDays:   doctor.AvailableDays,
		ContactNumber:   doctor.ContactNumber,
		Email:           doctor.Email,
		ConsultationFee: doctor.ConsultationFee,
		Extra:           doctor.Extra,
		CreatedAt:       doctor.CreatedAt,
		UpdatedAt:       doctor.UpdatedAt,
	}
}

// DoctorsToResponses converts a slice of Doctor entities to DTOs
func DoctorsToResponses(doctors []entity.Doctor) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(doctors))
	for i := range doctors {
		responses[i] = *DoctorToResponse(&doctors[i])
	}
	return responses
}
