package converter

import (
	"medisched/internal/delivery/dto"
	"medisched/internal/domain/entity"
)

// PatientToResponse converts a Patient entity to its DTO
func PatientToResponse(patient *entity.Patient) *dto.PatientResponse {
	if patient == nil {
		return nil
	}

	return &dto.PatientResponse{
		ID:             patient.ID,
		FirstName:      patient.FirstName,
		LastName:       patient.LastName,
		Age:            patient.Age,
		Gender:         patient.Gender,
		ContactNumber:  patient.ContactNumber,
		Email:          patient.Email,
		Address:        patient.Address,
		MedicalHistory: patient.MedicalHistory,
		Extra:          patient.Extra,
		CreatedAt:      patient.CreatedAt,
		UpdatedAt:      patient.UpdatedAt,
	}
}

// PatientsToResponses converts a slice of Patient entities to DTOs
func PatientsToResponses(patients []entity.Patient) []dto.PatientResponse {
	responses := make([]dto.PatientResponse, len(patients))
	for i := range patients {
		responses[i] = *PatientToResponse(&patients[i])
	}
	return responses
}
