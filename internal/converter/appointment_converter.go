package converter

import (
	"medisched/internal/delivery/dto"
	"medisched/internal/domain/entity"
)

// AppointmentToResponse converts an Appointment entity to its DTO
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	return &dto.AppointmentResponse{
		ID:                appointment.ID,
		PatientID:         appointment.PatientID,
		DoctorID:          appointment.DoctorID,
		DoctorName:        appointment.DoctorName,
		Specialization:    appointment.Specialization,
		AppointmentDate:   appointment.AppointmentDate.Format("2006-01-02"),
		Status:            string(appointment.Status),
		ConsultationNotes: appointment.ConsultationNotes,
		CreatedAt:         appointment.CreatedAt,
		UpdatedAt:         appointment.UpdatedAt,
	}
}

// AppointmentsToResponses converts a slice of Appointment entities to DTOs
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}
