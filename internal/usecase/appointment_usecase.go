package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"medisched/config"
	"medisched/internal/converter"
	"medisched/internal/delivery/dto"
	"medisched/internal/delivery/http/middleware"
	"medisched/internal/domain/entity"
	"medisched/internal/domain/repository"
	"medisched/internal/service"
	"medisched/pkg/weekday"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrDoctorNameRequired       = errors.New("doctor name is required")
	ErrInvalidAppointmentDate   = errors.New("invalid appointment date format, use YYYY-MM-DD")
	ErrAppointmentNotFound      = errors.New("appointment not found")
	ErrAppointmentDoctorMissing = errors.New("doctor for this appointment no longer exists")
	ErrDoctorCapacityFull       = errors.New("doctor is fully booked on that date")
)

// UnavailableDayError rejects a date falling outside the doctor's weekly
// availability set, naming the doctor and the rejected weekday.
type UnavailableDayError struct {
	DoctorName string
	Weekday    string
}

func (e *UnavailableDayError) Error() string {
	return fmt.Sprintf("doctor %s is not available on %s", e.DoctorName, e.Weekday)
}

// AllDoctorsBusyError rejects a booking when the requested doctor is at
// capacity and no other doctor shares the specialization.
type AllDoctorsBusyError struct {
	Specialization string
}

func (e *AllDoctorsBusyError) Error() string {
	return fmt.Sprintf("all doctors with specialization %q are busy on that date", e.Specialization)
}

type AppointmentUsecase interface {
	BookAppointment(ctx context.Context, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error)
	RescheduleAppointment(ctx context.Context, appointmentID uuid.UUID, req *dto.RescheduleAppointmentRequest) (*dto.AppointmentResponse, error)
	GetAppointment(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	GetAllAppointments(ctx context.Context) (*dto.AppointmentListResponse, error)
	GetAppointmentsByPatient(ctx context.Context, patientID uuid.UUID) (*dto.AppointmentListResponse, error)
	CancelAppointment(ctx context.Context, appointmentID uuid.UUID) error
}

type appointmentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	cfg             config.SchedulingConfig
	appointmentRepo repository.AppointmentRepository
	doctorRepo      repository.DoctorRepository
	patientRepo     repository.PatientRepository
	slotLocks       *service.SlotLockService
	auditService    service.AuditService
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	cfg config.SchedulingConfig,
	appointmentRepo repository.AppointmentRepository,
	doctorRepo repository.DoctorRepository,
	patientRepo repository.PatientRepository,
	slotLocks *service.SlotLockService,
	auditService service.AuditService,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:              db,
		log:             log,
		cfg:             cfg,
		appointmentRepo: appointmentRepo,
		doctorRepo:      doctorRepo,
		patientRepo:     patientRepo,
		slotLocks:       slotLocks,
		auditService:    auditService,
	}
}

// BookAppointment books a patient with the named doctor on the given date.
//
// Flow:
// 1. Resolve the doctor by name (and specialization when supplied)
// 2. Validate the date against the doctor's weekly availability
// 3. Under the (doctor, date) slot lock: count active appointments;
//    at capacity, substitute the first alternate doctor sharing the
//    specialization, or reject when none exists
// 4. Insert the appointment with status "scheduled"
//
// The slot lock spans the capacity read and the insert so two concurrent
// bookings cannot both slip under the limit. The substituted alternate is
// not re-validated for availability or capacity on that date; that
// mirrors the original assignment behavior.
func (u *appointmentUsecase) BookAppointment(ctx context.Context, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error) {
	if req.DoctorName == "" {
		return nil, ErrDoctorNameRequired
	}

	date, err := parseCalendarDate(req.AppointmentDate)
	if err != nil {
		return nil, ErrInvalidAppointmentDate
	}

	patient, err := u.patientRepo.FindByID(u.db.WithContext(ctx), req.PatientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", req.PatientID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	doctor, err := u.doctorRepo.FindByFirstName(u.db.WithContext(ctx), req.DoctorName, req.Specialization)
	if err != nil {
		u.log.Warnf("Failed to find doctor %q: %+v", req.DoctorName, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	if !doctor.IsAvailableOn(date) {
		return nil, &UnavailableDayError{DoctorName: doctor.FirstName, Weekday: weekday.CodeOf(date)}
	}

	unlock := u.slotLocks.Lock(doctor.ID, date)
	defer func() { unlock() }()

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	count, err := u.appointmentRepo.CountByDoctorAndDate(tx, doctor.ID, date)
	if err != nil {
		u.log.Warnf("Failed to count appointments for doctor %s on %s: %+v", doctor.ID, req.AppointmentDate, err)
		return nil, err
	}

	if count >= int64(u.cfg.CapacityLimit) {
		alternate, err := u.doctorRepo.FindAlternate(tx, doctor.Specialization, doctor.ID)
		if err != nil {
			u.log.Warnf("Failed to find alternate doctor for %q: %+v", doctor.Specialization, err)
			return nil, err
		}
		if alternate == nil {
			return nil, &AllDoctorsBusyError{Specialization: doctor.Specialization}
		}

		// Move the slot lock onto the substituted doctor before writing.
		unlock()
		unlock = u.slotLocks.Lock(alternate.ID, date)
		doctor = alternate
	}

	appointment := &entity.Appointment{
		PatientID:         req.PatientID,
		DoctorID:          doctor.ID,
		DoctorName:        doctor.FirstName,
		Specialization:    doctor.Specialization,
		AppointmentDate:   date,
		Status:            entity.AppointmentStatusScheduled,
		ConsultationNotes: req.ConsultationNotes,
	}

	if err := u.appointmentRepo.Create(tx, appointment); err != nil {
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	userID, _ := middleware.GetUserIDFromContext(ctx)
	if err := u.auditService.LogCreate(ctx, tx, &userID, entity.AuditActionAppointmentBook, "appointment", appointment.ID.String(), converter.AppointmentToResponse(appointment)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
		// Don't fail the transaction for audit log errors
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Appointment booked: id=%s, doctor=%s, date=%s", appointment.ID, doctor.FirstName, req.AppointmentDate)
	return converter.AppointmentToResponse(appointment), nil
}

// RescheduleAppointment moves a single appointment to a new date.
//
// Unlike booking, a full day is a hard rejection: rescheduling never
// substitutes a different doctor on an existing appointment.
func (u *appointmentUsecase) RescheduleAppointment(ctx context.Context, appointmentID uuid.UUID, req *dto.RescheduleAppointmentRequest) (*dto.AppointmentResponse, error) {
	newDate, err := parseCalendarDate(req.AppointmentDate)
	if err != nil {
		return nil, ErrInvalidAppointmentDate
	}

	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	doctor, err := u.doctorRepo.FindByID(u.db.WithContext(ctx), appointment.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", appointment.DoctorID, err)
		return nil, err
	}
	if doctor == nil {
		// Data-integrity fault: the appointment references a doctor that
		// no longer exists.
		return nil, ErrAppointmentDoctorMissing
	}

	if !doctor.IsAvailableOn(newDate) {
		return nil, &UnavailableDayError{DoctorName: doctor.FirstName, Weekday: weekday.CodeOf(newDate)}
	}

	unlock := u.slotLocks.Lock(doctor.ID, newDate)
	defer unlock()

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	count, err := u.appointmentRepo.CountByDoctorAndDate(tx, doctor.ID, newDate)
	if err != nil {
		u.log.Warnf("Failed to count appointments for doctor %s on %s: %+v", doctor.ID, req.AppointmentDate, err)
		return nil, err
	}
	if count >= int64(u.cfg.CapacityLimit) {
		return nil, ErrDoctorCapacityFull
	}

	oldValue := converter.AppointmentToResponse(appointment)
	appointment.MoveTo(newDate, entity.AppointmentStatusRescheduled)

	if err := u.appointmentRepo.Update(tx, appointment); err != nil {
		u.log.Warnf("Failed to update appointment %s: %+v", appointmentID, err)
		return nil, err
	}

	userID, _ := middleware.GetUserIDFromContext(ctx)
	if err := u.auditService.LogUpdate(ctx, tx, &userID, entity.AuditActionAppointmentMove, "appointment", appointment.ID.String(), oldValue, converter.AppointmentToResponse(appointment)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Appointment rescheduled: id=%s, date=%s", appointment.ID, req.AppointmentDate)
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) GetAppointment(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) GetAllAppointments(ctx context.Context) (*dto.AppointmentListResponse, error) {
	appointments, err := u.appointmentRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find all appointments: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

func (u *appointmentUsecase) GetAppointmentsByPatient(ctx context.Context, patientID uuid.UUID) (*dto.AppointmentListResponse, error) {
	appointments, err := u.appointmentRepo.FindByPatientID(u.db.WithContext(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for patient %s: %+v", patientID, err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// CancelAppointment removes the appointment row. Cancellation is
// terminal; the deleted row no longer counts against the doctor's daily
// capacity.
func (u *appointmentUsecase) CancelAppointment(ctx context.Context, appointmentID uuid.UUID) error {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return err
	}
	if appointment == nil {
		return ErrAppointmentNotFound
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.appointmentRepo.Delete(tx, appointmentID); err != nil {
		u.log.Warnf("Failed to delete appointment %s: %+v", appointmentID, err)
		return err
	}

	userID, _ := middleware.GetUserIDFromContext(ctx)
	if err := u.auditService.LogDelete(ctx, tx, &userID, entity.AuditActionAppointmentCancel, "appointment", appointmentID.String(), converter.AppointmentToResponse(appointment)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}

// parseCalendarDate parses an ISO 8601 calendar date (YYYY-MM-DD) into a
// UTC midnight timestamp, the canonical form for date columns.
func parseCalendarDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}
