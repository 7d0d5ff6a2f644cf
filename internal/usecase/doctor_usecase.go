package usecase

import (
	"context"
	"errors"
	"fmt"

	"medisched/config"
	"medisched/internal/converter"
	"medisched/internal/delivery/dto"
	"medisched/internal/delivery/http/middleware"
	"medisched/internal/domain/entity"
	"medisched/internal/domain/repository"
	"medisched/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrDoctorNotFound          = errors.New("doctor not found")
	ErrInvalidLeaveDate        = errors.New("invalid leave date format, use YYYY-MM-DD")
	ErrNoAvailableDayInHorizon = errors.New("no available day found within the rescheduling horizon")
)

type DoctorUsecase interface {
	CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error)
	GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error)
	GetAllDoctors(ctx context.Context) (*dto.DoctorListResponse, error)
	UpdateDoctor(ctx context.Context, doctorID uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error)
	DeleteDoctor(ctx context.Context, doctorID uuid.UUID) error
	RegisterLeave(ctx context.Context, req *dto.RegisterLeaveRequest) (*dto.LeaveSummaryResponse, error)
}

type doctorUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	cfg             config.SchedulingConfig
	doctorRepo      repository.DoctorRepository
	leaveRepo       repository.DoctorLeaveRepository
	appointmentRepo repository.AppointmentRepository
	slotLocks       *service.SlotLockService
	auditService    service.AuditService
}

func NewDoctorUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	cfg config.SchedulingConfig,
	doctorRepo repository.DoctorRepository,
	leaveRepo repository.DoctorLeaveRepository,
	appointmentRepo repository.AppointmentRepository,
	slotLocks *service.SlotLockService,
	auditService service.AuditService,
) DoctorUsecase {
	return &doctorUsecase{
		db:              db,
		log:             log,
		cfg:             cfg,
		doctorRepo:      doctorRepo,
		leaveRepo:       leaveRepo,
		appointmentRepo: appointmentRepo,
		slotLocks:       slotLocks,
		auditService:    auditService,
	}
}

func (u *doctorUsecase) CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor := &entity.Doctor{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Specialization:  req.Specialization,
		AvailableDays:   req.AvailableDays,
		ContactNumber:   req.ContactNumber,
		Email:           req.Email,
		ConsultationFee: req.ConsultationFee,
		Extra:           req.Extra,
	}

	if err := u.doctorRepo.Create(tx, doctor); err != nil {
		u.log.Warnf("Failed to create doctor: %+v", err)
		return nil, err
	}

	userID, _ := middleware.GetUserIDFromContext(ctx)
	if err := u.auditService.LogCreate(ctx, tx, &userID, entity.AuditActionDoctorCreate, "doctor", doctor.ID.String(), converter.DoctorToResponse(doctor)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
		// Don't fail the transaction for audit log errors
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error) {
	doctor, err := u.doctorRepo.FindByID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) GetAllDoctors(ctx context.Context) (*dto.DoctorListResponse, error) {
	doctors, err := u.doctorRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find all doctors: %+v", err)
		return nil, err
	}

	return &dto.DoctorListResponse{
		Doctors: converter.DoctorsToResponses(doctors),
		Total:   len(doctors),
	}, nil
}

func (u *doctorUsecase) UpdateDoctor(ctx context.Context, doctorID uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error) {
	doctor, err := u.doctorRepo.FindByID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	oldValue := converter.DoctorToResponse(doctor)

	if req.FirstName != "" {
		doctor.FirstName = req.FirstName
	}
	if req.LastName != "" {
		doctor.LastName = req.LastName
	}
	if req.Specialization != "" {
		doctor.Specialization = req.Specialization
	}
	if req.AvailableDays != nil {
		doctor.AvailableDays = *req.AvailableDays
	}
	if req.ContactNumber != "" {
		doctor.ContactNumber = req.ContactNumber
	}
	if req.Email != "" {
		doctor.Email = req.Email
	}
	if req.ConsultationFee != nil {
		doctor.ConsultationFee = *req.ConsultationFee
	}
	if req.Extra != nil {
		doctor.Extra = req.Extra
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.doctorRepo.Update(tx, doctor); err != nil {
		u.log.Warnf("Failed to update doctor %s: %+v", doctorID, err)
		return nil, err
	}

	userID, _ := middleware.GetUserIDFromContext(ctx)
	if err := u.auditService.LogUpdate(ctx, tx, &userID, entity.AuditActionDoctorUpdate, "doctor", doctor.ID.String(), oldValue, converter.DoctorToResponse(doctor)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) DeleteDoctor(ctx context.Context, doctorID uuid.UUID) error {
	doctor, err := u.doctorRepo.FindByID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return err
	}
	if doctor == nil {
		return ErrDoctorNotFound
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.doctorRepo.Delete(tx, doctorID); err != nil {
		u.log.Warnf("Failed to delete doctor %s: %+v", doctorID, err)
		return err
	}

	userID, _ := middleware.GetUserIDFromContext(ctx)
	if err := u.auditService.LogDelete(ctx, tx, &userID, entity.AuditActionDoctorDelete, "doctor", doctorID.String(), converter.DoctorToResponse(doctor)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}

// RegisterLeave records a leave for the doctor and reschedules every
// appointment held on the leave date to the doctor's next available
// weekday within the configured horizon.
//
// Flow:
// 1. Record the leave and commit it. The leave fact stays durable even
//    when the cascade below cannot relocate the displaced appointments.
// 2. Collect all appointments on (doctor, leaveDate), any status.
// 3. Scan forward up to LeaveHorizonDays for the first date the doctor's
//    availability set allows; abort the cascade when none exists.
// 4. Move every affected appointment to that date in one transaction:
//    either all of them move, or none do.
//
// The target date's capacity is not re-checked; every displaced
// appointment lands on the same next available day. That matches the
// original behavior and is left as-is rather than silently fixed.
func (u *doctorUsecase) RegisterLeave(ctx context.Context, req *dto.RegisterLeaveRequest) (*dto.LeaveSummaryResponse, error) {
	leaveDate, err := parseCalendarDate(req.LeaveDate)
	if err != nil {
		return nil, ErrInvalidLeaveDate
	}

	doctor, err := u.doctorRepo.FindByID(u.db.WithContext(ctx), req.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", req.DoctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	leave := &entity.DoctorLeave{
		DoctorID:  doctor.ID,
		LeaveDate: leaveDate,
		Reason:    req.Reason,
	}

	userID, _ := middleware.GetUserIDFromContext(ctx)

	leaveTx := u.db.WithContext(ctx).Begin()
	defer leaveTx.Rollback()

	if err := u.leaveRepo.Create(leaveTx, leave); err != nil {
		u.log.Warnf("Failed to create leave for doctor %s: %+v", doctor.ID, err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, leaveTx, &userID, entity.AuditActionDoctorLeave, "doctor_leave", fmt.Sprintf("%d", leave.ID), leave); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := leaveTx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit leave transaction: %+v", err)
		return nil, err
	}

	appointments, err := u.appointmentRepo.FindByDoctorAndDate(u.db.WithContext(ctx), doctor.ID, leaveDate)
	if err != nil {
		u.log.Warnf("Failed to find appointments for doctor %s on %s: %+v", doctor.ID, req.LeaveDate, err)
		return nil, err
	}

	nextDate, ok := doctor.AvailabilitySet().Next(leaveDate, u.cfg.LeaveHorizonDays)
	if !ok {
		return nil, ErrNoAvailableDayInHorizon
	}

	if len(appointments) > 0 {
		unlock := u.slotLocks.Lock(doctor.ID, nextDate)
		defer unlock()

		tx := u.db.WithContext(ctx).Begin()
		defer tx.Rollback()

		for i := range appointments {
			appointment := &appointments[i]
			appointment.MoveTo(nextDate, entity.AppointmentStatusRescheduledOnLeave)

			if err := u.appointmentRepo.Update(tx, appointment); err != nil {
				u.log.Warnf("Failed to reschedule appointment %s: %+v", appointment.ID, err)
				return nil, err
			}
		}

		if err := tx.Commit().Error; err != nil {
			u.log.Warnf("Failed commit cascade transaction: %+v", err)
			return nil, err
		}
	}

	nextDateStr := nextDate.Format("2006-01-02")
	u.log.Infof("Leave registered: doctor=%s, date=%s, rescheduled=%d, next=%s", doctor.ID, req.LeaveDate, len(appointments), nextDateStr)

	return &dto.LeaveSummaryResponse{
		DoctorID:         doctor.ID,
		LeaveDate:        req.LeaveDate,
		RescheduledCount: len(appointments),
		NextDate:         nextDateStr,
		Message: fmt.Sprintf(
			"Leave recorded for %s on %s. %d appointment(s) rescheduled to %s.",
			doctor.FirstName, req.LeaveDate, len(appointments), nextDateStr,
		),
	}, nil
}
