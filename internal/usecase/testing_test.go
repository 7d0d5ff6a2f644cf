package usecase

import (
	"io"
	"testing"
	"time"

	"medisched/internal/domain/entity"
	"medisched/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB returns a gorm.DB backed by sqlmock with transaction
// boundaries pre-loaded. The fake repositories below ignore the db
// handle, so only Begin/Commit/Rollback ever reach the mock.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	mock.MatchExpectationsInOrder(false)
	for i := 0; i < 32; i++ {
		mock.ExpectBegin()
		mock.ExpectCommit()
		mock.ExpectRollback()
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:               logger.Default.LogMode(logger.Silent),
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)

	return db
}

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestSlotLocks(t *testing.T) *service.SlotLockService {
	t.Helper()
	locks := service.NewSlotLockService(newTestLogger())
	t.Cleanup(locks.Stop)
	return locks
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	date, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return date
}

// In-memory repository fakes. They satisfy the domain repository
// interfaces and ignore the *gorm.DB argument entirely.

type fakeDoctorRepo struct {
	doctors []*entity.Doctor
}

func (f *fakeDoctorRepo) add(doctor *entity.Doctor) *entity.Doctor {
	if doctor.ID == uuid.Nil {
		doctor.ID = uuid.New()
	}
	f.doctors = append(f.doctors, doctor)
	return doctor
}

func (f *fakeDoctorRepo) Create(_ *gorm.DB, doctor *entity.Doctor) error {
	f.add(doctor)
	return nil
}

func (f *fakeDoctorRepo) FindByID(_ *gorm.DB, id uuid.UUID) (*entity.Doctor, error) {
	for _, d := range f.doctors {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, nil
}

func (f *fakeDoctorRepo) FindAll(_ *gorm.DB) ([]entity.Doctor, error) {
	out := make([]entity.Doctor, 0, len(f.doctors))
	for _, d := range f.doctors {
		out = append(out, *d)
	}
	return out, nil
}

func (f *fakeDoctorRepo) FindByFirstName(_ *gorm.DB, firstName, specialization string) (*entity.Doctor, error) {
	for _, d := range f.doctors {
		if d.FirstName != firstName {
			continue
		}
		if specialization != "" && d.Specialization != specialization {
			continue
		}
		return d, nil
	}
	return nil, nil
}

func (f *fakeDoctorRepo) FindAlternate(_ *gorm.DB, specialization string, excludeID uuid.UUID) (*entity.Doctor, error) {
	for _, d := range f.doctors {
		if d.Specialization == specialization && d.ID != excludeID {
			return d, nil
		}
	}
	return nil, nil
}

func (f *fakeDoctorRepo) Update(_ *gorm.DB, doctor *entity.Doctor) error {
	for i, d := range f.doctors {
		if d.ID == doctor.ID {
			f.doctors[i] = doctor
			return nil
		}
	}
	return nil
}

func (f *fakeDoctorRepo) Delete(_ *gorm.DB, id uuid.UUID) error {
	for i, d := range f.doctors {
		if d.ID == id {
			f.doctors = append(f.doctors[:i], f.doctors[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeAppointmentRepo struct {
	appointments []entity.Appointment
}

func (f *fakeAppointmentRepo) add(a entity.Appointment) entity.Appointment {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	f.appointments = append(f.appointments, a)
	return a
}

func (f *fakeAppointmentRepo) Create(_ *gorm.DB, appointment *entity.Appointment) error {
	if appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
	}
	f.appointments = append(f.appointments, *appointment)
	return nil
}

func (f *fakeAppointmentRepo) FindByID(_ *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	for i := range f.appointments {
		if f.appointments[i].ID == id {
			a := f.appointments[i]
			return &a, nil
		}
	}
	return nil, nil
}

func (f *fakeAppointmentRepo) FindAll(_ *gorm.DB) ([]entity.Appointment, error) {
	out := make([]entity.Appointment, len(f.appointments))
	copy(out, f.appointments)
	return out, nil
}

func (f *fakeAppointmentRepo) FindByPatientID(_ *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error) {
	var out []entity.Appointment
	for _, a := range f.appointments {
		if a.PatientID == patientID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAppointmentRepo) FindByDoctorAndDate(_ *gorm.DB, doctorID uuid.UUID, date time.Time) ([]entity.Appointment, error) {
	var out []entity.Appointment
	for _, a := range f.appointments {
		if a.DoctorID == doctorID && a.AppointmentDate.Equal(date) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAppointmentRepo) CountByDoctorAndDate(_ *gorm.DB, doctorID uuid.UUID, date time.Time) (int64, error) {
	var count int64
	for _, a := range f.appointments {
		if a.DoctorID == doctorID && a.AppointmentDate.Equal(date) {
			count++
		}
	}
	return count, nil
}

func (f *fakeAppointmentRepo) Update(_ *gorm.DB, appointment *entity.Appointment) error {
	for i := range f.appointments {
		if f.appointments[i].ID == appointment.ID {
			f.appointments[i] = *appointment
			return nil
		}
	}
	return nil
}

func (f *fakeAppointmentRepo) Delete(_ *gorm.DB, id uuid.UUID) error {
	for i := range f.appointments {
		if f.appointments[i].ID == id {
			f.appointments = append(f.appointments[:i], f.appointments[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakePatientRepo struct {
	patients []*entity.Patient
}

func (f *fakePatientRepo) add(patient *entity.Patient) *entity.Patient {
	if patient.ID == uuid.Nil {
		patient.ID = uuid.New()
	}
	f.patients = append(f.patients, patient)
	return patient
}

func (f *fakePatientRepo) Create(_ *gorm.DB, patient *entity.Patient) error {
	f.add(patient)
	return nil
}

func (f *fakePatientRepo) FindByID(_ *gorm.DB, id uuid.UUID) (*entity.Patient, error) {
	for _, p := range f.patients {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePatientRepo) FindAll(_ *gorm.DB) ([]entity.Patient, error) {
	out := make([]entity.Patient, 0, len(f.patients))
	for _, p := range f.patients {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakePatientRepo) Update(_ *gorm.DB, patient *entity.Patient) error {
	for i, p := range f.patients {
		if p.ID == patient.ID {
			f.patients[i] = patient
			return nil
		}
	}
	return nil
}

func (f *fakePatientRepo) Delete(_ *gorm.DB, id uuid.UUID) error {
	for i, p := range f.patients {
		if p.ID == id {
			f.patients = append(f.patients[:i], f.patients[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeDoctorLeaveRepo struct {
	leaves []entity.DoctorLeave
}

func (f *fakeDoctorLeaveRepo) Create(_ *gorm.DB, leave *entity.DoctorLeave) error {
	leave.ID = int64(len(f.leaves) + 1)
	f.leaves = append(f.leaves, *leave)
	return nil
}

func (f *fakeDoctorLeaveRepo) FindByDoctorID(_ *gorm.DB, doctorID uuid.UUID) ([]entity.DoctorLeave, error) {
	var out []entity.DoctorLeave
	for _, l := range f.leaves {
		if l.DoctorID == doctorID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeDoctorLeaveRepo) ExistsForDoctorAndDate(_ *gorm.DB, doctorID uuid.UUID, date time.Time) (bool, error) {
	for _, l := range f.leaves {
		if l.DoctorID == doctorID && l.LeaveDate.Equal(date) {
			return true, nil
		}
	}
	return false, nil
}

type fakeAuditLogRepo struct {
	logs []entity.AuditLog
}

func (f *fakeAuditLogRepo) Create(_ *gorm.DB, log *entity.AuditLog) error {
	log.ID = int64(len(f.logs) + 1)
	f.logs = append(f.logs, *log)
	return nil
}

func (f *fakeAuditLogRepo) FindAll(_ *gorm.DB) ([]entity.AuditLog, error) {
	out := make([]entity.AuditLog, len(f.logs))
	copy(out, f.logs)
	return out, nil
}

func (f *fakeAuditLogRepo) FindByID(_ *gorm.DB, id int64) (*entity.AuditLog, error) {
	for i := range f.logs {
		if f.logs[i].ID == id {
			l := f.logs[i]
			return &l, nil
		}
	}
	return nil, nil
}
