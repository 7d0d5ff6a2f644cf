package usecase

import (
	"context"
	"errors"
	"testing"

	"medisched/config"
	"medisched/internal/delivery/dto"
	"medisched/internal/domain/entity"
	"medisched/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type appointmentFixture struct {
	usecase      AppointmentUsecase
	doctors      *fakeDoctorRepo
	appointments *fakeAppointmentRepo
	patients     *fakePatientRepo
	audits       *fakeAuditLogRepo
	patient      *entity.Patient
}

func newAppointmentFixture(t *testing.T, capacityLimit int) *appointmentFixture {
	t.Helper()

	db := newTestDB(t)
	log := newTestLogger()
	doctors := &fakeDoctorRepo{}
	appointments := &fakeAppointmentRepo{}
	patients := &fakePatientRepo{}
	audits := &fakeAuditLogRepo{}

	patient := patients.add(&entity.Patient{
		FirstName: "Jane", LastName: "Miller", Age: 34, Gender: "female",
		ContactNumber: "555-0100", Email: "jane@example.com", Address: "12 Elm St",
	})

	cfg := config.SchedulingConfig{CapacityLimit: capacityLimit, LeaveHorizonDays: 7}
	auditService := service.NewAuditService(db, log, audits)

	return &appointmentFixture{
		usecase:      NewAppointmentUsecase(db, log, cfg, appointments, doctors, patients, newTestSlotLocks(t), auditService),
		doctors:      doctors,
		appointments: appointments,
		patients:     patients,
		audits:       audits,
		patient:      patient,
	}
}

func TestBookAppointment(t *testing.T) {
	// 2025-10-20 is a Monday
	const monday = "2025-10-20"

	t.Run("books with the named doctor on an available day", func(t *testing.T) {
		f := newAppointmentFixture(t, 10)
		f.doctors.add(&entity.Doctor{
			FirstName: "Alice", LastName: "Wong", Specialization: "cardiology",
			AvailableDays: "mon,wed,fri",
		})

		resp, err := f.usecase.BookAppointment(context.Background(), &dto.BookAppointmentRequest{
			PatientID:       f.patient.ID,
			DoctorName:      "Alice",
			AppointmentDate: monday,
		})

		require.NoError(t, err)
		assert.Equal(t, "Alice", resp.DoctorName)
		assert.Equal(t, "cardiology", resp.Specialization)
		assert.Equal(t, string(entity.AppointmentStatusScheduled), resp.Status)
		assert.Equal(t, monday, resp.AppointmentDate)
		assert.Len(t, f.appointments.appointments, 1)
	})

	t.Run("rejects an empty doctor name", func(t *testing.T) {
		f := newAppointmentFixture(t, 10)

		_, err := f.usecase.BookAppointment(context.Background(), &dto.BookAppointmentRequest{
			PatientID:       f.patient.ID,
			AppointmentDate: monday,
		})

		assert.ErrorIs(t, err, ErrDoctorNameRequired)
	})

	t.Run("rejects a malformed date", func(t *testing.T) {
		f := newAppointmentFixture(t, 10)

		_, err := f.usecase.BookAppointment(context.Background(), &dto.BookAppointmentRequest{
			PatientID:       f.patient.ID,
			DoctorName:      "Alice",
			AppointmentDate: "20-10-2025",
		})

		assert.ErrorIs(t, err, ErrInvalidAppointmentDate)
	})

	t.Run("rejects an unknown doctor", func(t *testing.T) {
		f := newAppointmentFixture(t, 10)

		_, err := f.usecase.BookAppointment(context.Background(), &dto.BookAppointmentRequest{
			PatientID:       f.patient.ID,
			DoctorName:      "Nobody",
			AppointmentDate: monday,
		})

		assert.ErrorIs(t, err, ErrDoctorNotFound)
	})

	t.Run("rejects an unknown patient", func(t *testing.T) {
		f := newAppointmentFixture(t, 10)
		f.doctors.add(&entity.Doctor{FirstName: "Alice", Specialization: "cardiology"})

		_, err := f.usecase.BookAppointment(context.Background(), &dto.BookAppointmentRequest{
			PatientID:       f.patient.ID,
			DoctorName:      "Alice",
			AppointmentDate: monday,
		})
		require.NoError(t, err)

		f.patients.patients = nil
		_, err = f.usecase.BookAppointment(context.Background(), &dto.BookAppointmentRequest{
			PatientID:       f.patient.ID,
			DoctorName:      "Alice",
			AppointmentDate: monday,
		})
		assert.ErrorIs(t, err, ErrPatientNotFound)
	})

	t.Run("narrows doctor lookup by specialization", func(t *testing.T) {
		f := newAppointmentFixture(t, 10)
		f.doctors.add(&entity.Doctor{FirstName: "Alice", Specialization: "cardiology"})
		derma := f.doctors.add(&entity.Doctor{FirstName: "Alice", Specialization: "dermatology"})

		resp, err := f.usecase.BookAppointment(context.Background(), &dto.BookAppointmentRequest{
			PatientID:       f.patient.ID,
			DoctorName:      "Alice",
			Specialization:  "dermatology",
			AppointmentDate: monday,
		})

		require.NoError(t, err)
		assert.Equal(t, derma.ID, f.appointments.appointments[0].DoctorID)
		assert.Equal(t, "dermatology", resp.Specialization)
	})

	t.Run("rejects a date outside the doctor's weekly availability", func(t *testing.T) {
		f := newAppointmentFixture(t, 10)
		f.doctors.add(&entity.Doctor{
			FirstName: "Alice", Specialization: "cardiology", AvailableDays: "tue,thu",
		})

		_, err := f.usecase.BookAppointment(context.Background(), &dto.BookAppointmentRequest{
			PatientID:       f.patient.ID,
			DoctorName:      "Alice",
			AppointmentDate: monday,
		})

		var unavailable *UnavailableDayError
		require.ErrorAs(t, err, &unavailable)
		assert.Equal(t, "Alice", unavailable.DoctorName)
		assert.Equal(t, "mon", unavailable.Weekday)
		assert.Empty(t, f.appointments.appointments)
	})

	t.Run("substitutes an alternate doctor when the named one is at capacity", func(t *testing.T) {
		f := newAppointmentFixture(t, 2)
		alice := f.doctors.add(&entity.Doctor{FirstName: "Alice", Specialization: "cardiology"})
		bob := f.doctors.add(&entity.Doctor{FirstName: "Bob", Specialization: "cardiology"})

		date := mustDate(t, monday)
		for i := 0; i < 2; i++ {
			f.appointments.add(entity.Appointment{
				PatientID: f.patient.ID, DoctorID: alice.ID,
				DoctorName: "Alice", Specialization: "cardiology",
				AppointmentDate: date, Status: entity.AppointmentStatusScheduled,
			})
		}

		resp, err := f.usecase.BookAppointment(context.Background(), &dto.BookAppointmentRequest{
			PatientID:       f.patient.ID,
			DoctorName:      "Alice",
			AppointmentDate: monday,
		})

		require.NoError(t, err)
		assert.Equal(t, "Bob", resp.DoctorName)
		booked := f.appointments.appointments[len(f.appointments.appointments)-1]
		assert.Equal(t, bob.ID, booked.DoctorID)
		assert.Equal(t, entity.AppointmentStatusScheduled, booked.Status)
	})

	t.Run("fails when every doctor with the specialization is at capacity", func(t *testing.T) {
		f := newAppointmentFixture(t, 1)
		alice := f.doctors.add(&entity.Doctor{FirstName: "Alice", Specialization: "cardiology"})

		f.appointments.add(entity.Appointment{
			PatientID: f.patient.ID, DoctorID: alice.ID,
			DoctorName: "Alice", Specialization: "cardiology",
			AppointmentDate: mustDate(t, monday), Status: entity.AppointmentStatusScheduled,
		})

		_, err := f.usecase.BookAppointment(context.Background(), &dto.BookAppointmentRequest{
			PatientID:       f.patient.ID,
			DoctorName:      "Alice",
			AppointmentDate: monday,
		})

		var busy *AllDoctorsBusyError
		require.ErrorAs(t, err, &busy)
		assert.Equal(t, "cardiology", busy.Specialization)
		// Nothing was written
		assert.Len(t, f.appointments.appointments, 1)
	})
}

func TestRescheduleAppointment(t *testing.T) {
	const monday = "2025-10-20"
	const wednesday = "2025-10-22"

	t.Run("moves the appointment and marks it rescheduled", func(t *testing.T) {
		f := newAppointmentFixture(t, 10)
		alice := f.doctors.add(&entity.Doctor{FirstName: "Alice", Specialization: "cardiology", AvailableDays: "mon,wed"})
		appt := f.appointments.add(entity.Appointment{
			PatientID: f.patient.ID, DoctorID: alice.ID,
			DoctorName: "Alice", Specialization: "cardiology",
			AppointmentDate: mustDate(t, monday), Status: entity.AppointmentStatusScheduled,
		})

		resp, err := f.usecase.RescheduleAppointment(context.Background(), appt.ID, &dto.RescheduleAppointmentRequest{
			AppointmentDate: wednesday,
		})

		require.NoError(t, err)
		assert.Equal(t, wednesday, resp.AppointmentDate)
		assert.Equal(t, string(entity.AppointmentStatusRescheduled), resp.Status)

		stored, err := f.appointments.FindByID(nil, appt.ID)
		require.NoError(t, err)
		assert.True(t, stored.AppointmentDate.Equal(mustDate(t, wednesday)))
	})

	t.Run("hard-fails on capacity without substituting another doctor", func(t *testing.T) {
		f := newAppointmentFixture(t, 1)
		alice := f.doctors.add(&entity.Doctor{FirstName: "Alice", Specialization: "cardiology"})
		// A second cardiologist exists, but rescheduling must not use them
		f.doctors.add(&entity.Doctor{FirstName: "Bob", Specialization: "cardiology"})

		appt := f.appointments.add(entity.Appointment{
			PatientID: f.patient.ID, DoctorID: alice.ID,
			DoctorName: "Alice", Specialization: "cardiology",
			AppointmentDate: mustDate(t, monday), Status: entity.AppointmentStatusScheduled,
		})
		f.appointments.add(entity.Appointment{
			PatientID: f.patient.ID, DoctorID: alice.ID,
			DoctorName: "Alice", Specialization: "cardiology",
			AppointmentDate: mustDate(t, wednesday), Status: entity.AppointmentStatusScheduled,
		})

		_, err := f.usecase.RescheduleAppointment(context.Background(), appt.ID, &dto.RescheduleAppointmentRequest{
			AppointmentDate: wednesday,
		})

		assert.ErrorIs(t, err, ErrDoctorCapacityFull)

		stored, findErr := f.appointments.FindByID(nil, appt.ID)
		require.NoError(t, findErr)
		assert.True(t, stored.AppointmentDate.Equal(mustDate(t, monday)))
		assert.Equal(t, alice.ID, stored.DoctorID)
		assert.Equal(t, entity.AppointmentStatusScheduled, stored.Status)
	})

	t.Run("rejects a date outside the doctor's availability", func(t *testing.T) {
		f := newAppointmentFixture(t, 10)
		alice := f.doctors.add(&entity.Doctor{FirstName: "Alice", Specialization: "cardiology", AvailableDays: "mon"})
		appt := f.appointments.add(entity.Appointment{
			PatientID: f.patient.ID, DoctorID: alice.ID,
			DoctorName: "Alice", Specialization: "cardiology",
			AppointmentDate: mustDate(t, monday), Status: entity.AppointmentStatusScheduled,
		})

		_, err := f.usecase.RescheduleAppointment(context.Background(), appt.ID, &dto.RescheduleAppointmentRequest{
			AppointmentDate: wednesday,
		})

		var unavailable *UnavailableDayError
		require.ErrorAs(t, err, &unavailable)
		assert.Equal(t, "wed", unavailable.Weekday)
	})

	t.Run("fails for an unknown appointment", func(t *testing.T) {
		f := newAppointmentFixture(t, 10)

		_, err := f.usecase.RescheduleAppointment(context.Background(), f.patient.ID, &dto.RescheduleAppointmentRequest{
			AppointmentDate: wednesday,
		})

		assert.ErrorIs(t, err, ErrAppointmentNotFound)
	})
}

func TestCancelAppointment(t *testing.T) {
	f := newAppointmentFixture(t, 10)
	alice := f.doctors.add(&entity.Doctor{FirstName: "Alice", Specialization: "cardiology"})
	appt := f.appointments.add(entity.Appointment{
		PatientID: f.patient.ID, DoctorID: alice.ID,
		DoctorName: "Alice", Specialization: "cardiology",
		AppointmentDate: mustDate(t, "2025-10-20"), Status: entity.AppointmentStatusScheduled,
	})

	require.NoError(t, f.usecase.CancelAppointment(context.Background(), appt.ID))
	assert.Empty(t, f.appointments.appointments)

	// Cancelled rows no longer count toward capacity
	count, err := f.appointments.CountByDoctorAndDate(nil, alice.ID, mustDate(t, "2025-10-20"))
	require.NoError(t, err)
	assert.Zero(t, count)

	err = f.usecase.CancelAppointment(context.Background(), appt.ID)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestGetAppointmentsByPatient(t *testing.T) {
	f := newAppointmentFixture(t, 10)
	alice := f.doctors.add(&entity.Doctor{FirstName: "Alice", Specialization: "cardiology"})
	other := f.patients.add(&entity.Patient{FirstName: "Tom", LastName: "Reed"})

	f.appointments.add(entity.Appointment{
		PatientID: f.patient.ID, DoctorID: alice.ID, DoctorName: "Alice",
		Specialization: "cardiology", AppointmentDate: mustDate(t, "2025-10-20"),
		Status: entity.AppointmentStatusScheduled,
	})
	f.appointments.add(entity.Appointment{
		PatientID: other.ID, DoctorID: alice.ID, DoctorName: "Alice",
		Specialization: "cardiology", AppointmentDate: mustDate(t, "2025-10-22"),
		Status: entity.AppointmentStatusScheduled,
	})

	resp, err := f.usecase.GetAppointmentsByPatient(context.Background(), f.patient.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)

	all, err := f.usecase.GetAllAppointments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, all.Total)
}

func TestBookAppointmentErrorMessages(t *testing.T) {
	unavailable := &UnavailableDayError{DoctorName: "Alice", Weekday: "sun"}
	assert.Equal(t, "doctor Alice is not available on sun", unavailable.Error())

	busy := &AllDoctorsBusyError{Specialization: "cardiology"}
	assert.Equal(t, `all doctors with specialization "cardiology" are busy on that date`, busy.Error())

	assert.False(t, errors.Is(unavailable, ErrDoctorCapacityFull))
}
