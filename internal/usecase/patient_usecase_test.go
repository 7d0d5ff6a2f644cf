package usecase

import (
	"context"
	"testing"

	"medisched/internal/delivery/dto"
	"medisched/internal/domain/entity"
	"medisched/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatientCRUD(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger()
	patients := &fakePatientRepo{}
	audits := &fakeAuditLogRepo{}
	uc := NewPatientUsecase(db, log, patients, service.NewAuditService(db, log, audits))
	ctx := context.Background()

	created, err := uc.CreatePatient(ctx, &dto.CreatePatientRequest{
		FirstName: "Jane", LastName: "Miller", Age: 34, Gender: "female",
		ContactNumber: "555-0100", Email: "jane@example.com", Address: "12 Elm St",
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	got, err := uc.GetPatient(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane", got.FirstName)

	newAge := 35
	updated, err := uc.UpdatePatient(ctx, created.ID, &dto.UpdatePatientRequest{
		Age: &newAge, MedicalHistory: "hypertension",
	})
	require.NoError(t, err)
	assert.Equal(t, 35, updated.Age)
	assert.Equal(t, "hypertension", updated.MedicalHistory)
	assert.Equal(t, "Jane", updated.FirstName)

	all, err := uc.GetAllPatients(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, all.Total)

	require.NoError(t, uc.DeletePatient(ctx, created.ID))

	_, err = uc.GetPatient(ctx, created.ID)
	assert.ErrorIs(t, err, ErrPatientNotFound)

	err = uc.DeletePatient(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrPatientNotFound)
}

func TestPatientAuditTrail(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger()
	patients := &fakePatientRepo{}
	audits := &fakeAuditLogRepo{}
	uc := NewPatientUsecase(db, log, patients, service.NewAuditService(db, log, audits))

	_, err := uc.CreatePatient(context.Background(), &dto.CreatePatientRequest{
		FirstName: "Jane", LastName: "Miller", Age: 34, Gender: "female",
		ContactNumber: "555-0100", Email: "jane@example.com", Address: "12 Elm St",
	})
	require.NoError(t, err)

	require.Len(t, audits.logs, 1)
	assert.Equal(t, entity.AuditActionPatientCreate, audits.logs[0].Action)
	assert.Equal(t, "patient", audits.logs[0].Metadata["entity"])
}
