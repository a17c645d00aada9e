package services

import (
	"testing"
	"time"

	"github.com/dlGuiri/Dental-Lens/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAppointmentRejectsOverlap(t *testing.T) {
	db := openTestDB(t)
	patient := createTestUser(t, db, "alice", models.RolePatient)
	other := createTestUser(t, db, "carol", models.RolePatient)
	dentist := createTestUser(t, db, "drsmith", models.RoleDentist)

	start := time.Now().Add(24 * time.Hour).Truncate(time.Hour)
	end := start.Add(30 * time.Minute)

	_, err := CreateAppointment(db, patient.ID, dentist.ID, start, end, nil)
	require.NoError(t, err)

	// Overlapping window with the same dentist conflicts.
	_, err = CreateAppointment(db, other.ID, dentist.ID, start.Add(15*time.Minute), end.Add(15*time.Minute), nil)
	assert.ErrorIs(t, err, ErrSlotTaken)

	// Back to back is fine.
	_, err = CreateAppointment(db, other.ID, dentist.ID, end, end.Add(30*time.Minute), nil)
	require.NoError(t, err)
}

func TestCreateAppointmentValidation(t *testing.T) {
	db := openTestDB(t)
	patient := createTestUser(t, db, "alice", models.RolePatient)
	dentist := createTestUser(t, db, "drsmith", models.RoleDentist)

	start := time.Now().Add(24 * time.Hour)

	_, err := CreateAppointment(db, patient.ID, dentist.ID, start, start, nil)
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	// Booking against a patient or a missing user is not allowed.
	_, err = CreateAppointment(db, patient.ID, patient.ID, start, start.Add(time.Hour), nil)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = CreateAppointment(db, patient.ID, uuid.New(), start, start.Add(time.Hour), nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetAppointmentStatusPermissions(t *testing.T) {
	db := openTestDB(t)
	patient := createTestUser(t, db, "alice", models.RolePatient)
	dentist := createTestUser(t, db, "drsmith", models.RoleDentist)

	start := time.Now().Add(24 * time.Hour)
	appointment, err := CreateAppointment(db, patient.ID, dentist.ID, start, start.Add(time.Hour), nil)
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentPending, appointment.Status)

	// Patients cannot confirm.
	_, err = SetAppointmentStatus(db, appointment.ID, patient.ID, models.AppointmentConfirmed, nil)
	assert.ErrorIs(t, err, ErrNotFound)

	confirmed, err := SetAppointmentStatus(db, appointment.ID, dentist.ID, models.AppointmentConfirmed, nil)
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentConfirmed, confirmed.Status)

	// Either party may cancel.
	cancelled, err := SetAppointmentStatus(db, appointment.ID, patient.ID, models.AppointmentCancelled, nil)
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentCancelled, cancelled.Status)

	_, err = SetAppointmentStatus(db, appointment.ID, dentist.ID, "sideways", nil)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = SetAppointmentStatus(db, uuid.New(), dentist.ID, models.AppointmentConfirmed, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetUserAppointmentsCoversBothRoles(t *testing.T) {
	db := openTestDB(t)
	patient := createTestUser(t, db, "alice", models.RolePatient)
	dentist := createTestUser(t, db, "drsmith", models.RoleDentist)

	start := time.Now().Add(24 * time.Hour)
	_, err := CreateAppointment(db, patient.ID, dentist.ID, start, start.Add(time.Hour), nil)
	require.NoError(t, err)

	forPatient, err := GetUserAppointments(db, patient.ID)
	require.NoError(t, err)
	require.Len(t, forPatient, 1)
	assert.Equal(t, dentist.ID, forPatient[0].Dentist.ID)

	forDentist, err := GetUserAppointments(db, dentist.ID)
	require.NoError(t, err)
	assert.Len(t, forDentist, 1)

	forStranger, err := GetUserAppointments(db, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, forStranger)
}
