package appointment_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/parryG11/hr/internal/appointment"
	"github.com/parryG11/hr/internal/notification"
)

type fakeAppointmentRepository struct {
	createFn   func(ctx context.Context, a *appointment.Appointment) error
	findAllFn  func(ctx context.Context, participantUserID string) ([]appointment.Appointment, error)
	findByIDFn func(ctx context.Context, id string) (*appointment.Appointment, error)
	updateFn   func(ctx context.Context, a *appointment.Appointment) error
	deleteFn   func(ctx context.Context, id string) error
}

func (f *fakeAppointmentRepository) Create(ctx context.Context, a *appointment.Appointment) error {
	if f.createFn != nil {
		return f.createFn(ctx, a)
	}
	return nil
}

func (f *fakeAppointmentRepository) FindAll(ctx context.Context, participantUserID string) ([]appointment.Appointment, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, participantUserID)
	}
	return nil, nil
}

func (f *fakeAppointmentRepository) FindByID(ctx context.Context, id string) (*appointment.Appointment, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, appointment.ErrAppointmentNotFound
}

func (f *fakeAppointmentRepository) Update(ctx context.Context, a *appointment.Appointment) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, a)
	}
	return nil
}

func (f *fakeAppointmentRepository) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

type recordedEmit struct {
	recipient string
	notifType string
}

type fakeEmitter struct {
	emitted []recordedEmit
}

func (f *fakeEmitter) Emit(ctx context.Context, recipientUserID, notifType, message, link string) {
	f.emitted = append(f.emitted, recordedEmit{recipient: recipientUserID, notifType: notifType})
}

func TestAppointmentService_Create(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()
	participantID := uuid.New().String()

	req := appointment.CreateAppointmentRequest{
		Title:             "Quarterly review",
		ParticipantUserID: participantID,
		StartsAt:          "2024-04-10T09:00:00Z",
		EndsAt:            "2024-04-10T10:00:00Z",
		Location:          "Room 3",
	}

	t.Run("success notifies the participant", func(t *testing.T) {
		repo := &fakeAppointmentRepository{}
		emitter := &fakeEmitter{}
		svc := appointment.NewService(repo, emitter)

		resp, err := svc.Create(ctx, actorID, req)
		assert.NoError(t, err)
		assert.Equal(t, "Quarterly review", resp.Title)
		assert.Equal(t, participantID, resp.ParticipantUserID)

		assert.Len(t, emitter.emitted, 1)
		assert.Equal(t, participantID, emitter.emitted[0].recipient)
		assert.Equal(t, notification.TypeAppointmentCreated, emitter.emitted[0].notifType)
	})

	t.Run("negative ends before it starts", func(t *testing.T) {
		bad := req
		bad.StartsAt = "2024-04-10T10:00:00Z"
		bad.EndsAt = "2024-04-10T09:00:00Z"

		emitter := &fakeEmitter{}
		svc := appointment.NewService(&fakeAppointmentRepository{}, emitter)

		_, err := svc.Create(ctx, actorID, bad)
		assert.ErrorIs(t, err, appointment.ErrInvalidTimeRange)
		assert.Empty(t, emitter.emitted)
	})

	t.Run("negative persist failure emits nothing", func(t *testing.T) {
		repo := &fakeAppointmentRepository{}
		repo.createFn = func(ctx context.Context, a *appointment.Appointment) error {
			return assert.AnError
		}
		emitter := &fakeEmitter{}
		svc := appointment.NewService(repo, emitter)

		_, err := svc.Create(ctx, actorID, req)
		assert.Error(t, err)
		assert.Empty(t, emitter.emitted)
	})
}
