package appointment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/parryG11/hr/internal/notification"
	"github.com/parryG11/hr/internal/shared/apperror"
)

var (
	ErrAppointmentNotFound = apperror.New(
		apperror.CodeNotFound,
		"appointment not found",
		http.StatusNotFound,
	)
	ErrInvalidTimeRange = apperror.New(
		apperror.CodeInvalidInput,
		"startsAt must be before endsAt",
		http.StatusBadRequest,
	)
	ErrInvalidTimeFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid time format, expected RFC3339",
		http.StatusBadRequest,
	)
)

// NotificationEmitter mirrors the leave request side: called after the
// write succeeds, failures stay inside the emitter.
type NotificationEmitter interface {
	Emit(ctx context.Context, recipientUserID, notifType, message, link string)
}

//go:generate mockgen -source=appointment_service.go -destination=mock/appointment_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actorID string, req CreateAppointmentRequest) (AppointmentResponse, error)
	GetAll(ctx context.Context, participantUserID string) ([]AppointmentResponse, error)
	GetByID(ctx context.Context, id string) (AppointmentResponse, error)
	Update(ctx context.Context, id string, req UpdateAppointmentRequest) (AppointmentResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo    Repository
	emitter NotificationEmitter
	logger  *zap.Logger
}

func NewService(repo Repository, emitter NotificationEmitter, logger ...*zap.Logger) Service {
	l := zap.L().Named("appointment.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("appointment.service")
	}
	return &service{repo: repo, emitter: emitter, logger: l}
}

func (s *service) Create(ctx context.Context, actorID string, req CreateAppointmentRequest) (AppointmentResponse, error) {
	createdBy, err := uuid.Parse(actorID)
	if err != nil {
		return AppointmentResponse{}, apperror.InvalidField("actor id")
	}
	participant, err := uuid.Parse(req.ParticipantUserID)
	if err != nil {
		return AppointmentResponse{}, apperror.InvalidField("participantUserId")
	}
	startsAt, endsAt, err := parseTimeRange(req.StartsAt, req.EndsAt)
	if err != nil {
		return AppointmentResponse{}, err
	}

	a := &Appointment{
		ID:                uuid.New(),
		Title:             req.Title,
		Notes:             req.Notes,
		ParticipantUserID: participant,
		StartsAt:          startsAt,
		EndsAt:            endsAt,
		Location:          req.Location,
		CreatedBy:         createdBy,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		s.logger.Error("create appointment persist failed", zap.Error(err))
		return AppointmentResponse{}, err
	}

	s.logger.Info("create appointment success",
		zap.String("appointment_id", a.ID.String()),
		zap.String("participant_user_id", req.ParticipantUserID),
	)

	s.emitter.Emit(ctx,
		req.ParticipantUserID,
		notification.TypeAppointmentCreated,
		fmt.Sprintf("You have a new appointment %q on %s", a.Title, a.StartsAt.Format("2006-01-02 15:04")),
		"/appointments/"+a.ID.String(),
	)

	return mapToResponse(*a), nil
}

func (s *service) GetAll(ctx context.Context, participantUserID string) ([]AppointmentResponse, error) {
	if participantUserID != "" {
		if _, err := uuid.Parse(participantUserID); err != nil {
			return nil, apperror.InvalidField("participantUserId")
		}
	}

	appointments, err := s.repo.FindAll(ctx, participantUserID)
	if err != nil {
		return nil, err
	}

	resp := make([]AppointmentResponse, len(appointments))
	for i, a := range appointments {
		resp[i] = mapToResponse(a)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (AppointmentResponse, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AppointmentResponse{}, ErrAppointmentNotFound
		}
		return AppointmentResponse{}, err
	}
	return mapToResponse(*a), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateAppointmentRequest) (AppointmentResponse, error) {
	startsAt, endsAt, err := parseTimeRange(req.StartsAt, req.EndsAt)
	if err != nil {
		return AppointmentResponse{}, err
	}

	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AppointmentResponse{}, ErrAppointmentNotFound
		}
		return AppointmentResponse{}, err
	}

	a.Title = req.Title
	a.Notes = req.Notes
	a.StartsAt = startsAt
	a.EndsAt = endsAt
	a.Location = req.Location

	if err := s.repo.Update(ctx, a); err != nil {
		s.logger.Error("update appointment persist failed",
			zap.String("appointment_id", id),
			zap.Error(err),
		)
		return AppointmentResponse{}, err
	}

	return mapToResponse(*a), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func parseTimeRange(start, end string) (time.Time, time.Time, error) {
	startsAt, err := time.Parse(time.RFC3339, start)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidTimeFormat
	}
	endsAt, err := time.Parse(time.RFC3339, end)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidTimeFormat
	}
	if !startsAt.Before(endsAt) {
		return time.Time{}, time.Time{}, ErrInvalidTimeRange
	}
	return startsAt, endsAt, nil
}
