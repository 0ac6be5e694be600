package appointment

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=appointment_repo.go -destination=mock/appointment_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	FindAll(ctx context.Context, participantUserID string) ([]Appointment, error)
	FindByID(ctx context.Context, id string) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, a *Appointment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) FindAll(ctx context.Context, participantUserID string) ([]Appointment, error) {
	db := r.db.WithContext(ctx)
	if participantUserID != "" {
		db = db.Where("participant_user_id = ?", participantUserID)
	}

	var appointments []Appointment
	err := db.Order("starts_at ASC").Find(&appointments).Error
	return appointments, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Appointment, error) {
	var a Appointment
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	return &a, err
}

func (r *repository) Update(ctx context.Context, a *Appointment) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Appointment{}, "id = ?", id).Error
}
