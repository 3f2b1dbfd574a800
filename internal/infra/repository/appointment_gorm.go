package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/domain/ledger"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Barber
// --------------------------------------------------

func (r *AppointmentGormRepository) GetBarberByID(
	ctx context.Context,
	id uint,
) (*models.Barber, error) {

	var barber models.Barber
	if err := r.db.WithContext(ctx).First(&barber, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &barber, nil
}

func (r *AppointmentGormRepository) GetBarberBySlug(
	ctx context.Context,
	slug string,
) (*models.Barber, error) {

	var barber models.Barber
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&barber).Error; err != nil {
		return nil, notFound(err)
	}
	return &barber, nil
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	barberID uint,
	serviceID uint,
) (*models.Service, error) {

	var service models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND barber_id = ?", serviceID, barberID).
		First(&service).Error; err != nil {
		return nil, notFound(err)
	}
	return &service, nil
}

// --------------------------------------------------
// Calendar rules
// --------------------------------------------------

func (r *AppointmentGormRepository) GetWorkingHours(
	ctx context.Context,
	barberID uint,
	weekday int,
) (*models.WorkingHours, error) {

	var hours []models.WorkingHours
	if err := r.db.WithContext(ctx).
		Where("barber_id = ? AND weekday = ?", barberID, weekday).
		Limit(1).
		Find(&hours).Error; err != nil {
		return nil, err
	}

	if len(hours) == 0 {
		return nil, nil
	}
	return &hours[0], nil
}

func (r *AppointmentGormRepository) ListBlockedIntervals(
	ctx context.Context,
	barberID uint,
	date string,
) ([]models.BlockedInterval, error) {

	var blocked []models.BlockedInterval
	if err := r.db.WithContext(ctx).
		Where("barber_id = ? AND date = ?", barberID, date).
		Order("start_time ASC").
		Find(&blocked).Error; err != nil {
		return nil, err
	}
	return blocked, nil
}

// --------------------------------------------------
// Appointment (conflict)
// --------------------------------------------------

func (r *AppointmentGormRepository) ListActiveAppointmentsForDay(
	ctx context.Context,
	barberID uint,
	date string,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Service").
		Where(
			"barber_id = ? AND date = ? AND status <> ?",
			barberID, date, string(domain.StatusCancelled),
		).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// LockSchedule garante que a linha (barber, date) exista e a trava com
// FOR UPDATE. Só faz sentido dentro de Transaction.
func (r *AppointmentGormRepository) LockSchedule(
	ctx context.Context,
	barberID uint,
	date string,
) error {

	db := r.db.WithContext(ctx)

	if err := db.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.ScheduleLock{BarberID: barberID, Date: date}).Error; err != nil {
		return err
	}

	var lock models.ScheduleLock
	return db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("barber_id = ? AND date = ?", barberID, date).
		First(&lock).Error
}

// --------------------------------------------------
// Appointment (CRUD)
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Omit("Service").Create(ap).Error
}

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	barberID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Service").
		Where("id = ? AND barber_id = ?", appointmentID, barberID).
		First(&ap).Error; err != nil {
		return nil, notFound(err)
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) GetAppointmentForUpdate(
	ctx context.Context,
	barberID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND barber_id = ?", appointmentID, barberID).
		First(&ap).Error; err != nil {
		return nil, notFound(err)
	}

	var service models.Service
	if err := r.db.WithContext(ctx).First(&service, ap.ServiceID).Error; err != nil {
		return nil, notFound(err)
	}
	ap.Service = service

	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Omit("Service").Save(ap).Error
}

func (r *AppointmentGormRepository) DeleteAppointment(
	ctx context.Context,
	barberID uint,
	appointmentID uint,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Where("id = ? AND barber_id = ?", appointmentID, barberID).
		Delete(&models.Appointment{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *AppointmentGormRepository) ListAppointments(
	ctx context.Context,
	filter domain.ListFilter,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Service").
		Where("barber_id = ?", filter.BarberID)

	switch {
	case filter.Date != "":
		q = q.Where("date = ?", filter.Date)
	case filter.Month != "":
		q = q.Where("date LIKE ?", filter.Month+"-%")
	}
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}

	var apps []models.Appointment
	if err := q.
		Order("date ASC").
		Order("start_time ASC").
		Order("id ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// --------------------------------------------------
// Unit of work
// --------------------------------------------------

// Transaction roda fn em uma transação. Erros de storage saem já
// classificados: unicidade vira SlotUnavailable, contenção vira Transient.
func (r *AppointmentGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AppointmentGormRepository{db: tx})
	})
	return ClassifyBookingError(err)
}

func (r *AppointmentGormRepository) Ledger() ledger.Repository {
	return NewLedgerGormRepository(r.db)
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
