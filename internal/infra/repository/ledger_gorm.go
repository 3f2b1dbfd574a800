package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/barber-booking/internal/domain/ledger"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type LedgerGormRepository struct {
	db *gorm.DB
}

func NewLedgerGormRepository(db *gorm.DB) *LedgerGormRepository {
	return &LedgerGormRepository{db: db}
}

// --------------------------------------------------
// Appointment income
// --------------------------------------------------

func (r *LedgerGormRepository) HasAppointmentIncome(
	ctx context.Context,
	barberID uint,
	appointmentID uint,
) (bool, error) {

	n, err := r.CountAppointmentLines(ctx, barberID, appointmentID)
	return n > 0, err
}

func (r *LedgerGormRepository) HasAppointmentLine(
	ctx context.Context,
	barberID uint,
	appointmentID uint,
	description string,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where(
			"barber_id = ? AND appointment_id = ? AND description = ?",
			barberID, appointmentID, description,
		).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *LedgerGormRepository) CountAppointmentLines(
	ctx context.Context,
	barberID uint,
	appointmentID uint,
) (int64, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("barber_id = ? AND appointment_id = ?", barberID, appointmentID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *LedgerGormRepository) InsertIfAbsent(
	ctx context.Context,
	tx *models.Transaction,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(tx)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *LedgerGormRepository) LockAppointment(
	ctx context.Context,
	barberID uint,
	appointmentID uint,
) error {

	var ids []uint
	return r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND barber_id = ?", appointmentID, barberID).
		Pluck("id", &ids).Error
}

// --------------------------------------------------
// Manual transactions
// --------------------------------------------------

func (r *LedgerGormRepository) CreateTransaction(
	ctx context.Context,
	tx *models.Transaction,
) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

func (r *LedgerGormRepository) GetTransaction(
	ctx context.Context,
	barberID uint,
	id uint,
) (*models.Transaction, error) {

	var tx models.Transaction
	if err := r.db.WithContext(ctx).
		Where("id = ? AND barber_id = ?", id, barberID).
		First(&tx).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrNotFound
		}
		return nil, err
	}
	return &tx, nil
}

func (r *LedgerGormRepository) UpdateTransaction(
	ctx context.Context,
	tx *models.Transaction,
) error {
	return r.db.WithContext(ctx).Save(tx).Error
}

func (r *LedgerGormRepository) DeleteTransaction(
	ctx context.Context,
	barberID uint,
	id uint,
) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND barber_id = ?", id, barberID).
		Delete(&models.Transaction{}).Error
}

func (r *LedgerGormRepository) ListTransactions(
	ctx context.Context,
	filter ledger.ListFilter,
) ([]models.Transaction, error) {

	q := r.db.WithContext(ctx).
		Where("barber_id = ?", filter.BarberID)

	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.From != "" {
		q = q.Where("date >= ?", filter.From)
	}
	if filter.To != "" {
		q = q.Where("date <= ?", filter.To)
	}

	var txs []models.Transaction
	if err := q.
		Order("date ASC").
		Order("id ASC").
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *LedgerGormRepository) Transaction(
	ctx context.Context,
	fn func(tx ledger.Repository) error,
) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&LedgerGormRepository{db: tx})
	})
	return ClassifyBookingError(err)
}

// Compile-time check
var _ ledger.Repository = (*LedgerGormRepository)(nil)
