package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// CalendarGormRepository guarda as regras de agenda do barbeiro:
// expediente semanal e bloqueios pontuais. Não tem regra de negócio.
type CalendarGormRepository struct {
	db *gorm.DB
}

func NewCalendarGormRepository(db *gorm.DB) *CalendarGormRepository {
	return &CalendarGormRepository{db: db}
}

func (r *CalendarGormRepository) ListWorkingHours(
	ctx context.Context,
	barberID uint,
) ([]models.WorkingHours, error) {

	var hours []models.WorkingHours
	if err := r.db.WithContext(ctx).
		Where("barber_id = ?", barberID).
		Order("weekday ASC").
		Find(&hours).Error; err != nil {
		return nil, err
	}
	return hours, nil
}

// ReplaceWorkingHours troca a semana inteira em uma transação.
func (r *CalendarGormRepository) ReplaceWorkingHours(
	ctx context.Context,
	barberID uint,
	hours []models.WorkingHours,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("barber_id = ?", barberID).
			Delete(&models.WorkingHours{}).Error; err != nil {
			return err
		}

		if len(hours) == 0 {
			return nil
		}

		for i := range hours {
			hours[i].BarberID = barberID
		}
		return tx.Create(&hours).Error
	})
}

func (r *CalendarGormRepository) ListBlockedIntervals(
	ctx context.Context,
	barberID uint,
	from string,
	to string,
) ([]models.BlockedInterval, error) {

	q := r.db.WithContext(ctx).
		Where("barber_id = ?", barberID)

	if from != "" {
		q = q.Where("date >= ?", from)
	}
	if to != "" {
		q = q.Where("date <= ?", to)
	}

	var blocked []models.BlockedInterval
	if err := q.
		Order("date ASC").
		Order("start_time ASC").
		Find(&blocked).Error; err != nil {
		return nil, err
	}
	return blocked, nil
}

func (r *CalendarGormRepository) CreateBlockedInterval(
	ctx context.Context,
	b *models.BlockedInterval,
) error {
	return r.db.WithContext(ctx).Create(b).Error
}

// DeleteBlockedInterval devolve o bloqueio apagado, para o chamador
// saber qual data teve a agenda alterada.
func (r *CalendarGormRepository) DeleteBlockedInterval(
	ctx context.Context,
	barberID uint,
	id uint,
) (*models.BlockedInterval, error) {

	var b models.BlockedInterval
	if err := r.db.WithContext(ctx).
		Where("id = ? AND barber_id = ?", id, barberID).
		First(&b).Error; err != nil {
		return nil, notFound(err)
	}

	if err := r.db.WithContext(ctx).Delete(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// ListActiveServices é o catálogo público do barbeiro.
func (r *CalendarGormRepository) ListActiveServices(
	ctx context.Context,
	barberID uint,
) ([]models.Service, error) {

	var services []models.Service
	if err := r.db.WithContext(ctx).
		Where("barber_id = ? AND active = ?", barberID, true).
		Order("id ASC").
		Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}
