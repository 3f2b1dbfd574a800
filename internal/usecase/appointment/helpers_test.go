package appointment

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/infra/lock"
	"github.com/BruksfildServices01/barber-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/testutil"
)

// 2030-01-07 é uma segunda-feira.
const monday = "2030-01-07"

var fixedNow = time.Date(2030, 1, 1, 8, 0, 0, 0, time.UTC)

type harness struct {
	db     *gorm.DB
	fx     testutil.Fixture
	deps   Deps
	create *CreateAppointment
	update *UpdateAppointment
	del    *DeleteAppointment
	list   *ListAppointments
	avail  *GetAvailability
	valid  *ConflictValidator
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	db := testutil.OpenDB(t)
	fx := testutil.SeedBarber(t, db, "joao")
	repo := repository.NewAppointmentGormRepository(db)

	deps := Deps{
		Repo:  repo,
		Locks: lock.NewKeyed(),
		Now:   func() time.Time { return fixedNow },
	}

	return &harness{
		db:     db,
		fx:     fx,
		deps:   deps,
		create: NewCreateAppointment(deps),
		update: NewUpdateAppointment(deps),
		del:    NewDeleteAppointment(deps),
		list:   NewListAppointments(deps),
		avail:  NewGetAvailability(deps),
		valid:  NewConflictValidator(repo),
	}
}

func (h *harness) input(date, start string) CreateAppointmentInput {
	return CreateAppointmentInput{
		Barber:      BarberRef{Slug: h.fx.Barber.Slug},
		ServiceID:   h.fx.Service.ID,
		ClientName:  "Cliente",
		ClientPhone: "11999990000",
		Date:        date,
		StartTime:   start,
	}
}

func (h *harness) book(t *testing.T, date, start string) *models.Appointment {
	t.Helper()
	ap, err := h.create.Execute(context.Background(), h.input(date, start))
	if err != nil {
		t.Fatalf("book %s %s: %v", date, start, err)
	}
	return ap
}

func (h *harness) incomeCount(t *testing.T, appointmentID uint) int64 {
	t.Helper()
	var n int64
	if err := h.db.Model(&models.Transaction{}).
		Where("appointment_id = ? AND type = ?", appointmentID, models.TransactionIncome).
		Count(&n).Error; err != nil {
		t.Fatalf("count income: %v", err)
	}
	return n
}
