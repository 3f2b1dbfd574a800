// Package testutil monta bancos sqlite descartáveis para os testes
// que exercitam os repositórios gorm.
package testutil

import (
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	dbpkg "github.com/BruksfildServices01/barber-booking/internal/db"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// OpenDB abre um sqlite em arquivo temporário com uma única conexão, o
// que serializa as transações como o FOR UPDATE faria no Postgres.
func OpenDB(t testing.TB) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	cfg := dbpkg.GormConfig()
	cfg.PrepareStmt = false
	cfg.Logger = gormlogger.Default.LogMode(gormlogger.Silent)

	db, err := gorm.Open(sqlite.Open(path+"?_busy_timeout=5000"), cfg)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := dbpkg.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type Fixture struct {
	Barber  models.Barber
	Service models.Service
}

// SeedBarber cria um barbeiro em UTC com expediente 09:00–17:00 de
// segunda a sexta e um serviço de 30 minutos por 50.
func SeedBarber(t testing.TB, db *gorm.DB, slug string) Fixture {
	t.Helper()

	barber := models.Barber{
		Name:     "Barbeiro " + slug,
		Slug:     slug,
		Timezone: "UTC",
		Active:   true,
	}
	if err := db.Create(&barber).Error; err != nil {
		t.Fatalf("seed barber: %v", err)
	}

	service := models.Service{
		BarberID:    barber.ID,
		Name:        "Corte",
		DurationMin: 30,
		Price:       50,
		Active:      true,
	}
	if err := db.Create(&service).Error; err != nil {
		t.Fatalf("seed service: %v", err)
	}

	for wd := 1; wd <= 5; wd++ {
		wh := models.WorkingHours{
			BarberID:  barber.ID,
			Weekday:   wd,
			StartTime: "09:00",
			EndTime:   "17:00",
			Active:    true,
		}
		if err := db.Create(&wh).Error; err != nil {
			t.Fatalf("seed working hours: %v", err)
		}
	}

	return Fixture{Barber: barber, Service: service}
}

func SeedService(t testing.TB, db *gorm.DB, barberID uint, name string, minutes int, price float64) models.Service {
	t.Helper()

	s := models.Service{
		BarberID:    barberID,
		Name:        name,
		DurationMin: minutes,
		Price:       price,
		Active:      true,
	}
	if err := db.Create(&s).Error; err != nil {
		t.Fatalf("seed service: %v", err)
	}
	return s
}
