package models

import "time"

// ScheduleLock existe apenas para ser travado (SELECT ... FOR UPDATE)
// por quem altera a agenda de um barbeiro em uma data.
type ScheduleLock struct {
	BarberID  uint   `gorm:"primaryKey;autoIncrement:false"`
	Date      string `gorm:"primaryKey;size:10"`
	UpdatedAt time.Time
}
