package models

import "time"

// BlockedInterval bloqueia um trecho de um único dia, por cima do expediente.
type BlockedInterval struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	BarberID uint `gorm:"index:idx_blocked_barber_date;not null" json:"barber_id"`

	Date      string `gorm:"size:10;index:idx_blocked_barber_date;not null" json:"date"`
	StartTime string `gorm:"size:5;not null" json:"start_time"`
	EndTime   string `gorm:"size:5;not null" json:"end_time"`
	Reason    string `gorm:"size:255" json:"reason"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
