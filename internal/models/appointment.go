package models

import "time"

// Appointment não guarda horário de término: ele é sempre derivado
// de StartTime + Service.DurationMin.
type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BarberID uint `gorm:"index:idx_appointments_barber_date;not null" json:"barber_id"`

	ServiceID uint    `gorm:"not null" json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"service"`

	ClientName  string `gorm:"size:100;not null" json:"client_name"`
	ClientPhone string `gorm:"size:20;not null" json:"client_phone"`
	ClientEmail string `gorm:"size:100" json:"client_email"`

	Date      string `gorm:"size:10;index:idx_appointments_barber_date;not null" json:"date"`
	StartTime string `gorm:"size:5;not null" json:"start_time"`

	Status string `gorm:"size:20;default:'pending';index" json:"status"`

	Notes       string     `gorm:"size:255" json:"notes"`
	ConfirmedAt *time.Time `json:"confirmed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
