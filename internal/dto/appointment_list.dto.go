package dto

import "time"

// AppointmentListDTO é a linha da agenda com o término já derivado
// da duração do serviço.
type AppointmentListDTO struct {
	ID          uint       `json:"id"`
	Date        string     `json:"date"`
	StartTime   string     `json:"start_time"`
	EndTime     string     `json:"end_time"`
	Status      string     `json:"status"`
	ClientName  string     `json:"client_name"`
	ClientPhone string     `json:"client_phone"`
	ClientEmail string     `json:"client_email,omitempty"`
	ServiceID   uint       `json:"service_id"`
	ServiceName string     `json:"service_name"`
	Price       float64    `json:"price"`
	Notes       string     `json:"notes,omitempty"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}
