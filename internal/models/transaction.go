package models

import "time"

const (
	TransactionIncome  = "income"
	TransactionExpense = "expense"
)

// Transaction é um lançamento do caixa do barbeiro. AppointmentID é só
// uma referência histórica: apagar o agendamento não apaga o lançamento.
type Transaction struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	BarberID uint `gorm:"uniqueIndex:idx_transactions_appointment_line;not null" json:"barber_id"`

	Type        string  `gorm:"size:10;not null" json:"type"`
	Amount      float64 `gorm:"not null" json:"amount"`
	Description string  `gorm:"size:255;uniqueIndex:idx_transactions_appointment_line" json:"description"`
	Category    string  `gorm:"size:50" json:"category"`
	Date        string  `gorm:"size:10;index" json:"date"`

	AppointmentID *uint `gorm:"uniqueIndex:idx_transactions_appointment_line" json:"appointment_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromAppointment indica lançamentos criados pela confirmação de um agendamento.
func (t *Transaction) FromAppointment() bool {
	return t.AppointmentID != nil
}
