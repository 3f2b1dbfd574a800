package ledger

import "errors"

var ErrNotFound = errors.New("transaction not found")

const CategoryAppointment = "appointment"

// IncomeLine é uma linha de receita de um agendamento. A descrição
// identifica a linha: duas linhas com a mesma descrição são a mesma.
type IncomeLine struct {
	Description string
	Amount      float64
}
