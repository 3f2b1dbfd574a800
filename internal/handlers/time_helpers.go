package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// --------------------------------------------------
// Datas e horários chegam sempre como texto local do barbeiro
// --------------------------------------------------

func validDate(s string) bool {
	_, err := time.Parse(timezone.DateLayout, s)
	return err == nil
}

// validClockRange exige HH:MM válidos e início antes do fim.
func validClockRange(start, end string) bool {
	s, err := time.Parse(timezone.ClockLayout, start)
	if err != nil {
		return false
	}
	e, err := time.Parse(timezone.ClockLayout, end)
	if err != nil {
		return false
	}
	return s.Before(e)
}

// --------------------------------------------------
// Parâmetros
// --------------------------------------------------

func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return 0, false
	}
	return uint(id), true
}

func optionalUintQuery(c *gin.Context, name string) (uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_"+name, "Parâmetro inválido.")
		return 0, false
	}
	return uint(v), true
}
