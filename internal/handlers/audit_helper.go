package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
)

func writeAudit(
	c *gin.Context,
	d *audit.Dispatcher,
	barberID uint,
	action string,
	entity string,
	entityID *uint,
	meta any,
) {
	d.Dispatch(audit.Event{
		BarberID:  barberID,
		RequestID: audit.RequestID(c.Request.Context()),
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Metadata:  meta,
	})
}
