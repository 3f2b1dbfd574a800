package routes

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/config"
	"github.com/BruksfildServices01/barber-booking/internal/logger"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
)

// NewEngine monta o gin com a cadeia de middlewares global. Sem proxies
// configurados, X-Forwarded-For é ignorado e o limite por IP usa o
// endereço da conexão.
func NewEngine(cfg *config.Config, zl *zap.Logger) (*gin.Engine, error) {
	zl = logger.OrNop(zl)

	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxyList()); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}

	r.Use(
		middleware.Recovery(zl),
		middleware.RequestID(),
		middleware.RequestLogger(zl),
		middleware.CORSMiddleware(),
	)
	return r, nil
}
