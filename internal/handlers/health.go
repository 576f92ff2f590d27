package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type healthResponse struct {
	Status      string `json:"status"`
	Cache       string `json:"cache"`
	Audit       string `json:"audit"`
	Environment string `json:"environment"`
}

func (h HandlerSet) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	cacheStatus := "disabled"
	if h.cache != nil {
		cacheStatus = "ok"
		if err := h.cache.Ping(ctx).Err(); err != nil {
			cacheStatus = "error"
			h.log.Error().Err(err).Msg("redis ping failed")
		}
	}

	auditStatus := "disabled"
	if h.db != nil {
		auditStatus = "ok"
		if err := h.db.Ping(ctx); err != nil {
			auditStatus = "error"
			h.log.Error().Err(err).Msg("audit database ping failed")
		}
	}

	c.JSON(http.StatusOK, healthResponse{
		Status:      "ok",
		Cache:       cacheStatus,
		Audit:       auditStatus,
		Environment: h.cfg.Environment,
	})
}
