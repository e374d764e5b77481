package handlers

import (
	"fmt"
	"net/http"

	"cafe-pos/internal/reports"
	"cafe-pos/internal/settings"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	Reports  *reports.Engine
	Settings *settings.Store
}

// --- GET: /api/stats?timeframe=weekly|monthly|yearly|all ---
func (h *ReportHandler) Stats(c *gin.Context) {
	tf := reports.ParseTimeframe(c.Query("timeframe"))
	st, err := h.Reports.Compute(c.Request.Context(), tf)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// --- GET: /api/stats/export - same numbers as a spreadsheet ---
func (h *ReportHandler) Export(c *gin.Context) {
	ctx := c.Request.Context()
	tf := reports.ParseTimeframe(c.Query("timeframe"))
	st, err := h.Reports.Compute(ctx, tf)
	if err != nil {
		fail(c, err)
		return
	}
	rate, err := h.Settings.ExchangeRate(ctx)
	if err != nil {
		fail(c, err)
		return
	}

	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="stats-%s.xlsx"`, tf))
	if err := reports.WriteXLSX(c.Writer, st, rate); err != nil {
		// headers are gone by now; just record it
		_ = c.Error(err)
	}
}
