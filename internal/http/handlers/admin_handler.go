// Package handlers provides HTTP handler implementations for the public API.
//
// This file covers the operator surface: workflow statistics, the paginated
// client ledger, and CSV exports of requests and clients. Every endpoint
// requires the caller to identify as a configured operator via the
// X-Operator-ID header; anything else is refused with 403.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dmitryilife/repairbot/internal/export"
	"github.com/dmitryilife/repairbot/internal/http/middleware"
	"github.com/dmitryilife/repairbot/internal/utils"
)

// operatorFrom extracts and authorizes the acting operator. On failure it
// writes the error response and returns false.
func (h *Handler) operatorFrom(c *gin.Context) (int64, bool) {
	raw := c.GetHeader("X-Operator-ID")
	if raw == "" {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "missing X-Operator-ID header")
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "X-Operator-ID must be a positive integer")
		return 0, false
	}
	if h.IsOperator == nil || !h.IsOperator(id) {
		fail(c, http.StatusForbidden, ErrCodeForbidden, "operator access required")
		return 0, false
	}
	return id, true
}

// Stats returns the aggregated workflow statistics.
//
// GET /admin/stats
func (h *Handler) Stats(c *gin.Context) {
	if _, okOp := h.operatorFrom(c); !okOp {
		return
	}
	ok(c, http.StatusOK, h.Requests.Stats())
}

// Clients returns the per-client rollups, paginated and ordered by total
// spend.
//
// GET /admin/clients?page=1&page_size=20
func (h *Handler) Clients(c *gin.Context) {
	if _, okOp := h.operatorFrom(c); !okOp {
		return
	}
	page := utils.AtoiDefault(c.Query("page"), 1)
	if page < 1 {
		page = 1
	}
	pageSize := utils.AtoiDefault(c.Query("page_size"), 20)
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	rollups := h.Requests.Rollups()
	total := len(rollups)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	ok(c, http.StatusOK, gin.H{
		"clients":   rollups[start:end],
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// ExportRequests streams all requests as CSV.
//
// GET /admin/export/requests.csv
func (h *Handler) ExportRequests(c *gin.Context) {
	opID, okOp := h.operatorFrom(c)
	if !okOp {
		return
	}
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="requests.csv"`)
	if err := export.WriteRequests(c.Writer, h.Requests.All()); err != nil {
		lg := middleware.LoggerFrom(c)
		lg.Error().Err(err).Int64("operator_id", opID).Msg("requests export failed")
		fail(c, http.StatusInternalServerError, ErrCodeExportFailed, "export failed")
	}
}

// ExportClients streams the client rollups as CSV.
//
// GET /admin/export/clients.csv
func (h *Handler) ExportClients(c *gin.Context) {
	opID, okOp := h.operatorFrom(c)
	if !okOp {
		return
	}
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="clients.csv"`)
	if err := export.WriteClients(c.Writer, h.Requests.Rollups()); err != nil {
		lg := middleware.LoggerFrom(c)
		lg.Error().Err(err).Int64("operator_id", opID).Msg("clients export failed")
		fail(c, http.StatusInternalServerError, ErrCodeExportFailed, "export failed")
	}
}
