// Package export serializes store enumerations to CSV for operator tooling.
// Column order and presence are part of the compatibility contract; do not
// reorder them.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/dmitryilife/repairbot/internal/domain"
)

// timestampLayout is the export timestamp format.
const timestampLayout = "2006-01-02 15:04:05"

// requestHeader is the fixed column set of the requests export.
var requestHeader = []string{"id", "userId", "catalogItemId", "finalPrice", "status", "createdAt"}

// clientHeader is the fixed column set of the clients export.
var clientHeader = []string{"userId", "totalOrders", "totalSpent", "points", "lastActiveAt"}

// WriteRequests streams the request rows as CSV.
func WriteRequests(w io.Writer, requests []domain.RepairRequest) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(requestHeader); err != nil {
		return err
	}
	for _, r := range requests {
		row := []string{
			strconv.FormatInt(r.ID, 10),
			strconv.FormatInt(r.UserID, 10),
			r.CatalogItemID,
			strconv.Itoa(r.FinalPrice),
			string(r.Status),
			r.CreatedAt.Format(timestampLayout),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteClients streams the client rollup rows as CSV.
func WriteClients(w io.Writer, rollups []domain.ClientRollup) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(clientHeader); err != nil {
		return err
	}
	for _, c := range rollups {
		row := []string{
			strconv.FormatInt(c.UserID, 10),
			strconv.Itoa(c.TotalOrders),
			strconv.Itoa(c.TotalSpent),
			strconv.Itoa(c.Points),
			c.LastActiveAt.Format(timestampLayout),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
