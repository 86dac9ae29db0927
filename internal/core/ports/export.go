package ports

import (
	"context"

	"github.com/dealspot/dealspot/internal/export"
)

// Exportable entities.
const (
	ExportDeals       = "deals"
	ExportUsers       = "users"
	ExportSubscribers = "subscribers"
	ExportStores      = "stores"
	ExportComments    = "comments"
)

// ExportRequest describes one export: the entity, output format, sort and
// the entity-specific filters as raw query values.
type ExportRequest struct {
	Entity    string
	Format    string
	SortField string
	SortOrder string // asc or desc
	Filters   map[string]string
}

// ExportService turns an ExportRequest into a runnable export job.
type ExportService interface {
	Prepare(ctx context.Context, req ExportRequest) (export.Job, error)
}
