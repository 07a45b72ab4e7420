package models

import "time"

// Export entity names. EntityAll is a meta-entity expanding to every
// concrete collection.
const (
	EntityAll           = "all"
	EntityProducts      = "products"
	EntityCategories    = "categories"
	EntityUsers         = "users"
	EntityBlog          = "blog"
	EntityOrders        = "orders"
	EntityComments      = "comments"
	EntityNotifications = "notifications"
)

const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// DateRange is an inclusive created_at filter; either bound may be nil.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// IsZero reports whether no bound is set.
func (r DateRange) IsZero() bool {
	return r.Start == nil && r.End == nil
}

type ExportRequest struct {
	Entity string
	Format string
	Range  DateRange
}

// ExportInfo is bundle metadata, attached only to a full ("all") export.
type ExportInfo struct {
	ExportID      string     `json:"export_id"`
	ExportedAt    time.Time  `json:"exported_at"`
	ExportedBy    string     `json:"exported_by"`
	Entity        string     `json:"entity"`
	Format        string     `json:"format"`
	StartDate     *time.Time `json:"start_date,omitempty"`
	EndDate       *time.Time `json:"end_date,omitempty"`
	SchemaVersion int        `json:"schema_version"`
}

// ExportFile is the rendered download returned to the handler.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}
