package dto

import "github.com/fekuna/omnipos-pricing-service/internal/model"

type CreateLocationInput struct {
	Name     string             `json:"name"`
	Location string             `json:"location"`
	PO       string             `json:"po"`
	Image    string             `json:"image"`
	Columns  []model.ColumnSpec `json:"columns"`
}

type UpdateLocationInput struct {
	ID       uint64 `json:"-"`
	Name     string `json:"name"`
	Location string `json:"location"`
	PO       string `json:"po"`
	Image    string `json:"image"`
}

// LocationDetail bundles everything a client needs to open a location.
type LocationDetail struct {
	Location *model.Location
	Columns  []model.ColumnDescriptor
	Options  *model.InventoryOptions // nil when never configured
	Records  uint64
}
