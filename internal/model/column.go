package model

// ColumnDescriptor overlays display metadata on one physical column of a
// tenant table. Unique by (Name, LocationID).
type ColumnDescriptor struct {
	Name        string   `db:"name" json:"name"`
	DisplayName *string  `db:"display_name" json:"display_name"`
	Visible     bool     `db:"visible" json:"visible"`
	Attributes  []string `db:"-" json:"attributes,omitempty"`
	LocationID  uint64   `db:"database_id" json:"-"`
}
