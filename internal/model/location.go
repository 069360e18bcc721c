package model

import "time"

// Location is one tenant: a registry row plus the tenant table named by ID.
type Location struct {
	ID          uint64    `db:"id" json:"-"`
	Name        string    `db:"name" json:"name"`
	Location    string    `db:"location" json:"location"`
	PO          string    `db:"po" json:"po"`
	Image       string    `db:"image" json:"image"`
	CreatedDate time.Time `db:"created_date" json:"post_date"`
}

// ColumnKind is the portable type of a tenant column at creation time.
type ColumnKind string

const (
	ColumnText     ColumnKind = "text"
	ColumnInteger  ColumnKind = "integer"
	ColumnFloat    ColumnKind = "float"
	ColumnBoolean  ColumnKind = "boolean"
	ColumnDateTime ColumnKind = "datetime"
)

// ColumnSpec describes one column of a tenant table to create.
type ColumnSpec struct {
	Name string     `json:"name"`
	Kind ColumnKind `json:"kind"`
}
