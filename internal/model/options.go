package model

// InventoryOptions are the per-location feature switches.
type InventoryOptions struct {
	PrintForms             []PrintForm   `json:"print_form,omitempty"`
	Inventorying           *Inventorying `json:"inventorying,omitempty"`
	ShowYearInput          bool          `json:"show_year_input"`
	ShowColorDropdown      bool          `json:"show_color_dropdown"`
	ShowDepartmentDropdown bool          `json:"show_department_dropdown"`
}

type Inventorying struct {
	AddIfMissing   bool `json:"add_if_missing"`
	RemoveIfZero   bool `json:"remove_if_zero"`
	AllowAdditions bool `json:"allow_additions"`
}

// PrintForm is one label template. A nil ID means the form is new.
type PrintForm struct {
	ID               *uint64 `db:"id" json:"id,omitempty"`
	Hint             *string `db:"hint" json:"hint"`
	Label            *string `db:"label" json:"label"`
	Year             *uint16 `db:"year" json:"year"`
	Department       *string `db:"department" json:"department"`
	Color            *string `db:"color" json:"color"`
	Size             *string `db:"size" json:"size"`
	ShowRetail       bool    `db:"show_retail" json:"show-retail"`
	ShowPriceLabel   bool    `db:"show_price_label" json:"show-price-label"`
	PercentOffRetail *uint8  `db:"percent_off_retail" json:"percent_off_retail"`
}
