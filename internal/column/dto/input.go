package dto

type ColumnInput struct {
	LocationID  uint64   `json:"-"`
	Name        string   `json:"name"`
	DisplayName *string  `json:"display_name"`
	Visible     bool     `json:"visible"`
	Attributes  []string `json:"attributes"`
}
