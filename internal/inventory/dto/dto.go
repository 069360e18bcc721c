package dto

import (
	"github.com/fekuna/omnipos-pricing-service/internal/document"
	"github.com/fekuna/omnipos-pricing-service/internal/query"
)

type ListInput struct {
	LocationID  uint64
	Request     query.Request
	VisibleOnly bool // drop columns whose descriptor is hidden
}

type ListResult struct {
	Data  []*document.Document `json:"data"`
	Total *uint64              `json:"total"`
}
