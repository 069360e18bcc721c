package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-pricing-service/internal/httpapi"
	"github.com/fekuna/omnipos-pricing-service/internal/location"
	"github.com/fekuna/omnipos-pricing-service/internal/location/dto"
	"github.com/fekuna/omnipos-pricing-service/internal/model"
	"github.com/fekuna/omnipos-pricing-service/pkg/hashid"
	"github.com/fekuna/omnipos-pricing-service/pkg/logger"
	"github.com/gorilla/mux"
)

type LocationHandler struct {
	uc     location.UseCase
	codec  *hashid.Codec
	resp   *httpapi.Responder
	logger logger.ZapLogger
}

func NewLocationHandler(uc location.UseCase, codec *hashid.Codec, log logger.ZapLogger) *LocationHandler {
	return &LocationHandler{
		uc:     uc,
		codec:  codec,
		resp:   httpapi.NewResponder(log),
		logger: log,
	}
}

// LocationResponse exposes a location under its opaque token.
type LocationResponse struct {
	ID string `json:"id"`
	*model.Location
}

type LocationDetailResponse struct {
	LocationResponse
	Columns []model.ColumnDescriptor `json:"columns"`
	Options *model.InventoryOptions  `json:"options"`
	Records uint64                   `json:"records"`
}

func (h *LocationHandler) Register(r *mux.Router) {
	r.HandleFunc("/locations", h.List).Methods(http.MethodGet)
	r.HandleFunc("/locations", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/locations/{location}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/locations/{location}", h.Update).Methods(http.MethodPut)
	r.HandleFunc("/locations/{location}", h.Delete).Methods(http.MethodDelete)
}

func (h *LocationHandler) response(loc *model.Location) (LocationResponse, error) {
	token, err := h.codec.EncodeSingle(loc.ID)
	if err != nil {
		return LocationResponse{}, err
	}
	return LocationResponse{ID: token, Location: loc}, nil
}

func (h *LocationHandler) List(w http.ResponseWriter, r *http.Request) {
	locations, err := h.uc.ListLocations(r.Context())
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	out := make([]LocationResponse, 0, len(locations))
	for i := range locations {
		item, err := h.response(&locations[i])
		if err != nil {
			h.resp.Error(w, r, err)
			return
		}
		out = append(out, item)
	}
	h.resp.JSON(w, http.StatusOK, out)
}

func (h *LocationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.LocationID(r, h.codec)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	detail, err := h.uc.GetLocationDetail(r.Context(), id)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	item, err := h.response(detail.Location)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	columns := detail.Columns
	if columns == nil {
		columns = []model.ColumnDescriptor{}
	}
	h.resp.JSON(w, http.StatusOK, LocationDetailResponse{
		LocationResponse: item,
		Columns:          columns,
		Options:          detail.Options,
		Records:          detail.Records,
	})
}

func (h *LocationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input dto.CreateLocationInput
	if err := httpapi.DecodeBody(r, &input); err != nil {
		h.resp.Error(w, r, err)
		return
	}

	loc, err := h.uc.CreateLocation(r.Context(), &input)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	item, err := h.response(loc)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusCreated, item)
}

func (h *LocationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.LocationID(r, h.codec)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	var input dto.UpdateLocationInput
	if err := httpapi.DecodeBody(r, &input); err != nil {
		h.resp.Error(w, r, err)
		return
	}
	input.ID = id

	loc, err := h.uc.UpdateLocation(r.Context(), &input)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	item, err := h.response(loc)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusOK, item)
}

func (h *LocationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.LocationID(r, h.codec)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	if err := h.uc.DeleteLocation(r.Context(), id); err != nil {
		h.resp.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
