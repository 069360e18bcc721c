package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-pricing-service/internal/column"
	"github.com/fekuna/omnipos-pricing-service/internal/column/dto"
	"github.com/fekuna/omnipos-pricing-service/internal/httpapi"
	"github.com/fekuna/omnipos-pricing-service/internal/model"
	"github.com/fekuna/omnipos-pricing-service/pkg/hashid"
	"github.com/fekuna/omnipos-pricing-service/pkg/logger"
	"github.com/gorilla/mux"
)

type ColumnHandler struct {
	uc     column.UseCase
	codec  *hashid.Codec
	resp   *httpapi.Responder
	logger logger.ZapLogger
}

func NewColumnHandler(uc column.UseCase, codec *hashid.Codec, log logger.ZapLogger) *ColumnHandler {
	return &ColumnHandler{
		uc:     uc,
		codec:  codec,
		resp:   httpapi.NewResponder(log),
		logger: log,
	}
}

func (h *ColumnHandler) Register(r *mux.Router) {
	s := r.PathPrefix("/inventory/{location}/columns").Subrouter()
	s.HandleFunc("", h.List).Methods(http.MethodGet)
	s.HandleFunc("", h.Insert).Methods(http.MethodPost)
	s.HandleFunc("", h.Update).Methods(http.MethodPatch)
	s.HandleFunc("/{name}", h.Delete).Methods(http.MethodDelete)
}

func (h *ColumnHandler) List(w http.ResponseWriter, r *http.Request) {
	locationID, err := httpapi.LocationID(r, h.codec)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	columns, err := h.uc.ListColumns(r.Context(), locationID)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	if columns == nil {
		columns = []model.ColumnDescriptor{}
	}
	h.resp.JSON(w, http.StatusOK, columns)
}

func (h *ColumnHandler) Insert(w http.ResponseWriter, r *http.Request) {
	input, err := h.input(r)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	c, err := h.uc.InsertColumn(r.Context(), input)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusCreated, c)
}

func (h *ColumnHandler) Update(w http.ResponseWriter, r *http.Request) {
	input, err := h.input(r)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	c, err := h.uc.UpdateColumn(r.Context(), input)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusOK, c)
}

func (h *ColumnHandler) Delete(w http.ResponseWriter, r *http.Request) {
	locationID, err := httpapi.LocationID(r, h.codec)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	if err := h.uc.DeleteColumn(r.Context(), locationID, mux.Vars(r)["name"]); err != nil {
		h.resp.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ColumnHandler) input(r *http.Request) (*dto.ColumnInput, error) {
	locationID, err := httpapi.LocationID(r, h.codec)
	if err != nil {
		return nil, err
	}

	var input dto.ColumnInput
	if err := httpapi.DecodeBody(r, &input); err != nil {
		return nil, err
	}
	input.LocationID = locationID
	return &input, nil
}
