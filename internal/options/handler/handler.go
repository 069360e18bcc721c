package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-pricing-service/internal/httpapi"
	"github.com/fekuna/omnipos-pricing-service/internal/model"
	"github.com/fekuna/omnipos-pricing-service/internal/options"
	"github.com/fekuna/omnipos-pricing-service/pkg/hashid"
	"github.com/fekuna/omnipos-pricing-service/pkg/logger"
	"github.com/gorilla/mux"
)

type OptionsHandler struct {
	uc     options.UseCase
	codec  *hashid.Codec
	resp   *httpapi.Responder
	logger logger.ZapLogger
}

func NewOptionsHandler(uc options.UseCase, codec *hashid.Codec, log logger.ZapLogger) *OptionsHandler {
	return &OptionsHandler{
		uc:     uc,
		codec:  codec,
		resp:   httpapi.NewResponder(log),
		logger: log,
	}
}

func (h *OptionsHandler) Register(r *mux.Router) {
	s := r.PathPrefix("/inventory/{location}/options").Subrouter()
	s.HandleFunc("", h.Get).Methods(http.MethodGet)
	s.HandleFunc("", h.Set).Methods(http.MethodPut)
	s.HandleFunc("", h.Delete).Methods(http.MethodDelete)
}

func (h *OptionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	locationID, err := httpapi.LocationID(r, h.codec)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	opts, err := h.uc.GetOptions(r.Context(), locationID)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusOK, opts)
}

func (h *OptionsHandler) Set(w http.ResponseWriter, r *http.Request) {
	locationID, err := httpapi.LocationID(r, h.codec)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	var opts model.InventoryOptions
	if err := httpapi.DecodeBody(r, &opts); err != nil {
		h.resp.Error(w, r, err)
		return
	}

	if err := h.uc.SetOptions(r.Context(), locationID, &opts); err != nil {
		h.resp.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *OptionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	locationID, err := httpapi.LocationID(r, h.codec)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	if err := h.uc.DeleteOptions(r.Context(), locationID); err != nil {
		h.resp.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
