package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-pricing-service/internal/document"
	"github.com/fekuna/omnipos-pricing-service/internal/httpapi"
	"github.com/fekuna/omnipos-pricing-service/internal/inventory"
	"github.com/fekuna/omnipos-pricing-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-pricing-service/pkg/hashid"
	"github.com/fekuna/omnipos-pricing-service/pkg/logger"
	"github.com/gorilla/mux"
)

type InventoryHandler struct {
	uc     inventory.UseCase
	codec  *hashid.Codec
	resp   *httpapi.Responder
	logger logger.ZapLogger
}

func NewInventoryHandler(uc inventory.UseCase, codec *hashid.Codec, log logger.ZapLogger) *InventoryHandler {
	return &InventoryHandler{
		uc:     uc,
		codec:  codec,
		resp:   httpapi.NewResponder(log),
		logger: log,
	}
}

// Register mounts the record routes under /inventory/{location}.
func (h *InventoryHandler) Register(r *mux.Router) {
	s := r.PathPrefix("/inventory/{location}").Subrouter()
	s.HandleFunc("", h.List).Methods(http.MethodGet)
	s.HandleFunc("", h.Add).Methods(http.MethodPost)
	s.HandleFunc("/batch", h.AddBatch).Methods(http.MethodPost)
	s.HandleFunc("/count", h.Count).Methods(http.MethodGet)
	s.HandleFunc("/export", h.Export).Methods(http.MethodGet)
	s.HandleFunc("/{record:[0-9]+}", h.Get).Methods(http.MethodGet)
	s.HandleFunc("/{record:[0-9]+}", h.Update).Methods(http.MethodPatch)
	s.HandleFunc("/{record:[0-9]+}", h.Delete).Methods(http.MethodDelete)
}

func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	locationID, err := httpapi.LocationID(r, h.codec)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	req, visibleOnly, err := httpapi.ParseListQuery(r.URL.Query())
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	res, err := h.uc.ListInventory(r.Context(), &dto.ListInput{
		LocationID:  locationID,
		Request:     req,
		VisibleOnly: visibleOnly,
	})
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusOK, res)
}

func (h *InventoryHandler) Count(w http.ResponseWriter, r *http.Request) {
	locationID, err := httpapi.LocationID(r, h.codec)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	n, err := h.uc.CountRecords(r.Context(), locationID)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusOK, map[string]uint64{"count": n})
}

func (h *InventoryHandler) Add(w http.ResponseWriter, r *http.Request) {
	locationID, err := httpapi.LocationID(r, h.codec)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	doc := document.New()
	if err := httpapi.DecodeBody(r, doc); err != nil {
		h.resp.Error(w, r, err)
		return
	}

	id, err := h.uc.AddRecord(r.Context(), locationID, doc)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusCreated, map[string]uint64{"id": id})
}

func (h *InventoryHandler) AddBatch(w http.ResponseWriter, r *http.Request) {
	locationID, err := httpapi.LocationID(r, h.codec)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	var docs []*document.Document
	if err := httpapi.DecodeBody(r, &docs); err != nil {
		h.resp.Error(w, r, err)
		return
	}

	ids, err := h.uc.AddRecords(r.Context(), locationID, docs)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusCreated, map[string][]uint64{"ids": ids})
}

func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	locationID, recordID, err := h.ids(r)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	doc, err := h.uc.GetRecord(r.Context(), locationID, recordID)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	if doc == nil {
		h.resp.JSON(w, http.StatusNotFound, httpapi.ErrorResponse{Error: "record not found"})
		return
	}
	h.resp.JSON(w, http.StatusOK, doc)
}

func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	locationID, recordID, err := h.ids(r)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	doc := document.New()
	if err := httpapi.DecodeBody(r, doc); err != nil {
		h.resp.Error(w, r, err)
		return
	}

	if err := h.uc.UpdateRecord(r.Context(), locationID, recordID, doc); err != nil {
		h.resp.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	locationID, recordID, err := h.ids(r)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	n, err := h.uc.DeleteRecord(r.Context(), locationID, recordID)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusOK, map[string]int64{"deleted": n})
}

func (h *InventoryHandler) Export(w http.ResponseWriter, r *http.Request) {
	locationID, err := httpapi.LocationID(r, h.codec)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	body, err := h.uc.ExportCSV(r.Context(), locationID)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+mux.Vars(r)["location"]+`.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

func (h *InventoryHandler) ids(r *http.Request) (uint64, uint64, error) {
	locationID, err := httpapi.LocationID(r, h.codec)
	if err != nil {
		return 0, 0, err
	}
	recordID, err := httpapi.RecordID(r)
	if err != nil {
		return 0, 0, err
	}
	return locationID, recordID, nil
}
