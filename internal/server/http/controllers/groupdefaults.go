package controllers

import (
	"encoding/json"
	"net/http"
)

// GroupDefaults dispatches /api/group-defaults: GET reads a priority's
// cap, POST sets it (potentially triggering eviction per spec §4.3.4),
// DELETE clears it.
func (reg *Registry) GroupDefaults(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		reg.getGroupDefault(w, r)
	case http.MethodPost:
		reg.setGroupDefault(w, r)
	case http.MethodDelete:
		reg.deleteGroupDefault(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

type groupDefaultResponse struct {
	Priority    uint32 `json:"priority"`
	MaxByteSize *int64 `json:"maxByteSize,omitempty"`
	Found       bool   `json:"found"`
}

func (reg *Registry) getGroupDefault(w http.ResponseWriter, r *http.Request) {
	priority, err := parsePriority(r.URL.Query().Get("priority"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	d, ok := reg.Store.GroupDefaultOf(priority)
	if !ok {
		writeJSON(w, groupDefaultResponse{Priority: priority, Found: false})
		return
	}
	writeJSON(w, groupDefaultResponse{Priority: priority, MaxByteSize: d.MaxByteSize, Found: true})
}

type setGroupDefaultRequest struct {
	Priority    uint32 `json:"priority"`
	MaxByteSize *int64 `json:"maxByteSize"`
}

func (reg *Registry) setGroupDefault(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var body setGroupDefaultRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request: "+err.Error())
		return
	}
	if err := reg.Store.UpdateGroupDefaults(body.Priority, body.MaxByteSize); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, groupDefaultResponse{Priority: body.Priority, MaxByteSize: body.MaxByteSize, Found: true})
}

func (reg *Registry) deleteGroupDefault(w http.ResponseWriter, r *http.Request) {
	priority, err := parsePriority(r.URL.Query().Get("priority"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	reg.Store.DeleteGroupDefaults(priority)
	w.WriteHeader(http.StatusOK)
}
