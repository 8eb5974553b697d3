package controllers

import (
	"encoding/json"
	"net/http"
)

// Stats dispatches /api/stats: GET reads the counters, PUT overwrites or
// adds to them, DELETE resets them to zero.
func (reg *Registry) Stats(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, reg.Store.Stats())
	case http.MethodPut:
		reg.putStats(w, r)
	case http.MethodDelete:
		reg.Store.ResetStats()
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

type putStatsRequest struct {
	Add      bool    `json:"add"`
	Inserted *uint64 `json:"inserted"`
	Deleted  *uint64 `json:"deleted"`
	Pruned   *uint64 `json:"pruned"`
}

func (reg *Registry) putStats(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var body putStatsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request: "+err.Error())
		return
	}
	if body.Add {
		var inserted, deleted, pruned uint64
		if body.Inserted != nil {
			inserted = *body.Inserted
		}
		if body.Deleted != nil {
			deleted = *body.Deleted
		}
		if body.Pruned != nil {
			pruned = *body.Pruned
		}
		reg.Store.AddStats(inserted, deleted, pruned)
	} else {
		reg.Store.SetStats(body.Inserted, body.Deleted, body.Pruned)
	}
	writeJSON(w, reg.Store.Stats())
}
