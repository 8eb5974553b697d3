package controllers

import (
	"net/http"

	"github.com/msg-store/msg-store/internal/store"
)

// Group dispatches /api/group by method: GET introspects one group or
// every resident group, DELETE removes every message at a priority.
func (reg *Registry) Group(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		reg.getGroup(w, r)
	case http.MethodDelete:
		reg.deleteGroup(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

type groupResponse struct {
	Priority    uint32   `json:"priority"`
	ByteSize    int64    `json:"byteSize"`
	MaxByteSize *int64   `json:"maxByteSize,omitempty"`
	Count       int      `json:"count"`
	Messages    []string `json:"messages,omitempty"`
	Found       bool     `json:"found"`
}

func toGroupResponse(snap store.GroupSnapshot, found bool) groupResponse {
	resp := groupResponse{
		Priority:    snap.Priority,
		ByteSize:    snap.ByteSize,
		MaxByteSize: snap.MaxByteSize,
		Count:       snap.Count,
		Found:       found,
	}
	if snap.Messages != nil {
		resp.Messages = make([]string, len(snap.Messages))
		for i, m := range snap.Messages {
			resp.Messages[i] = m.String()
		}
	}
	return resp
}

func (reg *Registry) getGroup(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	includeMessages := parseBool(q.Get("includeMsgData"))

	pstr := q.Get("priority")
	if pstr == "" {
		snaps := reg.Store.AllGroupInfo(includeMessages)
		out := make([]groupResponse, len(snaps))
		for i, s := range snaps {
			out[i] = toGroupResponse(s, true)
		}
		writeJSON(w, out)
		return
	}

	priority, err := parsePriority(pstr)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	snap, ok := reg.Store.GroupInfo(priority, includeMessages)
	if !ok {
		writeJSON(w, groupResponse{Priority: priority, Found: false})
		return
	}
	writeJSON(w, toGroupResponse(snap, true))
}

func (reg *Registry) deleteGroup(w http.ResponseWriter, r *http.Request) {
	pstr := r.URL.Query().Get("priority")
	priority, err := parsePriority(pstr)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := reg.Store.DeleteGroup(priority); err != nil {
		if isNotFound(err) {
			w.WriteHeader(http.StatusOK)
			return
		}
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
