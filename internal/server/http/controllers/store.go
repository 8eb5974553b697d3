package controllers

import (
	"encoding/json"
	"net/http"
)

// storeResponse layers the blob store's on-disk usage onto the index's
// aggregate snapshot, a supplemented introspection field spec.md didn't
// name.
type storeResponse struct {
	ByteSize       int64  `json:"byteSize"`
	MaxByteSize    *int64 `json:"maxByteSize,omitempty"`
	MsgCount       int    `json:"msgCount"`
	GroupCount     int    `json:"groupCount"`
	BlobBytesUsed  int64  `json:"blobBytesUsed,omitempty"`
	BlobCount      int    `json:"blobCount,omitempty"`
	BlobConfigured bool   `json:"blobConfigured"`
}

// StoreHandler dispatches /api/store: GET reads the aggregate snapshot, PUT
// sets the store-wide byte cap.
func (reg *Registry) StoreHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		reg.getStore(w, r)
	case http.MethodPut:
		reg.putStore(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (reg *Registry) getStore(w http.ResponseWriter, r *http.Request) {
	snap := reg.Store.StoreInfo()
	resp := storeResponse{
		ByteSize:    snap.ByteSize,
		MaxByteSize: snap.MaxByteSize,
		MsgCount:    snap.MsgCount,
		GroupCount:  snap.GroupCount,
	}
	if blobStats, ok := reg.Store.BlobStats(); ok {
		resp.BlobConfigured = true
		resp.BlobBytesUsed = blobStats.BytesUsed
		resp.BlobCount = blobStats.Count
	}
	writeJSON(w, resp)
}

type putStoreRequest struct {
	MaxByteSize *int64 `json:"maxByteSize"`
}

func (reg *Registry) putStore(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var body putStoreRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request: "+err.Error())
		return
	}
	if err := reg.Store.UpdateStoreDefaults(body.MaxByteSize); err != nil {
		writeStoreError(w, err)
		return
	}
	reg.getStore(w, r)
}
