package controllers

import (
	"bufio"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/msg-store/msg-store/pkg/id"
)

// Msg dispatches /api/msg by method: POST inserts, GET retrieves, DELETE
// removes.
func (reg *Registry) Msg(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		reg.insertMsg(w, r)
	case http.MethodGet:
		reg.fetchMsg(w, r)
	case http.MethodDelete:
		reg.deleteMsg(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// insertMsg implements spec §6's wire format: a query-string-shaped
// header section, a "?" separator, then the raw payload. saveToFile=true
// switches to the streaming blob path, reading directly off the
// connection instead of buffering the whole body.
func (reg *Registry) insertMsg(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	br := bufio.NewReader(r.Body)
	headerLine, err := br.ReadString('?')
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed request: missing header/payload separator")
		return
	}
	header := strings.TrimSuffix(headerLine, "?")
	values, err := url.ParseQuery(header)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed request: "+err.Error())
		return
	}

	priority, err := parsePriority(values.Get("priority"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if parseBool(values.Get("saveToFile")) {
		size, ok, err := parseByteSize(values.Get("bytesize"))
		if err != nil || !ok {
			writeError(w, http.StatusBadRequest, "malformed request: bytesize is required when saveToFile is set")
			return
		}
		name := values.Get("filename")
		newID, err := reg.Store.AddBlob(priority, size, name, br)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, map[string]string{"uuid": newID.String()})
		return
	}

	payload, err := io.ReadAll(br)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed request: "+err.Error())
		return
	}
	newID, err := reg.Store.Add(priority, payload)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, map[string]string{"uuid": newID.String()})
}

// fetchMsg implements the retrieval algorithm's HTTP face: identifier
// takes precedence over priority, which takes precedence over an
// unfiltered scan. A miss is reported as 200 with an empty body, not an
// error, matching the non-destructive nature of retrieval.
func (reg *Registry) fetchMsg(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var idPtr *id.ID
	if s := q.Get("uuid"); s != "" {
		parsed, err := id.Parse(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "malformed request: invalid uuid")
			return
		}
		idPtr = &parsed
	}

	var priorityPtr *uint32
	if s := q.Get("priority"); s != "" {
		p, err := parsePriority(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		priorityPtr = &p
	}

	reverse := parseBool(q.Get("reverse"))

	found, ok := reg.Store.Get(priorityPtr, idPtr, reverse)
	if !ok {
		w.WriteHeader(http.StatusOK)
		return
	}

	payload, err := reg.Store.GetPayload(found)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	header := url.Values{"uuid": {found.String()}}.Encode()
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(header + "?"))
	_, _ = w.Write(payload)
}

// deleteMsg removes identifier uuid. Deleting an absent identifier is
// not an error: spec §6 reports 200 on success or absent alike.
func (reg *Registry) deleteMsg(w http.ResponseWriter, r *http.Request) {
	s := r.URL.Query().Get("uuid")
	if s == "" {
		writeError(w, http.StatusBadRequest, "malformed request: missing uuid")
		return
	}
	parsed, err := id.Parse(s)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed request: invalid uuid")
		return
	}

	if err := reg.Store.Del(parsed); err != nil {
		if isNotFound(err) {
			w.WriteHeader(http.StatusOK)
			return
		}
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
