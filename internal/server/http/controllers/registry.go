// Package controllers holds the HTTP handlers for msg-store's admin
// surface, each backed by an internal/store.Store.
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/msg-store/msg-store/internal/store"
	"github.com/msg-store/msg-store/pkg/log"
)

// Registry wires the store and logger every handler needs and exposes
// them as HTTP handler methods for the server to register.
type Registry struct {
	Store *store.Store
	Log   log.Logger
}

// New builds a Registry over st.
func New(st *store.Store, logger log.Logger) *Registry {
	return &Registry{Store: st, Log: logger}
}

// writeStoreError maps a *store.Error to the status codes spec §7
// describes: admission rejections to 409, an unconfigured blob store to
// 403, malformed input to 400, and backend failures to 500.
func writeStoreError(w http.ResponseWriter, err error) {
	var se *store.Error
	if errors.As(err, &se) {
		switch se.Kind {
		case store.KindExceedsStoreMax, store.KindExceedsGroupMax, store.KindLacksPriority:
			writeError(w, http.StatusConflict, se.Error())
		case store.KindNotFound:
			writeError(w, http.StatusForbidden, se.Error())
		case store.KindMalformedRequest:
			writeError(w, http.StatusBadRequest, se.Error())
		default:
			writeError(w, http.StatusInternalServerError, se.Error())
		}
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

// parsePriority parses s as a group priority, the uint32 half of an
// identifier.
func parsePriority(s string) (uint32, error) {
	if s == "" {
		return 0, errors.New("malformed request: missing priority")
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, errors.New("malformed request: priority must be a non-negative integer")
	}
	return uint32(n), nil
}

// parseByteSize parses s as an optional byte-size bound. An empty string
// reports ok=false so callers can treat it as "unbounded" or "unset".
func parseByteSize(s string) (int64, bool, error) {
	if s == "" {
		return 0, false, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0, false, errors.New("malformed request: byte size must be a non-negative integer")
	}
	return n, true, nil
}

// isNotFound reports whether err is a store.KindNotFound error.
func isNotFound(err error) bool {
	return store.IsKind(err, store.KindNotFound)
}

// parseUint64Ptr parses s into a *uint64, returning nil for an empty
// string.
func parseUint64Ptr(s string) (*uint64, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return nil, errors.New("malformed request: expected a non-negative integer")
	}
	return &n, nil
}
