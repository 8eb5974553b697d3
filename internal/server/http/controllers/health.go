package controllers

import "net/http"

// Health serves /healthz, an ambient liveness probe.
func (reg *Registry) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
