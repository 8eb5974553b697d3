package httpserver

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/msg-store/msg-store/internal/server/http/controllers"
	"github.com/msg-store/msg-store/internal/store"
	"github.com/msg-store/msg-store/pkg/log"
)

// Server is msg-store's HTTP surface: a thin wrapper around net/http
// routing every request to internal/store through the controllers
// package.
type Server struct {
	srv *http.Server
	lis net.Listener
	reg *controllers.Registry
}

// New builds a Server backed by st, registering spec §6's admin routes
// plus the supplemented /api/export and the ambient /healthz probe.
func New(st *store.Store, logger log.Logger) *Server {
	reg := controllers.New(st, logger)
	mux := http.NewServeMux()
	s := &Server{reg: reg, srv: &http.Server{Handler: cors(mux)}}

	mux.HandleFunc("/healthz", reg.Health)
	mux.HandleFunc("/api/msg", reg.Msg)
	mux.HandleFunc("/api/group", reg.Group)
	mux.HandleFunc("/api/group-defaults", reg.GroupDefaults)
	mux.HandleFunc("/api/stats", reg.Stats)
	mux.HandleFunc("/api/store", reg.StoreHandler)
	mux.HandleFunc("/api/export", reg.Export)

	return s
}

// ListenAndServe binds addr and serves until ctx is canceled, then shuts
// down gracefully with a 5s timeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.lis = l
	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(l) }()
	select {
	case <-ctx.Done():
		cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(cctx)
		return nil
	case err := <-errCh:
		return err
	}
}

// Close releases the listener without waiting for in-flight requests.
func (s *Server) Close() {
	if s.lis != nil {
		_ = s.lis.Close()
	}
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
