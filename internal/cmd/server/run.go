package serverrun

import (
	"context"
	"fmt"

	"github.com/msg-store/msg-store/internal/config"
	"github.com/msg-store/msg-store/internal/runtime"
	httpserver "github.com/msg-store/msg-store/internal/server/http"
	"github.com/msg-store/msg-store/pkg/log"
)

// Options configures a server run.
type Options struct {
	HTTPAddr string
	Config   config.Config
	Logger   log.Logger
}

// Run opens a Runtime over opts.Config, starts the HTTP surface on
// opts.HTTPAddr, and blocks until ctx is canceled, closing both on the
// way out.
func Run(ctx context.Context, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = log.GetDefaultLogger()
	}

	rt, err := runtime.Open(runtime.Options{Config: opts.Config, Logger: logger})
	if err != nil {
		return fmt.Errorf("serverrun: open runtime: %w", err)
	}
	defer rt.Close()

	s := httpserver.New(rt.Store(), logger)
	defer s.Close()

	logger.Info("msg-store listening", log.Str("addr", opts.HTTPAddr))
	return s.ListenAndServe(ctx, opts.HTTPAddr)
}
