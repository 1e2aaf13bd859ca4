package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/vedicsoul/consciousness-engine/internal/app/system"
)

// httpServerService wraps the wired httpapi handler in a system.Service,
// grounded on the teacher's internal/app/httpapi.Service (ListenAndServe in
// a goroutine, graceful Shutdown on Stop).
type httpServerService struct {
	app    *Application
	server *http.Server
}

func newHTTPServerService(a *Application) *httpServerService {
	return &httpServerService{app: a}
}

func (s *httpServerService) Name() string { return "http" }

// Descriptor places the HTTP listener in the ingress layer for the
// /health/components diagnostics route.
func (s *httpServerService) Descriptor() system.Descriptor {
	return system.Descriptor{Name: s.Name(), Layer: system.LayerIngress}
}

func (s *httpServerService) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.app.cfg.Server.Host, s.app.cfg.Server.Port),
		Handler:      s.app.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.app.log.WithError(err).Error("http server error")
		}
	}()
	return nil
}

func (s *httpServerService) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
