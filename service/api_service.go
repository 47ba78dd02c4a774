package service

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/vocdoni/zkgate/api"
	"github.com/vocdoni/zkgate/log"
)

// shutdownTimeout bounds the time Stop waits for in flight requests.
const shutdownTimeout = 5 * time.Second

// APIService represents a service that manages the HTTP API server.
type APIService struct {
	conf   api.APIConfig
	api    *api.API
	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewAPI creates a new APIService instance serving the contracts in conf.
func NewAPI(conf api.APIConfig) *APIService {
	return &APIService{conf: conf}
}

// Start begins the API server. It returns an error if the service
// is already running or if it fails to start. The server is stopped when
// ctx is done or Stop is called.
func (as *APIService) Start(ctx context.Context) error {
	as.mu.Lock()
	defer as.mu.Unlock()

	if as.cancel != nil {
		return fmt.Errorf("service already running")
	}

	a, err := api.New(&as.conf)
	if err != nil {
		return fmt.Errorf("failed to start API server: %w", err)
	}
	as.api = a
	ctx, as.cancel = context.WithCancel(ctx)
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.Shutdown(sctx); err != nil {
			log.Warnw("API server shutdown failed", "error", err.Error())
		}
	}()
	return nil
}

// Stop halts the API server.
func (as *APIService) Stop() {
	as.mu.Lock()
	defer as.mu.Unlock()

	if as.cancel != nil {
		as.cancel()
		as.cancel = nil
	}
}

// HostPort returns the configured host and port of the API server.
func (as *APIService) HostPort() (string, int) {
	return as.conf.Host, as.conf.Port
}

// Addr returns the address the API server listens on, or nil if it never
// started.
func (as *APIService) Addr() net.Addr {
	as.mu.Lock()
	defer as.mu.Unlock()
	if as.api == nil {
		return nil
	}
	return as.api.Addr()
}
