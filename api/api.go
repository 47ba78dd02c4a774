// Package api exposes the zkverifier and request controller contracts over
// HTTP. Read endpoints are public. Mutating endpoints identify the caller by
// an Ethereum signature over the node domain, the caller's next nonce, the
// method, the path and the body of the request, carried in the
// SignatureHeader and NonceHeader headers. Each nonce is accepted once.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vocdoni/zkgate/log"
	"github.com/vocdoni/zkgate/requests"
	"github.com/vocdoni/zkgate/storage"
	"github.com/vocdoni/zkgate/zkverifier"
)

// APIConfig type represents the configuration for the API HTTP server.
// It includes the host, port and the deployed contracts.
type APIConfig struct {
	Host     string
	Port     int
	Storage  *storage.Storage
	Verifier *zkverifier.Verifier
	Requests *requests.Controller
	// VerifierAddr and RequestsAddr are the directory addresses of the
	// contracts, reported by the info endpoint.
	VerifierAddr common.Address
	RequestsAddr common.Address
}

// API type represents the API HTTP server.
type API struct {
	router       *chi.Mux
	server       *http.Server
	listener     net.Listener
	storage      *storage.Storage
	verifier     *zkverifier.Verifier
	requests     *requests.Controller
	verifierAddr common.Address
	requestsAddr common.Address
}

// New creates a new API instance with the given configuration and starts
// serving it in the background.
func New(conf *APIConfig) (*API, error) {
	a, err := NewRouter(conf)
	if err != nil {
		return nil, err
	}
	a.listener, err = net.Listen("tcp", fmt.Sprintf("%s:%d", conf.Host, conf.Port))
	if err != nil {
		return nil, fmt.Errorf("failed to listen: %w", err)
	}
	a.server = &http.Server{
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Infow("starting API server", "addr", a.listener.Addr().String())
		if err := a.server.Serve(a.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start the API server: %v", err)
		}
	}()
	return a, nil
}

// NewRouter creates an API instance with its router but does not start
// serving it.
func NewRouter(conf *APIConfig) (*API, error) {
	if conf == nil {
		return nil, fmt.Errorf("missing API configuration")
	}
	if conf.Storage == nil {
		return nil, fmt.Errorf("missing storage instance")
	}
	if conf.Verifier == nil || conf.Requests == nil {
		return nil, fmt.Errorf("missing contracts")
	}
	a := &API{
		storage:      conf.Storage,
		verifier:     conf.Verifier,
		requests:     conf.Requests,
		verifierAddr: conf.VerifierAddr,
		requestsAddr: conf.RequestsAddr,
	}
	a.initRouter()
	return a, nil
}

// domain identifies this deployment in signed messages. It is the address
// of the verifier, which derives from the deployer key.
func (a *API) domain() common.Address {
	return a.verifierAddr
}

// Router returns the chi router for testing purposes
func (a *API) Router() *chi.Mux {
	return a.router
}

// Addr returns the address the server listens on, or nil if it is not
// serving.
func (a *API) Addr() net.Addr {
	if a.listener == nil {
		return nil
	}
	return a.listener.Addr()
}

// Shutdown stops the server, waiting for in flight requests until ctx is
// done.
func (a *API) Shutdown(ctx context.Context) error {
	if a.server == nil {
		return nil
	}
	return a.server.Shutdown(ctx)
}

type route struct {
	method  string
	pattern string
	handler http.HandlerFunc
}

// registerHandlers registers all the API handlers.
func (a *API) registerHandlers() {
	for _, r := range []route{
		{http.MethodGet, PingEndpoint, func(w http.ResponseWriter, r *http.Request) { httpWriteOK(w) }},
		{http.MethodGet, InfoEndpoint, a.info},
		{http.MethodGet, EventsEndpoint, a.events},
		{http.MethodGet, NonceEndpoint, a.nonce},

		{http.MethodGet, GovernanceEndpoint, a.governance},
		{http.MethodPost, GovernanceEndpoint, a.setGovernance},
		{http.MethodGet, CircuitsEndpoint, a.circuitCounters},
		{http.MethodPost, CircuitsEndpoint, a.addCircuit},
		{http.MethodGet, CircuitEndpoint, a.circuit},
		{http.MethodPut, CircuitKeyEndpoint, a.updateCircuitKey},
		{http.MethodPost, CircuitDeactivateEndpoint, a.deactivateCircuit},
		{http.MethodPost, Groth16ProofEndpoint, a.verifyGroth16},
		{http.MethodPost, SnarkProofEndpoint, a.verifySnark},
		{http.MethodGet, NullifierRootEndpoint, a.nullifierRoot},
		{http.MethodGet, NullifierEndpoint, a.nullifier},
		{http.MethodGet, ReceiptEndpoint, a.receipt},

		{http.MethodGet, RequestsEndpoint, a.requestCounters},
		{http.MethodPost, RequestsEndpoint, a.submitRequest},
		{http.MethodGet, RequestEndpoint, a.request},
		{http.MethodPut, RequestStatusEndpoint, a.updateRequestStatus},
		{http.MethodPost, RequestPurgeEndpoint, a.purgeRequest},
		{http.MethodGet, CommitmentEndpoint, a.requestByCommitment},
		{http.MethodDelete, CommitmentEndpoint, a.withdrawRequest},
		{http.MethodGet, RequestNullifierEndpoint, a.requestNullifier},
		{http.MethodGet, AdminEndpoint, a.admin},
		{http.MethodPost, AdminEndpoint, a.transferAdmin},
		{http.MethodGet, ProofVerifierEndpoint, a.proofVerifier},
		{http.MethodPost, ProofVerifierEndpoint, a.setProofVerifier},
		{http.MethodGet, IdentityManagerEndpoint, a.identityManager},
		{http.MethodPost, IdentityManagerEndpoint, a.setIdentityManager},
	} {
		log.Debugw("register handler", "endpoint", r.pattern, "method", r.method)
		a.router.Method(r.method, r.pattern, r.handler)
	}
	a.router.Method(http.MethodGet, MetricsEndpoint, promhttp.Handler())
}

// initRouter creates the router with all the routes and middleware.
func (a *API) initRouter() {
	// Create the router with a basic middleware stack
	a.router = chi.NewRouter()
	a.router.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", SignatureHeader, NonceHeader},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}).Handler)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Throttle(100))
	a.router.Use(middleware.ThrottleBacklog(5000, 40000, 60*time.Second))
	a.router.Use(middleware.Timeout(45 * time.Second))
	a.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		ErrResourceNotFound.With(r.URL.Path).Write(w)
	})

	// Register the API handlers
	a.registerHandlers()
}
