package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	nlogger "github.com/neutron-org/neutron-logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/blockvault/storage-proof-relayer/internal/metrics"
	"github.com/blockvault/storage-proof-relayer/internal/proof"
	"github.com/blockvault/storage-proof-relayer/internal/relay"
)

const (
	ServerContext     = "http"
	StatusResource    = "/"
	ProofResource     = "/proof"
	PrometheusMetrics = "/metrics"

	// StatusText is the body of GET /. It does not depend on the upstream node.
	StatusText = "storage proof relayer running"

	maxRequestBodySize = 64 << 10
)

// ProofRelayer is implemented by *relay.Relayer.
type ProofRelayer interface {
	RelayProof(ctx context.Context, req relay.ProofRequest) relay.ProofResponse
}

// Listen binds listenAddr. Binding happens before anything else at startup so
// that a busy address fails the process before any upstream traffic.
func Listen(listenAddr string) (net.Listener, error) {
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to bind %s: %w", listenAddr, err)
	}
	return listener, nil
}

// Run serves the relayer api on listener until ctx is done.
func Run(ctx context.Context, logRegistry *nlogger.Registry, relayer ProofRelayer, listener net.Listener, shutdownTimeout time.Duration) error {
	logger := logRegistry.Get(ServerContext)
	return Serve(ctx, logger, listener, Router(logger, relayer), shutdownTimeout)
}

// Serve serves handler on listener until ctx is done, then shuts the server
// down gracefully, waiting at most shutdownTimeout for in-flight requests.
func Serve(ctx context.Context, logger *zap.Logger, listener net.Listener, handler http.Handler, shutdownTimeout time.Duration) error {
	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errch := make(chan error, 1)

	go func() {
		if err := server.Serve(listener); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Error("failed to serve http", zap.Error(err))
				errch <- err
			}
		}
	}()
	logger.Info("api http listening", zap.String("addr", listener.Addr().String()))

	select {
	case err := <-errch:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down the api http")
	webserverCtx, cancelWebserverCtx := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelWebserverCtx()
	if err := server.Shutdown(webserverCtx); err != nil {
		logger.Error("failed to shutdown api http gracefully", zap.Error(err))
		return nil
	}

	logger.Info("api http shut down successfully")
	return nil
}

func Router(logger *zap.Logger, relayer ProofRelayer) *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc(StatusResource, status(logger)).Methods(http.MethodGet)
	router.HandleFunc(ProofResource, proofHandler(logger, relayer)).Methods(http.MethodPost)
	router.Handle(PrometheusMetrics, promhttp.Handler()).Methods(http.MethodGet)
	return router
}

func status(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if _, err := io.WriteString(w, StatusText); err != nil {
			logger.Debug("failed to write status response", zap.Error(err))
		}
	}
}

func proofHandler(logger *zap.Logger, relayer ProofRelayer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		var req relay.ProofRequest
		decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodySize))
		decoder.DisallowUnknownFields()
		err := decoder.Decode(&req)
		if err == nil {
			err = expectEOF(decoder)
		}
		if err != nil {
			logger.Debug("failed to decode proof request", zap.Error(err))
			res := relay.ProofResponse{
				MerkleProof: []string{},
				Error: &relay.ErrorInfo{
					Kind:    string(proof.MalformedInput),
					Message: fmt.Sprintf("invalid request body: %s", err),
				},
			}
			writeJSON(logger, w, http.StatusBadRequest, res)
			metrics.AddFailedRequest(ProofResource, time.Since(start).Seconds())
			return
		}

		res := relayer.RelayProof(r.Context(), req)
		code := statusCode(res)
		writeJSON(logger, w, code, res)

		if res.Success {
			metrics.AddSuccessRequest(ProofResource, time.Since(start).Seconds())
		} else {
			metrics.AddFailedRequest(ProofResource, time.Since(start).Seconds())
		}
	}
}

// expectEOF fails if anything but whitespace follows the request object.
func expectEOF(decoder *json.Decoder) error {
	var extra json.RawMessage
	if err := decoder.Decode(&extra); err != io.EOF {
		if err == nil {
			return errors.New("unexpected data after the request object")
		}
		return err
	}
	return nil
}

// statusCode maps a response onto an http status; the body always carries the details.
func statusCode(res relay.ProofResponse) int {
	if res.Success {
		return http.StatusOK
	}
	if res.Error == nil {
		return http.StatusInternalServerError
	}

	switch proof.Kind(res.Error.Kind) {
	case proof.MalformedInput:
		return http.StatusBadRequest
	case proof.ContractNotAllowed:
		return http.StatusForbidden
	case proof.UpstreamError:
		return http.StatusBadGateway
	case proof.EndpointUnreachable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(logger *zap.Logger, w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}
