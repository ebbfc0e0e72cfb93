// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/gardener/ragctl/pkg/gcp/vertexrag"
	"github.com/gardener/ragctl/pkg/metrics"
	"github.com/gardener/ragctl/pkg/utils/ptr"
)

// Defaults for the HTTP retrieval service
const (
	defaultServeAddress = ":8080"
	defaultMetricsPath  = "/metrics"
)

// retrieveRequest is the payload of retrieval API requests.
type retrieveRequest struct {
	Query  string `json:"query"`
	Corpus string `json:"corpus,omitempty"`
	TopK   int32  `json:"top_k,omitempty"`
}

// retrievedContext represents a single retrieved context in the retrieval API
// response.
type retrievedContext struct {
	SourceURI         string  `json:"source_uri,omitempty"`
	SourceDisplayName string  `json:"source_display_name,omitempty"`
	Text              string  `json:"text"`
	Score             float64 `json:"score,omitempty"`
}

// retrieveResponse is the payload of retrieval API responses.
type retrieveResponse struct {
	RequestID string             `json:"request_id"`
	Contexts  []retrievedContext `json:"contexts"`
}

// NewServeCommand returns a new command for starting the HTTP retrieval
// service.
func NewServeCommand() *cli.Command {
	cmd := &cli.Command{
		Name:  "serve",
		Usage: "start the http retrieval service",
		Action: func(ctx *cli.Context) error {
			conf := getConfig(ctx)

			service, err := newRAGService(ctx)
			if err != nil {
				return err
			}
			defer service.Close() // nolint: errcheck

			address := conf.Serve.Address
			if address == "" {
				address = defaultServeAddress
			}
			metricsPath := conf.Serve.MetricsPath
			if metricsPath == "" {
				metricsPath = defaultMetricsPath
			}

			mux := http.NewServeMux()
			mux.Handle("POST /api/v1/retrieve", newRetrieveHandler(service))

			servers := make([]*http.Server, 0)
			if conf.Serve.MetricsAddress != "" {
				servers = append(servers, metrics.NewServer(conf.Serve.MetricsAddress, metricsPath))
			} else {
				mux.Handle(metricsPath, metrics.Handler())
			}

			srv := &http.Server{
				Addr:              address,
				ReadHeaderTimeout: time.Second * 30,
				Handler:           mux,
			}
			servers = append(servers, srv)

			runCtx, stop := signal.NotifyContext(ctx.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, len(servers))
			for _, server := range servers {
				go func() {
					slog.Info("starting server", "address", server.Addr)
					if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
						errCh <- err
					}
				}()
			}

			select {
			case <-runCtx.Done():
			case err := <-errCh:
				return err
			}

			slog.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
			defer cancel()

			for _, server := range servers {
				if err := server.Shutdown(shutdownCtx); err != nil {
					return err
				}
			}

			return nil
		},
	}

	return cmd
}

// newRetrieveHandler returns the handler of the retrieval API endpoint.
func newRetrieveHandler(service *vertexrag.Service) http.Handler {
	handler := func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()

		var req retrieveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)

			return
		}
		if req.Query == "" {
			http.Error(w, "no query specified", http.StatusBadRequest)

			return
		}
		if req.TopK <= 0 {
			req.TopK = 10
		}

		contexts, err := service.RetrieveContexts(r.Context(), req.Query, req.Corpus, req.TopK)
		if err != nil {
			slog.Error("cannot retrieve contexts", "request_id", requestID, "reason", err)
			http.Error(w, err.Error(), http.StatusBadGateway)

			return
		}

		resp := retrieveResponse{
			RequestID: requestID,
			Contexts:  make([]retrievedContext, 0, len(contexts)),
		}
		for _, item := range contexts {
			resp.Contexts = append(resp.Contexts, retrievedContext{
				SourceURI:         item.SourceUri,
				SourceDisplayName: item.SourceDisplayName,
				Text:              item.Text,
				Score:             ptr.Value(item.Score, 0),
			})
		}

		slog.Info(
			"retrieved contexts",
			"request_id", requestID,
			"contexts", len(resp.Contexts),
		)

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Request-Id", requestID)
		if err := json.NewEncoder(w).Encode(&resp); err != nil {
			slog.Error("cannot encode response", "request_id", requestID, "reason", err)
		}
	}

	return http.HandlerFunc(handler)
}
