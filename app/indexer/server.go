package indexer

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/suiwatch/suix/pkg/utils"
)

// statsResponse is the payload of GET /stats.
type statsResponse struct {
	Buffered       int    `json:"buffered"`
	LastProcessed  uint64 `json:"lastProcessed"`
	LastFlushed    uint64 `json:"lastFlushed"`
	TrackingFilter string `json:"trackingFilter,omitempty"`
}

// newServer builds the small operational HTTP surface: liveness and
// ingestion stats.
func (a *App) newServer() *http.Server {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if a.Redis != nil {
			if err := a.Redis.Health(req.Context()); err != nil {
				http.Error(w, "redis: "+err.Error(), http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	r.HandleFunc("/stats", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(statsResponse{
			Buffered:       a.Handler.Buffered(),
			LastProcessed:  a.Handler.LastProcessed(),
			LastFlushed:    a.Flusher.LastFlushed(),
			TrackingFilter: a.FilterDesc,
		})
	}).Methods(http.MethodGet)

	return &http.Server{
		Addr:              ":" + utils.Env("HTTP_PORT", "8080"),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
