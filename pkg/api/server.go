package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/uhyunpark/swaproute/pkg/core"
	"github.com/uhyunpark/swaproute/pkg/queue"
	"github.com/uhyunpark/swaproute/pkg/registry"
)

// Server accepts swap submissions over REST and upgrades subscribers to
// WebSocket. Validation happens here, before anything touches the queue; the
// orchestrator never sees a malformed order.
type Server struct {
	router   *mux.Router
	queue    queue.Queue
	registry *registry.Registry
	sources  []string
	log      *zap.SugaredLogger
}

func NewServer(q queue.Queue, reg *registry.Registry, sources []string, log *zap.SugaredLogger) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		queue:    q,
		registry: reg,
		sources:  sources,
		log:      log,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/swaps", s.handleSubmitSwap).Methods("POST")
	api.HandleFunc("/sources", s.handleGetSources).Methods("GET")

	// WebSocket endpoint; one subscription per connection, keyed by orderId.
	s.router.HandleFunc("/ws", s.handleWebSocket)

	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// Handler returns the fully wrapped HTTP handler for mounting or testing.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:3001"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})
	return c.Handler(s.router)
}

// Start blocks serving HTTP on addr.
func (s *Server) Start(addr string) error {
	s.log.Infow("api_server_starting", "addr", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleSubmitSwap(w http.ResponseWriter, r *http.Request) {
	var req SubmitSwapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	ord := core.Order{
		ID:       uuid.NewString(),
		TokenIn:  req.TokenIn,
		TokenOut: req.TokenOut,
		Amount:   req.Amount,
		State:    core.Queued,
	}
	if err := ord.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid order", err.Error())
		return
	}

	if err := s.queue.Enqueue(r.Context(), ord); err != nil {
		s.log.Errorw("enqueue_failed", "order_id", ord.ID, "err", err)
		respondError(w, http.StatusServiceUnavailable, "queue unavailable", err.Error())
		return
	}

	s.log.Infow("swap_submitted",
		"order_id", ord.ID,
		"token_in", ord.TokenIn, "token_out", ord.TokenOut, "amount", ord.Amount)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(SubmitSwapResponse{
		OrderID: ord.ID,
		Status:  core.Queued.String(),
	})
}

func (s *Server) handleGetSources(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, SourcesResponse{Sources: s.sources})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{"status": "ok"})
}

func respondJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, error string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   error,
		Message: message,
	})
}
