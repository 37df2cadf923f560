package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/skovsen/monipoll"
)

// Server exposes a simulation's snapshots and controls over HTTP and pushes
// every published snapshot to websocket displays.
type Server struct {
	sim      *monipoll.Simulation
	hub      *Hub
	port     int
	log      log.FieldLogger
	upgrader websocket.Upgrader
}

// New creates a server for the simulation. A nil logger uses the logrus
// standard logger.
func New(sim *monipoll.Simulation, port int, logger log.FieldLogger) *Server {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Server{
		sim:  sim,
		hub:  NewHub(logger),
		port: port,
		log:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Hub returns the subscriber hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/snapshot", s.handleSnapshot)
	mux.HandleFunc("GET /api/snapshot.geojson", s.handleGeoJSON)
	mux.HandleFunc("POST /api/start", s.handleStart)
	mux.HandleFunc("POST /api/stop", s.handleStop)
	mux.HandleFunc("POST /api/toggle", s.handleToggle)
	mux.HandleFunc("POST /api/reset", s.handleReset)
	mux.HandleFunc("POST /api/zones", s.handleAddZone)
	mux.HandleFunc("PUT /api/population", s.handlePopulation)
	mux.HandleFunc("PUT /api/duration", s.handleDuration)
	mux.HandleFunc("PUT /api/time", s.handleTime)
	mux.HandleFunc("GET /ws", s.handleWS)
	return mux
}

// Start runs the simulation loop and the HTTP server until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: s.Handler(),
	}

	go s.sim.Run(ctx, s.hub.Broadcast)
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdown)
	}()

	s.log.WithField("addr", "http://localhost"+srv.Addr).Info("MoniPoll server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// controlResponse is returned by every control endpoint. Warning carries a
// coerced input; the request still succeeded.
type controlResponse struct {
	Warning  string            `json:"warning,omitempty"`
	Snapshot monipoll.Snapshot `json:"snapshot"`
}

func (s *Server) respond(w http.ResponseWriter, warn error) {
	resp := controlResponse{Snapshot: s.sim.Snapshot()}
	if warn != nil {
		resp.Warning = warn.Error()
	}
	writeJSON(w, http.StatusOK, resp)
	s.hub.Broadcast(resp.Snapshot)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.sim.Snapshot())
}

func (s *Server) handleGeoJSON(w http.ResponseWriter, _ *http.Request) {
	data, err := s.sim.Snapshot().FeatureCollection().MarshalJSON()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.Write(data)
}

func (s *Server) handleStart(w http.ResponseWriter, _ *http.Request) {
	s.sim.Start()
	s.respond(w, nil)
}

func (s *Server) handleStop(w http.ResponseWriter, _ *http.Request) {
	s.sim.Stop()
	s.respond(w, nil)
}

func (s *Server) handleToggle(w http.ResponseWriter, _ *http.Request) {
	s.sim.Toggle()
	s.respond(w, nil)
}

func (s *Server) handleReset(w http.ResponseWriter, _ *http.Request) {
	s.sim.Reset()
	s.respond(w, nil)
}

func (s *Server) handleAddZone(w http.ResponseWriter, r *http.Request) {
	var req monipoll.ZoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid zone: %v", err), http.StatusBadRequest)
		return
	}
	if _, err := s.sim.AddZone(req); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	s.respond(w, nil)
}

// handlePopulation takes the raw value typed by the operator. Anything that
// is not a count becomes 0 and is reported back as a warning.
func (s *Server) handlePopulation(w http.ResponseWriter, r *http.Request) {
	raw, err := readValue(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	n, warn := monipoll.ParseAgentCount(raw)
	if warn != nil {
		s.log.WithError(warn).Warn("Target population coerced")
	}
	if err := s.sim.SetTargetPopulation(n); err != nil && warn == nil {
		warn = err
	}
	s.respond(w, warn)
}

func (s *Server) handleDuration(w http.ResponseWriter, r *http.Request) {
	raw, err := readValue(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var warn error
	days, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		warn = fmt.Errorf("%w: %q is not a number of days", monipoll.ErrInvalidDuration, raw)
		days = 0
	}
	if err := s.sim.SetSimulationDurationDays(days); err != nil && warn == nil {
		warn = err
	}
	s.respond(w, warn)
}

func (s *Server) handleTime(w http.ResponseWriter, r *http.Request) {
	raw, err := readValue(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid time: %v", err), http.StatusBadRequest)
		return
	}
	s.sim.SetSimulatedTime(t)
	s.respond(w, nil)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("Websocket upgrade failed")
		return
	}
	sub := s.hub.subscribe(conn)

	data, err := json.Marshal(s.sim.Snapshot())
	if err == nil {
		err = sub.write(data)
	}
	if err != nil {
		s.hub.unsubscribe(sub)
		return
	}

	// displays only listen; reading detects the close
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			s.hub.unsubscribe(sub)
			return
		}
	}
}

// readValue accepts either {"value": ...} or a bare body.
func readValue(r *http.Request) (string, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	if err != nil {
		return "", fmt.Errorf("reading body: %w", err)
	}
	var wrapped struct {
		Value json.RawMessage `json:"value"`
	}
	if json.Unmarshal(body, &wrapped) == nil && wrapped.Value != nil {
		var str string
		if json.Unmarshal(wrapped.Value, &str) == nil {
			return str, nil
		}
		return string(wrapped.Value), nil
	}
	return strings.TrimSpace(string(body)), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
