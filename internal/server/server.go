// Package server exposes the HTTP trigger surface: events come in,
// qualifying ones spawn runs, and run status plus the outcome ledger
// are readable back out.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"matrixci/internal/core"
	"matrixci/pkg/utils"
)

// Server routes incoming events through the trigger evaluator and
// keeps an in-memory registry of runs.
type Server struct {
	mu    sync.Mutex
	runs  map[string]*core.Run
	order []string // run IDs in arrival order

	workflow *core.Workflow
	eval     *core.Evaluator
	runner   *core.Runner
	snapshot core.Snapshot
	logger   *zap.Logger
}

// New builds a server around a workflow, a runner, and the snapshot
// runs execute against.
func New(wf *core.Workflow, runner *core.Runner, snap core.Snapshot, logger *zap.Logger) (*Server, error) {
	eval, err := core.NewEvaluator(wf.On)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		runs:     make(map[string]*core.Run),
		workflow: wf,
		eval:     eval,
		runner:   runner,
		snapshot: snap,
		logger:   logger,
	}, nil
}

// Router builds the chi router for the server.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Post("/events", s.handleEvent)
	r.Get("/runs", s.handleListRuns)
	r.Get("/runs/{id}", s.handleGetRun)
	r.Get("/ledger/verify", s.handleVerifyLedger)
	return r
}

// eventRequest is the JSON body of POST /events.
type eventRequest struct {
	Kind       string    `json:"kind"`
	Branch     string    `json:"branch,omitempty"`
	Revision   string    `json:"revision,omitempty"`
	OccurredAt time.Time `json:"occurredAt,omitempty"`
}

// POST /events -> evaluate the trigger; qualifying events spawn one
// run, anything else is acknowledged and ignored.
func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "cannot decode event", http.StatusBadRequest)
		return
	}

	ev := core.Event{
		Kind:       core.EventKind(req.Kind),
		Branch:     req.Branch,
		Revision:   req.Revision,
		OccurredAt: req.OccurredAt,
	}

	if !s.eval.Accepts(ev) {
		receipt := utils.HashString(req.Kind + "|" + req.Branch + "|" + req.Revision)[:16]
		s.logger.Info("event ignored",
			zap.String("kind", req.Kind),
			zap.String("receipt", receipt))
		writeJSON(w, http.StatusAccepted, map[string]string{
			"status":  "ignored",
			"receipt": receipt,
		})
		return
	}

	run := core.NewRun(s.workflow, ev)
	s.mu.Lock()
	s.runs[run.ID] = run
	s.order = append(s.order, run.ID)
	s.mu.Unlock()

	snap := s.snapshot
	snap.Revision = ev.Revision
	go func() {
		if err := s.runner.Execute(context.Background(), run, snap); err != nil {
			s.logger.Error("run execution failed",
				zap.String("run_id", run.ID),
				zap.Error(err))
		}
	}()

	writeJSON(w, http.StatusCreated, map[string]string{
		"id":     run.ID,
		"status": "pending",
	})
}

// GET /runs -> id + verdict for every known run, in arrival order.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	type runSummary struct {
		ID       string `json:"id"`
		Kind     string `json:"kind"`
		Revision string `json:"revision"`
		Verdict  string `json:"verdict"`
	}
	out := make([]runSummary, 0, len(s.order))
	for _, id := range s.order {
		run := s.runs[id]
		out = append(out, runSummary{
			ID:       run.ID,
			Kind:     string(run.Event.Kind),
			Revision: run.Revision,
			Verdict:  run.Verdict().String(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// GET /runs/{id} -> full report: verdict, instances, failure surface.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	run, ok := s.runs[id]
	s.mu.Unlock()
	if !ok {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, run.Report())
}

// GET /ledger/verify -> recheck the outcome chain.
func (s *Server) handleVerifyLedger(w http.ResponseWriter, r *http.Request) {
	if s.runner.Ledger == nil {
		http.Error(w, "ledger disabled", http.StatusNotFound)
		return
	}
	if err := s.runner.Ledger.VerifyChain(); err != nil {
		http.Error(w, "ledger verification failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
