// Package httpapi exposes the engine's assembled election results over
// HTTP, the JSON boundary adapter of spec.md §4.6.
package httpapi

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	json "github.com/nspcc-dev/go-ordered-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/rbochenek/liberland-vote-scope/pkg/apperr"
	"github.com/rbochenek/liberland-vote-scope/pkg/datasource"
	"github.com/rbochenek/liberland-vote-scope/pkg/identity"
	"github.com/rbochenek/liberland-vote-scope/pkg/phragmen"
	"github.com/rbochenek/liberland-vote-scope/pkg/result"
	"github.com/rbochenek/liberland-vote-scope/pkg/snapshot"
)

var requestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "voteelection",
		Name:      "requests_total",
		Help:      "Total number of council election HTTP requests by outcome.",
	},
	[]string{"outcome"})

var requestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "voteelection",
		Name:      "request_duration_seconds",
		Help:      "Latency of council election HTTP requests.",
	},
	[]string{"outcome"})

func init() {
	prometheus.MustRegister(requestsTotal, requestDuration)
}

// Server is the HTTP presenter: GET /council/elections/latest and
// GET /council/elections/{block_hash}.
type Server struct {
	Source   datasource.ElectionsDataSource
	Resolver identity.Resolver
	Log      *zap.Logger
}

// Handler returns the configured http.Handler, including the metrics
// endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/council/elections/latest", s.handleElections)
	mux.HandleFunc("/council/elections/", s.handleElections)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func (s *Server) handleElections(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	outcome := "ok"
	defer func() {
		requestsTotal.WithLabelValues(outcome).Inc()
		requestDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	}()

	blockHash, err := parseBlockHashFromPath(r.URL.Path)
	if err != nil {
		outcome = "bad_request"
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	snap, err := s.Source.Fetch(ctx, blockHash)
	if err != nil {
		outcome = "fetch_error"
		s.logf("fetch election snapshot", err)
		http.Error(w, "failed to fetch election snapshot", http.StatusBadRequest)
		return
	}

	res, err := runElection(ctx, snap, s.Resolver)
	if err != nil {
		outcome = "engine_error"
		s.logf("run election engine", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	if err := enc.Encode(res); err != nil {
		s.logf("encode election response", err)
	}
}

func (s *Server) logf(action string, err error) {
	if s.Log != nil {
		s.Log.Warn(action, zap.Error(err))
	}
}

// runElection is the HTTP presenter's engine pipeline: prepare inputs, run
// the kernel, assemble, resolve identities. The CLI's elections command
// runs the same steps in its own code.
func runElection(ctx context.Context, snap datasource.Snapshot, resolver identity.Resolver) (result.ElectionResults, error) {
	in := snapshot.Prepare(snap)
	run, err := phragmen.Run(in)
	if err != nil {
		return result.ElectionResults{}, err
	}
	res := result.Assemble(snap, in, run)
	if resolver != nil {
		result.ResolveIdentities(ctx, &res, resolver)
	}
	return res, nil
}

func parseBlockHashFromPath(path string) (*datasource.BlockHash, error) {
	const prefix = "/council/elections/"
	if !strings.HasPrefix(path, prefix) {
		return nil, nil
	}
	id := strings.TrimPrefix(path, prefix)
	if id == "" || id == "latest" {
		return nil, nil
	}
	raw, err := hex.DecodeString(strings.TrimPrefix(id, "0x"))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindPresentation, fmt.Sprintf("parse block hash %q", id), err)
	}
	if len(raw) != len(datasource.BlockHash{}) {
		return nil, apperr.New(apperr.KindPresentation, errInvalidBlockHashLength.Error())
	}
	var hash datasource.BlockHash
	copy(hash[:], raw)
	return &hash, nil
}

var errInvalidBlockHashLength = httpError("invalid block hash length")

type httpError string

func (e httpError) Error() string { return string(e) }
