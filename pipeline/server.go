package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/CI-CMG/polar-processor/polar"
	servertiming "github.com/mitchellh/go-server-timing"
	geojson "github.com/paulmach/go.geojson"
	"go.uber.org/zap"
)

const maxBodySize = 64 << 20

// Server exposes a pipeline over HTTP.
type Server struct {
	ctx  context.Context
	cf   context.CancelFunc
	done sync.WaitGroup

	pipeline *Pipeline
	logger   *zap.Logger
	maxBody  int64
}

func NewServer(p *Pipeline, logger *zap.Logger) *Server {
	ctx, cf := context.WithCancel(context.Background())
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		ctx:      ctx,
		cf:       cf,
		pipeline: p,
		logger:   logger,
		maxBody:  maxBodySize,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/split", s.handleSplit)
	mux.HandleFunc("/healthz", s.handleHealth)
	return servertiming.Middleware(mux, nil)
}

// Start serves on listen until Stop is called.
func (s *Server) Start(listen string) error {
	s.done.Add(1)
	defer s.done.Done()

	srv := &http.Server{
		Addr:           listen,
		Handler:        s.Handler(),
		ReadTimeout:    60 * time.Second,
		WriteTimeout:   60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		<-s.ctx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}()

	s.logger.Info("Listening", zap.String("addr", listen))
	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		err = nil
	}
	return err
}

func (s *Server) Stop() {
	s.cf()
	s.done.Wait()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	io.WriteString(w, "ok")
}

func (s *Server) handleSplit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	timing := servertiming.FromContext(r.Context())

	m := timing.NewMetric("decode").WithDesc("Decode features").Start()
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		http.Error(w, err.Error(), status)
		return
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		http.Error(w, "Bad feature collection: "+err.Error(), http.StatusBadRequest)
		return
	}
	m.Stop()

	m = timing.NewMetric("split").WithDesc("Split polygons").Start()
	out, stats, err := s.pipeline.Run(r.Context(), fc)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, polar.ErrUnsupportedGeometry) || errors.Is(err, errBadGeometry) {
			status = http.StatusUnprocessableEntity
		}
		http.Error(w, err.Error(), status)
		return
	}
	m.Stop()

	m = timing.NewMetric("encode").WithDesc("Encode features").Start()
	body, err := json.Marshal(out)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	m.Stop()

	h := w.Header()
	h.Set("Content-Type", "application/geo+json")
	h.Set("X-Features-Split", strconv.Itoa(stats.Split))
	h.Set("X-Features-Unchanged", strconv.Itoa(stats.Unchanged))
	h.Set("X-Features-Skipped", strconv.Itoa(stats.Skipped))
	w.Write(body)
}
