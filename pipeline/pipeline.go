// Package pipeline runs the polar splitter over GeoJSON feature collections.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	conv "github.com/CI-CMG/polar-processor/geojson"
	"github.com/CI-CMG/polar-processor/polar"
	geojson "github.com/paulmach/go.geojson"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var errBadGeometry = errors.New("Bad geometry")

type Stats struct {
	Features  int
	Split     int
	Unchanged int

	// Null features and features without a polygonal geometry, passed
	// through as they are.
	Skipped int
}

// ProgressFunc is called once for every processed feature. It may be called
// from several goroutines at once.
type ProgressFunc func()

type Pipeline struct {
	config   *Config
	logger   *zap.Logger
	progress ProgressFunc
}

func New(config *Config, logger *zap.Logger) *Pipeline {
	if config == nil {
		config = NewConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		config: config,
		logger: logger,
	}
}

func (p *Pipeline) Progress(fn ProgressFunc) *Pipeline {
	p.progress = fn
	return p
}

type job struct {
	index   int
	feature *geojson.Feature
}

type outcome int

const (
	skipped outcome = iota
	unchanged
	split
)

// Run splits every Polygon and MultiPolygon feature of fc. The returned
// collection keeps the input order. The input is not modified, though
// unchanged features are shared with the output.
func (p *Pipeline) Run(ctx context.Context, fc *geojson.FeatureCollection) (*geojson.FeatureCollection, Stats, error) {
	workers := p.config.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}

	results := make([]*geojson.Feature, len(fc.Features))
	outcomes := make([]outcome, len(fc.Features))

	g, ctx := errgroup.WithContext(ctx)

	jobs := make(chan job, 100)
	g.Go(func() error {
		defer close(jobs)
		for i, f := range fc.Features {
			select {
			case jobs <- job{index: i, feature: f}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for j := range jobs {
				if err := ctx.Err(); err != nil {
					return err
				}

				out, o, err := p.process(j.feature)
				if err != nil {
					p.logger.Warn("Failed to split feature",
						zap.Int("index", j.index),
						zap.Any("id", j.feature.ID),
						zap.Error(err))
					return fmt.Errorf("Feature %d: %w", j.index, err)
				}

				results[j.index] = out
				outcomes[j.index] = o
				if p.progress != nil {
					p.progress()
				}
			}
			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		return nil, Stats{}, err
	}

	stats := Stats{Features: len(fc.Features)}
	out := geojson.NewFeatureCollection()
	out.BoundingBox = fc.BoundingBox
	out.CRS = fc.CRS
	for i, f := range results {
		switch outcomes[i] {
		case split:
			stats.Split++
		case unchanged:
			stats.Unchanged++
			if p.config.DropUnchanged {
				continue
			}
		case skipped:
			stats.Skipped++
		}
		out.AddFeature(f)
	}

	p.logger.Info("Processed features",
		zap.Int("features", stats.Features),
		zap.Int("split", stats.Split),
		zap.Int("unchanged", stats.Unchanged),
		zap.Int("skipped", stats.Skipped),
		zap.Int("workers", workers))

	return out, stats, nil
}

func (p *Pipeline) process(f *geojson.Feature) (*geojson.Feature, outcome, error) {
	if f == nil || f.Geometry == nil || !(f.Geometry.IsPolygon() || f.Geometry.IsMultiPolygon()) {
		return f, skipped, nil
	}

	g, err := conv.ToGeom(f.Geometry)
	if err != nil {
		return nil, skipped, fmt.Errorf("%w: %v", errBadGeometry, err)
	}

	var result geom.T
	var ok bool
	switch v := g.(type) {
	case *geom.Polygon:
		result, ok, err = polar.Split(v)
	case *geom.MultiPolygon:
		result, ok, err = polar.SplitMultiPolygon(v)
	}
	if err != nil {
		return nil, skipped, err
	}
	if !ok {
		return f, unchanged, nil
	}

	geometry, err := conv.FromGeom(result)
	if err != nil {
		return nil, skipped, err
	}

	out := geojson.NewFeature(geometry)
	out.ID = f.ID
	out.CRS = f.CRS
	for k, v := range f.Properties {
		out.SetProperty(k, v)
	}
	out.SetProperty(p.config.MarkProperty, true)
	return out, split, nil
}
