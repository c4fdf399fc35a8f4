package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cheekybits/is"
	"github.com/twpayne/go-geom"
)

func TestClassify(t *testing.T) {
	is := is.New(t)

	ring := geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{{{180, 70}, {90, 70}, {0, 70}, {-90, 70}, {180, 70}}})
	square := geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{{{10, -10}, {20, -10}, {20, -20}, {10, -20}, {10, -10}}})

	var out bytes.Buffer
	is.NoErr(CmdClassify{}.classify(&out, "0.0", ring))
	is.NoErr(CmdClassify{}.classify(&out, "1.0", square))
	is.Equal(out.String(), "0.0\tarctic\ttrue\n1.0\tantarctic\tfalse\n")

	out.Reset()
	is.NoErr(CmdClassify{Dump: true}.classify(&out, "0.0", ring))
	lines := strings.SplitN(out.String(), "\n", 2)
	is.Equal(lines[0], "0.0\tarctic\ttrue")
	is.True(strings.Contains(lines[1], "160"))
}

func TestReadCollection(t *testing.T) {
	is := is.New(t)

	path := filepath.Join(t.TempDir(), "in.geojson")
	is.NoErr(os.WriteFile(path, []byte(`{"type":"FeatureCollection","features":[{"type":"Feature","properties":{},"geometry":{"type":"Point","coordinates":[1,2]}}]}`), 0644))

	fc, err := readCollection(path)
	is.NoErr(err)
	is.Equal(len(fc.Features), 1)

	_, err = readCollection(filepath.Join(t.TempDir(), "missing.geojson"))
	is.Err(err)
}

func TestLoadConfig(t *testing.T) {
	is := is.New(t)

	g := &GlobalOptions{}
	config, err := g.LoadConfig()
	is.NoErr(err)
	is.Equal(config.MarkProperty, "polar_split")

	path := filepath.Join(t.TempDir(), "config.yaml")
	is.NoErr(os.WriteFile(path, []byte("workers: 2\nlisten: \":9999\"\n"), 0644))

	g.Config = path
	config, err = g.LoadConfig()
	is.NoErr(err)
	is.Equal(config.Workers, 2)
	is.Equal(config.Listen, ":9999")

	logger, err := g.NewLogger(config)
	is.NoErr(err)
	is.NotNil(logger)
}

func TestClassifyNullFeature(t *testing.T) {
	is := is.New(t)

	path := filepath.Join(t.TempDir(), "in.geojson")
	is.NoErr(os.WriteFile(path, []byte(`{"type":"FeatureCollection","features":[null,{"type":"Feature","properties":{},"geometry":{"type":"Polygon","coordinates":[[[10,10],[20,10],[20,20],[10,10]]]}}]}`), 0644))

	is.NoErr(CmdClassify{global: &GlobalOptions{}}.Execute([]string{path}))
}
