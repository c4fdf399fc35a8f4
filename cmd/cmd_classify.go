package cmd

import (
	"fmt"
	"io"
	"os"

	conv "github.com/CI-CMG/polar-processor/geojson"
	"github.com/CI-CMG/polar-processor/polar"
	"github.com/kr/pretty"
	"github.com/twpayne/go-geom"
)

type CmdClassify struct {
	global *GlobalOptions

	Dump bool `short:"d" long:"dump" description:"Print the projected polygon of features that need a split"`
}

func init() {
	_, err := parser.AddCommand("classify",
		"Classify polygons",
		"Print the nearest pole of every polygon and whether it needs a split",
		&CmdClassify{global: &globalOpts})
	if err != nil {
		panic(err)
	}
}

func (cmd CmdClassify) Usage() string {
	return "[input]"
}

func (cmd CmdClassify) Execute(args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("Too many arguments, Usage: %s", cmd.Usage())
	}

	input := "-"
	if len(args) > 0 {
		input = args[0]
	}

	fc, err := readCollection(input)
	if err != nil {
		return fmt.Errorf("Failed to read %s: %s", input, err.Error())
	}

	for i, f := range fc.Features {
		if f == nil || f.Geometry == nil || !(f.Geometry.IsPolygon() || f.Geometry.IsMultiPolygon()) {
			continue
		}

		g, err := conv.ToGeom(f.Geometry)
		if err != nil {
			return fmt.Errorf("Feature %d: %s", i, err.Error())
		}

		var polygons []*geom.Polygon
		switch v := g.(type) {
		case *geom.Polygon:
			polygons = append(polygons, v)
		case *geom.MultiPolygon:
			for n := 0; n < v.NumPolygons(); n++ {
				polygons = append(polygons, v.Polygon(n))
			}
		}

		for n, p := range polygons {
			err := cmd.classify(os.Stdout, fmt.Sprintf("%d.%d", i, n), p)
			if err != nil {
				return fmt.Errorf("Feature %d: %s", i, err.Error())
			}
		}
	}
	return nil
}

func (cmd CmdClassify) classify(out io.Writer, label string, p *geom.Polygon) error {
	pole := "antarctic"
	if polar.IsArctic(p) {
		pole = "arctic"
	}

	projected, split, err := polar.NeedsSplit(p)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s\t%s\t%v\n", label, pole, split)
	if cmd.Dump && split {
		fmt.Fprintf(out, "%# v\n", pretty.Formatter(projected.Coords()))
	}
	return nil
}
