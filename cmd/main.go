package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/CI-CMG/polar-processor/pipeline"
	"github.com/jessevdk/go-flags"
	geojson "github.com/paulmach/go.geojson"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type GlobalOptions struct {
	Config  string `short:"c" long:"config" description:"Config file path"`
	Verbose bool   `short:"v" long:"verbose" description:"Human readable debug logging"`
}

var globalOpts = GlobalOptions{}
var parser = flags.NewParser(&globalOpts, flags.HelpFlag|flags.PassDoubleDash)

func Run() error {
	_, err := parser.Parse()
	if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
		parser.WriteHelp(os.Stdout)
		return nil
	}
	return err
}

func (g *GlobalOptions) LoadConfig() (*pipeline.Config, error) {
	if g.Config == "" {
		return pipeline.NewConfig(), nil
	}

	config, err := pipeline.ReadConfig(g.Config)
	if err != nil {
		return nil, fmt.Errorf("Failed to read config: %s", err.Error())
	}
	return config, nil
}

// NewLogger builds a JSON logger on stderr, or a console logger at debug
// level when verbose.
func (g *GlobalOptions) NewLogger(config *pipeline.Config) (*zap.Logger, error) {
	var cfg zap.Config
	if g.Verbose {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()

		level, err := config.Level()
		if err != nil {
			return nil, err
		}
		cfg.Level = zap.NewAtomicLevelAt(level)
	}

	return cfg.Build(zap.AddStacktrace(zapcore.ErrorLevel))
}

func (g *GlobalOptions) setup() (*pipeline.Config, *zap.Logger, error) {
	config, err := g.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	logger, err := g.NewLogger(config)
	if err != nil {
		return nil, nil, err
	}
	return config, logger, nil
}

func readCollection(filename string) (*geojson.FeatureCollection, error) {
	var in io.Reader = os.Stdin
	if filename != "" && filename != "-" {
		f, err := os.Open(filename)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		in = f
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return nil, err
	}
	return geojson.UnmarshalFeatureCollection(data)
}
