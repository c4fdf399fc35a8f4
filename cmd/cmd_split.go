package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/CI-CMG/polar-processor/pipeline"
	"github.com/cheggaaa/pb"
)

type CmdSplit struct {
	global *GlobalOptions

	Progress bool `short:"p" long:"progress" description:"Show a progress bar on stderr"`
}

func init() {
	_, err := parser.AddCommand("split",
		"Split polar polygons",
		"Split every polygon of a GeoJSON feature collection that wraps around a pole\n\nReads from stdin and writes to stdout when no files are given.",
		&CmdSplit{global: &globalOpts})
	if err != nil {
		panic(err)
	}
}

func (cmd CmdSplit) Usage() string {
	return "[input] [output]"
}

func (cmd CmdSplit) Execute(args []string) error {
	if len(args) > 2 {
		return fmt.Errorf("Too many arguments, Usage: %s", cmd.Usage())
	}

	input, output := "-", "-"
	if len(args) > 0 {
		input = args[0]
	}
	if len(args) > 1 {
		output = args[1]
	}

	config, logger, err := cmd.global.setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	fc, err := readCollection(input)
	if err != nil {
		return fmt.Errorf("Failed to read %s: %s", input, err.Error())
	}

	p := pipeline.New(config, logger)
	if cmd.Progress {
		bar := pb.New(len(fc.Features))
		bar.Output = os.Stderr
		bar.Start()
		defer bar.Finish()

		p.Progress(func() {
			bar.Increment()
		})
	}

	result, _, err := p.Run(context.Background(), fc)
	if err != nil {
		return err
	}

	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if output != "-" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	_, err = out.Write(data)
	return err
}
