package cmd

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/CI-CMG/polar-processor/pipeline"
)

type CmdServer struct {
	global *GlobalOptions

	Listen string `short:"l" long:"listen" description:"Listen on this address, overrides the config"`
}

func init() {
	_, err := parser.AddCommand("server",
		"Run split server",
		"Run split server\n\nPOST a feature collection to /split to have its polar polygons split",
		&CmdServer{global: &globalOpts})
	if err != nil {
		panic(err)
	}
}

func (cmd CmdServer) Usage() string {
	return ""
}

func (cmd CmdServer) Execute(args []string) error {
	config, logger, err := cmd.global.setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	listen := config.Listen
	if cmd.Listen != "" {
		listen = cmd.Listen
	}

	server := pipeline.NewServer(pipeline.New(config, logger), logger)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM)
	signal.Notify(stop, syscall.SIGINT)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-stop
		server.Stop()
	}()

	err = server.Start(listen)
	if err != nil {
		return err
	}

	wg.Wait()
	return nil
}
