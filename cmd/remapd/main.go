package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/juju/errors"
	"github.com/temoto/remapd/cmd/remapd/devices"
	"github.com/temoto/remapd/cmd/remapd/run"
	"github.com/temoto/remapd/cmd/remapd/sim"
	"github.com/temoto/remapd/cmd/remapd/subcmd"
	"github.com/temoto/remapd/hardware/output"
	"github.com/temoto/remapd/hardware/robot"
	"github.com/temoto/remapd/internal/remap"
	"github.com/temoto/remapd/internal/state"
	"github.com/temoto/remapd/log2"
)

var log = log2.NewStderr(log2.LDebug)

var modules = []subcmd.Mod{
	run.Mod,
	devices.Mod,
	sim.Mod,
	{Name: "version", Usage: "print build version", Main: versionMain},
}

var BuildVersion string = "unknown" // set by ldflags -X

func main() {
	flagset := flag.NewFlagSet("remapd", flag.ContinueOnError)
	configPath := flagset.String("config", "", "config file path, empty for defaults")
	flagset.Usage = func() {
		fmt.Fprintf(flagset.Output(), "usage: remapd [-config=remapd.hcl] command\n%s", subcmd.Usage(modules))
		flagset.PrintDefaults()
	}
	if err := flagset.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}
	command := flagset.Arg(0)
	if command == "" {
		command = run.Mod.Name
	}

	mod, err := subcmd.Parse(command, modules)
	if err != nil {
		log.Fatal(err)
	}

	if subcmd.SdNotify("start") {
		// we're under systemd, assume systemd journal logging, remove timestamp
		log.SetFlags(log2.LServiceFlags)
	} else {
		log.SetFlags(log2.LInteractiveFlags)
	}
	log.SetLevel(log2.LInfo)

	state.RegisterOutput("robot", func(*state.Global) (output.Emitter, error) { return robot.NewEmitter(), nil })
	state.RegisterFocus("robot", func(*state.Global) (remap.Focuser, error) { return robot.Focuser{}, nil })

	var config *state.Config
	if *configPath == "" {
		config = state.NewConfig()
	} else {
		config = state.MustReadConfig(log, state.NewOsFullReader(), *configPath)
	}

	ctx, g := state.NewContext(log)
	g.BuildVersion = BuildVersion

	if err := mod.Main(ctx, config); err != nil {
		log.Fatalf("command=%s error=%s", mod.Name, errors.ErrorStack(err))
	}
}

func versionMain(ctx context.Context, config *state.Config) error {
	fmt.Printf("remapd %s\n", BuildVersion)
	return nil
}
