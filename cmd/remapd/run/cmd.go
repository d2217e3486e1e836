// Remap keyboard events until stopped by signal.
package run

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/daemon"
	"github.com/juju/errors"
	"github.com/temoto/remapd/cmd/remapd/subcmd"
	"github.com/temoto/remapd/hardware/input"
	"github.com/temoto/remapd/internal/remap"
	"github.com/temoto/remapd/internal/state"
)

var Mod = subcmd.Mod{Name: "run", Usage: "remap keyboard events (default)", Main: Main}

func Main(ctx context.Context, config *state.Config) error {
	g := state.GetGlobal(ctx)
	g.MustInit(ctx, config)
	g.Alive.Add(1)
	defer g.Alive.Done()

	emit, err := g.Output()
	if err != nil {
		return errors.Annotate(err, "output")
	}
	defer emit.Close()

	loop := remap.NewLoop(g.Log, remap.ClockScheduler{}, g.InputQueue())
	remapper, err := g.NewRemapper(loop.Scheduler())
	if err != nil {
		return err
	}

	// opened last, may grab keyboards
	sources, err := g.InputSources()
	if err != nil {
		return errors.Annotate(err, "input")
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go loop.Run(runCtx, remapper)

	dispatch := g.InitInput(sources)
	dispatch.SubscribeFunc("remap", func(ev remap.KeyEvent) { loop.Post(ev) }, loop.Done())

	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigch)
	go func() {
		select {
		case s := <-sigch:
			g.Log.Infof("signal=%s stopping", s)
			g.Stop()
		case <-g.Alive.StopChan():
		}
	}()
	go watchdog(g)

	subcmd.SdNotify(daemon.SdNotifyReady)
	g.Log.Infof("remapd running sources=%d dual=%t combo=%t", len(sources), g.Remap.DualEnable, g.Remap.ComboEnable)

	select {
	case <-g.Alive.StopChan():
	case <-loop.Done():
		g.Log.Errorf("remap loop finished unexpectedly")
		g.Stop()
	}
	subcmd.SdNotify(daemon.SdNotifyStopping)
	cancel()
	<-loop.Done()
	dispatch.Wait()
	if last := loop.LastActivity(); !last.IsZero() {
		g.Log.Debugf("last key activity=%s ago", time.Since(last))
	}
	g.Log.Debugf("input bytes=%d errors=%d", input.StatBytes.Value(), g.Errors.Load())
	g.Log.Infof("remapd stopped")
	return nil
}

// watchdog pings systemd while remap loop is alive.
func watchdog(g *state.Global) {
	interval, err := daemon.SdWatchdogEnabled(false)
	if err != nil {
		g.Error(errors.Annotate(err, "watchdog"))
		return
	}
	if interval == 0 {
		return
	}
	tick := time.NewTicker(interval / 2)
	defer tick.Stop()
	stopch := g.Alive.StopChan()
	for {
		select {
		case <-tick.C:
			subcmd.SdNotify(daemon.SdNotifyWatchdog)
		case <-stopch:
			return
		}
	}
}
