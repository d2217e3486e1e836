// List keyboards usable as input.
package devices

import (
	"context"
	"fmt"

	"github.com/juju/errors"
	"github.com/temoto/remapd/cmd/remapd/subcmd"
	"github.com/temoto/remapd/hardware/input"
	"github.com/temoto/remapd/internal/state"
	"github.com/temoto/remapd/log2"
)

var Mod = subcmd.Mod{Name: "list-devices", Usage: "print detected keyboards", Main: Main}

func Main(ctx context.Context, config *state.Config) error {
	state.GetGlobal(ctx).MustInit(ctx, config)
	log := log2.FromContext(ctx)

	devs, err := input.FindKeyboards(config.OutputName())
	if err != nil {
		return errors.Annotate(err, "list-devices")
	}
	if len(devs) == 0 {
		log.Infof("no keyboards found, check read permission on /dev/input/event*")
	}
	for _, d := range devs {
		fmt.Println(d.String())
	}
	return nil
}
