// Application launch by name.
package desktop

import (
	"os/exec"
	"runtime"
	"strings"
	"sync"

	"github.com/juju/errors"
	"github.com/temoto/remapd/log2"
)

const AppPlaceholder = "{app}"

func DefaultLaunchCommand() string {
	if runtime.GOOS == "darwin" {
		return "open -a {app}"
	}
	return "gtk-launch {app}"
}

// ExecLauncher starts command template with {app} substituted.
// No shell is involved, app name is always single argument.
type ExecLauncher struct {
	Log  *log2.Log
	args []string
	wg   sync.WaitGroup
}

func NewExecLauncher(log *log2.Log, template string) (*ExecLauncher, error) {
	args := strings.Fields(template)
	if len(args) == 0 {
		return nil, errors.NotValidf("launch command=empty")
	}
	if args[0] == AppPlaceholder {
		return nil, errors.NotValidf("launch command=%q program must not be %s", template, AppPlaceholder)
	}
	found := false
	for _, a := range args {
		if strings.Contains(a, AppPlaceholder) {
			found = true
		}
	}
	if !found {
		args = append(args, AppPlaceholder)
	}
	return &ExecLauncher{Log: log, args: args}, nil
}

func (self *ExecLauncher) Command(app string) []string {
	cmd := make([]string, len(self.args))
	for i, a := range self.args {
		cmd[i] = strings.Replace(a, AppPlaceholder, app, -1)
	}
	return cmd
}

// Launch does not wait for command. Start failure is returned,
// exit status is logged later.
func (self *ExecLauncher) Launch(app string) error {
	argv := self.Command(app)
	cmd := exec.Command(argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		return errors.Annotatef(err, "launch app=%s", app)
	}
	self.Log.Debugf("launch app=%s pid=%d", app, cmd.Process.Pid)
	self.wg.Add(1)
	go func() {
		defer self.wg.Done()
		if err := cmd.Wait(); err != nil {
			self.Log.Errorf("launch app=%s command=%v err=%v", app, argv, err)
			return
		}
		self.Log.Infof("launched app=%s", app)
	}()
	return nil
}

// Wait blocks until all started commands exit.
func (self *ExecLauncher) Wait() { self.wg.Wait() }
