package cli

import (
	"bytes"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/c-bata/go-prompt"
	"github.com/mattn/go-isatty"
)

// MainLoop runs interactive prompt on terminal, otherwise executes stdin line by line.
func MainLoop(tag string, exec func(line string), complete func(d prompt.Document) []prompt.Suggest) {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT)
	go func() {
		for range signalCh {
			os.Exit(1)
		}
	}()

	if isatty.IsTerminal(os.Stdin.Fd()) {
		prompt.New(exec, complete,
			prompt.OptionPrefix(tag+"> "),
			prompt.OptionTitle(tag),
		).Run()
	} else {
		RunLines(os.Stdin, exec)
	}
}

func RunLines(r io.Reader, exec func(line string)) {
	all, err := io.ReadAll(r)
	if err != nil {
		log.Fatal(err)
	}
	linesb := bytes.Split(all, []byte{'\n'})
	for _, lineb := range linesb {
		line := string(bytes.TrimSpace(lineb))
		if line == "" {
			continue
		}
		exec(line)
	}
}
