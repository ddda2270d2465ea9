package main

import (
	"bufio"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	logflux "github.com/logflux-io/logflux-go"
)

var (
	sourceFlag string
	levelFlag  string
	typeFlag   string
	labelFlags []string
)

func init() {
	pflags := WriteCmd.PersistentFlags()

	pflags.StringVar(&sourceFlag, "source", "",
		"a `SOURCE` identifying the emitter")
	pflags.StringVar(&levelFlag, "level", "info",
		"severity `LEVEL` (emergency..debug)")
	pflags.StringVar(&typeFlag, "type", "log",
		"entry `TYPE` (log, metric, trace, event, audit)")
	pflags.StringArrayVarP(&labelFlags, "label", "l", nil,
		"a `KEY=VALUE` label, repeatable")
}

var WriteCmd = &cobra.Command{
	Use:     "write [messages]",
	Aliases: []string{"w"},
	Short:   "Send log entries to the agent",
	Long: `Each argument is sent as one entry. With no arguments, lines are
read from stdin and sent as they arrive.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return doWrite(args)
	},
}

func doWrite(args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	if err := client.Connect(); err != nil {
		return err
	}
	defer client.Close()

	for _, msg := range args {
		if err := sendOne(client, msg); err != nil {
			return err
		}
	}
	if len(args) > 0 {
		return nil
	}

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Split(bufio.ScanLines)
	for scanner.Scan() {
		if err := sendOne(client, scanner.Text()); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func sendOne(client *logflux.Client, msg string) error {
	e, err := buildEntry(msg)
	if err != nil {
		return err
	}
	return client.SendEntry(e)
}

func buildEntry(msg string) (*logflux.Entry, error) {
	e, err := logflux.NewEntry(msg)
	if err != nil {
		return nil, err
	}

	if sourceFlag != "" {
		if err := e.SetSource(sourceFlag); err != nil {
			return nil, err
		}
	}

	level, err := logflux.ParseLevel(levelFlag)
	if err != nil {
		return nil, err
	}
	if err := e.SetLevel(level); err != nil {
		return nil, err
	}

	typ, err := logflux.ParseType(typeFlag)
	if err != nil {
		return nil, err
	}
	if err := e.SetType(typ); err != nil {
		return nil, err
	}

	for _, l := range labelFlags {
		key, value, found := strings.Cut(l, "=")
		if !found {
			return nil, errors.Errorf("label %q is not KEY=VALUE", l)
		}
		if err := e.AddLabel(key, value); err != nil {
			return nil, err
		}
	}
	return e, nil
}
