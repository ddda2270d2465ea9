package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/logflux-io/logflux-go/agent"
)

var StatusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"st"},
	Short:   "Report local agent liveness and secret availability",
	Run: func(cmd *cobra.Command, args []string) {
		env := agent.OSEnv{}

		fmt.Printf("runtime dir: %s\n", agent.RuntimeDir(env))
		if agent.Running(env) {
			fmt.Println("agent: running")
		} else {
			fmt.Println("agent: not running")
		}

		if secret, err := agent.LoadSecret(env); err != nil {
			fmt.Printf("shared secret: unavailable (%v)\n", err)
		} else if secret == "" {
			fmt.Println("shared secret: empty")
		} else {
			fmt.Println("shared secret: present")
		}
	},
}
