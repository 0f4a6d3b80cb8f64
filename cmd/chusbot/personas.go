package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edgard/chusbot/internal/config"
	"github.com/edgard/chusbot/internal/persona"
)

var personasShow bool

var personasCmd = &cobra.Command{
	Use:   "personas",
	Short: "List the selectable personas",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(configPath, envFile)
		if err != nil {
			return err
		}
		store, err := persona.LoadFile(cfg.Personas.File)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, id := range store.List() {
			if personasShow {
				fmt.Fprintf(out, "%s:\n  %s\n\n", id, store.Get(id))
				continue
			}
			fmt.Fprintln(out, id)
		}
		return nil
	},
}

func init() {
	personasCmd.Flags().BoolVar(&personasShow, "show", false, "Print each persona's instruction text")
	rootCmd.AddCommand(personasCmd)
}
