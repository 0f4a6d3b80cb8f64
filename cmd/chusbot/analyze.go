package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/edgard/chusbot/internal/config"
	"github.com/edgard/chusbot/internal/interactionlog"
)

var analyzeFormat string

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Summarise an interaction log file",
	Long: `Counts the interactions in a log file and lists the distinct users and
personas seen. Without an argument the newest file in the configured log
directory is analysed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "text", "Output format (text, json, yaml)")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	} else {
		cfg, err := config.Load(configPath, envFile)
		if err != nil {
			return err
		}
		files, err := interactionlog.Files(cfg.InteractionLog.Dir)
		if err != nil {
			return fmt.Errorf("failed to list log files: %w", err)
		}
		if len(files) == 0 {
			return fmt.Errorf("%w: no log files in %s", interactionlog.ErrLogNotFound, cfg.InteractionLog.Dir)
		}
		path = files[0]
	}

	res, err := interactionlog.AnalyzeFile(path)
	if err != nil {
		return err
	}
	return writeAnalysis(cmd.OutOrStdout(), res, analyzeFormat)
}

func writeAnalysis(w io.Writer, res interactionlog.Analysis, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(res); err != nil {
			return err
		}
		return enc.Close()
	case "text":
		_, err := fmt.Fprintf(w, "File: %s\nTotal interactions: %d\nUnique users: %d %v\nPersonas used: %v\nSession starts: %d\nMalformed lines: %d\n",
			res.Path, res.TotalInteractions, len(res.Users), res.Users, res.PersonasUsed, res.SessionStarts, res.MalformedLines)
		return err
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
