package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"

	"github.com/Lernify-co/moodle-parser-LNU/pkg/config"
	"github.com/Lernify-co/moodle-parser-LNU/pkg/crawler"
	"github.com/Lernify-co/moodle-parser-LNU/pkg/exporter"
	"github.com/Lernify-co/moodle-parser-LNU/pkg/moodle"
	"github.com/Lernify-co/moodle-parser-LNU/pkg/portal"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export assignment deadlines to an ICS calendar",
	Long: `Collect every assignment due date, either from an existing crawl dump or by
crawling course metadata live, and write them as calendar events.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		input, _ := cmd.Flags().GetString("input")
		output, _ := cmd.Flags().GetString("output")

		var dump *moodle.Dump
		if input != "" {
			data, err := os.ReadFile(input)
			if err != nil {
				return fmt.Errorf("failed to read dump: %w", err)
			}
			dump = &moodle.Dump{}
			if err := json.Unmarshal(data, dump); err != nil {
				return fmt.Errorf("failed to parse dump: %w", err)
			}
		} else {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.Session == "" {
				return fmt.Errorf("no session configured, run 'moodle-parser login' first")
			}

			client := portal.NewClient(cfg.BaseURL, cfg.Session)
			c := crawler.New(client, cfg.DownloadRoot, nopLogger())
			c.SkipDownloads = true

			var crawlErr error
			_ = spinner.New().
				Title("Collecting assignment deadlines...").
				Action(func() {
					dump, crawlErr = c.Run()
				}).
				Run()
			if crawlErr != nil {
				return fmt.Errorf("failed to collect deadlines: %w", crawlErr)
			}
		}

		file, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()

		n, err := exporter.GenerateICS(dump, file)
		if err != nil {
			return fmt.Errorf("failed to generate ICS: %w", err)
		}
		if n == 0 {
			fmt.Println("No parseable deadlines found; wrote an empty calendar.")
			return nil
		}

		fmt.Printf("Exported %d deadlines to %s\n", n, output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("input", "i", "", "Read deadlines from an existing moodle_dump.json instead of crawling")
	exportCmd.Flags().StringP("output", "o", "deadlines.ics", "Output .ics file path")
}
