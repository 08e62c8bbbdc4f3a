package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Lernify-co/moodle-parser-LNU/pkg/config"
	"github.com/Lernify-co/moodle-parser-LNU/pkg/crawler"
	"github.com/Lernify-co/moodle-parser-LNU/pkg/moodle"
	"github.com/Lernify-co/moodle-parser-LNU/pkg/portal"
	"github.com/Lernify-co/moodle-parser-LNU/pkg/tui"
)

var webinarsCmd = &cobra.Command{
	Use:   "webinars",
	Short: "List webinar rooms (BigBlueButton / Google Meet) across your courses",
	RunE: func(cmd *cobra.Command, args []string) error {
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

		var dump *moodle.Dump
		var crawlErr error
		_ = spinner.New().
			Title("Scanning courses for webinar sections...").
			Action(func() {
				dump, crawlErr = c.Run()
			}).
			Run()

		if crawlErr != nil {
			return fmt.Errorf("failed to scan courses: %w", crawlErr)
		}

		titleCase := cases.Title(language.English)
		found := 0
		for _, course := range dump.Courses {
			if len(course.Webinars) == 0 {
				continue
			}
			fmt.Println(tui.Accent().Render(course.Title))
			for _, w := range course.Webinars {
				platform := titleCase.String(strings.ReplaceAll(w.Platform, "_", " "))
				fmt.Printf("  [%s] %s\n    %s\n", platform, w.Name, tui.Faint().Render(w.MoodleURL))
				found++
			}
		}

		if found == 0 {
			fmt.Println("No webinar sections found.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(webinarsCmd)
}
