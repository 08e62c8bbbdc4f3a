package cmd

import (
	"fmt"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"

	"github.com/Lernify-co/moodle-parser-LNU/pkg/config"
	"github.com/Lernify-co/moodle-parser-LNU/pkg/crawler"
	"github.com/Lernify-co/moodle-parser-LNU/pkg/moodle"
	"github.com/Lernify-co/moodle-parser-LNU/pkg/portal"
	"github.com/Lernify-co/moodle-parser-LNU/pkg/tui"
)

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "List the courses you are enrolled in",
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

		var refs []moodle.CourseRef
		var fetchErr error
		_ = spinner.New().
			Title("Fetching the dashboard...").
			Action(func() {
				refs, fetchErr = c.FetchCourses()
			}).
			Run()

		if fetchErr != nil {
			return fmt.Errorf("failed to list courses: %w", fetchErr)
		}
		if len(refs) == 0 {
			return fmt.Errorf("no courses found; is the session still valid?")
		}

		for i, ref := range refs {
			fmt.Printf("%2d. %s\n    %s\n", i+1, tui.Accent().Render(ref.Title), tui.Faint().Render(ref.URL))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(coursesCmd)
}
