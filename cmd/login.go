package cmd

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"

	"github.com/Lernify-co/moodle-parser-LNU/pkg/config"
	"github.com/Lernify-co/moodle-parser-LNU/pkg/portal"
	"github.com/Lernify-co/moodle-parser-LNU/pkg/tui"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store and verify your Moodle session cookie",
	Long: `Log in to Moodle in your browser (via the OpenID Connect button), copy the
MoodleSession cookie value from the browser's devtools and paste it here. The
cookie is verified against the dashboard and saved for the other commands.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		session := cfg.Session
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("MoodleSession cookie").
					Description("DevTools → Application → Cookies → MoodleSession").
					EchoMode(huh.EchoModePassword).
					Value(&session),
			),
		).WithTheme(tui.Theme())

		if err := form.Run(); err != nil {
			return err
		}
		if session == "" {
			return fmt.Errorf("no session cookie entered")
		}

		client := portal.NewClient(cfg.BaseURL, session)

		var verifyErr error
		_ = spinner.New().
			Title("Verifying session against " + client.DashboardURL() + "...").
			Action(func() {
				verifyErr = client.VerifySession()
			}).
			Run()

		if verifyErr != nil {
			return fmt.Errorf("session verification failed: %w", verifyErr)
		}

		cfg.Session = session
		if err := config.Save(cfg); err != nil {
			return err
		}

		fmt.Println(tui.Accent().Render("Session verified and saved."))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
}
