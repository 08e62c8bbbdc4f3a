package cmd

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/Lernify-co/moodle-parser-LNU/pkg/config"
	"github.com/Lernify-co/moodle-parser-LNU/pkg/portal"
	"github.com/Lernify-co/moodle-parser-LNU/pkg/tui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Edit persistent settings interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = portal.DefaultBase
		}
		downloadRoot := cfg.DownloadRoot
		outputFile := cfg.OutputFile
		accent := cfg.AccentColor

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Portal base URL").
					Value(&baseURL),
				huh.NewInput().
					Title("Download root directory").
					Value(&downloadRoot),
				huh.NewInput().
					Title("JSON dump file").
					Value(&outputFile),
				huh.NewInput().
					Title("Accent color (ANSI 0-255, empty for default)").
					Value(&accent),
			),
		).WithTheme(tui.Theme())

		if err := form.Run(); err != nil {
			return err
		}

		cfg.BaseURL = baseURL
		cfg.DownloadRoot = downloadRoot
		cfg.OutputFile = outputFile
		cfg.AccentColor = accent

		if err := config.Save(cfg); err != nil {
			return err
		}

		fmt.Println(tui.Accent().Render("Settings saved."))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
