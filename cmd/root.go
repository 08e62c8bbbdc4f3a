package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "moodle-parser",
	Short: "Crawl and download your LNU Moodle courses",
	Long: `moodle-parser walks every course you are enrolled in on the LNU Moodle
portal, collects sections, activities, assignment deadlines and grades into a
JSON dump, and downloads every attached file into a per-course directory tree.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
