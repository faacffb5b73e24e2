package cmd

import (
	"runtime"

	"github.com/celerio/scout/internal/contract"
	"github.com/spf13/cobra"
)

var versionShort bool

// versionCmd prints build details and where scout keeps its default report store.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of scout.",
	Long: `Display version information for bug reports.

Includes the release, commit, build date, Go runtime, platform
and the default SQLite report store path. Use --short for the
release alone.`,
	Run: func(cmd *cobra.Command, _ []string) {
		if versionShort {
			cmd.Println(version)
			return
		}
		cmd.Printf("scout %s (%s)\n", version, commit)
		cmd.Printf("  Built:        %s\n", date)
		cmd.Printf("  Runtime:      %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		cmd.Printf("  Report store: %s\n", contract.GetReportDBFilePath())
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print only the release version")
}
