package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/steipete/freshtabs"
)

var locateBrowser string

var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Print discovered session store paths",
	Long: `Locate session stores of installed Chromium-family browsers and print one
browser<TAB>profile<TAB>path line per store, without reading any of them.`,
	RunE: runLocate,
}

func init() {
	locateCmd.Flags().StringVar(&locateBrowser, "browser", "", "only locate stores for this browser")
	rootCmd.AddCommand(locateCmd)
}

func runLocate(cmd *cobra.Command, _ []string) error {
	log := newLogger()

	var browsers []freshtabs.Browser
	if locateBrowser != "" {
		b, err := browserForName(locateBrowser)
		if err != nil {
			return err
		}
		browsers = []freshtabs.Browser{b}
	}

	sources, warnings := freshtabs.Locate(browsers)
	for _, w := range warnings {
		log.Warn().Msg(w)
	}

	for _, src := range sources {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", src.Browser, src.Profile, src.StorePath); err != nil {
			return err
		}
	}
	return nil
}
