package cli

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alvinbaena/cybershield/internal/util"
	"github.com/alvinbaena/cybershield/pkg/hibp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// ranges are mirrored with retries, unlike interactive lookups
const mirrorRetries = 10

var (
	mirrorCmd = &cobra.Command{
		Use:   "mirror",
		Short: "Mirror the Pwned Passwords ranges (SHA1) to a directory for offline lookups",
		RunE: func(cmd *cobra.Command, args []string) error {
			return mirrorCommand()
		},
	}
)

func init() {
	mirrorCmd.Flags().StringVarP(&outDir, "out-dir", "o", "./pwned-ranges", "Output directory. Can be absolute or relative.")
	mirrorCmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite ranges that were already mirrored.")
	mirrorCmd.Flags().IntVarP(&threads, "threads", "t", 0, "Number of threads to use for the download. If omitted or less than 1, defaults to eight times the number of logical processors of the machine.")
	mirrorCmd.Flags().IntVar(&ranges, "ranges", hibp.TotalRanges, "Number of ranges to mirror, starting at 00000. Useful for partial mirrors.")
	mirrorCmd.Flags().StringVar(&apiURL, "api-url", hibp.DefaultBaseURL, "Base URL of the Pwned Passwords range API.")

	rootCmd.AddCommand(mirrorCmd)
}

func mirrorCommand() error {
	util.ApplyCliSettings(verbose, profile, pprofPort)

	abs, err := filepath.Abs(outDir)
	if err != nil {
		log.Fatal().Err(err).Msgf("could not get absolute path of directory")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source := hibp.NewRemoteSource(hibp.WithBaseURL(apiURL), hibp.WithRetries(mirrorRetries))
	m := hibp.NewMirror(abs, threads, overwrite, source)
	return m.ProcessRanges(ctx, ranges)
}
