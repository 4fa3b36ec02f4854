package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/alvinbaena/cybershield/internal/util"
	"github.com/alvinbaena/cybershield/pkg/hibp"
	"github.com/alvinbaena/cybershield/pkg/strength"
	"github.com/manifoldco/promptui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	checkCmd = &cobra.Command{
		Use:   "check [PASSWORD]",
		Short: "Check the strength of a password and whether it appears in known data breaches",
		Args: func(cmd *cobra.Command, args []string) error {
			if !interactive {
				if err := cobra.ExactArgs(1)(cmd, args); err != nil {
					return err
				}
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if interactive {
				return checkInteractive()
			}
			return checkCommand(cmd.Context(), args[0])
		},
	}
)

func init() {
	checkCmd.Flags().BoolVarP(&interactive, "interactive", "n", false, "Interactive mode.")
	checkCmd.Flags().BoolVarP(&hashed, "hashed", "s", false, "If the supplied password will be a Hexadecimal SHA1 hash or a plain text string.")
	checkCmd.Flags().BoolVar(&strengthOnly, "strength-only", false, "Only score the password, no breach lookup is made.")
	checkCmd.Flags().StringVar(&offlineDir, "offline-dir", "", "Directory with mirrored ranges (see the mirror command). No network requests are made when set.")
	checkCmd.Flags().StringVar(&apiURL, "api-url", hibp.DefaultBaseURL, "Base URL of the Pwned Passwords range API.")
	checkCmd.Flags().BoolVar(&padding, "padding", true, "Ask the range API to pad responses.")

	rootCmd.AddCommand(checkCmd)
}

func newCheckClient() *hibp.Client {
	if offlineDir != "" {
		return hibp.NewClient(hibp.NewDirSource(offlineDir))
	}
	return hibp.NewClient(hibp.NewRemoteSource(hibp.WithBaseURL(apiURL), hibp.WithPadding(padding)))
}

func checkCommand(ctx context.Context, input string) error {
	util.ApplyCliSettings(verbose, profile, pprofPort)
	if ctx == nil {
		ctx = context.Background()
	}

	return checkInput(ctx, newCheckClient(), input)
}

func checkInteractive() error {
	util.ApplyCliSettings(verbose, profile, pprofPort)

	label := "Password"
	if hashed {
		label = "SHA1 Hex hash"
	}

	prompt := promptui.Prompt{
		Label:    label,
		Validate: validateInput,
	}

	if !hashed {
		prompt.Mask = '*'
	} else {
		log.Info().Msgf("Flag 'hashed' is set. Please use SHA1 Hashed passwords.")
	}

	client := newCheckClient()
	log.Info().Msgf("Running interactive session. ^C to exit")
	for {
		result, err := prompt.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				log.Info().Msgf("Goodbye")
			} else {
				log.Error().Err(err).Msgf("Error during interactive session")
			}
			// No return to avoid the default cobra error message
			return nil
		}

		if err = checkInput(context.Background(), client, result); err != nil {
			log.Error().Err(err).Msg("Error during check")
		}
	}
}

func validateInput(input string) error {
	if len(input) == 0 {
		return errors.New("please enter a valid password")
	}

	if hashed {
		if _, err := hibp.QueryFromHash(input); err != nil {
			return errors.New("input is not a valid SHA1 Hexadecimal hash")
		}
	}
	return nil
}

func checkInput(ctx context.Context, client *hibp.Client, input string) error {
	var res hibp.Result
	var err error
	if hashed {
		if strengthOnly {
			return errors.New("a hash can only be checked against breaches")
		}
		res, err = client.CheckHash(ctx, strings.TrimSpace(input))
	} else {
		s := strength.Evaluate(input)
		log.Info().Msgf("Strength: %s (%d/%d)", s.Level, s.Score, strength.MaxScore)
		for _, f := range s.Feedback {
			log.Info().Msgf("  - %s", f)
		}

		if strengthOnly {
			return nil
		}
		res, err = client.Check(ctx, input)
	}
	if err != nil {
		return err
	}

	if res.Breached {
		log.Warn().Msg(breachSummary(res))
	} else {
		log.Info().Msg(breachSummary(res))
	}

	return nil
}

// breachSummary reports how often the password appears in the breach corpus.
func breachSummary(res hibp.Result) string {
	if !res.Breached {
		return "Password not found in known data breaches"
	}
	return message.NewPrinter(language.English).Sprintf("Password seen %d times in known data breaches", res.Count)
}
