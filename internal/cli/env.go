package cli

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// loadEnvFile loads file into the environment without overriding variables that are already set.
// A missing file is not an error.
func loadEnvFile(file string) error {
	if file == "" {
		return nil
	}

	if err := godotenv.Load(file); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Debug().Msgf("env file %s not found, using the environment only", file)
			return nil
		}
		return err
	}

	log.Debug().Msgf("loaded environment from %s", file)
	return nil
}
