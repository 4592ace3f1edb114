package main

import (
	stderrors "errors"
	"fmt"
	"os"

	"relog/internal/errors"
	"relog/internal/logging"
)

func main() {
	logger := logging.NewLogger(logging.Config{
		Format: logging.HumanFormat,
		Level:  logging.InfoLevel,
	})

	if err := rootCmd.Execute(); err != nil {
		logger.Error("Command execution failed", map[string]interface{}{
			"error": err.Error(),
		})

		var re *errors.RefactorError
		if stderrors.As(err, &re) {
			if cmd := errors.SuggestedCommand(re.Code); cmd != "" {
				fmt.Fprintf(os.Stderr, "Try: %s\n", cmd)
			}
		}
		os.Exit(1)
	}
}
