package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "congressx",
		Short:   "Congressional data pipeline administration",
		Version: Version,
	}

	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(promoteCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(docsCmd())
	rootCmd.AddCommand(testCmd())
	rootCmd.AddCommand(cleanupCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
