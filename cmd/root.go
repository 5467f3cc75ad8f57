package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "contacts",
	Short: "Contacts service",
	Long:  `A contacts service with JWT authentication, email verification and role based access, served over HTTP with a gRPC health endpoint.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
