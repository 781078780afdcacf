package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/buildsim/buildgen/internal/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "buildgen",
		Short: "Deterministic building geometry and air-loop generator",
	}

	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func generateCmd() *cobra.Command {
	var idf bool
	var verbose bool

	cmd := &cobra.Command{
		Use:   "generate [project-path]",
		Short: "Run the full generation pipeline and emit the building model",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runGenerate(args[0], idf, verbose)
		},
	}
	cmd.Flags().BoolVar(&idf, "idf", false, "emit engine text schema instead of JSON")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [project-path]",
		Short: "Validate a building spec without running full generation",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runValidate(args[0])
		},
	}
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the local dev server",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			srv, err := server.New(port)
			if err != nil {
				return err
			}
			return srv.Start()
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 3000, "HTTP server port")
	return cmd
}
