package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	policyFile string
	logLevel   string
	logFormat  string
	version    = "dev"
)

var rootCmd = &cobra.Command{
	Use:     "templesolverd",
	Short:   "Temple layout optimizer service",
	Long:    `templesolverd solves 9x9 temple-layout placement puzzles and serves them over HTTP.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&policyFile, "policy", "", "optional YAML solver policy file (room value overrides, default penalties)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "json", "log format: json, text")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(solveSubprocessCmd)
}

// Commands are defined in separate files:
// - serveCmd in serve.go
// - solveSubprocessCmd in solve_subprocess.go

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
