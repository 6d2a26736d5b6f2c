package main

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/joshuapare/arenakit/arena/alloc"
)

// Set at build time with -ldflags "-X main.version=...".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type versionInfo struct {
	Version    string `json:"version"`
	Commit     string `json:"commit"`
	Built      string `json:"built"`
	Go         string `json:"go"`
	HeaderSize int    `json:"header_size"`
	Alignment  int    `json:"alignment"`
}

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version and block format information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion()
		},
	})
}

func runVersion() error {
	info := versionInfo{
		Version:    version,
		Commit:     commit,
		Built:      date,
		Go:         runtime.Version(),
		HeaderSize: alloc.HeaderSize,
		Alignment:  alloc.Alignment,
	}
	if jsonOut {
		return printJSON(info)
	}
	printInfo("arenactl %s\n", info.Version)
	printInfo("  commit: %s\n", info.Commit)
	printInfo("  built:  %s\n", info.Built)
	printInfo("  go:     %s\n", info.Go)
	printInfo("  block header: %d bytes, %d-byte alignment\n", info.HeaderSize, info.Alignment)
	return nil
}
