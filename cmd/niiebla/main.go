package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/spf13/cobra"
	niiebla "github.com/zelzip/niiebla/pkg"
	"github.com/zelzip/niiebla/pkg/nilog"
)

const version = "0.1.0"

var (
	logLevel    string
	versionFlag bool
	rootCmd     *cobra.Command
)

func getBuildTimestamp() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.time" {
				if t, err := time.Parse(time.RFC3339, setting.Value); err == nil {
					return t.UTC().Format(time.RFC3339)
				}
			}
		}
	}
	if exePath, err := os.Executable(); err == nil {
		if stat, err := os.Stat(exePath); err == nil {
			return stat.ModTime().UTC().Format(time.RFC3339)
		}
	}
	return time.Now().UTC().Format(time.RFC3339)
}

func init() {
	rootCmd = &cobra.Command{
		Use:   "niiebla",
		Short: "Inspect and verify installable WAD containers",
		Long:  `niiebla reads Nintendo installable WAD containers: their certificate chain, ticket, title metadata, and content.`,
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&versionFlag, "version", "V", false, "Show version information")

	rootCmd.AddCommand(infoCmd())
	rootCmd.AddCommand(verifyCmd())
}

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-V") {
		fmt.Printf("niiebla %s\n", version)
		fmt.Printf("Built: %s\n", getBuildTimestamp())
		os.Exit(0)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func level() string {
	if logLevel != "" {
		return logLevel
	}
	return nilog.LevelFromEnv()
}

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <wad-file>",
		Short: "Print a WAD's header, ticket, and title metadata summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := niiebla.Open(args[0])
			if err != nil {
				return err
			}
			defer o.Close()

			tk, err := o.Ticket()
			if err != nil {
				return err
			}
			tmd, err := o.TitleMetadata()
			if err != nil {
				return err
			}

			fmt.Printf("title id:       %s\n", tmd.TitleID)
			fmt.Printf("title version:  %d\n", tmd.TitleVersion)
			fmt.Printf("platform:       %d\n", tmd.Platform)
			if region, err := tmd.Region(); err == nil {
				fmt.Printf("region:         %d\n", region)
			}
			fmt.Printf("ticket issuer:  %s\n", tk.Issuer)
			fmt.Printf("content entries: %d\n", len(tmd.ContentEntries))
			return nil
		},
	}
}

func verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <wad-file>",
		Short: "Verify every content entry's hash against its title metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := niiebla.Open(args[0])
			if err != nil {
				return err
			}
			defer o.Close()

			logger := nilog.New("niiebla-verify", level(), nil)
			failures, err := niiebla.VerifyWadWithLogger(o, logger)
			if err != nil {
				return err
			}
			if len(failures) > 0 {
				os.Exit(1)
			}
			return nil
		},
	}
}
