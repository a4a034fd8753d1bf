// Copyright (c) 2025 The ZEDD Project and its Contributors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
// of the Software, and to permit persons to whom the Software is furnished to do
// so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// This package implements the zedd command line interface.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/danielnrainer/ZEDD/config"
	"github.com/danielnrainer/ZEDD/settings"
	"github.com/danielnrainer/ZEDD/zenodo"
)

var (
	tokenFlag   string
	sandboxFlag bool
	configFlag  string
	verboseFlag bool

	// populated by the persistent pre-run below
	conf        config.Config
	prefs       settings.Settings
	settingsDir string
)

var rootCmd = &cobra.Command{
	Use:   "zedd",
	Short: "Package and upload electron diffraction datasets to Zenodo",
	Long: `zedd packages electron diffraction datasets and uploads them to the
Zenodo research data repository (or its sandbox), creating depositions
with domain-appropriate metadata.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging()

		var err error
		settingsDir, err = settings.Dir()
		if err != nil {
			slog.Warn("couldn't locate settings directory", "error", err.Error())
			settingsDir = ""
		}
		if settingsDir != "" {
			prefs, err = settings.Load(settingsDir)
			if err != nil {
				return err
			}
		}

		var yamlData []byte
		if configFlag != "" {
			yamlData, err = os.ReadFile(configFlag)
			if err != nil {
				return fmt.Errorf("couldn't read config file %s: %s", configFlag, err)
			}
		}
		conf, err = config.Init(yamlData)
		if err != nil {
			return err
		}

		if !cmd.Root().PersistentFlags().Changed("sandbox") {
			sandboxFlag = prefs.UseSandbox || conf.Zenodo.Sandbox
		}
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&tokenFlag, "token", "",
		"Zenodo access token (overrides the stored token)")
	rootCmd.PersistentFlags().BoolVar(&sandboxFlag, "sandbox", false,
		"Target the Zenodo sandbox instead of the production repository")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "",
		"Path to a YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false,
		"Enable debug logging")

	rootCmd.AddCommand(newUploadCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newLicensesCmd())
	rootCmd.AddCommand(newCommunitiesCmd())
	rootCmd.AddCommand(newDepositionsCmd())
	rootCmd.AddCommand(newProbeCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newTokenCmd())
}

func setupLogging() {
	logLevel := new(slog.LevelVar)
	if verboseFlag {
		logLevel.Set(slog.LevelDebug)
	} else {
		logLevel.Set(slog.LevelWarn)
	}
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(h))
}

// resolves the access token for the selected repository: the --token flag,
// then the ZENODO_ACCESS_TOKEN environment variable, then the stored token
func resolveToken() (string, error) {
	if tokenFlag != "" {
		return tokenFlag, nil
	}
	if token := os.Getenv("ZENODO_ACCESS_TOKEN"); token != "" {
		return token, nil
	}
	if settingsDir != "" {
		tokens, err := settings.LoadTokens(settingsDir)
		if err != nil {
			return "", err
		}
		if token := tokens.For(sandboxFlag); token != "" {
			return token, nil
		}
	}
	return "", fmt.Errorf("no access token found: pass --token, set " +
		"ZENODO_ACCESS_TOKEN, or store one with 'zedd token set'")
}

// convenience function for CLI commands
func newRepositoryClient() (*zenodo.Client, error) {
	token, err := resolveToken()
	if err != nil {
		return nil, err
	}
	return zenodo.NewClientWithOptions(token, sandboxFlag, zenodo.ClientOptions{
		BaseURL:       conf.Zenodo.BaseURL,
		APITimeout:    time.Duration(conf.Zenodo.APITimeout) * time.Second,
		UploadTimeout: time.Duration(conf.Zenodo.UploadTimeout) * time.Second,
		ChunkSize:     conf.Zenodo.ChunkSize,
	})
}

// the directory in which local state (the upload journal) lives
func dataDirectory() string {
	if conf.Service.DataDirectory != "" {
		return conf.Service.DataDirectory
	}
	if prefs.DataDirectory != "" {
		return prefs.DataDirectory
	}
	return settingsDir
}

// the name of the repository uploads target, for display and journal records
func repositoryName() string {
	if sandboxFlag {
		return "sandbox"
	}
	return "production"
}
