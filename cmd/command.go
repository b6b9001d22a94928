// Copyright 2026 Zapress Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"os"
	"strings"

	"github.com/LeeDigitalWorks/zapress/pkg/logger"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configDir string

var rootCmd = &cobra.Command{
	Use:   "zapress",
	Short: "Zapress - parallel compression and checksum toolkit",
	Long: `Zapress compresses, decompresses and checksums files using external
parallel tools (lbzip2, pigz, pzstd, ...) when installed, falling back to
built-in codecs otherwise. Digests run concurrently across physical cores.`,
	PersistentPreRun: initializeConfig,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configDir, "config_dir", ".", "Directory for configuration files")
	pf.String("log_level", "", "Log level (trace, debug, info, warn, error)")
	pf.Bool("parallel", false, "Prefer parallel-capable backends")
	pf.Int("workers", 0, "Worker count for parallel backends (0 = physical cores)")

	viper.BindPFlags(pf)
}

// initializeConfig loads the optional config file and applies the log level.
func initializeConfig(cmd *cobra.Command, args []string) {
	loadConfiguration("zapress", false)

	if level := NewFlagLoader(cmd).String("log_level"); level != "" {
		parsed, err := zerolog.ParseLevel(level)
		if err != nil || parsed == zerolog.NoLevel {
			log.Warn().Str("log_level", level).Msg("invalid log level, keeping current")
		} else {
			logger.SetLevel(parsed)
		}
	}
}

func loadConfiguration(configFileName string, required bool) bool {
	viper.SetConfigName(configFileName)
	viper.AddConfigPath(configDir)
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.zapress")
	viper.AddConfigPath("/usr/local/etc/zapress/")
	viper.AddConfigPath("/etc/zapress/")
	viper.SetEnvPrefix("zapress")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.MergeInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if required {
				log.Fatal().Msgf("Config file not found: %s", configFileName)
			}
			return false
		}

		if required {
			log.Fatal().Msgf("Failed to load required config file: %s", configFileName)
		}
		return false
	}
	log.Debug().Msgf("Loaded config file: %s", viper.ConfigFileUsed())

	return true
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
