// Copyright 2026 Zapress Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"time"

	"github.com/LeeDigitalWorks/zapress/pkg/digest"
	"github.com/LeeDigitalWorks/zapress/pkg/logger"

	"github.com/spf13/cobra"
)

var checksumCmd = &cobra.Command{
	Use:   "checksum <file>...",
	Short: "Compute digests over files",
	Long: `Compute one or more digests over each file. With several digests on a
multi-core host each digest runs on its own core. Output format matches
sha256sum: one "<hex>  <file>" line per digest, prefixed with the kind.`,
	Args: cobra.MinimumNArgs(1),
	Run:  runChecksum,
}

func init() {
	rootCmd.AddCommand(checksumCmd)

	f := checksumCmd.Flags()
	f.StringSliceP("algo", "a", []string{"sha256"}, "Digest kinds (md5, sha1, sha256, sha512, blake3, crc32, crc64nvme, whirlpool)")
}

func runChecksum(cmd *cobra.Command, args []string) {
	fl := NewFlagLoader(cmd)

	var kinds []digest.Kind
	for _, name := range fl.StringSlice("algo") {
		k, err := digest.ParseKind(name)
		if err != nil {
			logger.Fatal().Err(err).Msg("unknown digest kind")
		}
		kinds = append(kinds, k)
	}

	for _, path := range args {
		start := time.Now()
		res, err := digest.Compute(cmd.Context(), digest.FileSource(path), kinds...)
		if err != nil {
			logger.Fatal().Err(err).Str("file", path).Msg("checksum failed")
		}
		logger.Debug().Str("file", path).Dur("elapsed", time.Since(start)).Msg("checksummed")

		for _, k := range kinds {
			fmt.Printf("%s:%s  %s\n", k, res.Hex(k), path)
		}
	}
}
