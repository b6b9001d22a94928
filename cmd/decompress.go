// Copyright 2026 Zapress Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/LeeDigitalWorks/zapress/pkg/codec"
	"github.com/LeeDigitalWorks/zapress/pkg/logger"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var decompressCmd = &cobra.Command{
	Use:   "decompress <source> [target]",
	Short: "Decompress a file",
	Long: `Decompress a file. The codec is inferred from the source extension
unless given with --codec. When target is omitted the codec extension is
stripped from the source path.`,
	Args: cobra.RangeArgs(1, 2),
	Run:  runDecompress,
}

func init() {
	rootCmd.AddCommand(decompressCmd)

	f := decompressCmd.Flags()
	f.StringP("codec", "c", "", "Codec (bzip2, gzip, xz, lz4, zstd); inferred from source extension when omitted")
}

func runDecompress(cmd *cobra.Command, args []string) {
	fl := NewFlagLoader(cmd)
	src := args[0]

	c := codec.ParseCodec(fl.String("codec"))
	if c == codec.None {
		c = codec.DetectFromPath(src)
	}
	if c == codec.None {
		logger.Fatal().Str("source", src).Msg("codec not given and not inferable from source extension")
	}

	target := ""
	if len(args) == 2 {
		target = args[1]
	} else {
		target = strings.TrimSuffix(src, c.Extension())
		if target == src {
			logger.Fatal().Str("source", src).Msg("cannot derive target path, pass it explicitly")
		}
	}

	in, err := os.Open(src)
	if err != nil {
		logger.Fatal().Err(err).Str("source", src).Msg("failed to open source")
	}
	defer in.Close()

	opts := []codec.Option{
		codec.WithParallel(fl.Bool("parallel")),
	}
	if w := fl.Int("workers"); w > 0 {
		opts = append(opts, codec.WithWorkers(w))
	}

	start := time.Now()
	if err := codec.DecompressFile(cmd.Context(), c, in, target, opts...); err != nil {
		logger.Fatal().Err(err).Str("codec", c.String()).Str("target", target).Msg("decompression failed")
	}
	elapsed := time.Since(start)

	dstInfo, _ := os.Stat(target)
	if dstInfo != nil {
		logger.Info().
			Str("codec", c.String()).
			Str("out", humanize.IBytes(uint64(dstInfo.Size()))).
			Dur("elapsed", elapsed).
			Msg("decompressed")
		fmt.Printf("%s -> %s (%s)\n", src, target, humanize.IBytes(uint64(dstInfo.Size())))
	}
}
