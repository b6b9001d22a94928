// Copyright 2026 Zapress Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/LeeDigitalWorks/zapress/pkg/codec"
	"github.com/LeeDigitalWorks/zapress/pkg/logger"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var compressCmd = &cobra.Command{
	Use:   "compress <source> [target]",
	Short: "Compress a file",
	Long: `Compress a file with the chosen codec. When target is omitted the
codec's extension is appended to the source path. Parallel external tools
are preferred with --parallel; worker count defaults to physical cores.`,
	Args: cobra.RangeArgs(1, 2),
	Run:  runCompress,
}

func init() {
	rootCmd.AddCommand(compressCmd)

	f := compressCmd.Flags()
	f.StringP("codec", "c", "", "Codec (bzip2, gzip, xz, lz4, zstd); inferred from target extension when omitted")
	f.IntP("level", "l", 0, "Compression level (codec-specific, 0 = tool default)")
	f.Bool("keep", true, "Keep the source file after compression")
}

func runCompress(cmd *cobra.Command, args []string) {
	fl := NewFlagLoader(cmd)
	src := args[0]

	c := codec.ParseCodec(fl.String("codec"))
	target := ""
	if len(args) == 2 {
		target = args[1]
		if c == codec.None {
			c = codec.DetectFromPath(target)
		}
	}
	if c == codec.None {
		logger.Fatal().Str("source", src).Msg("codec not given and not inferable from target")
	}
	if target == "" {
		target = src + c.Extension()
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
	if level := fl.Int("level"); level > 0 {
		opts = append(opts, codec.WithLevel(level))
	}

	start := time.Now()
	if err := codec.CompressFile(cmd.Context(), c, in, target, opts...); err != nil {
		logger.Fatal().Err(err).Str("codec", c.String()).Str("target", target).Msg("compression failed")
	}
	elapsed := time.Since(start)

	srcInfo, _ := os.Stat(src)
	dstInfo, _ := os.Stat(target)
	if srcInfo != nil && dstInfo != nil {
		logger.Info().
			Str("codec", c.String()).
			Str("in", humanize.IBytes(uint64(srcInfo.Size()))).
			Str("out", humanize.IBytes(uint64(dstInfo.Size()))).
			Dur("elapsed", elapsed).
			Msg("compressed")
		fmt.Printf("%s -> %s (%s -> %s, %.1f%%)\n",
			src, target,
			humanize.IBytes(uint64(srcInfo.Size())),
			humanize.IBytes(uint64(dstInfo.Size())),
			ratio(srcInfo.Size(), dstInfo.Size()))
	}

	if !fl.Bool("keep") {
		if err := os.Remove(src); err != nil {
			logger.Error().Err(err).Str("source", src).Msg("failed to remove source")
		}
	}
}

// ratio returns the output size as a percentage of the input size.
func ratio(in, out int64) float64 {
	if in == 0 {
		return 0
	}
	return float64(out) / float64(in) * 100
}
