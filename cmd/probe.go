// Copyright 2026 Zapress Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"
	"runtime"
	"text/tabwriter"

	"github.com/LeeDigitalWorks/zapress/pkg/codec"
	"github.com/LeeDigitalWorks/zapress/pkg/cputopo"
	"github.com/LeeDigitalWorks/zapress/pkg/digest"

	"github.com/spf13/cobra"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Show detected backends, digests and CPU topology",
	Run:   runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, args []string) {
	info := VersionInfo()
	fmt.Printf("Zapress %s (commit %s, %s)\n", info["version"], info["git_commit"], info["go_version"])
	fmt.Printf("CPU: %d physical cores, %d logical (%s/%s)\n\n",
		cputopo.Physical(), cputopo.Logical(), runtime.GOOS, runtime.GOARCH)

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)

	fmt.Fprintln(w, "CODEC\tTOOL\tPATH\tENCODE\tDECODE\tPARALLEL")
	for _, b := range codec.Backends() {
		path := b.Path
		if b.Internal() {
			path = "(built-in)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			b.Codec, b.Tool, path,
			yesNo(b.CanEncode), yesNo(b.CanDecode), parallelDesc(b))
	}
	w.Flush()

	fmt.Println()
	fmt.Fprintln(w, "DIGEST\tIMPL\tSIZE\tCONCURRENT")
	for _, k := range digest.Kinds() {
		d, err := digest.Resolve(k)
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", k, d.Source, d.Size, yesNo(d.Concurrent))
	}
	w.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func parallelDesc(b *codec.Backend) string {
	switch {
	case b.ParallelDecode:
		return "encode+decode"
	case b.ParallelDecodeOwn && b.ParallelEncode:
		return "encode+own-decode"
	case b.ParallelEncode:
		return "encode"
	default:
		return "no"
	}
}
