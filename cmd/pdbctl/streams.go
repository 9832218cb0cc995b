package main

import (
	"fmt"

	"github.com/joshuapare/pdbkit/pdb"
	"github.com/joshuapare/pdbkit/pkg/types"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newStreamsCmd())
}

func newStreamsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "streams <pdb>",
		Short: "List the streams in the MSF container",
		Long: `The streams command lists every stream in the MSF container with its
size. Fixed streams and the DBI's debug streams are labeled; named streams
are resolved through the info stream's named stream map.

Example:
  pdbctl streams app.pdb
  pdbctl streams app.pdb --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStreams(args)
		},
	}
	return cmd
}

func runStreams(args []string) error {
	path := args[0]

	printVerbose("Opening PDB: %s\n", path)

	f, err := pdb.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open PDB: %w", err)
	}
	defer f.Close()

	labels := streamLabels(f)

	blockSize := f.MSF().BlockSize()
	type streamEntry struct {
		Index  uint32 `json:"index"`
		Size   uint32 `json:"size"`
		Blocks uint32 `json:"blocks"`
		Label  string `json:"label,omitempty"`
	}
	entries := make([]streamEntry, 0, f.MSF().StreamCount())
	for i := uint32(0); i < f.MSF().StreamCount(); i++ {
		size, err := f.MSF().StreamSize(i)
		if err != nil {
			return fmt.Errorf("failed to size stream %d: %w", i, err)
		}
		entries = append(entries, streamEntry{
			Index:  i,
			Size:   size,
			Blocks: (size + blockSize - 1) / blockSize,
			Label:  labels[i],
		})
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"file":    path,
			"streams": entries,
		})
	}

	printInfo("\nStreams (%d):\n", len(entries))
	for _, e := range entries {
		if e.Label != "" {
			printInfo("  %4d  %10d bytes  %4d blocks  %s\n", e.Index, e.Size, e.Blocks, e.Label)
		} else {
			printInfo("  %4d  %10d bytes  %4d blocks\n", e.Index, e.Size, e.Blocks)
		}
	}
	return nil
}

// streamLabels maps stream numbers to human-readable roles: the fixed MSF
// streams, the named streams from the info stream, and the symbol and debug
// streams registered by the DBI. Later sources win on collision.
func streamLabels(f *pdb.File) map[uint32]string {
	labels := map[uint32]string{
		types.StreamOldDirectory: "old directory",
		types.StreamPDB:          "PDB info",
		types.StreamTPI:          "TPI",
		types.StreamDBI:          "DBI",
		types.StreamIPI:          "IPI",
	}
	info, err := f.Info()
	if err != nil {
		return labels
	}
	for _, name := range []string{"/names", "/LinkInfo", "/src/headerblock"} {
		if idx, ok := info.NamedStreamIndex(name); ok {
			labels[idx] = name
		}
	}
	dbi, err := f.Dbi()
	if err != nil {
		return labels
	}
	if s := dbi.GlobalSymbolStreamIndex(); s.Valid() {
		labels[uint32(s)] = "global symbols"
	}
	if s := dbi.PublicSymbolStreamIndex(); s.Valid() {
		labels[uint32(s)] = "public symbols"
	}
	if s := dbi.SymRecordStreamIndex(); s.Valid() {
		labels[uint32(s)] = "symbol records"
	}
	for kind := types.DbgStreamKind(0); kind < types.DbgKindCount; kind++ {
		if s := dbi.DebugStreamIndex(kind); s.Valid() {
			labels[uint32(s)] = fmt.Sprintf("debug %s", kind)
		}
	}
	return labels
}
