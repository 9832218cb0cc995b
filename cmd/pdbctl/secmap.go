package main

import (
	"fmt"

	"github.com/joshuapare/pdbkit/pdb"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newSecmapCmd())
}

func newSecmapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secmap <pdb>",
		Short: "List the DBI section map descriptors",
		Long: `The secmap command lists the OMF-style segment descriptors from the
DBI's section map substream, used to translate section:offset addresses.

Example:
  pdbctl secmap app.pdb
  pdbctl secmap app.pdb --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSecmap(args)
		},
	}
	return cmd
}

func runSecmap(args []string) error {
	path := args[0]

	printVerbose("Opening PDB: %s\n", path)

	f, err := pdb.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open PDB: %w", err)
	}
	defer f.Close()

	dbi, err := f.Dbi()
	if err != nil {
		return fmt.Errorf("failed to read DBI stream: %w", err)
	}
	entries := dbi.SectionMap()

	if jsonOut {
		type secmapEntry struct {
			Index  int    `json:"index"`
			Flags  uint16 `json:"flags"`
			Frame  uint16 `json:"frame"`
			Offset uint32 `json:"offset"`
			Length uint32 `json:"length"`
		}
		out := make([]secmapEntry, 0, len(entries))
		for i, e := range entries {
			out = append(out, secmapEntry{
				Index:  i + 1,
				Flags:  e.Flags,
				Frame:  e.Frame,
				Offset: e.Offset,
				Length: e.SectionLength,
			})
		}
		return printJSON(map[string]interface{}{
			"file":    path,
			"entries": out,
		})
	}

	printInfo("\nSection map (%d entries):\n", len(entries))
	for i, e := range entries {
		printInfo("  %4d  flags 0x%04X  frame %d  offset 0x%08X  length 0x%08X\n",
			i+1, e.Flags, e.Frame, e.Offset, e.SectionLength)
	}
	return nil
}
