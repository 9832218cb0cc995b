package main

import (
	"fmt"

	"github.com/joshuapare/pdbkit/pdb"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newSectionsCmd())
}

func newSectionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sections <pdb>",
		Short: "List the image's COFF section headers",
		Long: `The sections command lists the COFF section headers stored in the DBI's
section header debug stream.

Example:
  pdbctl sections app.pdb
  pdbctl sections app.pdb --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSections(args)
		},
	}
	return cmd
}

func runSections(args []string) error {
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
	sections := dbi.SectionHeaders()

	if jsonOut {
		type sectionEntry struct {
			Index           int    `json:"index"`
			Name            string `json:"name"`
			VirtualAddress  uint32 `json:"virtual_address"`
			VirtualSize     uint32 `json:"virtual_size"`
			RawDataSize     uint32 `json:"raw_data_size"`
			Characteristics uint32 `json:"characteristics"`
		}
		entries := make([]sectionEntry, 0, len(sections))
		for i, s := range sections {
			entries = append(entries, sectionEntry{
				Index:           i + 1,
				Name:            s.NameString(),
				VirtualAddress:  s.VirtualAddress,
				VirtualSize:     s.VirtualSize,
				RawDataSize:     s.SizeOfRawData,
				Characteristics: s.Characteristics,
			})
		}
		return printJSON(map[string]interface{}{
			"file":     path,
			"sections": entries,
		})
	}

	printInfo("\nSections (%d):\n", len(sections))
	for i, s := range sections {
		printInfo("  %4d  %-8s  VA 0x%08X  size %d  chars 0x%08X\n",
			i+1, s.NameString(), s.VirtualAddress, s.VirtualSize, s.Characteristics)
	}
	return nil
}
