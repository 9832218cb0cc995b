package main

import (
	"fmt"
	"os"

	"github.com/joshuapare/pdbkit/pdb"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <pdb>",
		Short: "Validate a PDB and report its identity",
		Long: `The info command validates the MSF container and the info and DBI
streams, then displays the PDB's identity: GUID, age, signature, version
stamps, target machine, and link flags.

Example:
  pdbctl info app.pdb
  pdbctl info app.pdb --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args)
		},
	}
	return cmd
}

func runInfo(args []string) error {
	path := args[0]

	printVerbose("Opening PDB: %s\n", path)

	f, err := pdb.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open PDB: %w", err)
	}
	defer f.Close()

	info, err := f.Info()
	if err != nil {
		return fmt.Errorf("failed to read info stream: %w", err)
	}
	dbi, err := f.Dbi()
	if err != nil {
		return fmt.Errorf("failed to read DBI stream: %w", err)
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"guid":                 info.GUID().String(),
			"age":                  info.Age(),
			"signature":            info.Signature(),
			"version":              info.Version().String(),
			"dbi_version":          dbi.Version().String(),
			"machine":              dbi.MachineType().String(),
			"build":                fmt.Sprintf("%d.%d", dbi.BuildMajorVersion(), dbi.BuildMinorVersion()),
			"incrementally_linked": dbi.IsIncrementallyLinked(),
			"stripped":             dbi.IsStripped(),
			"modules":              len(dbi.Modules()),
			"source_files":         dbi.NumSourceFiles(),
			"streams":              f.MSF().StreamCount(),
			"block_size":           f.MSF().BlockSize(),
		})
	}

	printInfo("\nPDB Information:\n")
	printInfo("  File: %s\n", path)
	if stat, err := os.Stat(path); err == nil {
		printInfo("  Size: %d bytes\n", stat.Size())
	}
	printInfo("  GUID: %s\n", info.GUID())
	printInfo("  Age: %d\n", info.Age())
	printInfo("  Signature: 0x%08X\n", info.Signature())
	printInfo("  Version: %s\n", info.Version())
	printInfo("\nDBI:\n")
	printInfo("  Version: %s\n", dbi.Version())
	printInfo("  Machine: %s\n", dbi.MachineType())
	printInfo("  Toolchain: %d.%d\n", dbi.BuildMajorVersion(), dbi.BuildMinorVersion())
	printInfo("  Incrementally linked: %v\n", dbi.IsIncrementallyLinked())
	printInfo("  Stripped: %v\n", dbi.IsStripped())
	printInfo("  Modules: %d\n", len(dbi.Modules()))
	printInfo("  Source files: %d\n", dbi.NumSourceFiles())
	printInfo("\nContainer:\n")
	printInfo("  Streams: %d\n", f.MSF().StreamCount())
	printInfo("  Block size: %d\n", f.MSF().BlockSize())

	return nil
}
