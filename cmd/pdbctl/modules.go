package main

import (
	"fmt"

	"github.com/joshuapare/pdbkit/pdb"
	"github.com/spf13/cobra"
)

var modulesFiles bool

func init() {
	cmd := newModulesCmd()
	cmd.Flags().BoolVarP(&modulesFiles, "files", "f", false, "List each module's source files")
	rootCmd.AddCommand(cmd)
}

func newModulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "modules <pdb>",
		Short: "List the modules recorded in the DBI stream",
		Long: `The modules command lists every compiled module in link order, with its
object file and symbol stream. With --files, each module's source files are
listed as well.

Example:
  pdbctl modules app.pdb
  pdbctl modules app.pdb --files
  pdbctl modules app.pdb --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModules(args)
		},
	}
	return cmd
}

func runModules(args []string) error {
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
	mods := dbi.Modules()

	if jsonOut {
		type moduleEntry struct {
			Index       int      `json:"index"`
			Name        string   `json:"name"`
			ObjFile     string   `json:"obj_file"`
			SymStream   int      `json:"sym_stream"`
			SourceFiles []string `json:"source_files,omitempty"`
		}
		entries := make([]moduleEntry, 0, len(mods))
		for i, m := range mods {
			e := moduleEntry{
				Index:     i,
				Name:      m.Name(),
				ObjFile:   m.ObjFileName(),
				SymStream: -1,
			}
			if m.SymStream().Valid() {
				e.SymStream = int(m.SymStream())
			}
			if modulesFiles {
				e.SourceFiles = m.SourceFiles()
			}
			entries = append(entries, e)
		}
		return printJSON(map[string]interface{}{
			"file":    path,
			"modules": entries,
		})
	}

	printInfo("\nModules (%d):\n", len(mods))
	for i, m := range mods {
		printInfo("  %4d  %s\n", i, m.Name())
		if m.ObjFileName() != m.Name() {
			printInfo("        from %s\n", m.ObjFileName())
		}
		if m.SymStream().Valid() {
			printVerbose("        symbols: stream %d (%d bytes)\n", m.SymStream(), m.SymByteSize())
		}
		if modulesFiles {
			for _, src := range m.SourceFiles() {
				printInfo("        %s\n", src)
			}
		}
	}
	return nil
}
