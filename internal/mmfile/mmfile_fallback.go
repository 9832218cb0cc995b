//go:build !unix

// Package mmfile provides platform-specific helpers for memory-mapping PDB files.
package mmfile

import "os"

// Map reads the entire file where mmap is not wired up (Windows included).
// PDBs are small enough that the copy is acceptable; cleanup is a no-op.
func Map(path string) ([]byte, func() error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, func() error { return nil }, err
	}
	return data, func() error { return nil }, nil
}
