// Package types defines the shared public types for reading Microsoft
// program database (PDB) files: typed errors with stable categories,
// well-known stream numbers, format version enums, and the decoded record
// structs surfaced by the higher-level packages.
//
// Design goals:
//   - Small, copyable value types instead of large object graphs.
//   - Paranoid bounds checking in the decoders; never panic on malformed input.
//   - Typed errors with stable categories (format/corrupt/unsupported/...).
//
// This package has no dependencies beyond the standard library.
package types
