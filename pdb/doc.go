// Package pdb is the public API for reading Microsoft program database
// (PDB) files. A File wraps the MSF container and exposes the parsed info
// stream and DBI (debug info) stream: module records with their resolved
// source file names, section contributions, the section map, COFF section
// headers, and FPO records.
//
// Parsing is a single strict pass: every structural invariant the format
// declares is checked, unreliable declared counts are recomputed from the
// data itself, and the first violation aborts with a typed error from
// pkg/types. Parsed streams are immutable; a File's accessors may be shared
// between goroutines once parsing has completed.
package pdb
