package main

import (
	"encoding/json"
	"testing"
)

func TestInfoCommand(t *testing.T) {
	tests := []struct {
		name        string
		wantJSON    bool
		wantContain []string
	}{
		{
			name: "info text",
			wantContain: []string{
				"{A3A2A1A0-A5A4-A7A6-A8A9-AAABACADAEAF}",
				"Age: 3",
				"Machine: x64",
				"Modules: 2",
				"Source files: 2",
				"Block size: 512",
			},
		},
		{
			name:     "info as JSON",
			wantJSON: true,
			wantContain: []string{
				"A3A2A1A0",
				"\"age\": 3",
				"\"modules\": 2",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset flags
			quiet = false
			verbose = false
			jsonOut = tt.wantJSON

			args := []string{testPdbPath(t, "mini.pdb")}

			output, err := captureOutput(t, func() error {
				return runInfo(args)
			})
			if err != nil {
				t.Fatalf("runInfo() error = %v", err)
			}

			if tt.wantJSON {
				assertJSON(t, output)
			}
			assertContains(t, output, tt.wantContain)
		})
	}
}

func TestInfoCommandMissingFile(t *testing.T) {
	quiet = true
	jsonOut = false

	_, err := captureOutput(t, func() error {
		return runInfo([]string{"testdata/does-not-exist.pdb"})
	})
	if err == nil {
		t.Fatal("runInfo() expected error for missing file")
	}
}

func TestStreamsCommand(t *testing.T) {
	quiet = false
	verbose = false
	jsonOut = false

	output, err := captureOutput(t, func() error {
		return runStreams([]string{testPdbPath(t, "mini.pdb")})
	})
	if err != nil {
		t.Fatalf("runStreams() error = %v", err)
	}
	assertContains(t, output, []string{
		"Streams (6):",
		"PDB info",
		"DBI",
		"debug SectionHdr",
	})
}

func TestStreamsCommandJSON(t *testing.T) {
	quiet = false
	verbose = false
	jsonOut = true

	output, err := captureOutput(t, func() error {
		return runStreams([]string{testPdbPath(t, "mini.pdb")})
	})
	if err != nil {
		t.Fatalf("runStreams() error = %v", err)
	}
	assertJSON(t, output)

	var result struct {
		Streams []struct {
			Index uint32 `json:"index"`
			Size  uint32 `json:"size"`
			Label string `json:"label"`
		} `json:"streams"`
	}
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(result.Streams) != 6 {
		t.Fatalf("streams = %d, want 6", len(result.Streams))
	}
	if result.Streams[3].Label != "DBI" {
		t.Errorf("stream 3 label = %q, want DBI", result.Streams[3].Label)
	}
	if result.Streams[5].Size != 80 { // two 40-byte COFF headers
		t.Errorf("stream 5 size = %d, want 80", result.Streams[5].Size)
	}
}
