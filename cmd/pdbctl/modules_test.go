package main

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestModulesCommand(t *testing.T) {
	tests := []struct {
		name           string
		files          bool
		wantJSON       bool
		wantContain    []string
		wantNotContain []string
	}{
		{
			name:           "modules",
			wantContain:    []string{"Modules (2):", "main.obj", "util.obj", "lib\\util.lib"},
			wantNotContain: []string{"main.c"},
		},
		{
			name:        "modules with files",
			files:       true,
			wantContain: []string{"main.obj", "main.c", "util.c"},
		},
		{
			name:        "modules as JSON",
			files:       true,
			wantJSON:    true,
			wantContain: []string{"main.obj", "source_files"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset flags
			quiet = false
			verbose = false
			jsonOut = tt.wantJSON
			modulesFiles = tt.files

			output, err := captureOutput(t, func() error {
				return runModules([]string{testPdbPath(t, "mini.pdb")})
			})
			if err != nil {
				t.Fatalf("runModules() error = %v", err)
			}

			if tt.wantJSON {
				assertJSON(t, output)
			}
			assertContains(t, output, tt.wantContain)
			for _, dont := range tt.wantNotContain {
				if strings.Contains(output, dont) {
					t.Errorf("output contains unwanted string %q\nGot: %s", dont, output)
				}
			}
		})
	}
}

func TestContribsCommandJSON(t *testing.T) {
	quiet = false
	verbose = false
	jsonOut = true
	contribsLimit = 0

	output, err := captureOutput(t, func() error {
		return runContribs([]string{testPdbPath(t, "mini.pdb")})
	})
	if err != nil {
		t.Fatalf("runContribs() error = %v", err)
	}
	assertJSON(t, output)

	var result struct {
		Total         int `json:"total"`
		Contributions []struct {
			Section int `json:"section"`
			Size    int `json:"size"`
			Module  int `json:"module"`
		} `json:"contributions"`
	}
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if result.Total != 2 || len(result.Contributions) != 2 {
		t.Fatalf("total = %d, listed = %d, want 2/2", result.Total, len(result.Contributions))
	}
	if result.Contributions[1].Module != 1 || result.Contributions[1].Size != 0x20 {
		t.Errorf("unexpected second contribution: %+v", result.Contributions[1])
	}
}

func TestContribsCommandLimit(t *testing.T) {
	quiet = false
	verbose = false
	jsonOut = false
	contribsLimit = 1

	output, err := captureOutput(t, func() error {
		return runContribs([]string{testPdbPath(t, "mini.pdb")})
	})
	if err != nil {
		t.Fatalf("runContribs() error = %v", err)
	}
	assertContains(t, output, []string{"Section contributions (2):", "... 1 more"})
}

func TestSectionsCommand(t *testing.T) {
	quiet = false
	verbose = false
	jsonOut = false

	output, err := captureOutput(t, func() error {
		return runSections([]string{testPdbPath(t, "mini.pdb")})
	})
	if err != nil {
		t.Fatalf("runSections() error = %v", err)
	}
	assertContains(t, output, []string{"Sections (2):", ".text", ".data", "VA 0x00002000"})
}

func TestSecmapCommand(t *testing.T) {
	quiet = false
	verbose = false
	jsonOut = false

	output, err := captureOutput(t, func() error {
		return runSecmap([]string{testPdbPath(t, "mini.pdb")})
	})
	if err != nil {
		t.Fatalf("runSecmap() error = %v", err)
	}
	assertContains(t, output, []string{"Section map (1 entries):", "flags 0x010D", "length 0x00001000"})
}
