package main

import (
	"reflect"
	"testing"

	"github.com/mverbist/comsof-validate/internal/core"
)

func TestParseCommonFlags(t *testing.T) {
	tests := []struct {
		name          string
		args          []string
		wantFlags     core.NonInteractiveFlags
		wantRemaining []string
	}{
		{
			name:          "no flags",
			args:          []string{"export.zip"},
			wantFlags:     core.NonInteractiveFlags{},
			wantRemaining: []string{"export.zip"},
		},
		{
			name:          "yes and quiet",
			args:          []string{"--yes", "-q", "export.zip"},
			wantFlags:     core.NonInteractiveFlags{Yes: true, Mode: core.OutputQuiet},
			wantRemaining: []string{"export.zip"},
		},
		{
			name:          "json mode with command flags preserved",
			args:          []string{"--json", "export.zip", "--checks", "OSC Duplicates Check"},
			wantFlags:     core.NonInteractiveFlags{Mode: core.OutputJSON},
			wantRemaining: []string{"export.zip", "--checks", "OSC Duplicates Check"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags, remaining := parseCommonFlags(tt.args)
			if flags != tt.wantFlags {
				t.Errorf("flags = %+v, want %+v", flags, tt.wantFlags)
			}
			if !reflect.DeepEqual(remaining, tt.wantRemaining) {
				t.Errorf("remaining = %v, want %v", remaining, tt.wantRemaining)
			}
		})
	}
}

func TestSplitChecks(t *testing.T) {
	ui := &core.SilentUICallback{}

	got := splitChecks("OSC Duplicates Check, Splice Count Report ,", ui)
	want := []string{"OSC Duplicates Check", "Splice Count Report"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitChecks = %v, want %v", got, want)
	}

	// Unknown names are warned about but still forwarded.
	got = splitChecks("Totally Custom Check", ui)
	if len(got) != 1 || got[0] != "Totally Custom Check" {
		t.Errorf("splitChecks = %v, want the unknown name forwarded", got)
	}
}
