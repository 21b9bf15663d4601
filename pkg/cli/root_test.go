package cli

import (
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/imagewatch/lineage-exporter/pkg/defaults"
	"github.com/imagewatch/lineage-exporter/pkg/serializer"
)

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		wantErr bool
	}{
		{name: "valid yaml format", format: "yaml"},
		{name: "valid json format", format: "json"},
		{name: "valid table format", format: "table"},
		{name: "invalid format xml", format: "xml", wantErr: true},
		{name: "invalid format empty", format: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := serializer.Format(tt.format).IsUnknown()
			if got != tt.wantErr {
				t.Errorf("IsUnknown(%q) = %v, want %v", tt.format, got, tt.wantErr)
			}
		})
	}
}

func flagNames(cmd *cli.Command) map[string]bool {
	names := make(map[string]bool)
	for _, f := range cmd.Flags {
		for _, n := range f.Names() {
			names[n] = true
		}
	}
	return names
}

func TestServeCmdFlags(t *testing.T) {
	cmd := serveCmd()
	if cmd.Name != "serve" {
		t.Errorf("Name = %q, want serve", cmd.Name)
	}

	names := flagNames(cmd)
	for _, want := range []string{"interval", "namespace", "port", "kubeconfig", "log-level"} {
		if !names[want] {
			t.Errorf("serve command missing flag %q", want)
		}
	}
}

func TestCollectCmdFlags(t *testing.T) {
	cmd := collectCmd()
	if cmd.Name != "collect" {
		t.Errorf("Name = %q, want collect", cmd.Name)
	}

	names := flagNames(cmd)
	for _, want := range []string{"namespace", "kubeconfig", "output", "format", "log-level"} {
		if !names[want] {
			t.Errorf("collect command missing flag %q", want)
		}
	}
}

func TestIntervalFlagDefault(t *testing.T) {
	if intervalFlag.Value != defaults.CollectionInterval {
		t.Errorf("interval default = %v, want %v", intervalFlag.Value, defaults.CollectionInterval)
	}
}
