package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	color.NoColor = true

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
	}{
		{name: "amazon at limit", args: []string{"-customer", "Amazon", "-discount", "15"}, wantCode: exitApproved, wantStdout: "APPROVED"},
		{name: "tesla above limit", args: []string{"-customer", "Tesla", "-discount", "5"}, wantCode: exitRejected, wantStdout: "REJECTED"},
		{name: "default customer", args: []string{"-discount", "3"}, wantCode: exitApproved, wantStdout: "Amazon"},
		{name: "missing discount", args: []string{"-customer", "Amazon"}, wantCode: exitError},
		{name: "out of range discount", args: []string{"-customer", "Amazon", "-discount", "150"}, wantCode: exitError},
		{name: "unknown customer", args: []string{"-customer", "Nobody", "-discount", "1"}, wantCode: exitError},
		{name: "bad flag", args: []string{"-nope"}, wantCode: exitError},
		{name: "list", args: []string{"-list"}, wantCode: exitApproved, wantStdout: "Tesla"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(tt.args, &stdout, &stderr)
			assert.Equal(t, tt.wantCode, code, stderr.String())
			if tt.wantStdout != "" {
				assert.Contains(t, stdout.String(), tt.wantStdout)
			}
		})
	}
}

func TestRun_CatalogFile(t *testing.T) {
	color.NoColor = true

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`customers:
  - name: Initech
    risk_tier: High
    discount_limit_percent: 10
  - name: Umbrella
    risk_tier: Extreme
`), 0o600))

	var stdout, stderr bytes.Buffer
	assert.Equal(t, exitApproved, run([]string{"-catalog", path, "-customer", "Initech", "-discount", "8"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "explicit")

	stdout.Reset()
	assert.Equal(t, exitError, run([]string{"-catalog", path, "-customer", "Umbrella", "-discount", "1"}, &stdout, &stderr))
}
