package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "users-api dev (commit none)\n", out.String())
}

func TestMigrateCommand_ArgValidation(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "no command", args: []string{"migrate"}, wantErr: "migration command required"},
		{name: "unknown command", args: []string{"migrate", "sideways"}, wantErr: "unknown migration command"},
		{name: "create without name", args: []string{"migrate", "create"}, wantErr: "exactly one migration name"},
		{name: "up with extra args", args: []string{"migrate", "up", "now"}, wantErr: "takes no arguments"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cmd := newRootCmd()
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs(tc.args)

			err := cmd.Execute()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmd := newRootCmd()

	for _, name := range []string{"serve", "migrate", "version"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}

	assert.NotNil(t, cmd.Flags().Lookup("migrate"))
}
