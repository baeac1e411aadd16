package version

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	cmd := NewVersionCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "Core Version: vunknown\n")
	assert.Contains(t, out.String(), "  linux.disk\n")
	assert.Contains(t, out.String(), "Build Time: unknown\n")
}

func TestVersionCommandJSON(t *testing.T) {
	cmd := NewVersionCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--json"})
	require.NoError(t, cmd.Execute())
	asJSON = false

	var got CoreVersions
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "unknown", got.Versions.Version)
	assert.Equal(t, "linux.disk", got.Checks[0])
}
