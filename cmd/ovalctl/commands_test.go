package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestVariantsCmd(t *testing.T) {
	out, _, err := run(t, "variants", "--kind", "object")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "FAMILY"))
	assert.Contains(t, out, "file_object")
	assert.NotContains(t, out, "file_state")

	_, _, err = run(t, "variants", "--kind", "widget")
	assert.ErrorContains(t, err, `unknown kind "widget"`)
}

func TestPropertiesCmdJSON(t *testing.T) {
	out, _, err := run(t, "--json", "properties", "file_object")
	require.NoError(t, err)

	var rows []propertyRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.NotEmpty(t, rows)
	assert.Equal(t, "path", rows[0].Name)
	assert.Equal(t, "EntityObjectStringType", string(rows[0].Wrapper))

	_, _, err = run(t, "properties", "widget_object")
	assert.Error(t, err)
}

func TestClassifyCmd(t *testing.T) {
	out, errOut, err := run(t, "classify", "file_object", "path")
	require.NoError(t, err)
	assert.Equal(t, "EntityObjectStringType\n", out)
	assert.Empty(t, errOut)

	_, errOut, err = run(t, "classify", "file_object", "filname")
	require.NoError(t, err)
	assert.Contains(t, errOut, `file_object has no property "filname"`)

	_, _, err = run(t, "classify", "file_test", "path")
	assert.ErrorContains(t, err, "only objects and states")
}
