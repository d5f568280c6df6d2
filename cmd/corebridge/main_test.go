package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRootCommands(t *testing.T) {
	root := buildRoot()
	require.NotNil(t, root)
	assert.Equal(t, "corebridge", root.Use)

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"serve", "status", "start", "stop", "exit", "shutdown"} {
		assert.Contains(t, names, want)
	}
}

func TestClientCommandsFailWithoutDaemon(t *testing.T) {
	flags := &ClientFlags{APIUrl: "http://127.0.0.1:1/api"}
	require.Error(t, runStatus(flags))
	require.Error(t, runSignal(flags, "start"))
}

func TestRunSignalRejectsUnknown(t *testing.T) {
	flags := &ClientFlags{APIUrl: "http://127.0.0.1:1/api"}
	require.Error(t, runSignal(flags, "bogus"))
}
