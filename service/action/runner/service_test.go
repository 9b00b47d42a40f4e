package runner

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInput_Init(t *testing.T) {
	var testCases = []struct {
		description string
		input       Input
		expectHost  string
		expect      []string
	}{
		{
			description: "script split into commands",
			input:       Input{Script: "echo one\n\n  echo two  \n"},
			expectHost:  "ssh://localhost/",
			expect:      []string{"echo one", "echo two"},
		},
		{
			description: "explicit commands win over script",
			input:       Input{Script: "echo ignored", Commands: []string{"echo kept"}},
			expectHost:  "ssh://localhost/",
			expect:      []string{"echo kept"},
		},
		{
			description: "host preserved",
			input:       Input{Host: &Host{URL: "ssh://db1.example.com/"}, Script: "uptime"},
			expectHost:  "ssh://db1.example.com/",
			expect:      []string{"uptime"},
		},
	}

	for _, testCase := range testCases {
		testCase.input.Init()
		assert.Equal(t, testCase.expectHost, testCase.input.Host.URL, testCase.description)
		assert.Equal(t, testCase.expect, testCase.input.Commands, testCase.description)
	}
}

func TestInput_Validate(t *testing.T) {
	input := &Input{}
	input.Init()
	assert.Error(t, input.Validate())
	input.Commands = []string{"ls"}
	assert.NoError(t, input.Validate())
}

func TestHost_IsLocal(t *testing.T) {
	assert.True(t, (&Host{URL: "ssh://localhost/"}).IsLocal())
	assert.False(t, (&Host{URL: "ssh://db1.example.com/"}).IsLocal())
}

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("no shell available")
	}
}

func TestService_Execute(t *testing.T) {
	requireShell(t)
	service := New()
	defer func() { _ = service.Close(context.Background()) }()

	output := &Output{}
	err := service.Execute(context.Background(), &Input{Script: "echo batch-ok"}, output)
	require.NoError(t, err)
	assert.Contains(t, output.Stdout, "batch-ok")
	assert.Equal(t, 0, output.Status)
	require.Len(t, output.Commands, 1)
	assert.Equal(t, "echo batch-ok", output.Commands[0].Input)
}

func TestService_Execute_abortOnError(t *testing.T) {
	requireShell(t)
	service := New()
	defer func() { _ = service.Close(context.Background()) }()

	output := &Output{}
	err := service.Execute(context.Background(), &Input{
		Commands: []string{"false", "echo never-reached"},
	}, output)
	require.NoError(t, err)
	assert.NotEqual(t, 0, output.Status)
	assert.Len(t, output.Commands, 1, "batch should stop at the first failure")
	assert.NotContains(t, output.Stdout, "never-reached")
}
