package input

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_ask(t *testing.T) {
	testCases := []struct {
		description string
		input       *AskInput
		keystrokes  string
		expected    string
	}{
		{
			description: "free form answer",
			input:       &AskInput{Message: "Your name?", Default: "anon"},
			keystrokes:  "Bob\n",
			expected:    "Bob",
		},
		{
			description: "empty answer falls back to default",
			input:       &AskInput{Message: "Your city?", Default: "NYC"},
			keystrokes:  "\n",
			expected:    "NYC",
		},
		{
			description: "answer is trimmed",
			input:       &AskInput{Message: "Branch?"},
			keystrokes:  "  main  \n",
			expected:    "main",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			out := new(strings.Builder)
			service := NewWithIO(strings.NewReader(testCase.keystrokes), out)
			executable, err := service.Method("ask")
			require.NoError(t, err)

			output := &AskOutput{}
			require.NoError(t, executable(context.Background(), testCase.input, output))
			assert.Equal(t, testCase.expected, output.Text)
			assert.Contains(t, out.String(), testCase.input.Message)
		})
	}
}

func TestService_form(t *testing.T) {
	testCases := []struct {
		description string
		input       *FormInput
		keystrokes  string
		expected    map[string]string
	}{
		{
			description: "free field plus option by index",
			input: &FormInput{
				Message: "Account setup",
				Fields: []Field{
					{Label: "username", Name: "user"},
					{Label: "role", Name: "role", Options: []string{"admin", "viewer"}},
				},
			},
			keystrokes: "alice\n1\n",
			expected:   map[string]string{"user": "alice", "role": "admin"},
		},
		{
			description: "option by value",
			input: &FormInput{
				Fields: []Field{{Label: "theme", Options: []string{"dark", "light"}}},
			},
			keystrokes: "light\n",
			expected:   map[string]string{"theme": "light"},
		},
		{
			description: "empty answer picks the field default",
			input: &FormInput{
				Fields: []Field{{Label: "theme", Options: []string{"dark", "light"}, Default: "light"}},
			},
			keystrokes: "\n",
			expected:   map[string]string{"theme": "light"},
		},
		{
			description: "no fields yields empty values",
			input:       &FormInput{Message: "nothing to collect"},
			keystrokes:  "",
			expected:    map[string]string{},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			service := NewWithIO(strings.NewReader(testCase.keystrokes), new(strings.Builder))
			executable, err := service.Method("form")
			require.NoError(t, err)

			output := &FormOutput{}
			require.NoError(t, executable(context.Background(), testCase.input, output))
			assert.EqualValues(t, testCase.expected, output.Values)
		})
	}
}

func TestService_signatures(t *testing.T) {
	service := New()
	assert.Equal(t, Name, service.Name())

	_, err := service.Method("review")
	assert.Error(t, err)

	signatures := service.Methods()
	byName := map[string]int{}
	for i := range signatures {
		byName[signatures[i].Name] = i
	}
	require.Contains(t, byName, "ask")
	require.Contains(t, byName, "form")

	ask := signatures[byName["ask"]]
	require.NotEmpty(t, ask.Args)
	assert.Equal(t, "message", ask.Args[0].Name)
	assert.True(t, ask.Args[0].Required)
	assert.Equal(t, reflect.TypeOf(&AskInput{}), ask.Input)

	// form fields are structured, so the method is not wire-callable
	form := signatures[byName["form"]]
	assert.Empty(t, form.Args)
}
