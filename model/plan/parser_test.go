package plan

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		description string
		input       string
		expected    *Call
		expectedErr error
		shouldError bool
	}{
		{
			description: "single double-quoted argument",
			input:       `create_terminal(name="build")`,
			expected: &Call{
				Name: "create_terminal",
				Args: map[string]string{"name": "build"},
				Raw:  `create_terminal(name="build")`,
			},
		},
		{
			description: "multiple arguments with mixed quote characters",
			input:       `run_command(command="echo hello", terminal_name='build')`,
			expected: &Call{
				Name: "run_command",
				Args: map[string]string{"command": "echo hello", "terminal_name": "build"},
				Raw:  `run_command(command="echo hello", terminal_name='build')`,
			},
		},
		{
			description: "value containing balanced parentheses",
			input:       `run_command(command="echo $(date) (utc)", terminal_name="build")`,
			expected: &Call{
				Name: "run_command",
				Args: map[string]string{"command": "echo $(date) (utc)", "terminal_name": "build"},
				Raw:  `run_command(command="echo $(date) (utc)", terminal_name="build")`,
			},
		},
		{
			description: "triple double-quoted multi-line value kept verbatim",
			input:       "write_to_file(file_path=\"app.py\", content=\"\"\"print(\"hi\")\nprint('there')\"\"\")",
			expected: &Call{
				Name: "write_to_file",
				Args: map[string]string{
					"file_path": "app.py",
					"content":   "print(\"hi\")\nprint('there')",
				},
				Raw: "write_to_file(file_path=\"app.py\", content=\"\"\"print(\"hi\")\nprint('there')\"\"\")",
			},
		},
		{
			description: "triple single-quoted value embeds double quotes unescaped",
			input:       `write_to_file(file_path="a.txt", content='''say "hello"''')`,
			expected: &Call{
				Name: "write_to_file",
				Args: map[string]string{"file_path": "a.txt", "content": `say "hello"`},
				Raw:  `write_to_file(file_path="a.txt", content='''say "hello"''')`,
			},
		},
		{
			description: "backslash escapes decoded in double-quoted value",
			input:       `run_command(command="echo \"a\"\ndone", terminal_name="build")`,
			expected: &Call{
				Name: "run_command",
				Args: map[string]string{"command": "echo \"a\"\ndone", "terminal_name": "build"},
				Raw:  `run_command(command="echo \"a\"\ndone", terminal_name="build")`,
			},
		},
		{
			description: "escaped single quote inside single-quoted value",
			input:       `run_command(command='it\'s fine', terminal_name='build')`,
			expected: &Call{
				Name: "run_command",
				Args: map[string]string{"command": "it's fine", "terminal_name": "build"},
				Raw:  `run_command(command='it\'s fine', terminal_name='build')`,
			},
		},
		{
			description: "empty argument body is a legal zero-argument call",
			input:       `list_terminals()`,
			expected: &Call{
				Name: "list_terminals",
				Args: map[string]string{},
				Raw:  `list_terminals()`,
			},
		},
		{
			description: "whitespace around keys, equals and values",
			input:       "create_terminal( name = \"build\" )",
			expected: &Call{
				Name: "create_terminal",
				Args: map[string]string{"name": "build"},
				Raw:  "create_terminal( name = \"build\" )",
			},
		},
		{
			description: "unmatched open parenthesis",
			input:       `run_command(command="echo hello"`,
			shouldError: true,
			expectedErr: ErrMismatchedDelimiters,
		},
		{
			description: "non-empty body with nothing parseable",
			input:       `run_command(echo hello)`,
			shouldError: true,
			expectedErr: ErrNoArgumentsParsed,
		},
		{
			description: "unquoted value yields no arguments",
			input:       `run_command(command=ls)`,
			shouldError: true,
			expectedErr: ErrNoArgumentsParsed,
		},
		{
			description: "missing call name",
			input:       `(command="ls")`,
			shouldError: true,
		},
		{
			description: "name without parenthesis",
			input:       `run_command`,
			shouldError: true,
		},
		{
			description: "two consecutive quote characters inside a triple-quoted value survive",
			input:       `write_to_file(file_path="a.txt", content="""one""two""")`,
			expected: &Call{
				Name: "write_to_file",
				Args: map[string]string{"file_path": "a.txt", "content": `one""two`},
				Raw:  `write_to_file(file_path="a.txt", content="""one""two""")`,
			},
		},
		{
			description: "adversarial: embedded closing triple truncates the value silently",
			input:       `write_to_file(file_path="a.txt", content="""one"""two""")`,
			expected: &Call{
				Name: "write_to_file",
				Args: map[string]string{"file_path": "a.txt", "content": "one"},
				Raw:  `write_to_file(file_path="a.txt", content="""one"""two""")`,
			},
		},
		{
			description: "adversarial: alternating quote styles keep later pairs parseable",
			input:       `run_command(command="echo 'quoted'", terminal_name='main')`,
			expected: &Call{
				Name: "run_command",
				Args: map[string]string{"command": "echo 'quoted'", "terminal_name": "main"},
				Raw:  `run_command(command="echo 'quoted'", terminal_name='main')`,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			result, err := Parse(tc.input)

			if tc.shouldError {
				assert.Error(t, err)
				if tc.expectedErr != nil {
					assert.True(t, errors.Is(err, tc.expectedErr), "expected %v, had %v", tc.expectedErr, err)
				}
				return
			}
			assert.NoError(t, err)
			assert.EqualValues(t, tc.expected, result)
		})
	}
}

func TestParse_roundTrip(t *testing.T) {
	// every generated call must parse back to exactly the original pairs
	testCases := []struct {
		description string
		name        string
		args        map[string]string
	}{
		{
			description: "plain values",
			name:        "create_terminal",
			args:        map[string]string{"name": "build"},
		},
		{
			description: "value with balanced parentheses and spaces",
			name:        "run_command",
			args:        map[string]string{"command": "python -c 'print((1+2))'", "terminal_name": "main"},
		},
		{
			description: "multi-line value",
			name:        "write_to_file",
			args: map[string]string{
				"file_path": "src/app.py",
				"content":   "import sys\n\ndef main():\n    print(\"ok\")\n",
			},
		},
		{
			description: "five pairs",
			name:        "run_command",
			args: map[string]string{
				"a": "1", "b": "two", "c": "three(3)", "d": "with space", "e": "x",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			text := Format(tc.name, tc.args)
			call, err := Parse(text)
			assert.NoError(t, err)
			assert.Equal(t, tc.name, call.Name)
			assert.EqualValues(t, tc.args, call.Args)
		})
	}
}
