package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		argv []string
		out  Args
	}{
		{
			nil,
			Args{Positional: []string{}},
		},
		{
			[]string{"MyHandler", "42"},
			Args{Positional: []string{"MyHandler", "42"}},
		},
		{
			[]string{"-d", "MyHandler"},
			Args{WaitForDebugger: true, Positional: []string{"MyHandler"}},
		},
		{
			[]string{"MyHandler", "-d", "body"},
			Args{WaitForDebugger: true, Positional: []string{"MyHandler", "body"}},
		},
		{
			[]string{"-x", "--verbose", "MyHandler", "-", "body", "extra"},
			Args{Positional: []string{"MyHandler", "body", "extra"}},
		},
		{
			[]string{"-dd", "MyHandler"},
			Args{Positional: []string{"MyHandler"}},
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(strings.Join(tc.argv, " "), func(t *testing.T) {
			t.Parallel()
			got := ParseArgs(tc.argv)
			assert.Equal(t, tc.out, got)
		})
	}
}
