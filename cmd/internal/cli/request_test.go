package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/mocklambda/mocklambda/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

// stdinNotRead fails the test if anything reads from it.
type stdinNotRead struct{ t *testing.T }

func (s stdinNotRead) Read([]byte) (int, error) {
	s.t.Fatal("stdin should not have been read")
	return 0, nil
}

func TestResolveRequest(t *testing.T) {
	tests := []struct {
		name  string
		argv  []string
		env   MapEnv
		stdin string
		out   protocol.InvocationRequest
	}{
		{
			name: "fallback body",
			argv: nil,
			env:  MapEnv{},
			out:  protocol.InvocationRequest{Handler: "", Body: "'{}'"},
		},
		{
			name: "positional",
			argv: []string{"MyHandler", "42"},
			env: MapEnv{
				EnvHandler:  "FromEnv",
				EnvBody:     "env-body",
				EnvUseStdin: "1",
			},
			out: protocol.InvocationRequest{Handler: "MyHandler", Body: "42"},
		},
		{
			name: "handler positional, body from env",
			argv: []string{"MyHandler"},
			env: MapEnv{
				EnvHandler: "FromEnv",
				EnvBody:    `{"a": 1}`,
			},
			out: protocol.InvocationRequest{Handler: "MyHandler", Body: `{"a": 1}`},
		},
		{
			name: "everything from env",
			env: MapEnv{
				EnvHandler: "FromEnv",
				EnvBody:    "",
			},
			out: protocol.InvocationRequest{Handler: "FromEnv", Body: ""},
		},
		{
			name:  "body from stdin",
			argv:  []string{"-d", "MyHandler"},
			env:   MapEnv{EnvUseStdin: ""},
			stdin: "line one\nline two\n",
			out: protocol.InvocationRequest{
				Handler:         "MyHandler",
				Body:            "line one\nline two\n",
				WaitForDebugger: true,
			},
		},
		{
			name:  "env body wins over stdin",
			env:   MapEnv{EnvBody: "env", EnvUseStdin: "1"},
			stdin: "stdin",
			out:   protocol.InvocationRequest{Body: "env"},
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, err := ResolveRequest(tc.argv, tc.env, strings.NewReader(tc.stdin))
			require.NoError(t, err)
			assert.Equal(t, tc.out, got)
		})
	}
}

func TestFallbackBodyIsExact(t *testing.T) {
	got, err := ResolveRequest([]string{}, MapEnv{}, stdinNotRead{t})
	require.NoError(t, err)
	assert.Equal(t, []byte{'\'', '{', '}', '\''}, []byte(got.Body))
}

func TestResolveRequestStdinError(t *testing.T) {
	_, err := ResolveRequest(nil, MapEnv{EnvUseStdin: "1"}, failingReader{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestGetOrDefault(t *testing.T) {
	env := MapEnv{"SET": "value", "EMPTY": ""}
	assert.Equal(t, "value", GetOrDefault(env, "SET", "fallback"))
	assert.Equal(t, "", GetOrDefault(env, "EMPTY", "fallback"))
	assert.Equal(t, "fallback", GetOrDefault(env, "UNSET", "fallback"))
}

func TestSnapshot(t *testing.T) {
	env := MapEnv{"A": "1", "B": "x=y", "C": ""}
	snap := Snapshot(env)
	assert.Equal(t, map[string]string{"A": "1", "B": "x=y", "C": ""}, snap)

	env["A"] = "2"
	assert.Equal(t, "1", snap["A"])
}
