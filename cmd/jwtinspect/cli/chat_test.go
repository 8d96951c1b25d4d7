package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devtoolbox/jwtinspect/summary"
)

func TestChatCmd(t *testing.T) {
	token := hs256Token(t, testSecret)

	testCases := []struct {
		name     string
		stdin    string
		args     []string
		contains []string
	}{
		{
			name:     "command with key",
			args:     []string{"chat", "/jwt", token, "key=" + testSecret},
			contains: []string{"Signature: ✅ valid"},
		},
		{
			name:     "no token shows usage",
			args:     []string{"chat", "/jwt"},
			contains: []string{summary.Usage},
		},
		{
			name:     "malformed token",
			args:     []string{"chat", "/jwt", "abc"},
			contains: []string{summary.FailurePrefix + "token must have exactly 3 parts"},
		},
		{
			name:     "token from reply",
			args:     []string{"chat", "--reply", token, "/jwt"},
			contains: []string{"Algorithm: HS256", "Signature: not verified"},
		},
		{
			name:  "lines from stdin",
			stdin: "/jwt " + token + "\n\n/jwt " + token + " key=wrong\n",
			args:  []string{"chat"},
			contains: []string{
				"Signature: not verified",
				"Signature: ❌ invalid",
			},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			out, err := run(t, testCase.stdin, testCase.args...)
			require.NoError(t, err)
			for _, s := range testCase.contains {
				assert.Contains(t, out, s)
			}
		})
	}
}

func TestAlgorithmsCmd(t *testing.T) {
	out, err := run(t, "", "algorithms")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 12)
	assert.Contains(t, out, "PS256  RSASSA-PSS\n")
	assert.Contains(t, out, "HS512  HMAC\n")
}
