package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_realMain(t *testing.T) {
	testCases := []struct {
		name     string
		args     []string
		stdin    string
		wantOut  string
		wantErr  string
		wantFail bool
	}{
		{
			name:    "decode from stdin",
			args:    []string{"jwtinspect", "decode", "-"},
			stdin:   "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.eyJzdWIiOiIxMjM0NTY3ODkwIn0.c2ln\n",
			wantOut: "Algorithm: HS256",
		},
		{
			name:     "malformed token",
			args:     []string{"jwtinspect", "decode", "abc"},
			wantErr:  "token must have exactly 3 parts",
			wantFail: true,
		},
		{
			name:    "algorithms",
			args:    []string{"jwtinspect", "algorithms"},
			wantOut: "ES512",
		},
		{
			name:     "unknown command",
			args:     []string{"jwtinspect", "encode"},
			wantErr:  "encode",
			wantFail: true,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			var out, errout bytes.Buffer
			code := 0

			func() {
				// kong expects exit to stop the program
				defer func() { _ = recover() }()
				realMain(testCase.args, strings.NewReader(testCase.stdin), &out, &errout, func(c int) {
					code = c
					panic(c)
				})
			}()

			assert.Equal(t, testCase.wantFail, code != 0)
			assert.Contains(t, out.String(), testCase.wantOut)
			assert.Contains(t, errout.String(), testCase.wantErr)
		})
	}
}
