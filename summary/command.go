package summary

import (
	"strings"
	"unicode"

	"github.com/google/shlex"
)

// Usage is the help text shown when a command carries no token.
const Usage = "Send `/jwt <token> [key=<secret|pem|jwk|jwks>] [verify=true]` to inspect a JWT.\n" +
	"You can also reply to a message containing the token."

// Request is a parsed /jwt command.
type Request struct {
	// Token is the first bare argument, or "" when there is none.
	Token string

	// Key is the value of the key= argument, nil when absent.
	Key *string

	// Verify is the value of the verify= argument.
	Verify bool
}

// ParseCommand parses "/jwt <token> [key=...] [verify=...]". Arguments are
// split like a shell would, so keys containing spaces can be quoted. When
// the quoting is unbalanced the arguments are split on whitespace instead.
//
// verify accepts 1, true, yes and on (in any case); everything else is
// false. Later key= and verify= arguments override earlier ones, and only
// the first bare argument is kept as the token.
func ParseCommand(text string) Request {
	var req Request

	text = strings.TrimSpace(text)
	i := strings.IndexFunc(text, unicode.IsSpace)
	if i < 0 {
		return req
	}
	argLine := strings.TrimSpace(text[i:])
	if argLine == "" {
		return req
	}

	args, err := shlex.Split(argLine)
	if err != nil {
		args = strings.Fields(argLine)
	}

	for _, arg := range args {
		switch {
		case strings.HasPrefix(arg, "key="):
			key := strings.TrimPrefix(arg, "key=")
			req.Key = &key
		case strings.HasPrefix(arg, "verify="):
			req.Verify = parseBool(strings.TrimPrefix(arg, "verify="))
		case req.Token == "":
			req.Token = arg
		}
	}

	return req
}

// WithReply fills the request from the text of a replied-to message: the
// reply is the token when the command has none, and otherwise the key when
// the command has no key and the reply is not the token itself.
func (r Request) WithReply(reply string) Request {
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return r
	}

	if r.Token == "" {
		r.Token = reply
		return r
	}
	if r.Key == nil && r.Token != reply {
		r.Key = &reply
	}
	return r
}

// ShouldVerify reports whether the request asks for verification: either
// explicitly or by supplying a non-empty key.
func (r Request) ShouldVerify() bool {
	return r.Verify || (r.Key != nil && *r.Key != "")
}

func parseBool(value string) bool {
	switch strings.ToLower(value) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
