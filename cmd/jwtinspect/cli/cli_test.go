package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devtoolbox/jwtinspect/jwks"
)

const testSecret = "cli-secret"

func hs256Token(t *testing.T, secret string) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1234567890",
		"iat": 1516239022,
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	return raw
}

type testApp struct {
	Cli

	Decode     DecodeCmd     `cmd:""`
	Chat       ChatCmd       `cmd:""`
	Algorithms AlgorithmsCmd `cmd:""`
}

// run parses and runs args, returning the output.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	var app testApp
	app.Cli.WithReader(strings.NewReader(stdin)).
		WithWriter(&out).
		WithErrWriter(&out)

	p := mustNew(t, &app)
	ctx, err := p.Parse(args)
	require.NoError(t, err)

	err = ctx.Run(&app.Cli)
	return out.String(), err
}

func mustNew(t *testing.T, cli any, options ...kong.Option) *kong.Kong {
	t.Helper()
	options = append([]kong.Option{
		kong.Name("test"),
		kong.Exit(func(int) {
			t.Helper()
			t.Fatalf("unexpected exit()")
		}),
	}, options...)
	parser, err := kong.New(cli, options...)
	require.NoError(t, err)
	return parser
}

func TestContext(t *testing.T) {
	var c Cli

	assert.NotNil(t, c.ErrWriter())
	assert.NotNil(t, c.Writer())
	assert.NotNil(t, c.Reader())
	assert.NotNil(t, c.Context())
	assert.NotNil(t, c.Logger())
	assert.NotNil(t, c.HTTPClient())

	_, err := c.ReadFile("")
	assert.EqualError(t, err, "empty file name")

	c.WithReader(strings.NewReader("from stdin"))
	b, err := c.ReadFile("-")
	require.NoError(t, err)
	assert.Equal(t, "from stdin", string(b))
}

func TestKeyFlags_Load(t *testing.T) {
	set := `{"keys":[{"kty":"oct","kid":"k1","k":"Y2xpLXNlY3JldA"}]}`

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()
	mux.HandleFunc("/jwks.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(set))
	})
	mux.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{
			"issuer":   server.URL,
			"jwks_uri": server.URL + "/jwks.json",
		})
	})

	keyFile := filepath.Join(t.TempDir(), "key.txt")
	require.NoError(t, os.WriteFile(keyFile, []byte(testSecret+"\n"), 0o600))

	testCases := []struct {
		name    string
		flags   KeyFlags
		want    jwks.KeySpec
		wantErr string
	}{
		{name: "none"},
		{name: "key", flags: KeyFlags{Key: testSecret}, want: jwks.Text(testSecret)},
		{name: "key file", flags: KeyFlags{KeyFile: keyFile}, want: jwks.Text(testSecret + "\n")},
		{
			name:  "jwks url",
			flags: KeyFlags{JWKSURL: server.URL + "/jwks.json"},
			want:  jwks.JWKS{{"kty": "oct", "kid": "k1", "k": "Y2xpLXNlY3JldA"}},
		},
		{
			name:  "issuer",
			flags: KeyFlags{Issuer: server.URL},
			want:  jwks.JWKS{{"kty": "oct", "kid": "k1", "k": "Y2xpLXNlY3JldA"}},
		},
		{
			name:    "more than one source",
			flags:   KeyFlags{Key: testSecret, JWKSURL: server.URL},
			wantErr: "only one of",
		},
		{
			name:    "missing key file",
			flags:   KeyFlags{KeyFile: filepath.Join(t.TempDir(), "missing")},
			wantErr: "unable to load key file",
		},
		{
			name:    "jwks not found",
			flags:   KeyFlags{JWKSURL: server.URL + "/missing"},
			wantErr: "request returned status 404",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			var c Cli
			got, err := testCase.flags.Load(&c)
			if testCase.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), testCase.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.want, got)
		})
	}
}
