package grpc

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/json"
	"testing"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/devtoolbox/jwtinspect/core"
	"github.com/devtoolbox/jwtinspect/jwks"
)

const testKeyID = "grpc-key"

// testPrivateKey is shared across tests for token signing
var (
	testPrivateKey *ecdsa.PrivateKey
	testJWK        jwk.Key
)

func init() {
	var err error
	testPrivateKey, err = ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		panic(err)
	}
	testJWK, err = jwk.FromRaw(testPrivateKey)
	if err != nil {
		panic(err)
	}
	if err := testJWK.Set(jwk.KeyIDKey, testKeyID); err != nil {
		panic(err)
	}
}

// buildTestToken signs an ES256 token with the shared test key.
func buildTestToken(t *testing.T, subject string) string {
	t.Helper()

	token := jwt.New()
	require.NoError(t, token.Set(jwt.SubjectKey, subject))

	headers := jws.NewHeaders()
	require.NoError(t, headers.Set(jws.KeyIDKey, testKeyID))

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.ES256, testJWK, jws.WithProtectedHeaders(headers)))
	require.NoError(t, err, "could not sign token")

	return string(signed)
}

// publicJWKS is the JWK Set holding the public half of the test key.
func publicJWKS(t *testing.T) jwks.JWKS {
	t.Helper()

	public, err := testJWK.PublicKey()
	require.NoError(t, err)
	raw, err := json.Marshal(public)
	require.NoError(t, err)

	var object map[string]any
	require.NoError(t, json.Unmarshal(raw, &object))
	return jwks.JWKS{object}
}

func incoming(token string) context.Context {
	ctx := context.Background()
	if token == "" {
		return ctx
	}
	return metadata.NewIncomingContext(ctx, metadata.Pairs("authorization", "Bearer "+token))
}

type mockServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (m *mockServerStream) Context() context.Context {
	return m.ctx
}

type recordingMetrics struct {
	counters map[string]int
}

func (m *recordingMetrics) IncCounter(name string, tags map[string]string) {
	m.counters[tags["method"]+" "+tags["result"]]++
}

func (m *recordingMetrics) ObserveHistogram(string, float64, map[string]string) {}

func TestNew(t *testing.T) {
	t.Run("defaults decode without verifying", func(t *testing.T) {
		interceptor, err := New()
		require.NoError(t, err)
		assert.NotNil(t, interceptor.core)
		assert.False(t, interceptor.core.VerificationRequested())
	})

	t.Run("key enables verification", func(t *testing.T) {
		interceptor, err := New(WithKey(publicJWKS(t)))
		require.NoError(t, err)
		assert.True(t, interceptor.core.VerificationRequested())
	})

	t.Run("core conflicts with core options", func(t *testing.T) {
		c, err := core.New()
		require.NoError(t, err)
		_, err = New(WithCore(c), WithVerify(true))
		assert.EqualError(t, err, "WithCore cannot be combined with core options")
	})

	t.Run("nil arguments", func(t *testing.T) {
		for _, opt := range []Option{WithCore(nil), WithKey(nil), WithMetrics(nil), WithTokenExtractor(nil), WithErrorHandler(nil), WithLogger(nil)} {
			_, err := New(opt)
			assert.Error(t, err)
		}
	})
}

func TestUnaryServerInterceptor(t *testing.T) {
	validToken := buildTestToken(t, "grpc-user")

	testCases := []struct {
		name          string
		options       []Option
		token         string
		method        string
		wantCode      codes.Code
		wantSignature core.SignatureStatus
		wantDecoded   bool
	}{
		{
			name:          "verified token",
			options:       []Option{WithKey(publicJWKS(t))},
			token:         validToken,
			wantCode:      codes.OK,
			wantSignature: core.SignatureValid,
			wantDecoded:   true,
		},
		{
			name:          "decode only",
			token:         validToken,
			wantCode:      codes.OK,
			wantSignature: core.SignatureNotRequested,
			wantDecoded:   true,
		},
		{
			name:     "tampered signature",
			options:  []Option{WithKey(publicJWKS(t))},
			token:    validToken[:len(validToken)-4] + "AAAA",
			wantCode: codes.Unauthenticated,
		},
		{
			name:     "missing token",
			wantCode: codes.Unauthenticated,
		},
		{
			name:     "malformed token",
			token:    "not.a-token",
			wantCode: codes.InvalidArgument,
		},
		{
			name:     "verification without key",
			options:  []Option{WithVerify(true)},
			token:    validToken,
			wantCode: codes.FailedPrecondition,
		},
		{
			name:     "credentials optional",
			options:  []Option{WithCredentialsOptional(true)},
			wantCode: codes.OK,
		},
		{
			name:     "excluded method",
			options:  []Option{WithExcludedMethods("/test.Service/Public")},
			method:   "/test.Service/Public",
			wantCode: codes.OK,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			interceptor, err := New(testCase.options...)
			require.NoError(t, err)

			method := "/test.Service/Method"
			if testCase.method != "" {
				method = testCase.method
			}

			var handlerCtx context.Context
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				handlerCtx = ctx
				return "response", nil
			}

			resp, err := interceptor.UnaryServerInterceptor()(
				incoming(testCase.token), "request", &grpc.UnaryServerInfo{FullMethod: method}, handler,
			)

			if testCase.wantCode != codes.OK {
				st, ok := status.FromError(err)
				require.True(t, ok)
				assert.Equal(t, testCase.wantCode, st.Code())
				assert.Nil(t, handlerCtx)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "response", resp)
			assert.Equal(t, testCase.wantDecoded, HasDecoded(handlerCtx))
			if testCase.wantDecoded {
				decoded := MustGetDecoded(handlerCtx)
				assert.Equal(t, testCase.wantSignature, decoded.Signature)
				assert.Equal(t, "grpc-user", decoded.Payload["sub"])
				require.NotNil(t, decoded.KeyID)
				assert.Equal(t, testKeyID, *decoded.KeyID)
			}
		})
	}
}

func TestStreamServerInterceptor(t *testing.T) {
	interceptor, err := New(WithKey(publicJWKS(t)))
	require.NoError(t, err)

	info := &grpc.StreamServerInfo{FullMethod: "/test.Service/Stream"}

	t.Run("verified token", func(t *testing.T) {
		var streamCtx context.Context
		handler := func(srv interface{}, stream grpc.ServerStream) error {
			streamCtx = stream.Context()
			return nil
		}

		err := interceptor.StreamServerInterceptor()(nil, &mockServerStream{ctx: incoming(buildTestToken(t, "streamer"))}, info, handler)
		require.NoError(t, err)

		decoded, err := GetDecoded(streamCtx)
		require.NoError(t, err)
		assert.Equal(t, core.SignatureValid, decoded.Signature)
		require.NotNil(t, decoded.Algorithm)
		assert.Equal(t, "ES256", *decoded.Algorithm)
	})

	t.Run("bad metadata", func(t *testing.T) {
		handlerCalled := false
		handler := func(srv interface{}, stream grpc.ServerStream) error {
			handlerCalled = true
			return nil
		}

		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Basic abc"))
		err := interceptor.StreamServerInterceptor()(nil, &mockServerStream{ctx: ctx}, info, handler)

		st, ok := status.FromError(err)
		require.True(t, ok)
		assert.Equal(t, codes.InvalidArgument, st.Code())
		assert.False(t, handlerCalled)
	})
}

func TestInterceptor_Metrics(t *testing.T) {
	metrics := &recordingMetrics{counters: map[string]int{}}
	interceptor, err := New(WithKey(publicJWKS(t)), WithMetrics(metrics))
	require.NoError(t, err)

	handler := func(ctx context.Context, req interface{}) (interface{}, error) { return nil, nil }
	info := &grpc.UnaryServerInfo{FullMethod: "/test.Service/Method"}

	_, _ = interceptor.UnaryServerInterceptor()(incoming(buildTestToken(t, "a")), nil, info, handler)
	_, _ = interceptor.UnaryServerInterceptor()(incoming(""), nil, info, handler)
	_, _ = interceptor.UnaryServerInterceptor()(metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "x")), nil, info, handler)

	assert.Equal(t, map[string]int{
		"/test.Service/Method valid":           1,
		"/test.Service/Method token_missing":   1,
		"/test.Service/Method invalid_request": 1,
	}, metrics.counters)
}

func TestGetDecoded_Missing(t *testing.T) {
	_, err := GetDecoded(context.Background())
	assert.ErrorIs(t, err, core.ErrDecodedNotFound)
	assert.Panics(t, func() { MustGetDecoded(context.Background()) })
}
