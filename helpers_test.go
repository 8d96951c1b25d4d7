package jwtinspect

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "shared-secret"

func hs256Token(t *testing.T, secret string) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "123"}).SignedString([]byte(secret))
	require.NoError(t, err)
	return raw
}

type recordingMetrics struct {
	counters   map[string]int
	histograms map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{counters: map[string]int{}, histograms: map[string]int{}}
}

func (m *recordingMetrics) IncCounter(name string, tags map[string]string) {
	m.counters[name+"/"+tags["result"]]++
}

func (m *recordingMetrics) ObserveHistogram(name string, _ float64, tags map[string]string) {
	m.histograms[name+"/"+tags["result"]]++
}
