package httpclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewEnvelopeSuccessRange(t *testing.T) {
	for _, status := range []int{200, 201, 204, 250, 299} {
		env := NewEnvelope(status, []byte(`{"error":{"message":"ignored"}}`))
		assert.True(t, env.Success(), "status %d", status)
		assert.Empty(t, env.Error, "status %d", status)
	}
}

func TestNewEnvelopeFailureRange(t *testing.T) {
	for _, status := range []int{0, 100, 199, 300, 302, 400, 404, 429, 500, 503} {
		env := NewEnvelope(status, nil)
		assert.False(t, env.Success(), "status %d", status)
	}
}

func TestNewEnvelopeDecodesObject(t *testing.T) {
	env := NewEnvelope(200, []byte(`{"id":"abc"}`))

	assert.Equal(t, map[string]any{"id": "abc"}, env.Body)
	assert.Empty(t, env.Error)
}

func TestNewEnvelopeMalformedBodies(t *testing.T) {
	cases := map[string]string{
		"empty":      "",
		"html":       "<html>bad gateway</html>",
		"truncated":  `{"id":`,
		"array":      `[1,2,3]`,
		"string":     `"text"`,
		"json null":  `null`,
		"whitespace": "   ",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			for _, status := range []int{200, 404, 500} {
				env := NewEnvelope(status, []byte(raw))
				assert.NotNil(t, env.Body)
				assert.Empty(t, env.Body)
				assert.Empty(t, env.Error)
			}
		})
	}
}

func TestNewEnvelopeErrorMessage(t *testing.T) {
	env := NewEnvelope(400, []byte(`{"error":{"message":"No such coupon: X","type":"invalid_request_error"}}`))

	assert.False(t, env.Success())
	assert.Equal(t, "No such coupon: X", env.Error)
}

func TestNewEnvelopeErrorMessageMissingPath(t *testing.T) {
	cases := []string{
		`{}`,
		`{"error":"flat string"}`,
		`{"error":{}}`,
		`{"error":{"message":42}}`,
		`{"message":"top level"}`,
	}
	for _, raw := range cases {
		env := NewEnvelope(404, []byte(raw))
		assert.Empty(t, env.Error, raw)
	}
}

func TestEnvelopeNilSuccess(t *testing.T) {
	var env *Envelope
	assert.False(t, env.Success())
}
