package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMetadata(t *testing.T) {
	md, err := parseMetadata([]string{"tier=gold", " crm = 42"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"tier": "gold", "crm": " 42"}, md)

	md, err = parseMetadata(nil)
	require.NoError(t, err)
	assert.Nil(t, md)

	_, err = parseMetadata([]string{"novalue"})
	assert.Error(t, err)
}

func TestGetCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/customers/cus_1", r.URL.Path)
		_, _ = io.WriteString(w, `{"id":"cus_1","object":"customer","name":"Jane"}`)
	}))
	defer srv.Close()

	t.Setenv("STRIPE_URL", srv.URL)
	t.Setenv("STRIPE_API_KEY", "sk_test_123")
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"get", "cus_1"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), `"name": "Jane"`)
}

func TestSeedRejectsNonPositiveCount(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"seed", "--count", "0"})
	assert.Error(t, root.Execute())
}
