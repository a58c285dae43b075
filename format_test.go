package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintJSON_Compact(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, printJSON(&buf, []byte(`{"a":1,"b":2}`), false))
	assert.Equal(t, "{\"a\":1,\"b\":2}\n", buf.String())
}

func TestPrintJSON_Pretty(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, printJSON(&buf, []byte(`{"a":1}`), true))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}

func TestPrintJSON_PreservesKeyOrderAndNumbers(t *testing.T) {
	// Pass-through must not decode into a map: key order and large number
	// representations survive untouched.
	var buf bytes.Buffer

	payload := `{"z":1,"a":9007199254740993}`
	require.NoError(t, printJSON(&buf, []byte(payload), false))
	assert.Equal(t, payload+"\n", buf.String())
}

func TestPrintJSON_InvalidPayloadWhenPretty(t *testing.T) {
	var buf bytes.Buffer

	err := printJSON(&buf, []byte(`not json`), true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "formatting response")
}
