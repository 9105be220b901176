package relay

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestDecodeEnvelope(t *testing.T) {
	t.Run("decodes a well-formed envelope", func(t *testing.T) {
		raw := []byte(`{
			"id": "abc-1",
			"method": "GET",
			"url": "/user/42?verbose=1",
			"body": "",
			"headers": [{"name": "Accept", "value": "application/json"}]
		}`)

		req, eerr := decodeEnvelope(raw)
		require.Nil(t, eerr)
		require.Equal(t, "abc-1", req.ID.String())
		require.Equal(t, "GET", req.Method)
		require.Equal(t, "/user/42", req.Path)
		require.Equal(t, "verbose=1", req.URL.RawQuery)

		v, ok := req.Headers.Get("accept")
		require.True(t, ok)
		require.Equal(t, "application/json", v)
	})

	t.Run("rejects invalid JSON", func(t *testing.T) {
		_, eerr := decodeEnvelope([]byte(`{"id": `))
		require.NotNil(t, eerr)
		require.Empty(t, eerr.SalvagedID)
	})

	t.Run("rejects a missing id but keeps nothing to salvage", func(t *testing.T) {
		_, eerr := decodeEnvelope([]byte(`{"method": "GET", "url": "/x"}`))
		require.NotNil(t, eerr)
		require.Empty(t, eerr.SalvagedID)
	})

	t.Run("salvages the id from mistyped fields", func(t *testing.T) {
		_, eerr := decodeEnvelope([]byte(`{"id": "abc-2", "method": 7, "url": "/x"}`))
		require.NotNil(t, eerr)
		require.Equal(t, "abc-2", eerr.SalvagedID)
	})

	t.Run("does not salvage a non-string id", func(t *testing.T) {
		_, eerr := decodeEnvelope([]byte(`{"id": 42, "method": 7}`))
		require.NotNil(t, eerr)
		require.Empty(t, eerr.SalvagedID)
	})

	t.Run("rejects a missing method", func(t *testing.T) {
		_, eerr := decodeEnvelope([]byte(`{"id": "abc-3", "url": "/x"}`))
		require.NotNil(t, eerr)
		require.Equal(t, "abc-3", eerr.SalvagedID)
	})
}

func TestEncodeResponseEnvelope(t *testing.T) {
	out := EncodeResponseEnvelope(WireResponse{
		ID:     RequestID{s: "abc-1"},
		Status: 200,
		Body:   `{"ok":true}`,
		Headers: Headers{
			{Name: "Content-Type", Value: "application/json"},
			{Name: "X-Trace", Value: "t1"},
		},
	})

	require.True(t, gjson.ValidBytes(out))
	require.Equal(t, "abc-1", gjson.GetBytes(out, "id").String())
	require.Equal(t, int64(200), gjson.GetBytes(out, "status").Int())
	require.Equal(t, `{"ok":true}`, gjson.GetBytes(out, "body").String())

	// Outbound headers are [name, value] pairs, in order.
	require.Equal(t, "Content-Type", gjson.GetBytes(out, "headers.0.0").String())
	require.Equal(t, "application/json", gjson.GetBytes(out, "headers.0.1").String())
	require.Equal(t, "X-Trace", gjson.GetBytes(out, "headers.1.0").String())
}
