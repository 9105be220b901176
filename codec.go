package relay

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// BodyDecoder turns a raw request body into a typed value. Decoders receive
// the request headers so a codec can be content-type aware; the stock
// decoders ignore them. A decoder is a plain data value bound per route.
type BodyDecoder[T any] func(body string, headers Headers) (T, error)

// BodyEncoder turns a typed response body into wire text. Encoders must be
// pure: encoding the same value twice yields byte-identical text.
type BodyEncoder[T any] func(v T) (string, error)

// JSONDecoder decodes a JSON request body into T.
func JSONDecoder[T any]() BodyDecoder[T] {
	return func(body string, _ Headers) (T, error) {
		var v T
		if err := json.Unmarshal([]byte(body), &v); err != nil {
			return v, fmt.Errorf("decode json body: %w", err)
		}
		return v, nil
	}
}

// JSONEncoder encodes a response body as compact JSON.
func JSONEncoder[T any]() BodyEncoder[T] {
	return func(v T) (string, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("encode json body: %w", err)
		}
		return string(b), nil
	}
}

// YAMLDecoder decodes a YAML request body into T.
func YAMLDecoder[T any]() BodyDecoder[T] {
	return func(body string, _ Headers) (T, error) {
		var v T
		if err := yaml.Unmarshal([]byte(body), &v); err != nil {
			return v, fmt.Errorf("decode yaml body: %w", err)
		}
		return v, nil
	}
}

// YAMLEncoder encodes a response body as YAML.
func YAMLEncoder[T any]() BodyEncoder[T] {
	return func(v T) (string, error) {
		b, err := yaml.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("encode yaml body: %w", err)
		}
		return string(b), nil
	}
}

// TextDecoder passes the raw body through unchanged.
func TextDecoder() BodyDecoder[string] {
	return func(body string, _ Headers) (string, error) {
		return body, nil
	}
}

// TextEncoder passes the response body through unchanged.
func TextEncoder() BodyEncoder[string] {
	return func(v string) (string, error) { return v, nil }
}

// EmptyDecoder accepts any body, including none, for routes that take no
// request payload.
func EmptyDecoder() BodyDecoder[struct{}] {
	return func(string, Headers) (struct{}, error) {
		return struct{}{}, nil
	}
}

// RequireContentType wraps a decoder so it rejects requests whose
// Content-Type header is present but does not carry the given media type.
// Requests without a Content-Type header pass through.
func RequireContentType[T any](dec BodyDecoder[T], mediaType string) BodyDecoder[T] {
	return func(body string, headers Headers) (T, error) {
		if ct, ok := headers.Get("Content-Type"); ok {
			got := strings.TrimSpace(strings.Split(ct, ";")[0])
			if !strings.EqualFold(got, mediaType) {
				var zero T
				return zero, fmt.Errorf("unsupported content type %q, want %q", got, mediaType)
			}
		}
		return dec(body, headers)
	}
}
