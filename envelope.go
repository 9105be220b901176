package relay

import (
	"encoding/json"
	"net/url"

	"github.com/tidwall/gjson"
)

// Wire shapes for the transport boundary. Inbound headers arrive as
// {name, value} objects; outbound headers leave as [name, value] pairs.
type requestEnvelope struct {
	ID      string       `json:"id"`
	Method  string       `json:"method"`
	URL     string       `json:"url"`
	Body    string       `json:"body"`
	Headers []wireHeader `json:"headers"`
}

type wireHeader struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type responseEnvelope struct {
	ID      string      `json:"id"`
	Status  int         `json:"status"`
	Body    string      `json:"body"`
	Headers [][2]string `json:"headers"`
}

// decodeEnvelope validates raw envelope bytes and builds the RawRequest.
// Any failure reports an EnvelopeError carrying whatever id could still be
// salvaged from the broken payload, so the diagnostic response stays
// addressable.
func decodeEnvelope(raw []byte) (RawRequest, *EnvelopeError) {
	if !gjson.ValidBytes(raw) {
		return RawRequest{}, &EnvelopeError{Reason: "not valid JSON"}
	}

	salvaged := salvageID(raw)

	var env requestEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return RawRequest{}, &EnvelopeError{Reason: "malformed fields: " + err.Error(), SalvagedID: salvaged}
	}
	if env.ID == "" {
		return RawRequest{}, &EnvelopeError{Reason: "missing id", SalvagedID: salvaged}
	}
	if env.Method == "" {
		return RawRequest{}, &EnvelopeError{Reason: "missing method", SalvagedID: salvaged}
	}

	u, err := url.Parse(env.URL)
	if err != nil {
		return RawRequest{}, &EnvelopeError{Reason: "unparseable url: " + err.Error(), SalvagedID: salvaged}
	}

	headers := make(Headers, 0, len(env.Headers))
	for _, h := range env.Headers {
		headers = append(headers, Header{Name: h.Name, Value: h.Value})
	}

	return RawRequest{
		ID:      RequestID{s: env.ID},
		Method:  env.Method,
		URL:     u,
		Path:    u.Path,
		Body:    env.Body,
		Headers: headers,
	}, nil
}

// salvageID pulls a string id out of an envelope that failed full decoding.
// Returns "" when the field is absent or not a string.
func salvageID(raw []byte) string {
	r := gjson.GetBytes(raw, "id")
	if !r.Exists() || r.Type != gjson.String {
		return ""
	}
	return r.String()
}

// EncodeResponseEnvelope serializes a WireResponse into the outbound wire
// envelope. Transports that speak the JSON protocol call this on every
// emitted response.
func EncodeResponseEnvelope(w WireResponse) []byte {
	pairs := make([][2]string, 0, len(w.Headers))
	for _, h := range w.Headers {
		pairs = append(pairs, [2]string{h.Name, h.Value})
	}
	// Marshalling a struct of strings and ints cannot fail.
	b, _ := json.Marshal(responseEnvelope{
		ID:      w.ID.String(),
		Status:  w.Status,
		Body:    w.Body,
		Headers: pairs,
	})
	return b
}
