package relay

import (
	"strconv"
	"strings"
)

// Pattern is a parsed path template made of literal segments and :name
// parameter segments, e.g. "/user/:id/post/:postId". Matching is positional
// and exact: segment counts must agree, literals compare case-sensitively,
// and a parameter segment captures any non-empty path segment. There are no
// wildcards, catch-alls, or optional segments.
type Pattern struct {
	raw      string
	segments []segment
}

type segment struct {
	literal string
	param   string // non-empty for :name segments
}

// ParsePattern parses a path template. Empty segments produced by leading,
// trailing, or duplicate slashes are discarded, so "/user/:id" and
// "user/:id/" parse identically.
func ParsePattern(raw string) Pattern {
	parts := splitPath(raw)
	segs := make([]segment, 0, len(parts))
	for _, p := range parts {
		if strings.HasPrefix(p, ":") {
			segs = append(segs, segment{param: p[1:]})
		} else {
			segs = append(segs, segment{literal: p})
		}
	}
	return Pattern{raw: raw, segments: segs}
}

// String returns the template the pattern was parsed from.
func (p Pattern) String() string { return p.raw }

// ParamNames returns the declared parameter names in declaration order.
func (p Pattern) ParamNames() []string {
	var names []string
	for _, s := range p.segments {
		if s.param != "" {
			names = append(names, s.param)
		}
	}
	return names
}

// Params holds the raw captured path parameters of a structural match.
type Params map[string]string

// Match tests path against the pattern. On a structural match it returns
// the captured raw parameters; otherwise the second return is false.
func (p Pattern) Match(path string) (Params, bool) {
	parts := splitPath(path)
	if len(parts) != len(p.segments) {
		return nil, false
	}
	params := make(Params, len(p.segments))
	for i, s := range p.segments {
		switch {
		case s.param != "":
			params[s.param] = parts[i]
		case s.literal != parts[i]:
			return nil, false
		}
	}
	return params, true
}

// splitPath splits on "/" and drops empty segments.
func splitPath(path string) []string {
	var parts []string
	for _, p := range strings.Split(path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// IntParam coerces the named raw parameter to an int. The error message
// names the parameter, so a params decoder can return it unchanged and the
// client sees "<name>: <reason>". Apply coercions in declaration order and
// return on the first failure.
func IntParam(params Params, name string) (int, error) {
	raw, ok := params[name]
	if !ok {
		return 0, ParamError(name, "parameter not captured by pattern")
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, ParamError(name, "expected an integer, got "+strconv.Quote(raw))
	}
	return n, nil
}

// StringParam returns the named raw parameter as-is.
func StringParam(params Params, name string) (string, error) {
	raw, ok := params[name]
	if !ok {
		return "", ParamError(name, "parameter not captured by pattern")
	}
	return raw, nil
}
