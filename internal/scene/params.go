package scene

import (
	"maps"
	"strconv"
	"strings"
)

// Params is a flat string dictionary of entity parameters.
type Params map[string]string

// Clone returns an independent copy.
func (p Params) Clone() Params {
	if p == nil {
		return Params{}
	}
	return maps.Clone(p)
}

// Get returns the value stored at key.
func (p Params) Get(key string) (string, bool) {
	v, ok := p[key]
	return v, ok
}

// Exists reports whether key is set.
func (p Params) Exists(key string) bool {
	_, ok := p[key]
	return ok
}

// GetOptional returns the value at key or def when unset.
func (p Params) GetOptional(key, def string) string {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

// Float parses the value at key, returning def when unset or unparsable.
func (p Params) Float(key string, def float64) float64 {
	v, ok := p[key]
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return def
	}
	return f
}

// Uint parses the value at key, returning def when unset or unparsable.
func (p Params) Uint(key string, def uint64) uint64 {
	v, ok := p[key]
	if !ok {
		return def
	}
	n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return def
	}
	return n
}

// Bool parses the value at key, returning def when unset or unparsable.
func (p Params) Bool(key string, def bool) bool {
	v, ok := p[key]
	if !ok {
		return def
	}
	b, ok := ParseBool(v)
	if !ok {
		return def
	}
	return b
}

// ParseBool accepts true/false, on/off, yes/no and 1/0, case-insensitively.
func ParseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "on", "yes", "1":
		return true, true
	case "false", "off", "no", "0":
		return false, true
	}
	return false, false
}
