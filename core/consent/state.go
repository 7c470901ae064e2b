// Copyright 2024 - 2025, the ConsentGate contributors
// SPDX-License-Identifier: AGPL-3.0-only

package consent

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/tidwall/gjson"
)

// Timestamp layouts accepted on decode.
//
// RFC 3339 is what Encode writes; the zoneless layouts cover cookies written
// by deployments that serialized naive UTC timestamps.
var lastUpdatedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// State is the per-request consent record decoded from the consent cookie.
//
// A State is created when a request arrives, mutated in place by handlers, and
// serialized back into a Set-Cookie header at the end of the request if (and
// only if) a mutation actually changed membership.
//
// State is request-scoped and not safe for concurrent use.
type State struct {
	enabled     map[string]struct{}
	lastUpdated time.Time
	fromCookie  bool
	dirty       bool
}

// cookiePayload is the wire shape of the consent cookie value.
type cookiePayload struct {
	Enabled     []string `json:"enabled"`
	LastUpdated string   `json:"last_updated"`
}

// DecodeState parses a consent cookie value into a State.
//
// present says whether the request carried the consent cookie at all. The
// decoder never fails: a missing cookie or one without an "enabled" key seeds
// the enabled-set from the registry's category defaults, a malformed
// "enabled" value degrades to an empty set, and a missing or malformed
// "last_updated" defaults to the current time. Names unknown to the registry
// are kept as-is; they only matter at write time.
func DecodeState(raw string, present bool, reg *Registry) *State {
	state := &State{
		enabled:     make(map[string]struct{}),
		lastUpdated: time.Now().UTC(),
		fromCookie:  present,
	}

	if ts := gjson.Get(raw, "last_updated"); ts.Type == gjson.String {
		if parsed, ok := parseLastUpdated(ts.Str); ok {
			state.lastUpdated = parsed
		}
	}

	enabled := gjson.Get(raw, "enabled")

	switch {
	case !present || !enabled.Exists():
		// No consent recorded yet: start from the configured defaults.
		for _, name := range reg.DefaultEnabled() {
			state.enabled[name] = struct{}{}
		}
	case enabled.IsArray():
		for _, entry := range enabled.Array() {
			if entry.Type == gjson.String {
				state.enabled[entry.Str] = struct{}{}
			}
		}
	default:
		// "enabled" present but not a list: treat as empty, not as defaults.
	}

	return state
}

func parseLastUpdated(value string) (time.Time, bool) {
	for _, layout := range lastUpdatedLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), true
		}
	}

	return time.Time{}, false
}

// IsStale reports whether consent needs to be (re-)collected: either no
// consent cookie was present on the request, or the recorded consent is older
// than the validity window.
func (s *State) IsStale(validFor time.Duration) bool {
	if !s.fromCookie {
		return true
	}

	return s.lastUpdated.Add(validFor).Before(time.Now().UTC())
}

// Get reports whether the named category is currently enabled.
//
// Lookups are plain set membership; names absent from the registry simply
// report false.
func (s *State) Get(name string) bool {
	_, ok := s.enabled[name]

	return ok
}

// Set enables or disables the named category.
//
// Only an actual membership change marks the state dirty and refreshes the
// last-updated timestamp; setting a category to its current value is a no-op.
// This keeps repeated idempotent sets from forcing a cookie rewrite.
func (s *State) Set(name string, value bool) {
	_, member := s.enabled[name]

	switch {
	case value && !member:
		s.enabled[name] = struct{}{}
	case !value && member:
		delete(s.enabled, name)
	default:
		return
	}

	s.dirty = true
	s.lastUpdated = time.Now().UTC()
}

// Dirty reports whether the state differs from what was read off the cookie,
// gating whether a Set-Cookie header is written.
func (s *State) Dirty() bool {
	return s.dirty
}

// LastUpdated returns when consent was last changed.
func (s *State) LastUpdated() time.Time {
	return s.lastUpdated
}

// Enabled returns the currently enabled category names, sorted for stable
// output.
func (s *State) Enabled() []string {
	out := make([]string, 0, len(s.enabled))
	for name := range s.enabled {
		out = append(out, name)
	}

	sort.Strings(out)

	return out
}

// Encode serializes the state into a consent cookie value.
//
// Callers only invoke Encode when Dirty reports true.
func (s *State) Encode() string {
	payload := cookiePayload{
		Enabled:     s.Enabled(),
		LastUpdated: s.lastUpdated.UTC().Format(time.RFC3339Nano),
	}

	// The payload contains only strings we control; marshaling cannot fail.
	encoded, _ := json.Marshal(payload)

	return string(encoded)
}
