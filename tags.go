package streetnet

import (
	"sort"
	"strings"
)

// Tags is an ordered mapping of OSM key => value. Keys are case-sensitive,
// values are opaque strings. Insertion order is kept so serialization stays
// deterministic.
type Tags struct {
	kv   map[string]string
	keys []string
}

func NewTags() *Tags {
	return &Tags{
		kv: make(map[string]string),
	}
}

// TagsFrom builds a tag store from a plain map. Keys are sorted so the result
// does not depend on Go's map iteration order.
func TagsFrom(m map[string]string) *Tags {
	tags := NewTags()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		tags.Insert(k, m[k])
	}
	return tags
}

// Insert sets the value for the given key, replacing any previous value.
func (tags *Tags) Insert(key, value string) {
	if _, ok := tags.kv[key]; !ok {
		tags.keys = append(tags.keys, key)
	}
	tags.kv[key] = value
}

// Remove deletes the key. Returns the removed value, if any.
func (tags *Tags) Remove(key string) (string, bool) {
	value, ok := tags.kv[key]
	if !ok {
		return "", false
	}
	delete(tags.kv, key)
	for i := range tags.keys {
		if tags.keys[i] == key {
			tags.keys = append(tags.keys[:i], tags.keys[i+1:]...)
			break
		}
	}
	return value, true
}

// Get returns the value for the given key.
func (tags *Tags) Get(key string) (string, bool) {
	value, ok := tags.kv[key]
	return value, ok
}

// GetOr returns the value for the given key or the fallback when absent.
func (tags *Tags) GetOr(key, fallback string) string {
	if value, ok := tags.kv[key]; ok {
		return value
	}
	return fallback
}

// Is reports whether the key is set to exactly the given value.
func (tags *Tags) Is(key, value string) bool {
	got, ok := tags.kv[key]
	return ok && got == value
}

// IsAny reports whether the key is set to any of the given values.
func (tags *Tags) IsAny(key string, values ...string) bool {
	got, ok := tags.kv[key]
	if !ok {
		return false
	}
	for _, value := range values {
		if got == value {
			return true
		}
	}
	return false
}

// HasAnyValue reports whether the key is present at all.
func (tags *Tags) HasAnyValue(key string) bool {
	_, ok := tags.kv[key]
	return ok
}

// SplitList returns the semicolon-delimited pieces of a multi-valued key.
// Missing keys yield an empty slice.
func (tags *Tags) SplitList(key string) []string {
	value, ok := tags.kv[key]
	if !ok {
		return nil
	}
	parts := strings.Split(value, ";")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// Keys returns the keys in insertion order.
func (tags *Tags) Keys() []string {
	keys := make([]string, len(tags.keys))
	copy(keys, tags.keys)
	return keys
}

func (tags *Tags) Len() int {
	return len(tags.kv)
}

// Clone returns a deep copy preserving key order.
func (tags *Tags) Clone() *Tags {
	cloned := &Tags{
		kv:   make(map[string]string, len(tags.kv)),
		keys: make([]string, len(tags.keys)),
	}
	copy(cloned.keys, tags.keys)
	for k, v := range tags.kv {
		cloned.kv[k] = v
	}
	return cloned
}

// Map returns a plain map copy of the tags.
func (tags *Tags) Map() map[string]string {
	m := make(map[string]string, len(tags.kv))
	for k, v := range tags.kv {
		m[k] = v
	}
	return m
}
