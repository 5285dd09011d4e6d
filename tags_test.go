package streetnet

import (
	"reflect"
	"testing"
)

func TestTagsInsertAndGet(t *testing.T) {
	tags := NewTags()
	tags.Insert("highway", "residential")
	tags.Insert("lanes", "2")
	tags.Insert("highway", "primary")

	if got, _ := tags.Get("highway"); got != "primary" {
		t.Errorf("Value must be %v, but got %v", "primary", got)
	}
	if tags.Len() != 2 {
		t.Errorf("Length must be %v, but got %v", 2, tags.Len())
	}
	wantKeys := []string{"highway", "lanes"}
	if !reflect.DeepEqual(tags.Keys(), wantKeys) {
		t.Errorf("Keys must be %v, but got %v", wantKeys, tags.Keys())
	}
}

func TestTagsRemove(t *testing.T) {
	tags := NewTags()
	tags.Insert("highway", "residential")
	tags.Insert("oneway", "yes")

	value, ok := tags.Remove("highway")
	if !ok || value != "residential" {
		t.Errorf("Removed value must be %v, but got %v (%v)", "residential", value, ok)
	}
	if tags.HasAnyValue("highway") {
		t.Error("Key must be gone after Remove")
	}
	if _, ok := tags.Remove("highway"); ok {
		t.Error("Removing a missing key must report false")
	}
	wantKeys := []string{"oneway"}
	if !reflect.DeepEqual(tags.Keys(), wantKeys) {
		t.Errorf("Keys must be %v, but got %v", wantKeys, tags.Keys())
	}
}

func TestTagsQueries(t *testing.T) {
	tags := TagsFrom(map[string]string{
		"highway": "residential",
		"oneway":  "yes",
	})

	if !tags.Is("oneway", "yes") {
		t.Error("Is must match exact value")
	}
	if tags.Is("oneway", "no") {
		t.Error("Is must not match a different value")
	}
	if tags.Is("missing", "") {
		t.Error("Is must not match a missing key")
	}
	if !tags.IsAny("highway", "primary", "residential") {
		t.Error("IsAny must match any of the given values")
	}
	if tags.IsAny("highway", "primary", "secondary") {
		t.Error("IsAny must not match absent values")
	}
	if got := tags.GetOr("maxspeed", "50"); got != "50" {
		t.Errorf("GetOr fallback must be %v, but got %v", "50", got)
	}
}

func TestTagsSplitList(t *testing.T) {
	tags := NewTags()
	tags.Insert("destination", "Seattle; Tacoma ;Everett")

	want := []string{"Seattle", "Tacoma", "Everett"}
	if !reflect.DeepEqual(tags.SplitList("destination"), want) {
		t.Errorf("SplitList must be %v, but got %v", want, tags.SplitList("destination"))
	}
	if got := tags.SplitList("missing"); got != nil {
		t.Errorf("SplitList of a missing key must be nil, but got %v", got)
	}
}

func TestTagsCloneIsIndependent(t *testing.T) {
	tags := TagsFrom(map[string]string{"highway": "residential"})
	cloned := tags.Clone()
	cloned.Insert("lanes", "4")
	cloned.Insert("highway", "primary")

	if tags.HasAnyValue("lanes") {
		t.Error("Mutating the clone must not touch the original")
	}
	if got, _ := tags.Get("highway"); got != "residential" {
		t.Errorf("Original value must be %v, but got %v", "residential", got)
	}
}

func TestTagsFromIsSorted(t *testing.T) {
	tags := TagsFrom(map[string]string{
		"z": "1",
		"a": "2",
		"m": "3",
	})
	wantKeys := []string{"a", "m", "z"}
	if !reflect.DeepEqual(tags.Keys(), wantKeys) {
		t.Errorf("Keys must be %v, but got %v", wantKeys, tags.Keys())
	}
}
