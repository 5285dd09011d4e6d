package streetnet

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
)

func TestProjectUnprojectRoundTrip(t *testing.T) {
	bounds := NewGPSBounds(-122.35, 47.60, -122.30, 47.65)
	pts := []orb.Point{
		{-122.35, 47.60},
		{-122.32, 47.63},
		{-122.30, 47.65},
	}
	for _, pt := range pts {
		back := bounds.Unproject(bounds.Project(pt))
		if math.Abs(back.Lon()-pt.Lon()) > 1e-9 || math.Abs(back.Lat()-pt.Lat()) > 1e-9 {
			t.Errorf("Round trip of %v must return the same point, but got %v", pt, back)
		}
	}

	// The south-west corner anchors the projection at the origin.
	origin := bounds.Project(orb.Point{-122.35, 47.60})
	if math.Abs(origin.X()) > 1e-9 || math.Abs(origin.Y()) > 1e-9 {
		t.Errorf("SW corner must project to the origin, but got %v", origin)
	}

	line := orb.LineString(pts)
	back := bounds.UnprojectLine(bounds.ProjectLine(line))
	for i := range line {
		if math.Abs(back[i].Lon()-line[i].Lon()) > 1e-9 || math.Abs(back[i].Lat()-line[i].Lat()) > 1e-9 {
			t.Errorf("Line round trip point %d must be %v, but got %v", i, line[i], back[i])
		}
	}
}

func TestProjectedDistancesAreMeters(t *testing.T) {
	bounds := NewGPSBounds(0, 0, 1, 1)
	a := bounds.Project(orb.Point{0.5, 0.5})
	b := bounds.Project(orb.Point{0.5, 0.51})
	// 0.01 degrees of latitude is roughly 1.1 km.
	dist := math.Hypot(b.X()-a.X(), b.Y()-a.Y())
	if dist < 1000 || dist > 1300 {
		t.Errorf("0.01 degrees latitude must project to roughly 1.1km, but got %vm", dist)
	}
}

func TestOnBoundary(t *testing.T) {
	bounds := NewGPSBounds(0, 0, 0.01, 0.01)
	cases := []struct {
		pt   orb.Point
		want bool
	}{
		{orb.Point{0, 0.005}, true},
		{orb.Point{0.01, 0.005}, true},
		{orb.Point{0.005, 0}, true},
		{orb.Point{0.005, 0.005}, false},
	}
	for _, c := range cases {
		if got := bounds.OnBoundary(c.pt); got != c.want {
			t.Errorf("OnBoundary(%v) must be %v, but got %v", c.pt, c.want, got)
		}
	}
}

func TestGPSBoundsFromPoints(t *testing.T) {
	bounds := GPSBoundsFromPoints([]orb.Point{
		{0.3, 0.2},
		{0.1, 0.5},
		{0.4, 0.1},
	})
	want := NewGPSBounds(0.1, 0.1, 0.4, 0.5)
	if bounds != want {
		t.Errorf("Bounds must be %v, but got %v", want, bounds)
	}
}

func TestDocumentOrderIsStable(t *testing.T) {
	doc := NewDocument()
	doc.SetGPSBounds(NewGPSBounds(0, 0, 0.01, 0.01))
	for _, id := range []osm.NodeID{5, 3, 9, 1} {
		addTestNode(doc, id, 0.001*float64(id), 0.005, nil)
	}

	got := []osm.NodeID{}
	doc.EachNode(func(node *Node) {
		got = append(got, node.ID)
	})
	want := []osm.NodeID{5, 3, 9, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Node order must be %v, but got %v", want, got)
		}
	}
}

func TestDocumentRejectsInconsistentWays(t *testing.T) {
	doc := NewDocument()
	doc.SetGPSBounds(NewGPSBounds(0, 0, 0.01, 0.01))
	addTestNode(doc, 1, 0.001, 0.005, nil)

	defer func() {
		if recover() == nil {
			t.Fatal("Way with a missing node must panic")
		}
	}()
	doc.AddWay(&Way{
		ID:    10,
		Nodes: []osm.NodeID{1, 2},
		Pts:   orb.LineString{{0, 0}, {1, 1}},
		Tags:  NewTags(),
	})
}

func TestOsmIDSumType(t *testing.T) {
	nodeID := NodeOsmID(42)
	if _, ok := nodeID.Way(); ok {
		t.Error("Node id must not read back as a way")
	}
	if id, ok := nodeID.Node(); !ok || id != 42 {
		t.Errorf("Node id must read back as node 42, but got %v (%v)", id, ok)
	}
	if nodeID.String() != "node/42" {
		t.Errorf("String must be %q, but got %q", "node/42", nodeID.String())
	}

	wayID := WayOsmID(7)
	if wayID.Kind() != OSM_ID_WAY {
		t.Errorf("Kind must be %v, but got %v", OSM_ID_WAY, wayID.Kind())
	}
}

func TestTagsFromOsm(t *testing.T) {
	tags := tagsFromOsm(osm.Tags{
		{Key: "highway", Value: "residential"},
		{Key: "lanes", Value: "2"},
	})
	if got, _ := tags.Get("highway"); got != "residential" {
		t.Errorf("Value must be %v, but got %v", "residential", got)
	}
	if tags.Len() != 2 {
		t.Errorf("Length must be %v, but got %v", 2, tags.Len())
	}
}

func TestOsmIDFromMember(t *testing.T) {
	id, ok := osmIDFromMember(osm.Member{Type: osm.TypeWay, Ref: 11})
	if !ok {
		t.Fatal("Way member must resolve")
	}
	if wayID, isWay := id.Way(); !isWay || wayID != 11 {
		t.Errorf("Member must be way 11, but got %v", id)
	}
}
