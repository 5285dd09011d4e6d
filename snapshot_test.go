package streetnet

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip(t *testing.T) {
	net, err := NewAssembler().Assemble(yDocument())
	require.NoError(t, err)

	b, err := net.MarshalSnapshot()
	require.NoError(t, err)

	var snapshot Snapshot
	require.NoError(t, json.Unmarshal(b, &snapshot))

	assert.Equal(t, net.GPSBounds(), snapshot.GPSBounds)
	assert.Equal(t, "right", snapshot.Config.DrivingSide)
	assert.Equal(t, "US", snapshot.Config.CountryCode)
	assert.True(t, snapshot.Config.InferredSidewalks)

	require.Len(t, snapshot.Roads, 3)
	require.Len(t, snapshot.Intersections, 4)

	for _, road := range snapshot.Roads {
		assert.NotEmpty(t, road.LaneSpecsLTR, "road %d must have lanes", road.ID)
		assert.GreaterOrEqual(t, len(road.CenterLine), 2, "road %d must have geometry", road.ID)
		assert.Equal(t, "residential", road.Tags["highway"])
		for _, lane := range road.LaneSpecsLTR {
			assert.Greater(t, lane.WidthMeters, 0.0)
			assert.NotEmpty(t, lane.Type)
			assert.NotEmpty(t, lane.Direction)
		}
	}

	var fork *SnapshotIntersection
	for i := range snapshot.Intersections {
		if snapshot.Intersections[i].Kind == "fork" {
			fork = &snapshot.Intersections[i]
		}
	}
	require.NotNil(t, fork, "the three-arm intersection must serialize as a fork")
	assert.Len(t, fork.Roads, 3)
	assert.Len(t, fork.Turns, 6)
	for _, turn := range fork.Turns {
		assert.Contains(t, fork.Roads, turn.From)
		assert.Contains(t, fork.Roads, turn.To)
		assert.NotEmpty(t, turn.Movement)
	}
}

func TestSnapshotIsDeterministic(t *testing.T) {
	first, err := NewAssembler().Assemble(yDocument())
	require.NoError(t, err)
	second, err := NewAssembler().Assemble(yDocument())
	require.NoError(t, err)

	a, err := first.MarshalSnapshot()
	require.NoError(t, err)
	b, err := second.MarshalSnapshot()
	require.NoError(t, err)
	assert.True(t, bytes.Equal(a, b), "identical inputs must serialize identically")
}

func TestSnapshotRestrictions(t *testing.T) {
	doc := yDocument()
	doc.AddRelation(&Relation{
		ID:   100,
		Tags: TagsFrom(map[string]string{"type": "restriction", "restriction": "no_left_turn"}),
		Members: []RelationMember{
			{Role: "from", ID: WayOsmID(12)},
			{Role: "via", ID: NodeOsmID(1)},
			{Role: "to", ID: WayOsmID(11)},
		},
	})
	net, err := NewAssembler().Assemble(doc)
	require.NoError(t, err)

	snapshot := net.BuildSnapshot()
	restricted := 0
	for _, road := range snapshot.Roads {
		for _, restriction := range road.TurnRestrictions {
			assert.Equal(t, "ban_turns", restriction.Kind)
			restricted++
		}
	}
	assert.Equal(t, 1, restricted)
}

func TestExportGeoJSON(t *testing.T) {
	net, err := NewAssembler().Assemble(yDocument())
	require.NoError(t, err)

	b, err := net.ExportGeoJSON()
	require.NoError(t, err)

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type string `json:"type"`
			} `json:"geometry"`
			Properties map[string]interface{} `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(b, &fc))
	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 7)

	lines, points := 0, 0
	for _, feature := range fc.Features {
		switch feature.Geometry.Type {
		case "LineString":
			lines++
			assert.NotEmpty(t, feature.Properties["polyline"])
			assert.NotEmpty(t, feature.Properties["lanes"])
		case "Point":
			points++
			assert.NotEmpty(t, feature.Properties["kind"])
		}
	}
	assert.Equal(t, 3, lines)
	assert.Equal(t, 4, points)
}

func TestExportWKT(t *testing.T) {
	net, err := NewAssembler().Assemble(yDocument())
	require.NoError(t, err)

	var roads bytes.Buffer
	require.NoError(t, net.ExportWKTRoads(&roads))
	lines := bytes.Split(bytes.TrimSpace(roads.Bytes()), []byte("\n"))
	require.Len(t, lines, 4) // header + 3 roads
	assert.Contains(t, string(lines[1]), "LINESTRING")

	var intersections bytes.Buffer
	require.NoError(t, net.ExportWKTIntersections(&intersections))
	lines = bytes.Split(bytes.TrimSpace(intersections.Bytes()), []byte("\n"))
	require.Len(t, lines, 5) // header + 4 intersections
	assert.Contains(t, string(lines[1]), "POINT")
}
