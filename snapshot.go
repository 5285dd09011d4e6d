package streetnet

import (
	"encoding/json"
	"io"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

// Snapshot is the serialized form of a StreetNetwork: a plain JSON document
// with everything a downstream consumer needs and nothing pointing back into
// the in-memory graph. Entries are ordered by id, so the same network always
// serializes to the same bytes.
type Snapshot struct {
	GPSBounds     GPSBounds              `json:"gps_bounds"`
	Config        SnapshotConfig         `json:"config"`
	Roads         []SnapshotRoad         `json:"roads"`
	Intersections []SnapshotIntersection `json:"intersections"`
}

type SnapshotConfig struct {
	DrivingSide         string `json:"driving_side"`
	BikesCanUseBusLanes bool   `json:"bikes_can_use_bus_lanes"`
	InferredSidewalks   bool   `json:"inferred_sidewalks"`
	InferredKerbs       bool   `json:"inferred_kerbs"`
	CountryCode         string `json:"country_code"`
}

type SnapshotRoad struct {
	ID               RoadID                    `json:"id"`
	SrcI             IntersectionID            `json:"src_i"`
	DstI             IntersectionID            `json:"dst_i"`
	OsmWayID         int64                     `json:"osm_way_id"`
	CenterLine       []SnapshotPoint           `json:"center_line"`
	LaneSpecsLTR     []SnapshotLane            `json:"lane_specs_ltr"`
	TurnRestrictions []SnapshotTurnRestriction `json:"turn_restrictions,omitempty"`
	Tags             map[string]string         `json:"tags,omitempty"`
}

type SnapshotPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type SnapshotLane struct {
	Type             string   `json:"type"`
	Buffer           string   `json:"buffer,omitempty"`
	Direction        string   `json:"direction"`
	WidthMeters      float64  `json:"width_meters"`
	TurnRestrictions []string `json:"turn_restrictions,omitempty"`
}

type SnapshotTurnRestriction struct {
	Kind string `json:"kind"`
	To   RoadID `json:"to"`
}

type SnapshotIntersection struct {
	ID        IntersectionID `json:"id"`
	OsmNodeID int64          `json:"osm_node_id"`
	Point     SnapshotPoint  `json:"point"`
	Kind      string         `json:"kind"`
	Control   string         `json:"control"`
	Roads     []RoadID       `json:"roads"`
	Turns     []SnapshotTurn `json:"turns,omitempty"`
}

type SnapshotTurn struct {
	From         RoadID  `json:"from"`
	To           RoadID  `json:"to"`
	Movement     string  `json:"movement"`
	AngleDegrees float64 `json:"angle_degrees"`
}

// BuildSnapshot flattens the network into its serializable form.
func (net *StreetNetwork) BuildSnapshot() Snapshot {
	snapshot := Snapshot{
		GPSBounds: net.gpsBounds,
		Config: SnapshotConfig{
			DrivingSide:         net.config.DrivingSide.String(),
			BikesCanUseBusLanes: net.config.BikesCanUseBusLanes,
			InferredSidewalks:   net.config.InferredSidewalks,
			InferredKerbs:       net.config.InferredKerbs,
			CountryCode:         net.config.CountryCode,
		},
		Roads:         []SnapshotRoad{},
		Intersections: []SnapshotIntersection{},
	}

	for _, id := range net.RoadIDs() {
		road := net.mustRoad(id)
		entry := SnapshotRoad{
			ID:         road.ID,
			SrcI:       road.SrcI,
			DstI:       road.DstI,
			OsmWayID:   int64(road.OsmWayID),
			CenterLine: snapshotLine(road.CenterLine),
		}
		for _, lane := range road.LaneSpecsLTR {
			snapLane := SnapshotLane{
				Type:        lane.LaneType.String(),
				Direction:   lane.Direction.String(),
				WidthMeters: lane.WidthMeters,
			}
			if lane.LaneType == LANE_BUFFER {
				snapLane.Buffer = lane.Buffer.String()
			}
			if len(lane.TurnRestrictions) > 0 {
				snapLane.TurnRestrictions = append([]string{}, lane.TurnRestrictions...)
			}
			entry.LaneSpecsLTR = append(entry.LaneSpecsLTR, snapLane)
		}
		for _, restriction := range road.TurnRestrictions {
			entry.TurnRestrictions = append(entry.TurnRestrictions, SnapshotTurnRestriction{
				Kind: restriction.Kind.String(),
				To:   restriction.To,
			})
		}
		if road.Tags != nil && road.Tags.Len() > 0 {
			entry.Tags = road.Tags.Map()
		}
		snapshot.Roads = append(snapshot.Roads, entry)
	}

	for _, id := range net.IntersectionIDs() {
		intersection := net.mustIntersection(id)
		entry := SnapshotIntersection{
			ID:        intersection.ID,
			OsmNodeID: int64(intersection.OsmNodeID),
			Point:     SnapshotPoint{X: intersection.Point.X(), Y: intersection.Point.Y()},
			Kind:      intersection.Kind.String(),
			Control:   intersection.Control.String(),
			Roads:     append([]RoadID{}, intersection.Roads...),
		}
		for _, turn := range intersection.Turns {
			entry.Turns = append(entry.Turns, SnapshotTurn{
				From:         turn.From,
				To:           turn.To,
				Movement:     turn.Movement.String(),
				AngleDegrees: turn.AngleDegrees,
			})
		}
		snapshot.Intersections = append(snapshot.Intersections, entry)
	}

	return snapshot
}

// MarshalSnapshot serializes the network as indented JSON.
func (net *StreetNetwork) MarshalSnapshot() ([]byte, error) {
	b, err := json.MarshalIndent(net.BuildSnapshot(), "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "Marshal snapshot")
	}
	return b, nil
}

// WriteSnapshot writes the JSON snapshot to the given writer.
func (net *StreetNetwork) WriteSnapshot(w io.Writer) error {
	b, err := net.MarshalSnapshot()
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return errors.Wrap(err, "Write snapshot")
}

func snapshotLine(line orb.LineString) []SnapshotPoint {
	pts := make([]SnapshotPoint, len(line))
	for i := range line {
		pts[i] = SnapshotPoint{X: line[i].X(), Y: line[i].Y()}
	}
	return pts
}
