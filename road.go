package streetnet

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
)

type RoadID int

type RestrictionType uint16

const (
	RESTRICTION_BAN_TURNS = RestrictionType(iota + 1)
	RESTRICTION_ONLY_ALLOW_TURNS
)

func (iotaIdx RestrictionType) String() string {
	return [...]string{"ban_turns", "only_allow_turns"}[iotaIdx-1]
}

// TurnRestriction is a resolved OSM turn restriction relation: it either bans
// or exclusively allows turning from the owning road onto To.
type TurnRestriction struct {
	Kind RestrictionType
	To   RoadID
}

// Road is one directed-geometry segment of the street network, running from
// SrcI to DstI. Lane directions are relative to the center line.
type Road struct {
	ID       RoadID
	SrcI     IntersectionID
	DstI     IntersectionID
	OsmWayID osm.WayID

	// CenterLine may be trimmed or snapped by post-assembly passes;
	// ReferenceLine always stays the original OSM way geometry.
	CenterLine    orb.LineString
	ReferenceLine orb.LineString

	LaneSpecsLTR     []LaneSpec
	TurnRestrictions []TurnRestriction
	Tags             *Tags
}

func (road *Road) Describe() string {
	return fmt.Sprintf("Road %d (OSM way %d)", road.ID, road.OsmWayID)
}

// Endpoints returns the intersections the road connects. A loop lists the
// same intersection once.
func (road *Road) Endpoints() []IntersectionID {
	if road.SrcI == road.DstI {
		return []IntersectionID{road.SrcI}
	}
	return []IntersectionID{road.SrcI, road.DstI}
}

func (road *Road) IsLoop() bool {
	return road.SrcI == road.DstI
}

// OtherEnd returns the endpoint across from the given one. Panics when the
// road doesn't touch the given intersection.
func (road *Road) OtherEnd(i IntersectionID) IntersectionID {
	switch i {
	case road.SrcI:
		return road.DstI
	case road.DstI:
		return road.SrcI
	default:
		panic(fmt.Sprintf("%s doesn't touch intersection %d", road.Describe(), i))
	}
}

func (road *Road) LengthMeters() float64 {
	return lineLengthMeters(road.CenterLine)
}

// HasLanesTowards reports whether any vehicle lane carries traffic into the
// given endpoint.
func (road *Road) HasLanesTowards(i IntersectionID) bool {
	for _, lane := range road.LaneSpecsLTR {
		if !lane.LaneType.IsForMovingVehicles() {
			continue
		}
		if laneReaches(lane.Direction, road, i) {
			return true
		}
	}
	return false
}

// HasLanesFrom reports whether any vehicle lane carries traffic away from the
// given endpoint.
func (road *Road) HasLanesFrom(i IntersectionID) bool {
	for _, lane := range road.LaneSpecsLTR {
		if !lane.LaneType.IsForMovingVehicles() {
			continue
		}
		if laneReaches(lane.Direction, road, road.OtherEnd(i)) || road.IsLoop() {
			return true
		}
	}
	return false
}

// laneReaches reports whether a lane with the given direction ends up at the
// given endpoint of the road.
func laneReaches(direction LaneDirection, road *Road, i IntersectionID) bool {
	switch direction {
	case LANE_FORWARD:
		return road.DstI == i
	case LANE_BACKWARD:
		return road.SrcI == i
	case LANE_BOTH:
		return true
	}
	return false
}

// arrivalTangent is the unit direction of travel entering the intersection
// along this road.
func (road *Road) arrivalTangent(i IntersectionID) orb.Point {
	if road.DstI == i {
		return tangentAtEnd(road.CenterLine)
	}
	t := tangentAtStart(road.CenterLine)
	return orb.Point{-t.X(), -t.Y()}
}

// departureTangent is the unit direction of travel leaving the intersection
// along this road.
func (road *Road) departureTangent(i IntersectionID) orb.Point {
	if road.SrcI == i {
		return tangentAtStart(road.CenterLine)
	}
	t := tangentAtEnd(road.CenterLine)
	return orb.Point{-t.X(), -t.Y()}
}

// turnAllowedTo applies this road's restrictions to a candidate target.
func (road *Road) turnAllowedTo(to RoadID) bool {
	hasExclusiveAllows := false
	for _, restriction := range road.TurnRestrictions {
		switch restriction.Kind {
		case RESTRICTION_BAN_TURNS:
			if restriction.To == to {
				return false
			}
		case RESTRICTION_ONLY_ALLOW_TURNS:
			if restriction.To == to {
				return true
			}
			hasExclusiveAllows = true
		}
	}
	return !hasExclusiveAllows
}
