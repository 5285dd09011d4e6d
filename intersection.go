package streetnet

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
)

type IntersectionID int

type IntersectionKind uint16

const (
	KIND_CONNECTION = IntersectionKind(iota + 1)
	KIND_TERMINUS
	KIND_FORK
	KIND_INTERSECTION
	KIND_MERGE
)

func (iotaIdx IntersectionKind) String() string {
	return [...]string{"connection", "terminus", "fork", "intersection", "merge"}[iotaIdx-1]
}

type ControlType uint16

const (
	CONTROL_UNCONTROLLED = ControlType(iota + 1)
	CONTROL_SIGNED
	CONTROL_SIGNALED
	CONTROL_CONSTRUCTION
	CONTROL_BORDER
)

func (iotaIdx ControlType) String() string {
	return [...]string{"uncontrolled", "signed", "signaled", "construction", "border"}[iotaIdx-1]
}

type TurnType uint16

const (
	TURN_STRAIGHT = TurnType(iota + 1)
	TURN_LEFT
	TURN_RIGHT
	TURN_SLIGHT_LEFT
	TURN_SLIGHT_RIGHT
	TURN_U_TURN
)

func (iotaIdx TurnType) String() string {
	return [...]string{"straight", "left", "right", "slight_left", "slight_right", "uturn"}[iotaIdx-1]
}

// classifyTurnAngle buckets the signed angle (degrees, counter-clockwise
// positive) between arrival and departure directions.
func classifyTurnAngle(angle float64) TurnType {
	abs := angle
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs < 30:
		return TURN_STRAIGHT
	case abs > 150:
		return TURN_U_TURN
	case abs < 60 && angle > 0:
		return TURN_SLIGHT_LEFT
	case abs < 60:
		return TURN_SLIGHT_RIGHT
	case angle > 0:
		return TURN_LEFT
	default:
		return TURN_RIGHT
	}
}

// Turn is a legal movement between two roads meeting at an intersection.
type Turn struct {
	From         RoadID
	To           RoadID
	Movement     TurnType
	AngleDegrees float64
}

// Intersection is a graph node where roads meet. Roads stays sorted so every
// walk over it is deterministic.
type Intersection struct {
	ID        IntersectionID
	OsmNodeID osm.NodeID
	Point     orb.Point
	Kind      IntersectionKind
	Control   ControlType
	Roads     []RoadID
	Turns     []Turn
	Tags      *Tags
}

func (intersection *Intersection) Describe() string {
	return fmt.Sprintf("Intersection %d (OSM node %d)", intersection.ID, intersection.OsmNodeID)
}

// ContainsRoad reports set membership.
func (intersection *Intersection) ContainsRoad(id RoadID) bool {
	for _, r := range intersection.Roads {
		if r == id {
			return true
		}
	}
	return false
}

// addRoad inserts the road keeping Roads sorted. Duplicate ids are ignored,
// so a loop road appears once.
func (intersection *Intersection) addRoad(id RoadID) {
	for i, r := range intersection.Roads {
		if r == id {
			return
		}
		if r > id {
			intersection.Roads = append(intersection.Roads[:i], append([]RoadID{id}, intersection.Roads[i:]...)...)
			return
		}
	}
	intersection.Roads = append(intersection.Roads, id)
}

func (intersection *Intersection) removeRoad(id RoadID) {
	for i, r := range intersection.Roads {
		if r == id {
			intersection.Roads = append(intersection.Roads[:i], intersection.Roads[i+1:]...)
			return
		}
	}
}

// controlFromNodeTags maps node tagging onto the control type.
func controlFromNodeTags(tags *Tags) ControlType {
	if tags == nil {
		return CONTROL_UNCONTROLLED
	}
	switch {
	case tags.Is("highway", "traffic_signals"):
		return CONTROL_SIGNALED
	case tags.IsAny("highway", "stop", "give_way"):
		return CONTROL_SIGNED
	case tags.Is("highway", "construction"):
		return CONTROL_CONSTRUCTION
	}
	return CONTROL_UNCONTROLLED
}
