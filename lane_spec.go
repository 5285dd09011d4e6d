package streetnet

import (
	"fmt"
	"strings"
)

type LaneType uint16

const (
	LANE_DRIVING = LaneType(iota + 1)
	LANE_PARKING
	LANE_SIDEWALK
	LANE_SHOULDER
	LANE_BIKING
	LANE_BUS
	LANE_SHARED_LEFT_TURN
	LANE_CONSTRUCTION
	LANE_LIGHT_RAIL
	LANE_BUFFER
	LANE_FOOTWAY
	LANE_SHARED_USE

	LANE_UNDEFINED = LaneType(0)
)

func (iotaIdx LaneType) String() string {
	return [...]string{"undefined", "driving", "parking", "sidewalk", "shoulder", "biking", "bus", "shared_left_turn", "construction", "light_rail", "buffer", "footway", "shared_use"}[iotaIdx]
}

// IsForMovingVehicles reports whether vehicle traffic travels along the lane.
func (iotaIdx LaneType) IsForMovingVehicles() bool {
	switch iotaIdx {
	case LANE_DRIVING, LANE_BIKING, LANE_BUS, LANE_LIGHT_RAIL, LANE_SHARED_USE:
		return true
	}
	return false
}

// IsWalkable reports whether pedestrians travel along the lane.
func (iotaIdx LaneType) IsWalkable() bool {
	switch iotaIdx {
	case LANE_SIDEWALK, LANE_SHOULDER, LANE_FOOTWAY, LANE_SHARED_USE:
		return true
	}
	return false
}

// IsRoadway reports whether the lane is part of the contiguous sealed
// surface mappers consider the "road".
func (iotaIdx LaneType) IsRoadway() bool {
	switch iotaIdx {
	case LANE_SIDEWALK, LANE_FOOTWAY, LANE_SHARED_USE:
		return false
	}
	return true
}

// IsTaggedByLanesSuffix reports whether the lane is counted by OSM `*:lanes`
// suffixed tags (turn:lanes, bus:lanes and friends).
func (iotaIdx LaneType) IsTaggedByLanesSuffix() bool {
	switch iotaIdx {
	case LANE_DRIVING, LANE_BIKING, LANE_BUS, LANE_SHARED_LEFT_TURN, LANE_CONSTRUCTION:
		return true
	}
	return false
}

type BufferType uint16

const (
	BUFFER_STRIPES = BufferType(iota + 1)
	BUFFER_FLEX_POSTS
	BUFFER_PLANTERS
	BUFFER_JERSEY_BARRIER
	BUFFER_CURB

	BUFFER_NONE = BufferType(0)
)

func (iotaIdx BufferType) String() string {
	return [...]string{"none", "stripes", "flex_posts", "planters", "jersey_barrier", "curb"}[iotaIdx]
}

type LaneDirection uint16

const (
	LANE_FORWARD = LaneDirection(iota + 1)
	LANE_BACKWARD
	LANE_BOTH
)

func (iotaIdx LaneDirection) String() string {
	return [...]string{"forward", "backward", "both"}[iotaIdx-1]
}

func (iotaIdx LaneDirection) Opposite() LaneDirection {
	switch iotaIdx {
	case LANE_FORWARD:
		return LANE_BACKWARD
	case LANE_BACKWARD:
		return LANE_FORWARD
	default:
		return LANE_BOTH
	}
}

// LaneSpec describes a single lane: its role, the direction of its traffic
// relative to the parent way, and its width. Buffer lanes carry the buffer
// style; driving and bus lanes may carry turn restrictions parsed from
// turn:lanes tags.
type LaneSpec struct {
	LaneType         LaneType
	Buffer           BufferType
	Direction        LaneDirection
	WidthMeters      float64
	TurnRestrictions []string
}

func (spec LaneSpec) String() string {
	if spec.LaneType == LANE_BUFFER {
		return fmt.Sprintf("%s(%s) %.1fm", spec.LaneType, spec.Buffer, spec.WidthMeters)
	}
	if len(spec.TurnRestrictions) > 0 {
		return fmt.Sprintf("%s(%s) %.1fm turns=%s", spec.LaneType, spec.Direction, spec.WidthMeters, strings.Join(spec.TurnRestrictions, ";"))
	}
	return fmt.Sprintf("%s(%s) %.1fm", spec.LaneType, spec.Direction, spec.WidthMeters)
}

func forwardLane(laneType LaneType, tags *Tags, config *MapConfig) LaneSpec {
	return LaneSpec{
		LaneType:    laneType,
		Direction:   LANE_FORWARD,
		WidthMeters: defaultLaneWidth(laneType, BUFFER_NONE, tags, config),
	}
}

func backwardLane(laneType LaneType, tags *Tags, config *MapConfig) LaneSpec {
	return LaneSpec{
		LaneType:    laneType,
		Direction:   LANE_BACKWARD,
		WidthMeters: defaultLaneWidth(laneType, BUFFER_NONE, tags, config),
	}
}

func bothWaysLane(laneType LaneType, tags *Tags, config *MapConfig) LaneSpec {
	return LaneSpec{
		LaneType:    laneType,
		Direction:   LANE_BOTH,
		WidthMeters: defaultLaneWidth(laneType, BUFFER_NONE, tags, config),
	}
}

func bufferLane(style BufferType, direction LaneDirection, tags *Tags, config *MapConfig) LaneSpec {
	return LaneSpec{
		LaneType:    LANE_BUFFER,
		Buffer:      style,
		Direction:   direction,
		WidthMeters: defaultLaneWidth(LANE_BUFFER, style, tags, config),
	}
}

var defaultWidthByLaneType = map[LaneType]float64{
	LANE_DRIVING:          3.5,
	LANE_PARKING:          2.1,
	LANE_SIDEWALK:         1.5,
	LANE_SHOULDER:         0.5,
	LANE_BIKING:           2.0,
	LANE_BUS:              3.7,
	LANE_SHARED_LEFT_TURN: 3.5,
	LANE_CONSTRUCTION:     3.5,
	LANE_LIGHT_RAIL:       2.5,
	LANE_FOOTWAY:          2.0,
	LANE_SHARED_USE:       3.0,
}

var defaultWidthByBufferType = map[BufferType]float64{
	BUFFER_STRIPES:        1.5,
	BUFFER_FLEX_POSTS:     1.5,
	BUFFER_PLANTERS:       2.0,
	BUFFER_JERSEY_BARRIER: 1.5,
	BUFFER_CURB:           0.5,
}

// Country-specific width overrides, keyed by ISO 3166-1 alpha-2 code.
var countryWidthOverrides = map[string]map[LaneType]float64{
	"GB": {
		LANE_DRIVING: 3.25,
	},
	"NL": {
		LANE_BIKING: 2.5,
	},
	"DE": {
		LANE_DRIVING: 3.25,
		LANE_BIKING:  1.6,
	},
}

// Narrow service roads (alleys, driveways) get narrower lanes.
var serviceRoadWidthByLaneType = map[LaneType]float64{
	LANE_DRIVING: 2.5,
	LANE_PARKING: 1.5,
}

func defaultLaneWidth(laneType LaneType, style BufferType, tags *Tags, config *MapConfig) float64 {
	if laneType == LANE_BUFFER {
		if width, ok := defaultWidthByBufferType[style]; ok {
			return width
		}
		return defaultWidthByBufferType[BUFFER_STRIPES]
	}
	if tags != nil && tags.Is("highway", "service") {
		if width, ok := serviceRoadWidthByLaneType[laneType]; ok {
			return width
		}
	}
	if config != nil {
		if overrides, ok := countryWidthOverrides[config.CountryCode]; ok {
			if width, ok := overrides[laneType]; ok {
				return width
			}
		}
	}
	return defaultWidthByLaneType[laneType]
}

// assembleLTR puts forward and backward side lists, both ordered from the
// road center going outwards, into a single left-to-right list for the given
// driving side.
func assembleLTR(fwdSide, backSide []LaneSpec, drivingSide DrivingSide) []LaneSpec {
	ltr := make([]LaneSpec, 0, len(fwdSide)+len(backSide))
	switch drivingSide {
	case DRIVING_SIDE_RIGHT:
		for i := len(backSide) - 1; i >= 0; i-- {
			ltr = append(ltr, backSide[i])
		}
		ltr = append(ltr, fwdSide...)
	case DRIVING_SIDE_LEFT:
		for i := len(fwdSide) - 1; i >= 0; i-- {
			ltr = append(ltr, fwdSide[i])
		}
		ltr = append(ltr, backSide...)
	default:
		panic("Should not happen!")
	}
	return ltr
}

// OnewayForDriving returns the single direction of driving traffic, or false
// when the lanes are bidirectional or not driveable at all.
func OnewayForDriving(lanes []LaneSpec) (LaneDirection, bool) {
	fwd := false
	back := false
	for _, lane := range lanes {
		if lane.LaneType == LANE_DRIVING {
			switch lane.Direction {
			case LANE_FORWARD:
				fwd = true
			case LANE_BACKWARD:
				back = true
			case LANE_BOTH:
				fwd = true
				back = true
			}
		}
	}
	if fwd != back {
		if fwd {
			return LANE_FORWARD, true
		}
		return LANE_BACKWARD, true
	}
	return 0, false
}

// TotalWidthMeters sums lane widths across the road.
func TotalWidthMeters(lanes []LaneSpec) float64 {
	total := 0.0
	for _, lane := range lanes {
		total += lane.WidthMeters
	}
	return total
}
