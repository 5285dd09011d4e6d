package streetnet

import (
	"math"

	"github.com/paulmach/orb"
)

type MarkingKind uint16

const (
	MARKING_LONGITUDINAL = MarkingKind(iota + 1)
	MARKING_TRANSVERSE
	MARKING_SYMBOL
	MARKING_AREA
)

func (iotaIdx MarkingKind) String() string {
	return [...]string{"longitudinal", "transverse", "symbol", "area"}[iotaIdx-1]
}

type LaneEdgeKind uint16

const (
	EDGE_ONCOMING_SEPARATION = LaneEdgeKind(iota + 1)
	EDGE_LANE_SEPARATION
	EDGE_ROAD_EDGE
	EDGE_CONTINUITY
)

func (iotaIdx LaneEdgeKind) String() string {
	return [...]string{"oncoming_separation", "lane_separation", "road_edge", "continuity"}[iotaIdx-1]
}

type TransverseKind uint16

const (
	TRANSVERSE_STOP_LINE = TransverseKind(iota + 1)
	TRANSVERSE_YIELD_LINE
)

func (iotaIdx TransverseKind) String() string {
	return [...]string{"stop_line", "yield_line"}[iotaIdx-1]
}

type SymbolKind uint16

const (
	SYMBOL_TRAFFIC_MODE = SymbolKind(iota + 1)
	SYMBOL_TURN_ARROW
)

func (iotaIdx SymbolKind) String() string {
	return [...]string{"traffic_mode", "turn_arrow"}[iotaIdx-1]
}

type TrafficMode uint16

const (
	MODE_BIKE = TrafficMode(iota + 1)
	MODE_BUS
	MODE_TAXI
	MODE_FOOT
)

func (iotaIdx TrafficMode) String() string {
	return [...]string{"bike", "bus", "taxi", "foot"}[iotaIdx-1]
}

// Marking is one piece of paint or street furniture derived from lane specs.
// Kind picks which of the geometry/detail fields are meaningful.
type Marking struct {
	Kind MarkingKind

	// Longitudinal: a stripe along the boundary between two adjacent lanes.
	Line  orb.LineString
	Edge  LaneEdgeKind
	Lanes [2]LaneType

	// Transverse: a line across the approach lanes.
	Transverse TransverseKind

	// Symbol: an icon at a point, rotated to the direction of travel.
	Point        orb.Point
	AngleDegrees float64
	Symbol       SymbolKind
	Mode         TrafficMode
	Turns        []string

	// Area: a designated no-traffic region, e.g. a painted buffer.
	Area orb.Ring
}

// ProjectMarkings derives the markings for one road. Stateless per road: only
// the road's lanes, geometry and its endpoint controls matter.
func (net *StreetNetwork) ProjectMarkings(road *Road) []Marking {
	markings := []Marking{}
	lanes := road.LaneSpecsLTR
	if len(lanes) == 0 || len(road.CenterLine) < 2 {
		return markings
	}

	total := TotalWidthMeters(lanes)
	// Boundary offsets from the center line, positive to the left of travel.
	offsets := make([]float64, len(lanes)+1)
	offsets[0] = total / 2.0
	for i, lane := range lanes {
		offsets[i+1] = offsets[i] - lane.WidthMeters
	}

	// Longitudinal stripes between adjacent lanes, plus the outer road edges
	// when kerbs are inferred.
	for i := 0; i+1 < len(lanes); i++ {
		markings = append(markings, Marking{
			Kind:  MARKING_LONGITUDINAL,
			Line:  offsetCurve(road.CenterLine, offsets[i+1]),
			Edge:  laneEdgeKind(lanes[i], lanes[i+1]),
			Lanes: [2]LaneType{lanes[i].LaneType, lanes[i+1].LaneType},
		})
	}
	if net.config.InferredKerbs {
		markings = append(markings,
			Marking{
				Kind:  MARKING_LONGITUDINAL,
				Line:  offsetCurve(road.CenterLine, offsets[0]),
				Edge:  EDGE_ROAD_EDGE,
				Lanes: [2]LaneType{LANE_UNDEFINED, lanes[0].LaneType},
			},
			Marking{
				Kind:  MARKING_LONGITUDINAL,
				Line:  offsetCurve(road.CenterLine, offsets[len(lanes)]),
				Edge:  EDGE_ROAD_EDGE,
				Lanes: [2]LaneType{lanes[len(lanes)-1].LaneType, LANE_UNDEFINED},
			},
		)
	}

	markings = append(markings, net.transverseMarkings(road, offsets)...)
	markings = append(markings, net.symbolMarkings(road, offsets)...)

	// Buffer lanes become painted areas.
	for i, lane := range lanes {
		if lane.LaneType != LANE_BUFFER {
			continue
		}
		left := offsetCurve(road.CenterLine, offsets[i])
		right := offsetCurve(road.CenterLine, offsets[i+1])
		ring := make(orb.Ring, 0, len(left)+len(right)+1)
		ring = append(ring, left...)
		ring = append(ring, reverseLine(right)...)
		ring = append(ring, firstPoint(left))
		markings = append(markings, Marking{
			Kind: MARKING_AREA,
			Area: ring,
		})
	}

	return markings
}

// AllMarkings projects every road, in network order.
func (net *StreetNetwork) AllMarkings() []Marking {
	markings := []Marking{}
	net.EachRoad(func(road *Road) {
		markings = append(markings, net.ProjectMarkings(road)...)
	})
	return markings
}

// laneEdgeKind classifies the stripe between two adjacent lanes, left to
// right.
func laneEdgeKind(left, right LaneSpec) LaneEdgeKind {
	if left.LaneType.IsRoadway() != right.LaneType.IsRoadway() {
		return EDGE_ROAD_EDGE
	}
	leftMoving := left.LaneType.IsForMovingVehicles()
	rightMoving := right.LaneType.IsForMovingVehicles()
	if leftMoving && rightMoving {
		if opposedDirections(left.Direction, right.Direction) {
			return EDGE_ONCOMING_SEPARATION
		}
		return EDGE_LANE_SEPARATION
	}
	// Parking, buffers and shared turn lanes get crossed by traffic.
	return EDGE_CONTINUITY
}

func opposedDirections(a, b LaneDirection) bool {
	return (a == LANE_FORWARD && b == LANE_BACKWARD) || (a == LANE_BACKWARD && b == LANE_FORWARD)
}

const stopLineIndentMeters = 1.0

// transverseMarkings paints stop or yield lines across the vehicle lanes
// approaching a signed or signaled intersection.
func (net *StreetNetwork) transverseMarkings(road *Road, offsets []float64) []Marking {
	markings := []Marking{}
	for _, endpoint := range road.Endpoints() {
		intersection := net.mustIntersection(endpoint)
		if intersection.Control != CONTROL_SIGNED && intersection.Control != CONTROL_SIGNALED {
			continue
		}
		kind := TRANSVERSE_STOP_LINE
		if intersection.Control == CONTROL_SIGNED && intersection.Tags != nil && intersection.Tags.Is("highway", "give_way") {
			kind = TRANSVERSE_YIELD_LINE
		}

		// Span only the lanes that deliver traffic into this endpoint.
		first, last := -1, -1
		for i, lane := range road.LaneSpecsLTR {
			if !lane.LaneType.IsForMovingVehicles() || !laneReaches(lane.Direction, road, endpoint) {
				continue
			}
			if first < 0 {
				first = i
			}
			last = i
		}
		if first < 0 {
			continue
		}

		length := lineLengthMeters(road.CenterLine)
		at := length - stopLineIndentMeters
		if road.SrcI == endpoint {
			at = stopLineIndentMeters
		}
		if at < 0 {
			at = length / 2.0
		}
		leftEdge := pointAlongLine(offsetCurve(road.CenterLine, offsets[first]), at)
		rightEdge := pointAlongLine(offsetCurve(road.CenterLine, offsets[last+1]), at)
		markings = append(markings, Marking{
			Kind:       MARKING_TRANSVERSE,
			Line:       orb.LineString{leftEdge, rightEdge},
			Transverse: kind,
		})
	}
	return markings
}

// symbolMarkings stamps mode icons on bike/bus lanes and turn arrows on
// lanes with explicit turn restrictions.
func (net *StreetNetwork) symbolMarkings(road *Road, offsets []float64) []Marking {
	markings := []Marking{}
	for i, lane := range road.LaneSpecsLTR {
		mid := offsetCurve(road.CenterLine, (offsets[i]+offsets[i+1])/2.0)
		angle := travelAngleDegrees(mid, lane.Direction)

		switch lane.LaneType {
		case LANE_BIKING:
			markings = append(markings, symbolAt(mid, 0.5, angle, MODE_BIKE))
		case LANE_BUS:
			markings = append(markings, symbolAt(mid, 0.5, angle, MODE_BUS))
			if net.config.BikesCanUseBusLanes {
				markings = append(markings, symbolAt(mid, 0.4, angle, MODE_BIKE))
			}
		}

		if len(lane.TurnRestrictions) > 0 {
			fraction := 0.8
			if lane.Direction == LANE_BACKWARD {
				fraction = 0.2
			}
			markings = append(markings, Marking{
				Kind:         MARKING_SYMBOL,
				Symbol:       SYMBOL_TURN_ARROW,
				Point:        pointAlongFraction(mid, fraction),
				AngleDegrees: angle,
				Turns:        append([]string{}, lane.TurnRestrictions...),
			})
		}
	}
	return markings
}

func symbolAt(mid orb.LineString, fraction, angle float64, mode TrafficMode) Marking {
	return Marking{
		Kind:         MARKING_SYMBOL,
		Symbol:       SYMBOL_TRAFFIC_MODE,
		Mode:         mode,
		Point:        pointAlongFraction(mid, fraction),
		AngleDegrees: angle,
	}
}

// travelAngleDegrees is the heading of traffic in the lane, measured
// counter-clockwise from east.
func travelAngleDegrees(line orb.LineString, direction LaneDirection) float64 {
	t := tangentAtStart(line)
	angle := radiansToDegrees(math.Atan2(t.Y(), t.X()))
	if direction == LANE_BACKWARD {
		angle += 180
		if angle > 180 {
			angle -= 360
		}
	}
	return angle
}
