package streetnet

import (
	"fmt"
	"sort"
)

// StreetNetwork is the validated road/intersection graph. Roads and
// intersections live in separate arenas keyed by stable ids; every
// cross-reference between them is an id, never a pointer. All mutation goes
// through methods that keep both sides of each cross-reference in sync.
type StreetNetwork struct {
	roads             map[RoadID]*Road
	roadOrder         []RoadID
	intersections     map[IntersectionID]*Intersection
	intersectionOrder []IntersectionID

	config    *MapConfig
	gpsBounds GPSBounds

	nextRoadID         RoadID
	nextIntersectionID IntersectionID
}

func NewStreetNetwork(config *MapConfig, gpsBounds GPSBounds) *StreetNetwork {
	if config == nil {
		config = DefaultMapConfig()
	}
	return &StreetNetwork{
		roads:         make(map[RoadID]*Road),
		intersections: make(map[IntersectionID]*Intersection),
		config:        config,
		gpsBounds:     gpsBounds,
	}
}

func (net *StreetNetwork) Config() *MapConfig {
	return net.config
}

func (net *StreetNetwork) GPSBounds() GPSBounds {
	return net.gpsBounds
}

func (net *StreetNetwork) Road(id RoadID) (*Road, bool) {
	road, ok := net.roads[id]
	return road, ok
}

// mustRoad panics with the offending id; missing arena entries are assembler
// bugs, not recoverable conditions.
func (net *StreetNetwork) mustRoad(id RoadID) *Road {
	road, ok := net.roads[id]
	if !ok {
		panic(fmt.Sprintf("Road %d isn't in the network", id))
	}
	return road
}

func (net *StreetNetwork) Intersection(id IntersectionID) (*Intersection, bool) {
	intersection, ok := net.intersections[id]
	return intersection, ok
}

func (net *StreetNetwork) mustIntersection(id IntersectionID) *Intersection {
	intersection, ok := net.intersections[id]
	if !ok {
		panic(fmt.Sprintf("Intersection %d isn't in the network", id))
	}
	return intersection
}

func (net *StreetNetwork) NumRoads() int {
	return len(net.roads)
}

func (net *StreetNetwork) NumIntersections() int {
	return len(net.intersections)
}

// EachRoad visits roads in insertion (document) order.
func (net *StreetNetwork) EachRoad(fn func(*Road)) {
	for _, id := range net.roadOrder {
		fn(net.roads[id])
	}
}

// EachIntersection visits intersections in insertion order.
func (net *StreetNetwork) EachIntersection(fn func(*Intersection)) {
	for _, id := range net.intersectionOrder {
		fn(net.intersections[id])
	}
}

func (net *StreetNetwork) newIntersection(intersection *Intersection) *Intersection {
	intersection.ID = net.nextIntersectionID
	net.nextIntersectionID++
	net.intersections[intersection.ID] = intersection
	net.intersectionOrder = append(net.intersectionOrder, intersection.ID)
	return intersection
}

// addRoad wires the road into both endpoint intersections as one step, so no
// reader ever observes a half-linked road.
func (net *StreetNetwork) addRoad(road *Road) *Road {
	road.ID = net.nextRoadID
	net.nextRoadID++
	net.roads[road.ID] = road
	net.roadOrder = append(net.roadOrder, road.ID)
	net.mustIntersection(road.SrcI).addRoad(road.ID)
	net.mustIntersection(road.DstI).addRoad(road.ID)
	return road
}

// RemoveRoad unlinks the road from both endpoints and drops turns through it.
// Endpoint intersections left without roads are removed too.
func (net *StreetNetwork) RemoveRoad(id RoadID) {
	road := net.mustRoad(id)
	for _, i := range road.Endpoints() {
		intersection := net.mustIntersection(i)
		intersection.removeRoad(id)
		intersection.Turns = dropTurnsVia(intersection.Turns, id)
		if len(intersection.Roads) == 0 {
			net.removeIntersection(i)
		}
	}
	delete(net.roads, id)
	for idx, r := range net.roadOrder {
		if r == id {
			net.roadOrder = append(net.roadOrder[:idx], net.roadOrder[idx+1:]...)
			break
		}
	}
}

func (net *StreetNetwork) removeIntersection(id IntersectionID) {
	delete(net.intersections, id)
	for idx, i := range net.intersectionOrder {
		if i == id {
			net.intersectionOrder = append(net.intersectionOrder[:idx], net.intersectionOrder[idx+1:]...)
			break
		}
	}
}

func dropTurnsVia(turns []Turn, id RoadID) []Turn {
	kept := turns[:0]
	for _, turn := range turns {
		if turn.From != id && turn.To != id {
			kept = append(kept, turn)
		}
	}
	return kept
}

// CollapseShortRoad removes the road and merges its two endpoint
// intersections into one, rewiring every surviving road and re-deriving the
// affected turns. Loops just disappear.
func (net *StreetNetwork) CollapseShortRoad(id RoadID) {
	road := net.mustRoad(id)
	src, dst := road.SrcI, road.DstI
	net.RemoveRoad(id)

	if src == dst {
		if keep, ok := net.intersections[src]; ok {
			net.deriveTurnsAt(keep)
			net.classifyIntersection(keep)
		}
		return
	}

	keep, keepOK := net.intersections[src]
	gone, goneOK := net.intersections[dst]
	if !keepOK || !goneOK {
		// One endpoint vanished with the road; nothing left to merge.
		for _, intersection := range []*Intersection{keep, gone} {
			if intersection != nil {
				net.deriveTurnsAt(intersection)
				net.classifyIntersection(intersection)
			}
		}
		return
	}

	// Move every road touching the vanishing intersection over to the kept
	// one, then re-derive its turns in one go.
	for _, roadID := range append([]RoadID{}, gone.Roads...) {
		moved := net.mustRoad(roadID)
		if moved.SrcI == dst {
			moved.SrcI = src
		}
		if moved.DstI == dst {
			moved.DstI = src
		}
		keep.addRoad(roadID)
	}
	net.removeIntersection(dst)

	net.deriveTurnsAt(keep)
	net.classifyIntersection(keep)
}

// CollapseShortRoads merges away every road shorter than minLengthMeters,
// except loops back to the same intersection, which keep their geometry.
// Returns how many roads were collapsed.
func (net *StreetNetwork) CollapseShortRoads(minLengthMeters float64) int {
	collapsed := 0
	for {
		var victim RoadID
		found := false
		for _, id := range net.roadOrder {
			road := net.roads[id]
			if !road.IsLoop() && road.LengthMeters() < minLengthMeters {
				victim = id
				found = true
				break
			}
		}
		if !found {
			return collapsed
		}
		net.CollapseShortRoad(victim)
		collapsed++
	}
}

// TrimRoadEnds pulls every road's center line back from its endpoint
// intersections, making room for intersection geometry. Reference lines are
// untouched. Turns are re-derived since tangents may shift.
func (net *StreetNetwork) TrimRoadEnds(trimMeters float64) {
	for _, id := range net.roadOrder {
		road := net.roads[id]
		fromStart := trimMeters
		fromEnd := trimMeters
		if net.mustIntersection(road.SrcI).Kind == KIND_TERMINUS {
			fromStart = 0
		}
		if net.mustIntersection(road.DstI).Kind == KIND_TERMINUS {
			fromEnd = 0
		}
		road.CenterLine = trimLineEnds(road.CenterLine, fromStart, fromEnd)
	}
	net.DeriveAllTurns()
}

// DeriveAllTurns recomputes every intersection's turns from current geometry
// and lane specs.
func (net *StreetNetwork) DeriveAllTurns() {
	for _, id := range net.intersectionOrder {
		net.deriveTurnsAt(net.intersections[id])
	}
}

// deriveTurnsAt enumerates legal movements at one intersection: every ordered
// pair of distinct roads where the first can deliver traffic into the
// intersection and the second can carry it away, minus restricted turns.
func (net *StreetNetwork) deriveTurnsAt(intersection *Intersection) {
	turns := []Turn{}
	for _, fromID := range intersection.Roads {
		from := net.mustRoad(fromID)
		if !from.HasLanesTowards(intersection.ID) {
			continue
		}
		for _, toID := range intersection.Roads {
			if toID == fromID {
				continue
			}
			to := net.mustRoad(toID)
			if !to.HasLanesFrom(intersection.ID) {
				continue
			}
			if !from.turnAllowedTo(toID) {
				continue
			}
			angle := angleBetweenDegrees(
				from.arrivalTangent(intersection.ID),
				to.departureTangent(intersection.ID),
			)
			turns = append(turns, Turn{
				From:         fromID,
				To:           toID,
				Movement:     classifyTurnAngle(angle),
				AngleDegrees: angle,
			})
		}
	}
	intersection.Turns = turns
}

// classifyIntersection assigns the kind from the connected road count. Three
// arms where all traffic funnels into a single outgoing road is a merge; any
// other three-arm node is a fork.
func (net *StreetNetwork) classifyIntersection(intersection *Intersection) {
	switch len(intersection.Roads) {
	case 0:
		// Validator will catch this; keep whatever kind it had.
	case 1:
		intersection.Kind = KIND_TERMINUS
	case 2:
		intersection.Kind = KIND_CONNECTION
	case 3:
		outgoing := 0
		for _, id := range intersection.Roads {
			if net.mustRoad(id).HasLanesFrom(intersection.ID) {
				outgoing++
			}
		}
		if outgoing == 1 {
			intersection.Kind = KIND_MERGE
		} else {
			intersection.Kind = KIND_FORK
		}
	default:
		intersection.Kind = KIND_INTERSECTION
	}
}

// ClassifyAllIntersections re-runs kind classification everywhere.
func (net *StreetNetwork) ClassifyAllIntersections() {
	for _, id := range net.intersectionOrder {
		net.classifyIntersection(net.intersections[id])
	}
}

// RoadIDs returns all road ids sorted ascending.
func (net *StreetNetwork) RoadIDs() []RoadID {
	ids := make([]RoadID, 0, len(net.roads))
	for id := range net.roads {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// IntersectionIDs returns all intersection ids sorted ascending.
func (net *StreetNetwork) IntersectionIDs() []IntersectionID {
	ids := make([]IntersectionID, 0, len(net.intersections))
	for id := range net.intersections {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
