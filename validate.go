package streetnet

import "fmt"

// CheckInvariants asserts the structural consistency of the network, panicking
// with the offending entity on the first violation. A violation is always an
// assembler bug; nothing downstream can cope with a broken graph, so there is
// no partial repair.
func (net *StreetNetwork) CheckInvariants() {
	for _, id := range net.roadOrder {
		road := net.roads[id]
		for _, i := range road.Endpoints() {
			intersection, ok := net.intersections[i]
			if !ok {
				panic(fmt.Sprintf("%s points to intersection %d, which isn't in the network", road.Describe(), i))
			}
			if !intersection.ContainsRoad(road.ID) {
				panic(fmt.Sprintf("%s doesn't list %s", intersection.Describe(), road.Describe()))
			}
		}
		if len(road.LaneSpecsLTR) == 0 {
			panic(fmt.Sprintf("%s has no lanes", road.Describe()))
		}
	}

	for _, id := range net.intersectionOrder {
		intersection := net.intersections[id]
		if len(intersection.Roads) == 0 {
			panic(fmt.Sprintf("%s has no roads", intersection.Describe()))
		}
		for _, roadID := range intersection.Roads {
			road, ok := net.roads[roadID]
			if !ok {
				panic(fmt.Sprintf("%s lists road %d, which isn't in the network", intersection.Describe(), roadID))
			}
			if road.SrcI != intersection.ID && road.DstI != intersection.ID {
				panic(fmt.Sprintf("%s contains %s, which doesn't point to it", intersection.Describe(), road.Describe()))
			}
		}
		for _, turn := range intersection.Turns {
			if !intersection.ContainsRoad(turn.From) {
				panic(fmt.Sprintf("%s has a turn from road %d, which isn't connected to it", intersection.Describe(), turn.From))
			}
			if !intersection.ContainsRoad(turn.To) {
				panic(fmt.Sprintf("%s has a turn to road %d, which isn't connected to it", intersection.Describe(), turn.To))
			}
		}
	}
}
