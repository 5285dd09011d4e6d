package streetnet

import (
	"fmt"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/pkg/errors"
)

// Highway values that never become roads. Footways, cycleways and friends DO
// become roads; they carry lanes of their own kind.
var ignoredHighwayValues = map[string]struct{}{
	"proposed":   {},
	"planned":    {},
	"abandoned":  {},
	"razed":      {},
	"dismantled": {},
	"disused":    {},
	"demolished": {},
	"raceway":    {},
	"elevator":   {},
	"escalator":  {},
	"corridor":   {},
	"bus_stop":   {},
	"platform":   {},
	"rest_area":  {},
	"services":   {},
	"no":         {},
}

var roadishRailwayValues = map[string]struct{}{
	"light_rail": {},
	"rail":       {},
	"tram":       {},
}

// isRoadWay decides whether a way is promoted to a Road. Buildings, landuse
// and other non-road ways are dropped here.
func isRoadWay(tags *Tags) bool {
	if tags.Is("area", "yes") {
		return false
	}
	if railway, ok := tags.Get("railway"); ok {
		if _, roadish := roadishRailwayValues[railway]; roadish {
			return true
		}
	}
	highway, ok := tags.Get("highway")
	if !ok {
		return false
	}
	_, skip := ignoredHighwayValues[highway]
	return !skip
}

// Assembler builds a StreetNetwork from a Document. Configure with the
// functional options and call Assemble.
type Assembler struct {
	config  *MapConfig
	verbose bool

	// Post-assembly passes, applied in this order.
	collapseShortRoadsMeters float64
	trimRoadEndsMeters       float64
}

func NewAssembler(options ...func(*Assembler)) *Assembler {
	assembler := &Assembler{
		config: DefaultMapConfig(),
	}
	for _, option := range options {
		option(assembler)
	}
	return assembler
}

func WithMapConfig(config *MapConfig) func(*Assembler) {
	return func(assembler *Assembler) {
		assembler.config = config
	}
}

func WithVerbose(verbose bool) func(*Assembler) {
	return func(assembler *Assembler) {
		assembler.verbose = verbose
	}
}

// WithCollapseShortRoads merges away roads shorter than the threshold.
func WithCollapseShortRoads(minLengthMeters float64) func(*Assembler) {
	return func(assembler *Assembler) {
		assembler.collapseShortRoadsMeters = minLengthMeters
	}
}

// WithTrimRoadEnds pulls center lines back from intersections.
func WithTrimRoadEnds(trimMeters float64) func(*Assembler) {
	return func(assembler *Assembler) {
		assembler.trimRoadEndsMeters = trimMeters
	}
}

// Assemble promotes road ways to Roads and their shared nodes to
// Intersections, infers lanes for every road, wires cross-references, and
// derives turns. The result satisfies the network invariants; CheckInvariants
// is run before returning.
func (assembler *Assembler) Assemble(doc *Document) (*StreetNetwork, error) {
	if doc == nil {
		return nil, errors.New("nil document")
	}

	net := NewStreetNetwork(assembler.config, doc.GPSBounds())

	// Which nodes anchor intersections? A node used by two road ways, used
	// twice by the same way, or ending any road way.
	if assembler.verbose {
		fmt.Print("Counting node use...")
	}
	st := time.Now()
	useCount := make(map[osm.NodeID]int)
	roadWays := []*Way{}
	doc.EachWay(func(way *Way) {
		if !isRoadWay(way.Tags) || len(way.Nodes) < 2 {
			return
		}
		roadWays = append(roadWays, way)
		for i, nodeID := range way.Nodes {
			if i == 0 || i == len(way.Nodes)-1 {
				useCount[nodeID] += 2
			} else {
				useCount[nodeID]++
			}
		}
	})
	if assembler.verbose {
		fmt.Printf("Done in %v\n\tRoad ways: %d\n", time.Since(st), len(roadWays))
	}

	// Promote split-boundary nodes to intersections and way segments between
	// them to roads.
	if assembler.verbose {
		fmt.Print("Preparing roads and intersections...")
	}
	st = time.Now()
	intersectionByNode := make(map[osm.NodeID]IntersectionID)
	mintIntersection := func(nodeID osm.NodeID) IntersectionID {
		if id, ok := intersectionByNode[nodeID]; ok {
			return id
		}
		node, ok := doc.Node(nodeID)
		if !ok {
			panic(fmt.Sprintf("Road way references node %d, which isn't in the document", nodeID))
		}
		intersection := net.newIntersection(&Intersection{
			OsmNodeID: nodeID,
			Point:     node.Pt,
			Control:   controlFromNodeTags(node.Tags),
			Tags:      node.Tags,
		})
		if intersection.Control == CONTROL_UNCONTROLLED && doc.GPSBounds().OnBoundary(node.LonLat) {
			intersection.Control = CONTROL_BORDER
		}
		intersectionByNode[nodeID] = intersection.ID
		return intersection.ID
	}

	roadsByWay := make(map[osm.WayID][]RoadID)
	for _, way := range roadWays {
		laneSpecs := GetLaneSpecsLTR(way.Tags, assembler.config)
		segmentStart := 0
		for i := 1; i < len(way.Nodes); i++ {
			if i < len(way.Nodes)-1 && useCount[way.Nodes[i]] <= 1 {
				continue
			}
			srcI := mintIntersection(way.Nodes[segmentStart])
			dstI := mintIntersection(way.Nodes[i])
			line := way.Pts[segmentStart : i+1]
			road := net.addRoad(&Road{
				SrcI:          srcI,
				DstI:          dstI,
				OsmWayID:      way.ID,
				CenterLine:    cloneLine(line),
				ReferenceLine: cloneLine(line),
				LaneSpecsLTR:  cloneLaneSpecs(laneSpecs),
				Tags:          way.Tags,
			})
			roadsByWay[way.ID] = append(roadsByWay[way.ID], road.ID)
			segmentStart = i
		}
	}
	if assembler.verbose {
		fmt.Printf("Done in %v\n\tRoads: %d\n\tIntersections: %d\n", time.Since(st), net.NumRoads(), net.NumIntersections())
	}

	assembler.resolveTurnRestrictions(doc, net, roadsByWay, intersectionByNode)

	net.ClassifyAllIntersections()
	net.DeriveAllTurns()

	if assembler.collapseShortRoadsMeters > 0 {
		if assembler.verbose {
			fmt.Print("Collapsing short roads...")
		}
		st = time.Now()
		collapsed := net.CollapseShortRoads(assembler.collapseShortRoadsMeters)
		net.ClassifyAllIntersections()
		if assembler.verbose {
			fmt.Printf("Done in %v\n\tCollapsed: %d\n", time.Since(st), collapsed)
		}
	}
	if assembler.trimRoadEndsMeters > 0 {
		net.TrimRoadEnds(assembler.trimRoadEndsMeters)
	}

	net.CheckInvariants()
	return net, nil
}

// resolveTurnRestrictions maps type=restriction relations onto the roads they
// constrain. Unresolvable members are skipped; mappers produce plenty of
// those near extract boundaries.
func (assembler *Assembler) resolveTurnRestrictions(doc *Document, net *StreetNetwork, roadsByWay map[osm.WayID][]RoadID, intersectionByNode map[osm.NodeID]IntersectionID) {
	count := 0
	doc.EachRelation(func(relation *Relation) {
		if !relation.Tags.Is("type", "restriction") {
			return
		}
		value, ok := relation.Tags.Get("restriction")
		if !ok {
			return
		}
		var kind RestrictionType
		switch {
		case strings.HasPrefix(value, "no_"):
			kind = RESTRICTION_BAN_TURNS
		case strings.HasPrefix(value, "only_"):
			kind = RESTRICTION_ONLY_ALLOW_TURNS
		default:
			return
		}

		var fromWay, toWay osm.WayID
		var viaNode osm.NodeID
		var haveFrom, haveTo, haveVia bool
		for _, member := range relation.Members {
			switch member.Role {
			case "from":
				if id, ok := member.ID.Way(); ok {
					fromWay, haveFrom = id, true
				}
			case "to":
				if id, ok := member.ID.Way(); ok {
					toWay, haveTo = id, true
				}
			case "via":
				if id, ok := member.ID.Node(); ok {
					viaNode, haveVia = id, true
				}
			}
		}
		if !haveFrom || !haveTo || !haveVia {
			return
		}
		via, ok := intersectionByNode[viaNode]
		if !ok {
			return
		}
		from, ok := roadTouching(net, roadsByWay[fromWay], via)
		if !ok {
			return
		}
		to, ok := roadTouching(net, roadsByWay[toWay], via)
		if !ok {
			return
		}
		from.TurnRestrictions = append(from.TurnRestrictions, TurnRestriction{Kind: kind, To: to.ID})
		count++
	})
	if assembler.verbose && count > 0 {
		fmt.Printf("Resolved turn restrictions: %d\n", count)
	}
}

func roadTouching(net *StreetNetwork, candidates []RoadID, via IntersectionID) (*Road, bool) {
	for _, id := range candidates {
		road := net.mustRoad(id)
		if road.SrcI == via || road.DstI == via {
			return road, true
		}
	}
	return nil, false
}

func cloneLine(line orb.LineString) orb.LineString {
	cloned := make(orb.LineString, len(line))
	copy(cloned, line)
	return cloned
}

func cloneLaneSpecs(specs []LaneSpec) []LaneSpec {
	cloned := make([]LaneSpec, len(specs))
	copy(cloned, specs)
	for i := range cloned {
		if len(specs[i].TurnRestrictions) > 0 {
			cloned[i].TurnRestrictions = append([]string{}, specs[i].TurnRestrictions...)
		}
	}
	return cloned
}
