package streetnet

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"github.com/pkg/errors"
)

const pbfScannerProcs = 4

// Loader reads an OSM extract into a Document. PBF and XML are both
// supported; the format is picked from the file extension.
type Loader struct {
	verbose bool

	// When set, overrides the bounds computed from the loaded nodes. Useful
	// when the extract was clipped to a known rectangle.
	clipBounds GPSBounds
}

func NewLoader(options ...func(*Loader)) *Loader {
	loader := &Loader{}
	for _, option := range options {
		option(loader)
	}
	return loader
}

func WithLoaderVerbose(verbose bool) func(*Loader) {
	return func(loader *Loader) {
		loader.verbose = verbose
	}
}

func WithClipBounds(bounds GPSBounds) func(*Loader) {
	return func(loader *Loader) {
		loader.clipBounds = bounds
	}
}

// rawWay and rawRelation buffer entities from the first scan until node
// positions arrive in the second.
type rawWay struct {
	id      osm.WayID
	nodes   []osm.NodeID
	tags    *Tags
	version int
}

type rawRelation struct {
	id      osm.RelationID
	tags    *Tags
	members []RelationMember
}

// LoadFile imports an extract from a *.osm.pbf or *.osm (XML) file.
func (loader *Loader) LoadFile(fileName string) (*Document, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrap(err, "File open")
	}
	defer f.Close()

	scannerWays := newOsmScanner(fileName, f)
	defer scannerWays.Close()

	// First pass: ways that can become roads, plus turn restriction
	// relations. Remember which nodes they need.
	if loader.verbose {
		fmt.Printf("Scanning ways...")
	}
	st := time.Now()
	ways := []rawWay{}
	relations := []rawRelation{}
	nodesNeeded := make(map[osm.NodeID]struct{})
	for scannerWays.Scan() {
		switch obj := scannerWays.Object().(type) {
		case *osm.Way:
			tags := tagsFromOsm(obj.Tags)
			if !isRoadWay(tags) || len(obj.Nodes) < 2 {
				continue
			}
			way := rawWay{
				id:      obj.ID,
				nodes:   make([]osm.NodeID, len(obj.Nodes)),
				tags:    tags,
				version: obj.Version,
			}
			for i, wayNode := range obj.Nodes {
				way.nodes[i] = wayNode.ID
				nodesNeeded[wayNode.ID] = struct{}{}
			}
			ways = append(ways, way)
		case *osm.Relation:
			tags := tagsFromOsm(obj.Tags)
			if !tags.Is("type", "restriction") {
				continue
			}
			relation := rawRelation{
				id:   obj.ID,
				tags: tags,
			}
			for _, member := range obj.Members {
				id, ok := osmIDFromMember(member)
				if !ok {
					continue
				}
				relation.members = append(relation.members, RelationMember{
					Role: member.Role,
					ID:   id,
				})
			}
			relations = append(relations, relation)
		}
	}
	if scannerWays.Err() != nil {
		return nil, errors.Wrap(scannerWays.Err(), "Scanner error on Ways")
	}
	if loader.verbose {
		fmt.Printf("Done in %v\n\tWays: %d\n\tRestrictions: %d\n", time.Since(st), len(ways), len(relations))
	}

	// Second pass: positions and tags of the needed nodes.
	_, err = f.Seek(0, io.SeekStart)
	if err != nil {
		return nil, errors.Wrap(err, "Can't repeat seeking")
	}
	scannerNodes := newOsmScanner(fileName, f)
	defer scannerNodes.Close()

	if loader.verbose {
		fmt.Printf("Scanning nodes...")
	}
	st = time.Now()
	lonLats := make(map[osm.NodeID]orb.Point)
	nodeTags := make(map[osm.NodeID]*Tags)
	nodeOrder := []osm.NodeID{}
	for scannerNodes.Scan() {
		node, ok := scannerNodes.Object().(*osm.Node)
		if !ok {
			continue
		}
		if _, needed := nodesNeeded[node.ID]; !needed {
			continue
		}
		delete(nodesNeeded, node.ID)
		lonLats[node.ID] = orb.Point{node.Lon, node.Lat}
		nodeTags[node.ID] = tagsFromOsm(node.Tags)
		nodeOrder = append(nodeOrder, node.ID)
	}
	if scannerNodes.Err() != nil {
		return nil, errors.Wrap(scannerNodes.Err(), "Scanner error on Nodes")
	}
	if loader.verbose {
		fmt.Printf("Done in %v\n\tNodes: %d\n", time.Since(st), len(lonLats))
	}
	if len(lonLats) == 0 {
		return nil, errors.New("No road nodes in extract")
	}

	// Fix the projection, then build the Document in file order.
	bounds := loader.clipBounds
	if bounds.IsZero() {
		pts := make([]orb.Point, 0, len(lonLats))
		for _, id := range nodeOrder {
			pts = append(pts, lonLats[id])
		}
		bounds = GPSBoundsFromPoints(pts)
	}
	doc := NewDocument()
	doc.SetGPSBounds(bounds)
	for _, id := range nodeOrder {
		lonLat := lonLats[id]
		doc.AddNode(&Node{
			ID:     id,
			LonLat: lonLat,
			Pt:     bounds.Project(lonLat),
			Tags:   nodeTags[id],
		})
	}

	droppedWays := 0
	for _, way := range ways {
		pts := make(orb.LineString, 0, len(way.nodes))
		complete := true
		for _, nodeID := range way.nodes {
			node, ok := doc.Node(nodeID)
			if !ok {
				// Clipped extracts reference nodes outside the cut.
				complete = false
				break
			}
			pts = append(pts, node.Pt)
		}
		if !complete {
			droppedWays++
			continue
		}
		doc.AddWay(&Way{
			ID:      way.id,
			Nodes:   way.nodes,
			Pts:     pts,
			Tags:    way.tags,
			Version: way.version,
		})
	}
	if loader.verbose && droppedWays > 0 {
		fmt.Printf("Dropped ways with missing nodes: %d\n", droppedWays)
	}

	for _, relation := range relations {
		doc.AddRelation(&Relation{
			ID:      relation.id,
			Tags:    relation.tags,
			Members: relation.members,
		})
	}

	return doc, nil
}

// osmScanner is the shared surface of the pbf and xml scanners.
type osmScanner interface {
	Scan() bool
	Object() osm.Object
	Err() error
	Close() error
}

func newOsmScanner(fileName string, f *os.File) osmScanner {
	if strings.HasSuffix(strings.ToLower(fileName), ".pbf") {
		return osmpbf.New(context.Background(), f, pbfScannerProcs)
	}
	return osmxml.New(context.Background(), f)
}

func tagsFromOsm(osmTags osm.Tags) *Tags {
	tags := NewTags()
	for _, tag := range osmTags {
		tags.Insert(tag.Key, tag.Value)
	}
	return tags
}

func osmIDFromMember(member osm.Member) (OsmID, bool) {
	switch member.Type {
	case osm.TypeNode:
		return NodeOsmID(osm.NodeID(member.Ref)), true
	case osm.TypeWay:
		return WayOsmID(osm.WayID(member.Ref)), true
	case osm.TypeRelation:
		return RelationOsmID(osm.RelationID(member.Ref)), true
	}
	return OsmID{}, false
}
