package streetnet

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
)

// OsmIDKind discriminates the three disjoint OSM identifier spaces.
type OsmIDKind uint16

const (
	OSM_ID_NODE = OsmIDKind(iota + 1)
	OSM_ID_WAY
	OSM_ID_RELATION
)

func (iotaIdx OsmIDKind) String() string {
	return [...]string{"node", "way", "relation"}[iotaIdx-1]
}

// OsmID unifies node, way and relation identifiers into a single sum type,
// used where relation members may reference any entity kind.
type OsmID struct {
	kind OsmIDKind
	id   int64
}

func NodeOsmID(id osm.NodeID) OsmID {
	return OsmID{kind: OSM_ID_NODE, id: int64(id)}
}

func WayOsmID(id osm.WayID) OsmID {
	return OsmID{kind: OSM_ID_WAY, id: int64(id)}
}

func RelationOsmID(id osm.RelationID) OsmID {
	return OsmID{kind: OSM_ID_RELATION, id: int64(id)}
}

func (oid OsmID) Kind() OsmIDKind {
	return oid.kind
}

func (oid OsmID) Node() (osm.NodeID, bool) {
	return osm.NodeID(oid.id), oid.kind == OSM_ID_NODE
}

func (oid OsmID) Way() (osm.WayID, bool) {
	return osm.WayID(oid.id), oid.kind == OSM_ID_WAY
}

func (oid OsmID) Relation() (osm.RelationID, bool) {
	return osm.RelationID(oid.id), oid.kind == OSM_ID_RELATION
}

func (oid OsmID) String() string {
	return fmt.Sprintf("%s/%d", oid.kind, oid.id)
}

// Node is an OSM node after parsing: its position both in lon/lat and
// projected planar meters, plus tags.
type Node struct {
	ID     osm.NodeID
	LonLat orb.Point
	Pt     orb.Point
	Tags   *Tags
}

// Way is an OSM way after parsing. Nodes and Pts run parallel: Pts[i] is the
// projected position of Nodes[i].
type Way struct {
	ID      osm.WayID
	Nodes   []osm.NodeID
	Pts     orb.LineString
	Tags    *Tags
	Version int
}

// RelationMember is one (role, entity) pair of a relation.
type RelationMember struct {
	Role string
	ID   OsmID
}

// Relation is an OSM relation after parsing.
type Relation struct {
	ID      osm.RelationID
	Tags    *Tags
	Members []RelationMember
}

// Document is the in-memory model of an OSM extract. Built once by the
// loader, read-only afterwards. Entity order follows the source file, so
// iteration is deterministic.
type Document struct {
	gpsBounds GPSBounds

	nodes     map[osm.NodeID]*Node
	nodeOrder []osm.NodeID

	ways     map[osm.WayID]*Way
	wayOrder []osm.WayID

	relations     map[osm.RelationID]*Relation
	relationOrder []osm.RelationID
}

func NewDocument() *Document {
	return &Document{
		nodes:     make(map[osm.NodeID]*Node),
		ways:      make(map[osm.WayID]*Way),
		relations: make(map[osm.RelationID]*Relation),
	}
}

// SetGPSBounds fixes the projection rectangle. Panics when called twice with
// different bounds, since every stored point depends on it.
func (doc *Document) SetGPSBounds(bounds GPSBounds) {
	if !doc.gpsBounds.IsZero() && doc.gpsBounds != bounds {
		panic(fmt.Sprintf("Document GPS bounds already set to %s, can't change to %s", doc.gpsBounds, bounds))
	}
	doc.gpsBounds = bounds
}

func (doc *Document) GPSBounds() GPSBounds {
	return doc.gpsBounds
}

func (doc *Document) AddNode(node *Node) {
	if _, ok := doc.nodes[node.ID]; !ok {
		doc.nodeOrder = append(doc.nodeOrder, node.ID)
	}
	doc.nodes[node.ID] = node
}

// AddWay stores the way. Panics when the parallel node/point lists disagree
// or a way node is missing from the document, both loader bugs.
func (doc *Document) AddWay(way *Way) {
	if len(way.Nodes) != len(way.Pts) {
		panic(fmt.Sprintf("Way %d has %d nodes but %d points", way.ID, len(way.Nodes), len(way.Pts)))
	}
	for _, nodeID := range way.Nodes {
		if _, ok := doc.nodes[nodeID]; !ok {
			panic(fmt.Sprintf("Way %d references node %d, which isn't in the document", way.ID, nodeID))
		}
	}
	if _, ok := doc.ways[way.ID]; !ok {
		doc.wayOrder = append(doc.wayOrder, way.ID)
	}
	doc.ways[way.ID] = way
}

func (doc *Document) AddRelation(relation *Relation) {
	if _, ok := doc.relations[relation.ID]; !ok {
		doc.relationOrder = append(doc.relationOrder, relation.ID)
	}
	doc.relations[relation.ID] = relation
}

func (doc *Document) Node(id osm.NodeID) (*Node, bool) {
	node, ok := doc.nodes[id]
	return node, ok
}

func (doc *Document) Way(id osm.WayID) (*Way, bool) {
	way, ok := doc.ways[id]
	return way, ok
}

func (doc *Document) Relation(id osm.RelationID) (*Relation, bool) {
	relation, ok := doc.relations[id]
	return relation, ok
}

// EachNode visits nodes in document order.
func (doc *Document) EachNode(fn func(*Node)) {
	for _, id := range doc.nodeOrder {
		fn(doc.nodes[id])
	}
}

// EachWay visits ways in document order.
func (doc *Document) EachWay(fn func(*Way)) {
	for _, id := range doc.wayOrder {
		fn(doc.ways[id])
	}
}

// EachRelation visits relations in document order.
func (doc *Document) EachRelation(fn func(*Relation)) {
	for _, id := range doc.relationOrder {
		fn(doc.relations[id])
	}
}

func (doc *Document) NumNodes() int {
	return len(doc.nodes)
}

func (doc *Document) NumWays() int {
	return len(doc.ways)
}

func (doc *Document) NumRelations() int {
	return len(doc.relations)
}
