package streetnet

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/pkg/errors"
)

// ExportWKTRoads writes the roads as a semicolon-separated CSV with a WKT
// geometry column in lon/lat.
func (net *StreetNetwork) ExportWKTRoads(w io.Writer) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	writer.Comma = ';'

	err := writer.Write([]string{"road_id", "osm_way_id", "src_i", "dst_i", "length_meters", "width_meters", "lanes", "geom"})
	if err != nil {
		return errors.Wrap(err, "Write roads header")
	}
	for _, id := range net.RoadIDs() {
		road := net.mustRoad(id)
		err = writer.Write([]string{
			fmt.Sprintf("%d", road.ID),
			fmt.Sprintf("%d", road.OsmWayID),
			fmt.Sprintf("%d", road.SrcI),
			fmt.Sprintf("%d", road.DstI),
			fmt.Sprintf("%f", road.LengthMeters()),
			fmt.Sprintf("%f", TotalWidthMeters(road.LaneSpecsLTR)),
			laneSummary(road.LaneSpecsLTR),
			PrepareWKTLinestring(net.gpsBounds.UnprojectLine(road.CenterLine)),
		})
		if err != nil {
			return errors.Wrap(err, "Write road")
		}
	}
	return nil
}

// ExportWKTIntersections writes the intersections as a semicolon-separated
// CSV with a WKT geometry column in lon/lat.
func (net *StreetNetwork) ExportWKTIntersections(w io.Writer) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	writer.Comma = ';'

	err := writer.Write([]string{"intersection_id", "osm_node_id", "kind", "control", "roads", "geom"})
	if err != nil {
		return errors.Wrap(err, "Write intersections header")
	}
	for _, id := range net.IntersectionIDs() {
		intersection := net.mustIntersection(id)
		roads := make([]string, len(intersection.Roads))
		for i, roadID := range intersection.Roads {
			roads[i] = fmt.Sprintf("%d", roadID)
		}
		err = writer.Write([]string{
			fmt.Sprintf("%d", intersection.ID),
			fmt.Sprintf("%d", intersection.OsmNodeID),
			intersection.Kind.String(),
			intersection.Control.String(),
			strings.Join(roads, ","),
			PrepareWKTPoint(net.gpsBounds.Unproject(intersection.Point)),
		})
		if err != nil {
			return errors.Wrap(err, "Write intersection")
		}
	}
	return nil
}

// PrepareWKTLinestring returns the WKT representation of a line.
func PrepareWKTLinestring(line orb.LineString) string {
	return wkt.MarshalString(line)
}

// PrepareWKTPoint returns the WKT representation of a point.
func PrepareWKTPoint(pt orb.Point) string {
	return wkt.MarshalString(pt)
}
