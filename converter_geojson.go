package streetnet

import (
	"strings"

	geojson "github.com/paulmach/go.geojson"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"github.com/twpayne/go-polyline"
)

// ExportGeoJSON renders the network as a GeoJSON FeatureCollection in lon/lat
// coordinates: one LineString feature per road, one Point feature per
// intersection. Road features also carry a Google-encoded polyline of the
// center line for consumers that want the compact form.
func (net *StreetNetwork) ExportGeoJSON() ([]byte, error) {
	fc := geojson.NewFeatureCollection()

	for _, id := range net.RoadIDs() {
		road := net.mustRoad(id)
		lonLat := net.gpsBounds.UnprojectLine(road.CenterLine)
		feature := geojson.NewLineStringFeature(lineTo2D(lonLat))
		feature.SetProperty("id", int64(road.ID))
		feature.SetProperty("osm_way_id", int64(road.OsmWayID))
		feature.SetProperty("src_i", int64(road.SrcI))
		feature.SetProperty("dst_i", int64(road.DstI))
		feature.SetProperty("length_meters", road.LengthMeters())
		feature.SetProperty("width_meters", TotalWidthMeters(road.LaneSpecsLTR))
		if direction, ok := OnewayForDriving(road.LaneSpecsLTR); ok {
			feature.SetProperty("oneway", direction.String())
		}
		feature.SetProperty("lanes", laneSummary(road.LaneSpecsLTR))
		feature.SetProperty("polyline", EncodePolyline(lonLat))
		fc.AddFeature(feature)
	}

	for _, id := range net.IntersectionIDs() {
		intersection := net.mustIntersection(id)
		lonLat := net.gpsBounds.Unproject(intersection.Point)
		feature := geojson.NewPointFeature([]float64{lonLat.Lon(), lonLat.Lat()})
		feature.SetProperty("id", int64(intersection.ID))
		feature.SetProperty("osm_node_id", int64(intersection.OsmNodeID))
		feature.SetProperty("kind", intersection.Kind.String())
		feature.SetProperty("control", intersection.Control.String())
		feature.SetProperty("degree", len(intersection.Roads))
		fc.AddFeature(feature)
	}

	b, err := fc.MarshalJSON()
	if err != nil {
		return nil, errors.Wrap(err, "Marshal GeoJSON")
	}
	return b, nil
}

// PrepareGeoJSONLinestring returns the GeoJSON representation of a single
// lon/lat line.
func PrepareGeoJSONLinestring(line orb.LineString) (string, error) {
	b, err := geojson.NewLineStringGeometry(lineTo2D(line)).MarshalJSON()
	if err != nil {
		return "", errors.Wrap(err, "Marshal GeoJSON linestring")
	}
	return string(b), nil
}

// PrepareGeoJSONPoint returns the GeoJSON representation of a single lon/lat
// point.
func PrepareGeoJSONPoint(pt orb.Point) (string, error) {
	b, err := geojson.NewPointGeometry([]float64{pt.Lon(), pt.Lat()}).MarshalJSON()
	if err != nil {
		return "", errors.Wrap(err, "Marshal GeoJSON point")
	}
	return string(b), nil
}

// EncodePolyline packs a lon/lat line into Google's encoded polyline format.
func EncodePolyline(line orb.LineString) string {
	coords := make([][]float64, len(line))
	for i := range line {
		coords[i] = []float64{line[i].Lat(), line[i].Lon()}
	}
	return string(polyline.EncodeCoords(coords))
}

func lineTo2D(line orb.LineString) [][]float64 {
	pts2d := make([][]float64, len(line))
	for i := range line {
		pts2d[i] = []float64{line[i].Lon(), line[i].Lat()}
	}
	return pts2d
}

func laneSummary(lanes []LaneSpec) string {
	parts := make([]string, len(lanes))
	for i, lane := range lanes {
		parts[i] = lane.String()
	}
	return strings.Join(parts, "|")
}
