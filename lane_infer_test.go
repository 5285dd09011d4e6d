package streetnet

import (
	"math"
	"reflect"
	"strings"
	"testing"
)

func laneTypes(lanes []LaneSpec) []LaneType {
	types := make([]LaneType, len(lanes))
	for i := range lanes {
		types[i] = lanes[i].LaneType
	}
	return types
}

func laneDirections(lanes []LaneSpec) []LaneDirection {
	directions := make([]LaneDirection, len(lanes))
	for i := range lanes {
		directions[i] = lanes[i].Direction
	}
	return directions
}

func TestResidentialDefaults(t *testing.T) {
	tags := TagsFrom(map[string]string{"highway": "residential"})
	lanes := GetLaneSpecsLTR(tags, DefaultMapConfig())

	wantTypes := []LaneType{LANE_SIDEWALK, LANE_DRIVING, LANE_DRIVING, LANE_SIDEWALK}
	if !reflect.DeepEqual(laneTypes(lanes), wantTypes) {
		t.Errorf("Lane types must be %v, but got %v", wantTypes, laneTypes(lanes))
	}
	wantDirections := []LaneDirection{LANE_BOTH, LANE_BACKWARD, LANE_FORWARD, LANE_BOTH}
	if !reflect.DeepEqual(laneDirections(lanes), wantDirections) {
		t.Errorf("Lane directions must be %v, but got %v", wantDirections, laneDirections(lanes))
	}
	wantWidths := []float64{1.5, 3.5, 3.5, 1.5}
	for i := range lanes {
		if math.Abs(lanes[i].WidthMeters-wantWidths[i]) > 1e-9 {
			t.Errorf("Lane %d width must be %v, but got %v", i, wantWidths[i], lanes[i].WidthMeters)
		}
	}
}

func TestOnewayTwoLanes(t *testing.T) {
	tags := TagsFrom(map[string]string{
		"highway": "residential",
		"oneway":  "yes",
		"lanes":   "2",
	})
	lanes := GetLaneSpecsLTR(tags, DefaultMapConfig())

	wantTypes := []LaneType{LANE_SIDEWALK, LANE_DRIVING, LANE_DRIVING, LANE_SIDEWALK}
	if !reflect.DeepEqual(laneTypes(lanes), wantTypes) {
		t.Errorf("Lane types must be %v, but got %v", wantTypes, laneTypes(lanes))
	}
	for i := 1; i <= 2; i++ {
		if lanes[i].Direction != LANE_FORWARD {
			t.Errorf("Driving lane %d must be %v, but got %v", i, LANE_FORWARD, lanes[i].Direction)
		}
	}
}

func TestPrimaryWithBikeTrack(t *testing.T) {
	tags := TagsFrom(map[string]string{
		"highway":        "primary",
		"lanes":          "4",
		"lanes:forward":  "2",
		"lanes:backward": "2",
		"cycleway:right": "track",
	})
	lanes := GetLaneSpecsLTR(tags, DefaultMapConfig())

	wantTypes := []LaneType{
		LANE_SIDEWALK,
		LANE_DRIVING, LANE_DRIVING,
		LANE_DRIVING, LANE_DRIVING,
		LANE_BUFFER, LANE_BIKING,
		LANE_SIDEWALK,
	}
	if !reflect.DeepEqual(laneTypes(lanes), wantTypes) {
		t.Errorf("Lane types must be %v, but got %v", wantTypes, laneTypes(lanes))
	}
	if lanes[1].Direction != LANE_BACKWARD || lanes[2].Direction != LANE_BACKWARD {
		t.Errorf("Left driving lanes must be backward, but got %v", laneDirections(lanes))
	}
	if lanes[3].Direction != LANE_FORWARD || lanes[4].Direction != LANE_FORWARD {
		t.Errorf("Right driving lanes must be forward, but got %v", laneDirections(lanes))
	}
	if lanes[5].Buffer != BUFFER_CURB {
		t.Errorf("Track buffer must be %v, but got %v", BUFFER_CURB, lanes[5].Buffer)
	}
	if lanes[6].Direction != LANE_FORWARD {
		t.Errorf("Bike lane must be forward, but got %v", lanes[6].Direction)
	}
}

func TestCenterTurnLane(t *testing.T) {
	tags := TagsFrom(map[string]string{
		"highway":          "residential",
		"centre_turn_lane": "yes",
		"lanes":            "3",
	})
	lanes := GetLaneSpecsLTR(tags, DefaultMapConfig())

	wantTypes := []LaneType{LANE_SIDEWALK, LANE_DRIVING, LANE_SHARED_LEFT_TURN, LANE_DRIVING, LANE_SIDEWALK}
	if !reflect.DeepEqual(laneTypes(lanes), wantTypes) {
		t.Errorf("Lane types must be %v, but got %v", wantTypes, laneTypes(lanes))
	}
	if lanes[1].Direction != LANE_BACKWARD {
		t.Errorf("Left driving lane must be backward, but got %v", lanes[1].Direction)
	}
	if lanes[2].Direction != LANE_BOTH {
		t.Errorf("Shared turn lane must be %v, but got %v", LANE_BOTH, lanes[2].Direction)
	}
	if lanes[3].Direction != LANE_FORWARD {
		t.Errorf("Right driving lane must be forward, but got %v", lanes[3].Direction)
	}
}

func TestDriveway(t *testing.T) {
	tags := TagsFrom(map[string]string{
		"highway": "service",
		"service": "driveway",
	})
	lanes := GetLaneSpecsLTR(tags, DefaultMapConfig())

	if len(lanes) != 1 {
		t.Fatalf("Driveway must have 1 lane, but got %d", len(lanes))
	}
	if lanes[0].LaneType != LANE_DRIVING || lanes[0].Direction != LANE_FORWARD {
		t.Errorf("Driveway lane must be %v %v, but got %v %v", LANE_DRIVING, LANE_FORWARD, lanes[0].LaneType, lanes[0].Direction)
	}
	if math.Abs(lanes[0].WidthMeters-2.5) > 1e-9 {
		t.Errorf("Service road lane width must be %v, but got %v", 2.5, lanes[0].WidthMeters)
	}
}

func TestFootway(t *testing.T) {
	tags := TagsFrom(map[string]string{"highway": "footway"})
	lanes := GetLaneSpecsLTR(tags, DefaultMapConfig())

	if len(lanes) != 1 {
		t.Fatalf("Footway must have 1 lane, but got %d", len(lanes))
	}
	if lanes[0].LaneType != LANE_SHARED_USE {
		t.Errorf("Footway lane must be %v, but got %v", LANE_SHARED_USE, lanes[0].LaneType)
	}

	tags.Insert("bicycle", "no")
	lanes = GetLaneSpecsLTR(tags, DefaultMapConfig())
	if lanes[0].LaneType != LANE_FOOTWAY {
		t.Errorf("Footway with bicycle=no must be %v, but got %v", LANE_FOOTWAY, lanes[0].LaneType)
	}
}

func TestSeparateSidewalkWay(t *testing.T) {
	tags := TagsFrom(map[string]string{
		"highway": "footway",
		"footway": "sidewalk",
	})
	lanes := GetLaneSpecsLTR(tags, DefaultMapConfig())
	if len(lanes) != 1 || lanes[0].LaneType != LANE_SIDEWALK {
		t.Errorf("Mapped sidewalk must be a single %v, but got %v", LANE_SIDEWALK, laneTypes(lanes))
	}
}

func TestBuswayConvertsOutermostDrivingLane(t *testing.T) {
	tags := TagsFrom(map[string]string{
		"highway":  "primary",
		"oneway":   "yes",
		"lanes":    "2",
		"busway":   "lane",
		"sidewalk": "none",
	})
	lanes := GetLaneSpecsLTR(tags, DefaultMapConfig())

	wantTypes := []LaneType{LANE_DRIVING, LANE_BUS, LANE_SHOULDER}
	if !reflect.DeepEqual(laneTypes(lanes), wantTypes) {
		t.Errorf("Lane types must be %v, but got %v", wantTypes, laneTypes(lanes))
	}
}

func TestBusOnlyRoad(t *testing.T) {
	tags := TagsFrom(map[string]string{
		"highway":  "unclassified",
		"access":   "no",
		"bus":      "yes",
		"oneway":   "yes",
		"sidewalk": "none",
	})
	lanes := GetLaneSpecsLTR(tags, DefaultMapConfig())
	if lanes[0].LaneType != LANE_BUS {
		t.Errorf("Bus-only road must start with %v, but got %v", LANE_BUS, laneTypes(lanes))
	}
}

func TestTurnLanes(t *testing.T) {
	tags := TagsFrom(map[string]string{
		"highway":    "secondary",
		"oneway":     "yes",
		"lanes":      "2",
		"turn:lanes": "left|through;right",
		"sidewalk":   "none",
	})
	lanes := GetLaneSpecsLTR(tags, DefaultMapConfig())

	if !reflect.DeepEqual(lanes[0].TurnRestrictions, []string{"left"}) {
		t.Errorf("Left lane turns must be %v, but got %v", []string{"left"}, lanes[0].TurnRestrictions)
	}
	if !reflect.DeepEqual(lanes[1].TurnRestrictions, []string{"through", "right"}) {
		t.Errorf("Right lane turns must be %v, but got %v", []string{"through", "right"}, lanes[1].TurnRestrictions)
	}
}

func TestParkingLanes(t *testing.T) {
	tags := TagsFrom(map[string]string{
		"highway":           "residential",
		"parking:lane:both": "parallel",
	})
	lanes := GetLaneSpecsLTR(tags, DefaultMapConfig())

	wantTypes := []LaneType{LANE_SIDEWALK, LANE_PARKING, LANE_DRIVING, LANE_DRIVING, LANE_PARKING, LANE_SIDEWALK}
	if !reflect.DeepEqual(laneTypes(lanes), wantTypes) {
		t.Errorf("Lane types must be %v, but got %v", wantTypes, laneTypes(lanes))
	}
}

func TestShouldersReplaceSidewalksAtSpeed(t *testing.T) {
	tags := TagsFrom(map[string]string{
		"highway":  "primary",
		"maxspeed": "55 mph",
		"sidewalk": "both",
	})
	lanes := GetLaneSpecsLTR(tags, DefaultMapConfig())
	if lanes[0].LaneType != LANE_SHOULDER || lanes[len(lanes)-1].LaneType != LANE_SHOULDER {
		t.Errorf("High-speed primary must get shoulders, but got %v", laneTypes(lanes))
	}

	// Slow primary keeps sidewalks.
	tags.Insert("maxspeed", "40")
	lanes = GetLaneSpecsLTR(tags, DefaultMapConfig())
	if lanes[0].LaneType != LANE_SIDEWALK {
		t.Errorf("Slow primary must keep sidewalks, but got %v", laneTypes(lanes))
	}
}

func TestRailway(t *testing.T) {
	tags := TagsFrom(map[string]string{"railway": "tram"})
	lanes := GetLaneSpecsLTR(tags, DefaultMapConfig())
	if len(lanes) != 1 || lanes[0].LaneType != LANE_LIGHT_RAIL {
		t.Errorf("Tram way must be a single %v, but got %v", LANE_LIGHT_RAIL, laneTypes(lanes))
	}
}

func TestConstruction(t *testing.T) {
	tags := TagsFrom(map[string]string{
		"highway":      "construction",
		"construction": "residential",
		"lanes":        "2",
	})
	lanes := GetLaneSpecsLTR(tags, DefaultMapConfig())
	for _, lane := range lanes {
		if lane.LaneType != LANE_CONSTRUCTION {
			t.Errorf("All lanes under construction must be %v, but got %v", LANE_CONSTRUCTION, laneTypes(lanes))
			break
		}
	}
}

func TestInferenceIsDeterministic(t *testing.T) {
	tags := TagsFrom(map[string]string{
		"highway":        "primary",
		"lanes":          "4",
		"cycleway:right": "track",
		"busway":         "lane",
	})
	config := DefaultMapConfig()
	first := GetLaneSpecsLTR(tags, config)
	second := GetLaneSpecsLTR(tags, config)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Inference must be deterministic: %v != %v", first, second)
	}
}

func TestInferenceNeverEmpty(t *testing.T) {
	inputs := []map[string]string{
		{},
		{"highway": "proposed"},
		{"building": "yes"},
		{"highway": "residential", "lanes": "0"},
	}
	for _, input := range inputs {
		lanes := GetLaneSpecsLTR(TagsFrom(input), DefaultMapConfig())
		if len(lanes) == 0 {
			t.Errorf("Inference must never be empty for %v", input)
		}
	}
}

func TestLeftDrivingMirrorsRight(t *testing.T) {
	inputs := []map[string]string{
		{"highway": "residential"},
		{"highway": "primary", "lanes": "4", "lanes:forward": "2", "lanes:backward": "2"},
		{"highway": "residential", "centre_turn_lane": "yes", "lanes": "3"},
		{"highway": "residential", "parking:lane:both": "parallel"},
	}
	for _, input := range inputs {
		tags := TagsFrom(input)
		right := GetLaneSpecsLTR(tags, NewMapConfig(WithDrivingSide(DRIVING_SIDE_RIGHT)))
		left := GetLaneSpecsLTR(tags, NewMapConfig(WithDrivingSide(DRIVING_SIDE_LEFT)))

		if len(right) != len(left) {
			t.Errorf("Side flip changed lane count for %v: %d != %d", input, len(right), len(left))
			continue
		}
		for i := range left {
			mirrored := right[len(right)-1-i]
			if left[i].LaneType != mirrored.LaneType {
				t.Errorf("Lane %d for %v must mirror %v, but got %v", i, input, mirrored.LaneType, left[i].LaneType)
			}
		}
	}
}

func TestOnewayMinusOne(t *testing.T) {
	tags := TagsFrom(map[string]string{
		"highway":  "residential",
		"oneway":   "-1",
		"lanes":    "2",
		"sidewalk": "none",
	})
	lanes := GetLaneSpecsLTR(tags, DefaultMapConfig())
	for _, lane := range lanes {
		if lane.LaneType == LANE_DRIVING && lane.Direction != LANE_BACKWARD {
			t.Errorf("Reversed oneway driving lanes must be backward, but got %v", laneDirections(lanes))
			break
		}
	}
}

func TestCyclewayHighway(t *testing.T) {
	tags := TagsFrom(map[string]string{"highway": "cycleway"})
	lanes := GetLaneSpecsLTR(tags, DefaultMapConfig())

	wantTypes := []LaneType{LANE_SHOULDER, LANE_BIKING, LANE_BIKING, LANE_SHOULDER}
	if !reflect.DeepEqual(laneTypes(lanes), wantTypes) {
		t.Errorf("Lane types must be %v, but got %v", wantTypes, laneTypes(lanes))
	}
}

func TestOnewayBicycleNoAddsContraflowBikeLane(t *testing.T) {
	tags := TagsFrom(map[string]string{
		"highway":        "residential",
		"oneway":         "yes",
		"oneway:bicycle": "no",
		"cycleway:left":  "track",
		"sidewalk":       "none",
	})
	lanes := GetLaneSpecsLTR(tags, DefaultMapConfig())

	bikeCount := 0
	for _, lane := range lanes {
		if lane.LaneType == LANE_BIKING {
			bikeCount++
		}
	}
	if bikeCount != 2 {
		t.Errorf("Two-way cycling on a oneway must give 2 bike lanes, but got %d in %v", bikeCount, laneTypes(lanes))
	}
}

func TestLaneSpecsPretty(t *testing.T) {
	tags := TagsFrom(map[string]string{"highway": "residential"})
	pretty := LaneSpecsPretty(GetLaneSpecsLTR(tags, DefaultMapConfig()))
	if pretty == "" {
		t.Fatal("Pretty output must not be empty")
	}
	for _, want := range []string{"sidewalk", "driving", "3.50m", "1.50m"} {
		if !strings.Contains(pretty, want) {
			t.Errorf("Pretty output must mention %q, but got:\n%s", want, pretty)
		}
	}
}
