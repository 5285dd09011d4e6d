package streetnet

import (
	"fmt"
	"strconv"
	"strings"
)

// GetLaneSpecsLTR determines, purely from OSM tags, the lanes a road segment
// has, ordered left-to-right as seen from the way's first node looking toward
// its last. It never fails: unknown or contradictory tags fall back to
// documented defaults, and the result always contains at least one lane.
func GetLaneSpecsLTR(tags *Tags, config *MapConfig) []LaneSpec {
	if config == nil {
		config = DefaultMapConfig()
	}
	// Keep the engine pure: sidewalk inference mutates a copy.
	tags = tags.Clone()
	inferSidewalkTags(tags, config)

	if tags.IsAny("railway", "light_rail", "rail", "tram") {
		return []LaneSpec{forwardLane(LANE_LIGHT_RAIL, tags, config)}
	}

	if lanes := nonMotorizedRoad(tags, config); lanes != nil {
		return lanes
	}

	// A normal road from here on.
	fwdSide, backSide, oneway, drivingLane := createDrivingLanes(tags, config)

	if drivingLane == LANE_CONSTRUCTION {
		return ensureNonEmpty(assembleLTR(fwdSide, backSide, config.DrivingSide), tags, config)
	}

	addBusLanes(&fwdSide, &backSide, oneway, tags, config)
	addBikeLanes(&fwdSide, &backSide, oneway, tags, config)
	if drivingLane == LANE_DRIVING {
		addParkingLanes(&fwdSide, &backSide, tags, config)
	}
	addSidewalksAndShoulders(&fwdSide, &backSide, oneway, tags, config)

	applyWidthOverrides(fwdSide, tags, "width:lanes:forward", config)
	applyWidthOverrides(backSide, tags, "width:lanes:backward", config)

	if value, ok := tags.Get("turn:lanes:forward"); ok {
		applyTurnRestrictions(fwdSide, value)
	}
	if value, ok := tags.Get("turn:lanes:backward"); ok {
		applyTurnRestrictions(backSide, value)
	}

	ltr := assembleLTR(fwdSide, backSide, config.DrivingSide)

	// Some tags are easier to apply once the lanes are in left-to-right order.
	if value, ok := tags.Get("turn:lanes"); ok {
		applyTurnRestrictions(ltr, value)
	}
	applyBuswayLanes(ltr, oneway, tags, config)

	return ensureNonEmpty(ltr, tags, config)
}

// The engine never produces an empty list; degenerate inputs get a single
// driving lane.
func ensureNonEmpty(ltr []LaneSpec, tags *Tags, config *MapConfig) []LaneSpec {
	if len(ltr) == 0 {
		return []LaneSpec{forwardLane(LANE_DRIVING, tags, config)}
	}
	return ltr
}

// nonMotorizedRoad handles the short paths for ways that aren't normal roads.
// Returns nil when the way is a normal road.
func nonMotorizedRoad(tags *Tags, config *MapConfig) []LaneSpec {
	highway, ok := tags.Get("highway")
	if !ok || highway == "proposed" || highway == "planned" || highway == "abandoned" || highway == "razed" {
		return []LaneSpec{forwardLane(LANE_DRIVING, tags, config)}
	}

	// A primarily-cycling way gets directional bike lanes, plus a narrow
	// walking shoulder when walking isn't banned.
	if highway == "cycleway" {
		fwdSide := []LaneSpec{forwardLane(LANE_BIKING, tags, config)}
		backSide := []LaneSpec{}
		if !tags.Is("oneway", "yes") {
			backSide = append(backSide, backwardLane(LANE_BIKING, tags, config))
		}
		if !tags.Is("foot", "no") {
			fwdSide = append(fwdSide, bothWaysLane(LANE_SHOULDER, tags, config))
			if len(backSide) > 0 {
				backSide = append(backSide, bothWaysLane(LANE_SHOULDER, tags, config))
			}
		}
		return assembleLTR(fwdSide, backSide, config.DrivingSide)
	}

	// Separately mapped sidewalks and crossings.
	if highway == "footway" && tags.IsAny("footway", "sidewalk", "crossing") {
		return []LaneSpec{bothWaysLane(LANE_SIDEWALK, tags, config)}
	}

	// Pedestrian-oriented spaces.
	if highway == "footway" || highway == "path" || highway == "pedestrian" || highway == "steps" || highway == "track" {
		if tags.Is("bicycle", "no") {
			return []LaneSpec{bothWaysLane(LANE_FOOTWAY, tags, config)}
		}
		return []LaneSpec{bothWaysLane(LANE_SHARED_USE, tags, config)}
	}

	// Driveways and parking aisles: a single lane, no sidewalk inference.
	if highway == "service" && tags.IsAny("service", "driveway", "parking_aisle") {
		return []LaneSpec{forwardLane(LANE_DRIVING, tags, config)}
	}

	// Construction without a known pre-construction class.
	if highway == "construction" && !tags.HasAnyValue("construction") {
		return []LaneSpec{forwardLane(LANE_CONSTRUCTION, tags, config)}
	}

	return nil
}

// createDrivingLanes counts the travel lanes per direction. Both returned
// lists are ordered from the road center going outwards.
func createDrivingLanes(tags *Tags, config *MapConfig) (fwdSide, backSide []LaneSpec, oneway bool, drivingLane LaneType) {
	oneway = tags.IsAny("oneway", "yes", "reversible", "alternating") || tags.Is("junction", "roundabout")
	reversed := tags.Is("oneway", "-1")
	if reversed {
		oneway = true
	}

	centerTurnLane := tags.Is("lanes:both_ways", "1") || tags.Is("centre_turn_lane", "yes")

	totalLanes, hasTotal := parseLaneCount(tags, "lanes")
	if hasTotal && centerTurnLane && !oneway && totalLanes%2 == 1 {
		// The odd lane is the shared center turn lane, not a forward lane.
		totalLanes--
	}

	numFwd, hasFwd := parseLaneCount(tags, "lanes:forward")
	if !hasFwd {
		switch {
		case hasTotal && oneway:
			numFwd = totalLanes
		case hasTotal:
			// Odd counts give the extra lane to the forward side.
			numFwd = totalLanes/2 + totalLanes%2
		default:
			numFwd = 1
		}
	}

	numBack, hasBack := parseLaneCount(tags, "lanes:backward")
	if !hasBack {
		switch {
		case hasTotal && oneway:
			numBack = 0
		case hasTotal:
			numBack = totalLanes - numFwd
			// lanes=1 but not oneway: still model both directions.
			if numBack < 1 {
				numBack = 1
			}
		case oneway:
			numBack = 0
		default:
			numBack = 1
		}
	}

	if reversed {
		numFwd, numBack = numBack, numFwd
	}

	drivingLane = LANE_DRIVING
	if tags.Is("access", "no") && (tags.Is("bus", "yes") || tags.IsAny("psv", "yes", "designated")) {
		drivingLane = LANE_BUS
	} else if value, ok := tags.Get("motor_vehicle:conditional"); ok && strings.HasPrefix(value, "no") && tags.Is("bus", "yes") {
		drivingLane = LANE_BUS
	} else if tags.Is("access", "no") || tags.Is("highway", "construction") {
		drivingLane = LANE_CONSTRUCTION
	}

	for i := 0; i < numFwd; i++ {
		fwdSide = append(fwdSide, forwardLane(drivingLane, tags, config))
	}
	for i := 0; i < numBack; i++ {
		backSide = append(backSide, backwardLane(drivingLane, tags, config))
	}
	if centerTurnLane {
		fwdSide = append([]LaneSpec{bothWaysLane(LANE_SHARED_LEFT_TURN, tags, config)}, fwdSide...)
	}

	return fwdSide, backSide, oneway, drivingLane
}

func parseLaneCount(tags *Tags, key string) (int, bool) {
	value, ok := tags.Get(key)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// addBusLanes converts driving lanes into bus lanes according to the
// per-lane bus:lanes / psv:lanes tagging.
func addBusLanes(fwdSide, backSide *[]LaneSpec, oneway bool, tags *Tags, config *MapConfig) {
	fwdSpec := tags.GetOr("bus:lanes:forward", tags.GetOr("psv:lanes:forward", ""))
	if fwdSpec == "" && oneway {
		fwdSpec = tags.GetOr("bus:lanes", tags.GetOr("psv:lanes", ""))
	}
	if fwdSpec != "" {
		parts := strings.Split(fwdSpec, "|")
		offset := 0
		if len(*fwdSide) > 0 && (*fwdSide)[0].LaneType == LANE_SHARED_LEFT_TURN {
			offset = 1
		}
		// Per the OSM lanes schema the parts run left-to-right when facing
		// forwards. fwdSide runs center-out, which matches only for
		// right-handed driving.
		if config.DrivingSide == DRIVING_SIDE_LEFT {
			reverseParts(parts)
		}
		if len(parts) == len(*fwdSide)-offset {
			for i, part := range parts {
				if part == "designated" {
					(*fwdSide)[i+offset].LaneType = LANE_BUS
				}
			}
		}
	}

	backSpec := tags.GetOr("bus:lanes:backward", tags.GetOr("psv:lanes:backward", ""))
	if backSpec != "" {
		parts := strings.Split(backSpec, "|")
		if config.DrivingSide == DRIVING_SIDE_LEFT {
			reverseParts(parts)
		}
		if len(parts) == len(*backSide) {
			for i, part := range parts {
				if part == "designated" {
					(*backSide)[i].LaneType = LANE_BUS
				}
			}
		}
	}
}

// applyBuswayLanes converts the outermost driving lane on the tagged side.
// Runs after fusing, when left and right are unambiguous.
func applyBuswayLanes(ltr []LaneSpec, oneway bool, tags *Tags, config *MapConfig) {
	left := tags.Is("busway:left", "lane")
	right := tags.Is("busway:right", "lane")
	if tags.Is("busway:both", "lane") {
		left = true
		right = true
	}
	if tags.Is("busway", "lane") {
		if oneway {
			if config.DrivingSide == DRIVING_SIDE_RIGHT {
				right = true
			} else {
				left = true
			}
		} else {
			left = true
			right = true
		}
	}

	if left {
		for i := range ltr {
			if ltr[i].LaneType == LANE_DRIVING {
				ltr[i].LaneType = LANE_BUS
				break
			}
		}
	}
	if right {
		for i := len(ltr) - 1; i >= 0; i-- {
			if ltr[i].LaneType == LANE_DRIVING {
				ltr[i].LaneType = LANE_BUS
				break
			}
		}
	}
}

// bikeLaneValue classifies a cycleway tag value. Tracks and buffered lanes
// get a buffer between the bike lane and adjacent traffic.
func bikeLaneValue(value string) (isLane, isBuffered bool) {
	switch value {
	case "lane":
		return true, false
	case "track", "buffered_lane":
		return true, true
	}
	return false, false
}

func pushBike(side *[]LaneSpec, direction LaneDirection, buffered bool, tags *Tags, config *MapConfig) {
	if buffered {
		*side = append(*side, bufferLane(bufferStyleForBike(tags), LANE_BOTH, tags, config))
	}
	bike := LaneSpec{
		LaneType:    LANE_BIKING,
		Direction:   direction,
		WidthMeters: defaultLaneWidth(LANE_BIKING, BUFFER_NONE, tags, config),
	}
	*side = append(*side, bike)
}

func bufferStyleForBike(tags *Tags) BufferType {
	// A track is physically separated, paint is the floor for everything else.
	if tags.IsAny("cycleway", "track") || tags.IsAny("cycleway:right", "track") ||
		tags.IsAny("cycleway:left", "track") || tags.IsAny("cycleway:both", "track") {
		return BUFFER_CURB
	}
	return BUFFER_STRIPES
}

func addBikeLanes(fwdSide, backSide *[]LaneSpec, oneway bool, tags *Tags, config *MapConfig) {
	if isLane, buffered := bikeLaneValue(tags.GetOr("cycleway", "")); isLane {
		pushBike(fwdSide, LANE_FORWARD, buffered, tags, config)
		if len(*backSide) > 0 {
			pushBike(backSide, LANE_BACKWARD, buffered, tags, config)
		}
	} else if isLane, buffered := bikeLaneValue(tags.GetOr("cycleway:both", "")); isLane {
		pushBike(fwdSide, LANE_FORWARD, buffered, tags, config)
		pushBike(backSide, LANE_BACKWARD, buffered, tags, config)
	} else {
		// Right and left refer to physical sides: right=fwd when driving on
		// the right, right=back when driving on the left.
		if isLane, buffered := bikeLaneValue(tags.GetOr("cycleway:right", "")); isLane {
			twoWay := tags.Is("cycleway:right:oneway", "no") || tags.Is("oneway:bicycle", "no")
			if config.DrivingSide == DRIVING_SIDE_RIGHT {
				if twoWay {
					pushBike(fwdSide, LANE_BACKWARD, buffered, tags, config)
					buffered = false
				}
				pushBike(fwdSide, LANE_FORWARD, buffered, tags, config)
			} else {
				if twoWay {
					pushBike(backSide, LANE_FORWARD, buffered, tags, config)
					buffered = false
				}
				pushBike(backSide, LANE_BACKWARD, buffered, tags, config)
			}
		}
		if tags.Is("cycleway:left", "opposite_lane") || tags.Is("cycleway", "opposite_lane") {
			if config.DrivingSide == DRIVING_SIDE_RIGHT {
				pushBike(backSide, LANE_BACKWARD, false, tags, config)
			} else {
				pushBike(fwdSide, LANE_FORWARD, false, tags, config)
			}
		}
		if isLane, buffered := bikeLaneValueLeft(tags); isLane {
			twoWay := tags.Is("cycleway:left:oneway", "no") || tags.Is("oneway:bicycle", "no")
			if config.DrivingSide == DRIVING_SIDE_RIGHT {
				switch {
				case twoWay:
					pushBike(backSide, LANE_FORWARD, buffered, tags, config)
					pushBike(backSide, LANE_BACKWARD, false, tags, config)
				case oneway:
					// A left bike lane on a oneway sits between the curb and
					// the travel lanes.
					inserted := []LaneSpec{{
						LaneType:    LANE_BIKING,
						Direction:   LANE_FORWARD,
						WidthMeters: defaultLaneWidth(LANE_BIKING, BUFFER_NONE, tags, config),
					}}
					if buffered {
						inserted = append(inserted, bufferLane(bufferStyleForBike(tags), LANE_BOTH, tags, config))
					}
					*fwdSide = append(inserted, *fwdSide...)
				default:
					pushBike(backSide, LANE_BACKWARD, buffered, tags, config)
				}
			} else {
				if twoWay {
					pushBike(fwdSide, LANE_BACKWARD, buffered, tags, config)
					buffered = false
				}
				pushBike(fwdSide, LANE_FORWARD, buffered, tags, config)
			}
		}
	}

	// Explicit buffer request, regardless of cycleway value.
	if tags.Is("cycleway:right:buffer", "yes") {
		insertStyledBufferBeforeBike(fwdSide, BUFFER_STRIPES, tags, config)
	}
	if tags.Is("cycleway:left:buffer", "yes") {
		insertStyledBufferBeforeBike(backSide, BUFFER_STRIPES, tags, config)
	}

	// Separation tagging maps to concrete buffer styles.
	if style, ok := separationStyle(tags.GetOr("cycleway:right:separation:left", "")); ok {
		insertStyledBufferBeforeBike(fwdSide, style, tags, config)
	}
	if style, ok := separationStyle(tags.GetOr("cycleway:left:separation:left", "")); ok {
		insertStyledBufferBeforeBike(backSide, style, tags, config)
	}
}

func bikeLaneValueLeft(tags *Tags) (bool, bool) {
	value := tags.GetOr("cycleway:left", "")
	if value == "opposite_track" {
		return true, true
	}
	return bikeLaneValue(value)
}

func insertStyledBufferBeforeBike(side *[]LaneSpec, style BufferType, tags *Tags, config *MapConfig) {
	for i := range *side {
		if (*side)[i].LaneType == LANE_BIKING {
			if i > 0 && (*side)[i-1].LaneType == LANE_BUFFER {
				(*side)[i-1].Buffer = style
				(*side)[i-1].WidthMeters = defaultLaneWidth(LANE_BUFFER, style, tags, config)
				return
			}
			buffer := bufferLane(style, LANE_BOTH, tags, config)
			*side = append((*side)[:i], append([]LaneSpec{buffer}, (*side)[i:]...)...)
			return
		}
	}
}

// See the cycleway:separation proposal for typical values.
func separationStyle(value string) (BufferType, bool) {
	switch value {
	case "bollard", "vertical_panel":
		return BUFFER_FLEX_POSTS, true
	case "kerb", "separation_kerb":
		return BUFFER_CURB, true
	case "grass_verge", "planter", "tree_row":
		return BUFFER_PLANTERS, true
	case "guard_rail", "jersey_barrier", "railing":
		return BUFFER_JERSEY_BARRIER, true
	case "barred_area", "dashed_line", "solid_line":
		return BUFFER_STRIPES, true
	}
	return BUFFER_NONE, false
}

// addParkingLanes handles both the historical parking:lane:* scheme and the
// current parking:left|right|both one. Unknown values add nothing.
func parkingOnSide(tags *Tags, side string) bool {
	if tags.IsAny("parking:lane:"+side, "parallel", "diagonal", "perpendicular") {
		return true
	}
	return tags.IsAny("parking:"+side, "lane", "street_side", "on_kerb", "half_on_kerb")
}

func addParkingLanes(fwdSide, backSide *[]LaneSpec, tags *Tags, config *MapConfig) {
	right := parkingOnSide(tags, "right") || parkingOnSide(tags, "both")
	left := parkingOnSide(tags, "left") || parkingOnSide(tags, "both")

	fwdParking, backParking := right, left
	if config.DrivingSide == DRIVING_SIDE_LEFT {
		fwdParking, backParking = left, right
	}
	if fwdParking {
		*fwdSide = append(*fwdSide, forwardLane(LANE_PARKING, tags, config))
	}
	if backParking {
		*backSide = append(*backSide, backwardLane(LANE_PARKING, tags, config))
	}
}

func addSidewalksAndShoulders(fwdSide, backSide *[]LaneSpec, oneway bool, tags *Tags, config *MapConfig) {
	sidewalkLane := LANE_SIDEWALK
	if shouldersReplaceSidewalks(tags) {
		sidewalkLane = LANE_SHOULDER
	}

	switch {
	case tags.Is("sidewalk", "both"):
		*fwdSide = append(*fwdSide, bothWaysLane(sidewalkLane, tags, config))
		*backSide = append(*backSide, bothWaysLane(sidewalkLane, tags, config))
	case tags.Is("sidewalk", "separate") && config.InferredSidewalks:
		// Separately mapped sidewalks aren't snapped yet, so keep a stand-in.
		*fwdSide = append(*fwdSide, bothWaysLane(sidewalkLane, tags, config))
		if len(*backSide) > 0 {
			*backSide = append(*backSide, bothWaysLane(sidewalkLane, tags, config))
		}
	case tags.Is("sidewalk", "right"):
		if config.DrivingSide == DRIVING_SIDE_RIGHT {
			*fwdSide = append(*fwdSide, bothWaysLane(sidewalkLane, tags, config))
		} else {
			*backSide = append(*backSide, bothWaysLane(sidewalkLane, tags, config))
		}
	case tags.Is("sidewalk", "left"):
		if config.DrivingSide == DRIVING_SIDE_RIGHT {
			*backSide = append(*backSide, bothWaysLane(sidewalkLane, tags, config))
		} else {
			*fwdSide = append(*fwdSide, bothWaysLane(sidewalkLane, tags, config))
		}
	}

	if width, ok := parseMeters(tags.GetOr("sidewalk:right:width", "")); ok {
		side := fwdSide
		if config.DrivingSide == DRIVING_SIDE_LEFT {
			side = backSide
		}
		setLastWidth(*side, LANE_SIDEWALK, width)
	}
	if width, ok := parseMeters(tags.GetOr("sidewalk:left:width", "")); ok {
		side := backSide
		if config.DrivingSide == DRIVING_SIDE_LEFT {
			side = fwdSide
		}
		setLastWidth(*side, LANE_SIDEWALK, width)
	}

	// Without explicit sidewalk tags, people still walk somewhere. Model that
	// with narrow shoulders, except where walking is outright banned.
	needFwdShoulder := len(*fwdSide) == 0 || !(*fwdSide)[len(*fwdSide)-1].LaneType.IsWalkable()
	needBackShoulder := len(*backSide) == 0 || !(*backSide)[len(*backSide)-1].LaneType.IsWalkable()
	if tags.IsAny("highway", "motorway", "motorway_link", "construction") ||
		tags.Is("foot", "no") || tags.Is("access", "no") || tags.Is("motorroad", "yes") {
		needFwdShoulder = false
		needBackShoulder = false
	}
	if tags.Is("oneway", "yes") {
		needBackShoulder = false
	}
	if config.InferredSidewalks || tags.Is("highway", "living_street") {
		if needFwdShoulder {
			*fwdSide = append(*fwdSide, bothWaysLane(LANE_SHOULDER, tags, config))
		}
		if needBackShoulder {
			*backSide = append(*backSide, bothWaysLane(LANE_SHOULDER, tags, config))
		}
	}
}

// On genuinely high-speed roads nobody builds sidewalks; a hard shoulder
// stands in. Explicit sidewalk=yes keeps the sidewalk.
func shouldersReplaceSidewalks(tags *Tags) bool {
	if tags.Is("sidewalk", "yes") {
		return false
	}
	if tags.Is("sidewalk:inferred", "yes") && tags.IsAny("highway", "motorway", "motorway_link", "trunk", "trunk_link") {
		return true
	}
	if kmh, ok := parseMaxspeedKmh(tags); ok && kmh >= 80 &&
		tags.IsAny("highway", "motorway", "motorway_link", "trunk", "trunk_link", "primary", "primary_link") {
		return true
	}
	return false
}

func setLastWidth(side []LaneSpec, laneType LaneType, width float64) {
	for i := len(side) - 1; i >= 0; i-- {
		if side[i].LaneType == laneType {
			side[i].WidthMeters = width
			return
		}
	}
}

// applyWidthOverrides applies pipe-separated per-lane widths to the travel
// lanes of one side. The parts count must match, otherwise they're ignored.
func applyWidthOverrides(side []LaneSpec, tags *Tags, key string, config *MapConfig) {
	value, ok := tags.Get(key)
	if !ok {
		return
	}
	parts := strings.Split(value, "|")
	if config.DrivingSide == DRIVING_SIDE_LEFT {
		reverseParts(parts)
	}
	applicable := 0
	for i := range side {
		if side[i].LaneType.IsTaggedByLanesSuffix() {
			applicable++
		}
	}
	if len(parts) != applicable {
		return
	}
	idx := 0
	for i := range side {
		if !side[i].LaneType.IsTaggedByLanesSuffix() {
			continue
		}
		if width, ok := parseMeters(parts[idx]); ok {
			side[i].WidthMeters = width
		}
		idx++
	}
}

// applyTurnRestrictions attaches turn:lanes values to the lanes they apply
// to. The parts count must match the applicable lanes, otherwise the whole
// tag is ignored.
func applyTurnRestrictions(lanes []LaneSpec, value string) {
	applicable := func(spec LaneSpec) bool {
		return spec.LaneType == LANE_DRIVING || spec.LaneType == LANE_BUS
	}
	parts := strings.Split(value, "|")
	count := 0
	for _, spec := range lanes {
		if applicable(spec) {
			count++
		}
	}
	if len(parts) != count {
		return
	}
	idx := 0
	for i := range lanes {
		if applicable(lanes[i]) {
			lanes[i].TurnRestrictions = splitTurnValues(parts[idx])
			idx++
		}
	}
}

func splitTurnValues(part string) []string {
	if part == "" {
		return nil
	}
	return strings.Split(part, ";")
}

// inferSidewalkTags fills in a sidewalk tag when mappers left it out and the
// map is configured to infer one.
func inferSidewalkTags(tags *Tags, config *MapConfig) {
	if tags.HasAnyValue("sidewalk") || !config.InferredSidewalks {
		return
	}

	if tags.HasAnyValue("sidewalk:left") || tags.HasAnyValue("sidewalk:right") {
		// Mangle one-sided tagging into left/right/both, assuming yes for
		// missing values.
		right := !tags.Is("sidewalk:right", "no")
		left := !tags.Is("sidewalk:left", "no")
		switch {
		case right && left:
			tags.Insert("sidewalk", "both")
		case right:
			tags.Insert("sidewalk", "right")
		case left:
			tags.Insert("sidewalk", "left")
		default:
			tags.Insert("sidewalk", "none")
		}
		return
	}

	// Mark the guesses below so later stages can tell them from mapper data.
	tags.Insert("sidewalk:inferred", "yes")

	if tags.IsAny("highway", "motorway", "motorway_link") ||
		tags.IsAny("junction", "intersection", "roundabout") ||
		tags.Is("foot", "no") ||
		tags.Is("highway", "service") ||
		tags.IsAny("highway", "cycleway", "pedestrian", "track") {
		tags.Insert("sidewalk", "none")
		return
	}

	if tags.Is("oneway", "yes") {
		if tags.IsAny("highway", "residential", "living_street") && !tags.Is("dual_carriageway", "yes") {
			tags.Insert("sidewalk", "both")
		} else if config.DrivingSide == DRIVING_SIDE_RIGHT {
			tags.Insert("sidewalk", "right")
		} else {
			tags.Insert("sidewalk", "left")
		}
		return
	}

	tags.Insert("sidewalk", "both")
}

func parseMeters(value string) (float64, bool) {
	value = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value), "m"))
	if value == "" {
		return 0, false
	}
	width, err := strconv.ParseFloat(value, 64)
	if err != nil || width <= 0 {
		return 0, false
	}
	return width, true
}

// parseMaxspeedKmh understands plain km/h numbers and the "NN mph" form.
func parseMaxspeedKmh(tags *Tags) (float64, bool) {
	value, ok := tags.Get("maxspeed")
	if !ok {
		return 0, false
	}
	value = strings.TrimSpace(value)
	mph := false
	if strings.HasSuffix(value, "mph") {
		mph = true
		value = strings.TrimSpace(strings.TrimSuffix(value, "mph"))
	}
	kmh, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	if mph {
		kmh *= 1.609344
	}
	return kmh, true
}

func reverseParts(parts []string) {
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
}

// LaneSpecsPretty renders a lane list as an aligned table, one lane per row,
// left to right. This is the surface exposed to external bindings.
func LaneSpecsPretty(lanes []LaneSpec) string {
	var b strings.Builder
	for i, lane := range lanes {
		kind := lane.LaneType.String()
		if lane.LaneType == LANE_BUFFER {
			kind = fmt.Sprintf("%s(%s)", lane.LaneType, lane.Buffer)
		}
		fmt.Fprintf(&b, "%2d %-24s %-8s %5.2fm", i, kind, lane.Direction, lane.WidthMeters)
		if len(lane.TurnRestrictions) > 0 {
			fmt.Fprintf(&b, " %s", strings.Join(lane.TurnRestrictions, ";"))
		}
		b.WriteString("\n")
	}
	return b.String()
}
