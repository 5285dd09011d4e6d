package streetnet

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// All geometry here operates on projected planar coordinates in meters.

func lineLengthMeters(line orb.LineString) float64 {
	return planar.Length(line)
}

func reverseLine(line orb.LineString) orb.LineString {
	reversed := make(orb.LineString, len(line))
	for i := range line {
		reversed[i] = line[len(line)-1-i]
	}
	return reversed
}

// pointAlongLine returns the point at the given distance from the line start.
// Distances beyond the line clamp to its endpoints.
func pointAlongLine(line orb.LineString, distance float64) orb.Point {
	if distance <= 0 || len(line) < 2 {
		return line[0]
	}
	walked := 0.0
	for i := 0; i+1 < len(line); i++ {
		segment := planar.Distance(line[i], line[i+1])
		if walked+segment >= distance && segment > 0 {
			t := (distance - walked) / segment
			return orb.Point{
				line[i].X() + t*(line[i+1].X()-line[i].X()),
				line[i].Y() + t*(line[i+1].Y()-line[i].Y()),
			}
		}
		walked += segment
	}
	return line[len(line)-1]
}

// pointAlongFraction returns the point at the given fraction [0, 1] of the
// line's length.
func pointAlongFraction(line orb.LineString, fraction float64) orb.Point {
	return pointAlongLine(line, fraction*lineLengthMeters(line))
}

// substringLine cuts the line between two distances from its start.
func substringLine(line orb.LineString, from, to float64) orb.LineString {
	length := lineLengthMeters(line)
	if from < 0 {
		from = 0
	}
	if to > length {
		to = length
	}
	if from >= to || len(line) < 2 {
		return orb.LineString{line[0], line[0]}
	}

	result := orb.LineString{pointAlongLine(line, from)}
	walked := 0.0
	for i := 0; i+1 < len(line); i++ {
		segment := planar.Distance(line[i], line[i+1])
		next := walked + segment
		if next > from && next < to {
			result = append(result, line[i+1])
		}
		walked = next
		if walked >= to {
			break
		}
	}
	result = append(result, pointAlongLine(line, to))
	return result
}

// trimLineEnds shortens the line by the given distances at each end. When the
// line is too short to trim, it collapses towards its midpoint.
func trimLineEnds(line orb.LineString, fromStart, fromEnd float64) orb.LineString {
	length := lineLengthMeters(line)
	if fromStart+fromEnd >= length {
		mid := length / 2.0
		return substringLine(line, mid*0.9, mid*1.1)
	}
	return substringLine(line, fromStart, length-fromEnd)
}

// tangentAtStart is the unit direction of travel leaving the first point.
func tangentAtStart(line orb.LineString) orb.Point {
	// Sample a bit along the line so a tiny jittery first segment doesn't
	// dominate the direction.
	sample := math.Min(tangentSampleMeters, lineLengthMeters(line)/2.0)
	pt := pointAlongLine(line, sample)
	return unitVector(line[0], pt)
}

// tangentAtEnd is the unit direction of travel arriving at the last point.
func tangentAtEnd(line orb.LineString) orb.Point {
	sample := math.Min(tangentSampleMeters, lineLengthMeters(line)/2.0)
	pt := pointAlongLine(line, lineLengthMeters(line)-sample)
	return unitVector(pt, line[len(line)-1])
}

const tangentSampleMeters = 8.0

func unitVector(from, to orb.Point) orb.Point {
	dx := to.X() - from.X()
	dy := to.Y() - from.Y()
	norm := math.Hypot(dx, dy)
	if norm == 0 {
		return orb.Point{1, 0}
	}
	return orb.Point{dx / norm, dy / norm}
}

// angleBetweenDegrees returns the signed angle from vector a to vector b in
// degrees, normalized to (-180, 180]. Counter-clockwise is positive, which in
// projected coordinates means turning left.
func angleBetweenDegrees(a, b orb.Point) float64 {
	angle := math.Atan2(b.Y(), b.X()) - math.Atan2(a.Y(), a.X())
	for angle > math.Pi {
		angle -= 2 * math.Pi
	}
	for angle <= -math.Pi {
		angle += 2 * math.Pi
	}
	return radiansToDegrees(angle)
}

// offsetCurve shifts the line sideways by the given distance. Positive is to
// the left of the direction of travel. Joints are mitered, clamped so spikes
// at sharp corners stay bounded.
func offsetCurve(line orb.LineString, distance float64) orb.LineString {
	if len(line) < 2 || distance == 0 {
		return cloneLine(line)
	}
	normals := make([]orb.Point, len(line)-1)
	for i := 0; i+1 < len(line); i++ {
		dir := unitVector(line[i], line[i+1])
		normals[i] = orb.Point{-dir.Y(), dir.X()}
	}
	const miterLimit = 2.0
	result := make(orb.LineString, len(line))
	for i := range line {
		var n orb.Point
		switch {
		case i == 0:
			n = normals[0]
		case i == len(line)-1:
			n = normals[len(normals)-1]
		default:
			n = orb.Point{normals[i-1].X() + normals[i].X(), normals[i-1].Y() + normals[i].Y()}
			norm := math.Hypot(n.X(), n.Y())
			if norm < 1e-9 {
				n = normals[i]
			} else {
				// Scale the averaged normal so the offset segment stays
				// parallel, capped by the miter limit.
				scale := 2.0 / norm
				if scale > miterLimit {
					scale = miterLimit
				}
				n = orb.Point{n.X() / norm * scale, n.Y() / norm * scale}
			}
		}
		result[i] = orb.Point{line[i].X() + n.X()*distance, line[i].Y() + n.Y()*distance}
	}
	return result
}

// firstPoint and lastPoint tolerate empty lines by panicking loudly; callers
// guarantee at least two points per road center line.
func firstPoint(line orb.LineString) orb.Point {
	return line[0]
}

func lastPoint(line orb.LineString) orb.Point {
	return line[len(line)-1]
}
