package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/geostreets/streetnet"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

var (
	osmFileName = flag.String("file", "my_extract.osm.pbf", "Filename of *.osm.pbf or *.osm (XML) extract")
	out         = flag.String("out", "my_network.json", "Output filename. For -format wkt two files are produced: '<name>.csv' (roads) and '<name>_intersections.csv'")
	format      = flag.String("format", "json", "Output format. Expected values: json / geojson / wkt")

	drivingSide = flag.String("side", "right", "Driving side. Expected values: right / left")
	countryCode = flag.String("country", "US", "ISO 3166-1 alpha-2 country code for width defaults")
	sidewalks   = flag.Bool("sidewalks", true, "Infer sidewalks on roads without sidewalk tags?")
	kerbs       = flag.Bool("kerbs", true, "Infer kerbs (road edge markings)?")
	bikesOnBus  = flag.Bool("bikes-on-bus", false, "Bikes may use bus lanes?")

	collapseShort = flag.Float64("collapse", 0, "Collapse roads shorter than this many meters (0 disables)")
	trimEnds      = flag.Float64("trim", 0, "Trim road center lines back from intersections by this many meters (0 disables)")
	verbose       = flag.Bool("verbose", false, "Print progress and timings?")

	oneShotTags = flag.String("tags", "", "One-shot mode: infer lanes for a comma-separated tag list (e.g. 'highway=residential,lanes=2') and exit")
)

func main() {
	flag.Parse()

	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)

	side := streetnet.DRIVING_SIDE_RIGHT
	if strings.ToLower(*drivingSide) == "left" {
		side = streetnet.DRIVING_SIDE_LEFT
	}
	config := streetnet.NewMapConfig(
		streetnet.WithDrivingSide(side),
		streetnet.WithCountryCode(strings.ToUpper(*countryCode)),
		streetnet.WithInferredSidewalks(*sidewalks),
		streetnet.WithInferredKerbs(*kerbs),
		streetnet.WithBikesCanUseBusLanes(*bikesOnBus),
	)

	if *oneShotTags != "" {
		tags := streetnet.NewTags()
		for _, pair := range strings.Split(*oneShotTags, ",") {
			kv := strings.SplitN(pair, "=", 2)
			if len(kv) != 2 {
				level.Error(logger).Log("msg", "bad tag, want key=value", "tag", pair)
				os.Exit(1)
			}
			tags.Insert(strings.TrimSpace(kv[0]), strings.TrimSpace(kv[1]))
		}
		fmt.Print(streetnet.LaneSpecsPretty(streetnet.GetLaneSpecsLTR(tags, config)))
		return
	}

	loader := streetnet.NewLoader(streetnet.WithLoaderVerbose(*verbose))
	doc, err := loader.LoadFile(*osmFileName)
	if err != nil {
		level.Error(logger).Log("msg", "load failed", "file", *osmFileName, "err", err)
		os.Exit(1)
	}

	assembler := streetnet.NewAssembler(
		streetnet.WithMapConfig(config),
		streetnet.WithVerbose(*verbose),
		streetnet.WithCollapseShortRoads(*collapseShort),
		streetnet.WithTrimRoadEnds(*trimEnds),
	)
	net, err := assembler.Assemble(doc)
	if err != nil {
		level.Error(logger).Log("msg", "assembly failed", "err", err)
		os.Exit(1)
	}
	level.Info(logger).Log("msg", "assembled", "roads", net.NumRoads(), "intersections", net.NumIntersections())

	switch strings.ToLower(*format) {
	case "json":
		file, err := os.Create(*out)
		if err != nil {
			level.Error(logger).Log("msg", "create output", "file", *out, "err", err)
			os.Exit(1)
		}
		defer file.Close()
		if err := net.WriteSnapshot(file); err != nil {
			level.Error(logger).Log("msg", "write snapshot", "err", err)
			os.Exit(1)
		}
	case "geojson":
		b, err := net.ExportGeoJSON()
		if err != nil {
			level.Error(logger).Log("msg", "export geojson", "err", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*out, b, 0644); err != nil {
			level.Error(logger).Log("msg", "write output", "file", *out, "err", err)
			os.Exit(1)
		}
	case "wkt":
		// Keep the filename extension honest regardless of what was passed.
		base := strings.TrimSuffix(*out, ".csv")
		base = strings.TrimSuffix(base, ".json")
		fnameRoads := base + ".csv"
		fnameIntersections := base + "_intersections.csv"

		fileRoads, err := os.Create(fnameRoads)
		if err != nil {
			level.Error(logger).Log("msg", "create output", "file", fnameRoads, "err", err)
			os.Exit(1)
		}
		defer fileRoads.Close()
		if err := net.ExportWKTRoads(fileRoads); err != nil {
			level.Error(logger).Log("msg", "write roads", "err", err)
			os.Exit(1)
		}

		fileIntersections, err := os.Create(fnameIntersections)
		if err != nil {
			level.Error(logger).Log("msg", "create output", "file", fnameIntersections, "err", err)
			os.Exit(1)
		}
		defer fileIntersections.Close()
		if err := net.ExportWKTIntersections(fileIntersections); err != nil {
			level.Error(logger).Log("msg", "write intersections", "err", err)
			os.Exit(1)
		}
	default:
		level.Error(logger).Log("msg", "unknown format", "format", *format)
		os.Exit(1)
	}
	level.Info(logger).Log("msg", "done", "out", *out)
}
