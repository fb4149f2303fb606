// Command convert runs the full build pipeline (§4.1) over a YAML
// scenario file: ingest an OSM extract, optionally clip to a boundary
// and snap a GTFS feed, cook the result, and write out the binary map
// the simulate command loads.
package main

import (
	"context"
	"os"

	flags "github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/vvbv/abstreet/geom"
	"github.com/vvbv/abstreet/initialmap"
	"github.com/vvbv/abstreet/mapmodel"
	"github.com/vvbv/abstreet/rawmap"
	"github.com/vvbv/abstreet/utils/config"
	"github.com/vvbv/abstreet/utils/geoio"
)

var log = logrus.WithField("module", "convert")

var opts struct {
	Config   string `short:"c" long:"config" required:"true" description:"scenario YAML path"`
	LogLevel string `long:"log.level" default:"info" description:"trace|debug|info|warn|error"`
}

// hintFile is the on-disk shape of a hints YAML file: HintKind's int
// values aren't a stable authoring surface, so hints are authored by
// name and translated here.
type hintFile struct {
	Hints []struct {
		Kind         string `yaml:"kind"`
		Road         int    `yaml:"road,omitempty"`
		Intersection int    `yaml:"intersection,omitempty"`
	} `yaml:"hints"`
}

func loadHints(path string) ([]rawmap.Hint, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var hf hintFile
	if err := yaml.Unmarshal(raw, &hf); err != nil {
		return nil, err
	}
	out := make([]rawmap.Hint, 0, len(hf.Hints))
	for _, h := range hf.Hints {
		hint := rawmap.Hint{
			Road:         rawmap.StableRoadID(h.Road),
			Intersection: rawmap.StableIntersectionID(h.Intersection),
		}
		switch h.Kind {
		case "merge_road":
			hint.Kind = rawmap.HintMergeRoad
		case "delete_road":
			hint.Kind = rawmap.HintDeleteRoad
		case "merge_degenerate_intersection":
			hint.Kind = rawmap.HintMergeDegenerateIntersection
		default:
			log.Warnf("convert: unknown hint kind %q, skipping", h.Kind)
			continue
		}
		out = append(out, hint)
	}
	return out, nil
}

func loadBoundary(path string, originLat, originLon float64) (*initialmap.Boundary, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var lines []string
	start := 0
	for i, b := range raw {
		if b == '\n' {
			line := string(raw[start:i])
			line = trimCR(line)
			lines = append(lines, line)
			start = i + 1
		}
	}
	b, ok := initialmap.ParseOsmosisPoly(lines)
	if !ok {
		log.Warn("convert: boundary file did not parse as an Osmosis .poly ring, ignoring")
		return nil, nil
	}
	// the .poly format is lon/lat; reproject into the same meters plane
	// the OSM ingest used.
	pts := b.Polygon.Points()
	projected := make([]geom.Pt2D, len(pts))
	for i, p := range pts {
		projected[i] = geoio.Project(p.Y, p.X, originLat, originLon)
	}
	boundary := initialmap.Boundary{Polygon: geom.NewPolygon(projected)}
	return &boundary, nil
}

func trimCR(s string) string {
	if len(s) > 0 && s[len(s)-1] == '\r' {
		return s[:len(s)-1]
	}
	return s
}

func main() {
	if _, err := flags.Parse(&opts); err != nil {
		os.Exit(1)
	}
	if lvl, err := logrus.ParseLevel(opts.LogLevel); err == nil {
		logrus.SetLevel(lvl)
	}

	cfg, err := config.Load(opts.Config)
	if err != nil {
		log.Fatalf("convert: loading scenario config: %v", err)
	}

	f, err := os.Open(cfg.MapInput.OSM.File)
	if err != nil {
		log.Fatalf("convert: opening OSM extract: %v", err)
	}
	defer f.Close()

	ways, originLat, originLon, err := geoio.ParseOSMPBF(context.Background(), f)
	if err != nil {
		log.Fatalf("convert: parsing OSM extract: %v", err)
	}

	boundary, err := loadBoundary(cfg.MapInput.Boundary, originLat, originLon)
	if err != nil {
		log.Fatalf("convert: loading boundary: %v", err)
	}

	hints, err := loadHints(cfg.MapInput.Hints)
	if err != nil {
		log.Fatalf("convert: loading hints: %v", err)
	}

	result := initialmap.Build(ways, boundary, hints)
	log.Infof("convert: build applied %d/%d hints", len(result.HintsDone.Applied),
		len(result.HintsDone.Applied)+len(result.HintsDone.Skipped))

	m := mapmodel.Cook(result)

	if cfg.MapInput.GTFS != "" {
		stops, routes, err := geoio.ParseGTFS(cfg.MapInput.GTFS, originLat, originLon)
		if err != nil {
			log.Errorf("convert: parsing GTFS feed (skipping bus routes): %v", err)
		} else {
			mapmodel.CookBusRoutes(m, stops, routes)
		}
	}

	out, err := os.Create(cfg.MapInput.Output)
	if err != nil {
		log.Fatalf("convert: creating output file: %v", err)
	}
	defer out.Close()

	if err := mapmodel.Save(m, out); err != nil {
		log.Fatalf("convert: saving cooked map: %v", err)
	}

	log.Infof("convert: wrote %d lanes, %d intersections, %d buildings to %s",
		len(m.Lanes), len(m.Intersections), len(m.Buildings), cfg.MapInput.Output)
}
