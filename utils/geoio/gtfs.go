package geoio

import (
	"fmt"

	"github.com/patrickbr/gtfsparser"
	"github.com/patrickbr/gtfsparser/gtfs"

	"github.com/vvbv/abstreet/mapmodel"
)

// ParseGTFS reads a GTFS feed directory and reduces it to the stop/route
// shape CookBusRoutes needs: one GTFSStop per feed stop (projected into
// the same meters plane the road network uses) and one GTFSRoute per
// feed route, using that route's longest trip as its representative
// stop pattern — GTFS trips on the same route can branch, and the
// cooked map only needs one ordered sequence to snap against (§4.1
// Phase I Open Question: branch variants are out of scope).
func ParseGTFS(dir string, originLat, originLon float64) ([]mapmodel.GTFSStop, []mapmodel.GTFSRoute, error) {
	feed := gtfsparser.NewFeed()
	if err := feed.Parse(dir); err != nil {
		return nil, nil, fmt.Errorf("geoio: parsing GTFS feed at %q: %w", dir, err)
	}

	stops := make([]mapmodel.GTFSStop, 0, len(feed.Stops))
	for _, s := range feed.Stops {
		stops = append(stops, mapmodel.GTFSStop{
			ID:    s.Id,
			Name:  s.Name,
			Point: Project(float64(s.Lat), float64(s.Lon), originLat, originLon),
		})
	}

	longestTripByRoute := make(map[string]*gtfs.Trip)
	for _, t := range feed.Trips {
		if t.Route == nil {
			continue
		}
		cur, ok := longestTripByRoute[t.Route.Id]
		if !ok || len(t.StopTimes) > len(cur.StopTimes) {
			longestTripByRoute[t.Route.Id] = t
		}
	}

	routes := make([]mapmodel.GTFSRoute, 0, len(feed.Routes))
	for id, r := range feed.Routes {
		trip, ok := longestTripByRoute[id]
		if !ok || len(trip.StopTimes) < 2 {
			continue
		}
		stopIDs := make([]string, 0, len(trip.StopTimes))
		for _, st := range trip.StopTimes {
			if st.Stop() != nil {
				stopIDs = append(stopIDs, st.Stop().Id)
			}
		}
		name := r.Short_name
		if name == "" {
			name = r.Long_name
		}
		routes = append(routes, mapmodel.GTFSRoute{ID: id, Name: name, StopIDs: stopIDs})
	}

	log.Infof("geoio: parsed GTFS feed: %d stops, %d routes", len(stops), len(routes))
	return stops, routes, nil
}
