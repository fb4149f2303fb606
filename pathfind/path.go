package pathfind

import (
	"fmt"

	"github.com/vvbv/abstreet/mapmodel"
)

// PathRequest asks for a route between two lanes of the same
// lane-type family (§4.4). Resolve does not read StartDistCm or
// EndDistCm: a route always covers whole lanes, from the end of
// StartLane to the end of EndLane.
type PathRequest struct {
	Family       mapmodel.LaneType
	StartLane    mapmodel.LaneID
	StartDistCm  int
	EndLane      mapmodel.LaneID
	EndDistCm    int
}

// PathStep is one lane to drive/walk/ride along, in order.
type PathStep struct {
	Lane mapmodel.LaneID
}

// Path is a fully resolved route: a sequence of lanes plus the total
// cost, in the same integer-centimeter units the hierarchy was built in.
type Path struct {
	Steps   []PathStep
	CostCm  int
}

// Engine owns one contraction hierarchy per lane-type family and
// answers PathRequests against the cooked map they were built from.
type Engine struct {
	m    *mapmodel.Map
	chs  map[mapmodel.LaneType]*CH
	raw  map[mapmodel.LaneType]*Graph
}

// NewEngine builds a hierarchy for each family actually present in m.
func NewEngine(m *mapmodel.Map) *Engine {
	e := &Engine{m: m, chs: make(map[mapmodel.LaneType]*CH), raw: make(map[mapmodel.LaneType]*Graph)}
	for _, family := range []mapmodel.LaneType{mapmodel.LaneDriving, mapmodel.LaneBiking, mapmodel.LaneSidewalk, mapmodel.LaneBus} {
		g := BuildGraph(m, family)
		if len(g.nodes) == 0 {
			continue
		}
		e.raw[family] = g
		e.chs[family] = Contract(g)
	}
	return e
}

// Rebuild re-contracts every family's hierarchy from the map's current
// lanes and turns; there is no incremental patching. Applying a
// mapmodel edit does not call it, and no code in this repository does.
func (e *Engine) Rebuild() {
	for family := range e.chs {
		g := BuildGraph(e.m, family)
		e.raw[family] = g
		e.chs[family] = Contract(g)
	}
}

// Resolve answers req, preferring the contraction hierarchy and falling
// back to plain Dijkstra (RetrySlow) if the hierarchy has no route --
// which after a Rebuild should only happen when the map is genuinely
// disconnected for that family.
func (e *Engine) Resolve(req PathRequest) (Path, error) {
	startLane, err := e.m.GetLaneOrError(req.StartLane)
	if err != nil {
		return Path{}, err
	}
	endLane, err := e.m.GetLaneOrError(req.EndLane)
	if err != nil {
		return Path{}, err
	}
	if startLane.Type != req.Family || endLane.Type != req.Family {
		return Path{}, fmt.Errorf("pathfind: lane type mismatch for family %v", req.Family)
	}

	ch, ok := e.chs[req.Family]
	if !ok {
		return Path{}, fmt.Errorf("pathfind: no hierarchy for family %v", req.Family)
	}

	edges, cost, ok := ch.Query(startLane.ID, endLane.ID)
	if !ok {
		g := e.raw[req.Family]
		edges, cost, ok = ShortestPath(g, startLane.ID, endLane.ID)
		if !ok {
			return Path{}, fmt.Errorf("pathfind: no route for family %v", req.Family)
		}
		log.Debugf("pathfind: CH miss for family %v, fell back to RetrySlow", req.Family)
	}

	steps := []PathStep{{Lane: startLane.ID}}
	for _, e := range edges {
		steps = append(steps, PathStep{Lane: e.Lane})
	}
	steps = append(steps, PathStep{Lane: endLane.ID})

	return Path{Steps: dedupeSteps(steps), CostCm: cost}, nil
}

func dedupeSteps(steps []PathStep) []PathStep {
	out := steps[:0:0]
	for i, s := range steps {
		if i == 0 || s.Lane != steps[i-1].Lane {
			out = append(out, s)
		}
	}
	return out
}
