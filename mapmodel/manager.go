package mapmodel

// The manager types below follow the dependency-inversion layout the
// cooked-map consumers are built against: each entity kind exposes
// Init/Get/GetOrError plus whatever Prepare/Update lifecycle its
// simulation step needs. pathfind and sim query *Map directly today
// (their hot paths need the full lane/intersection tables, not a
// single-lookup interface), but callers that only need point lookups
// -- a debug tool, a future editor integration -- can depend on
// ILaneManager/IIntersectionManager instead of the concrete Map type.

type ILaneManager interface {
	Init(m *Map)
	Get(id LaneID) *Lane
	GetOrError(id LaneID) (*Lane, error)
}

type IIntersectionManager interface {
	Init(m *Map)
	Get(id IntersectionID) *Intersection
	GetOrError(id IntersectionID) (*Intersection, error)
	Prepare()
	Update()
}

type LaneManager struct {
	m *Map
}

func NewLaneManager() *LaneManager { return &LaneManager{} }

func (mgr *LaneManager) Init(m *Map) { mgr.m = m }

func (mgr *LaneManager) Get(id LaneID) *Lane {
	l, ok := mgr.m.GetLane(id)
	if !ok {
		panic("mapmodel: LaneManager.Get: no such lane")
	}
	return l
}

func (mgr *LaneManager) GetOrError(id LaneID) (*Lane, error) {
	return mgr.m.GetLaneOrError(id)
}

// IntersectionManager wraps the cooked intersections; Prepare/Update
// are no-ops here because arbitration state lives in sim's own
// Arbiter, which reads *Map directly rather than going through this
// type.
type IntersectionManager struct {
	m *Map
}

func NewIntersectionManager() *IntersectionManager { return &IntersectionManager{} }

func (mgr *IntersectionManager) Init(m *Map) { mgr.m = m }

func (mgr *IntersectionManager) Get(id IntersectionID) *Intersection {
	i, ok := mgr.m.GetIntersection(id)
	if !ok {
		panic("mapmodel: IntersectionManager.Get: no such intersection")
	}
	return i
}

func (mgr *IntersectionManager) GetOrError(id IntersectionID) (*Intersection, error) {
	return mgr.m.GetIntersectionOrError(id)
}

func (mgr *IntersectionManager) Prepare() {}
func (mgr *IntersectionManager) Update()  {}
