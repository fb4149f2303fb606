package sim

import "github.com/vvbv/abstreet/mapmodel"

// assumedSpeedCmPerSec gives each lane family a fixed free-flow speed,
// used only to turn a resolved path's cost into a travel-time estimate
// between leg-advance events. Full car-following is explicitly out of
// scope (§1 Non-goals: "micro-level car-following above what the
// intersection arbiter requires"); the arbiter itself is what actually
// governs contention at intersections.
var assumedSpeedCmPerSec = map[mapmodel.LaneType]float64{
	mapmodel.LaneDriving:  1100, // ~40 km/h
	mapmodel.LaneBus:      1100,
	mapmodel.LaneBiking:   450,  // ~16 km/h
	mapmodel.LaneSidewalk: 140,  // ~5 km/h
}

// TravelTimeSeconds estimates how long costCm takes to cover at family's
// assumed free-flow speed.
func TravelTimeSeconds(family mapmodel.LaneType, costCm int) float64 {
	speed, ok := assumedSpeedCmPerSec[family]
	if !ok || speed <= 0 {
		speed = assumedSpeedCmPerSec[mapmodel.LaneDriving]
	}
	return float64(costCm) / speed
}
