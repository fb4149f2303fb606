package sim_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vvbv/abstreet/sim"
)

func TestEventLoopDispatchesInTimeOrder(t *testing.T) {
	loop := sim.NewEventLoop()
	loop.Push(5, sim.Command{Kind: sim.CmdUpdateAgent, Agent: 1})
	loop.Push(1, sim.Command{Kind: sim.CmdUpdateAgent, Agent: 2})
	loop.Push(3, sim.Command{Kind: sim.CmdUpdateAgent, Agent: 3})

	var order []sim.AgentID
	loop.Run(100, func(now float64, cmd sim.Command) {
		order = append(order, cmd.Agent)
	})
	assert.Equal(t, []sim.AgentID{2, 3, 1}, order)
}

func TestEventLoopStopsAtHorizon(t *testing.T) {
	loop := sim.NewEventLoop()
	loop.Push(1, sim.Command{Kind: sim.CmdUpdateAgent, Agent: 1})
	loop.Push(20, sim.Command{Kind: sim.CmdUpdateAgent, Agent: 2})

	var seen []sim.AgentID
	loop.Run(10, func(now float64, cmd sim.Command) {
		seen = append(seen, cmd.Agent)
	})
	assert.Equal(t, []sim.AgentID{1}, seen)
	assert.InDelta(t, 1.0, loop.Now(), 1e-6)
}

func TestEventLoopWakeAgentAt(t *testing.T) {
	loop := sim.NewEventLoop()
	loop.WakeAgentAt(2.5, sim.AgentID(9))

	var woke bool
	loop.Run(10, func(now float64, cmd sim.Command) {
		if cmd.Kind == sim.CmdUpdateAgent && cmd.Agent == 9 {
			woke = true
			assert.InDelta(t, 2.5, now, 1e-3)
		}
	})
	assert.True(t, woke)
}
