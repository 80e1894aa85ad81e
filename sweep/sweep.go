// Package sweep is a small discrete-event harness over the routing core:
// it injects a randomized request stream, plans each packet once at its
// source, walks the plan through the per-hop forwarder, and aggregates
// delivery metrics. It exists to exercise the planner and forwarder at
// fleet scale; it is not a flit-level model - each packet's network time
// is the static sum of its channel latencies.
package sweep

import (
	"container/heap"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/polarflyplus/routesim/network"
)

// EventQueue implements heap.Interface and orders events by timestamp.
type EventQueue []Event

func (eq EventQueue) Len() int           { return len(eq) }
func (eq EventQueue) Less(i, j int) bool { return eq[i].Timestamp() < eq[j].Timestamp() }
func (eq EventQueue) Swap(i, j int)      { eq[i], eq[j] = eq[j], eq[i] }

func (eq *EventQueue) Push(x any) {
	*eq = append(*eq, x.(Event))
}

func (eq *EventQueue) Pop() any {
	old := *eq
	n := len(old)
	item := old[n-1]
	*eq = old[0 : n-1]
	return item
}

// Simulator holds the sweep's clock, event queue, and the read-only routing
// core it drives. Single-threaded, cooperatively clocked: events execute
// one at a time in timestamp order.
type Simulator struct {
	Clock   int64
	Horizon int64

	EventQueue EventQueue

	Topo      *network.Topology
	Planner   *network.Planner
	Forwarder *network.Forwarder
	Faults    *network.FaultTable

	Metrics *Metrics

	nextID int
}

// NewSimulator wires a Simulator over an already-built topology and fault
// table. v is the per-class VC half-width.
func NewSimulator(t *network.Topology, ft *network.FaultTable, v int, horizon int64) *Simulator {
	return &Simulator{
		Horizon:   horizon,
		Topo:      t,
		Planner:   network.NewPlanner(t),
		Forwarder: network.NewForwarder(t, v),
		Faults:    ft,
		Metrics:   &Metrics{},
	}
}

// Schedule pushes an event onto the queue.
func (sim *Simulator) Schedule(ev Event) {
	heap.Push(&sim.EventQueue, ev)
}

// GeneratePoissonArrivals schedules request injections as a Poisson process
// of the given rate (packets per time-unit) up to the horizon, with
// uniformly random endpoints. rng must come from the traffic subsystem of a
// PartitionedRNG so arrivals stay uncorrelated with fault placement.
func (sim *Simulator) GeneratePoissonArrivals(rate float64, horizon int64, rng *rand.Rand) {
	currentTime := int64(0)
	for {
		delta := int64(rng.ExpFloat64() / rate)
		if delta < 1 {
			delta = 1 // keep time advancing at very high rates
		}
		currentTime += delta
		if currentTime > horizon {
			break
		}
		p := &Packet{
			ID:          sim.nextID,
			Src:         rng.Intn(sim.Topo.NumRouters),
			Dst:         rng.Intn(sim.Topo.NumRouters),
			Class:       network.ClassRequest,
			ArrivalTime: currentTime,
		}
		sim.nextID++
		sim.Schedule(&InjectionEvent{time: currentTime, Packet: p})
	}
}

// Run drains the event queue in timestamp order. Injections are only
// generated within the horizon, so the loop runs the queue dry: in-flight
// packets (and their replies) are allowed to land past the horizon rather
// than being cut off mid-path.
func (sim *Simulator) Run() {
	for len(sim.EventQueue) > 0 {
		ev := heap.Pop(&sim.EventQueue).(Event)
		sim.Clock = ev.Timestamp()
		ev.Execute(sim)
	}
	logrus.Infof("[sweep] simulation ended at t=%d: %d injected, %d delivered, %d unroutable",
		sim.Clock, sim.Metrics.InjectedPackets, sim.Metrics.DeliveredPackets, sim.Metrics.UnroutablePackets)
}
