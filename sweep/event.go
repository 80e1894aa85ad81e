package sweep

import (
	"github.com/sirupsen/logrus"

	"github.com/polarflyplus/routesim/network"
)

// Event is one scheduled occurrence in the sweep's discrete-event loop.
type Event interface {
	Timestamp() int64
	Execute(*Simulator)
}

// InjectionEvent is a packet arriving at its source NIC. Executing it runs
// the planner once, then walks the stored plan through the per-hop
// forwarder to obtain the delivery time.
type InjectionEvent struct {
	time   int64
	Packet *Packet
}

func (e *InjectionEvent) Timestamp() int64 { return e.time }

func (e *InjectionEvent) Execute(sim *Simulator) {
	p := e.Packet
	sim.Metrics.InjectedPackets++

	p.Path = sim.Planner.PlanRoute(p.Src, p.Dst, p.Class, sim.Faults)
	switch p.Path.Quality {
	case network.QualityUnroutable:
		sim.Metrics.UnroutablePackets++
		logrus.Debugf("[sweep] packet %d dropped: %d -> %d unroutable", p.ID, p.Src, p.Dst)
		return
	case network.QualityMinimal:
		sim.Metrics.MinimalRoutes++
	case network.QualityNonMinimal:
		sim.Metrics.NonMinimalRoutes++
	}

	res, err := network.WalkPath(sim.Topo, sim.Forwarder, p.Src, p.Dst, p.Path, p.Class)
	if err != nil {
		// The planner accepted the path, so the walk cannot fail; if it
		// does, the routing core is desynchronized and continuing would
		// produce garbage metrics.
		logrus.Fatalf("[sweep] packet %d: %v", p.ID, err)
	}

	sim.Schedule(&DeliveryEvent{
		time:   e.time + int64(res.Latency),
		Packet: p,
		Hops:   len(res.Hops),
	})
}

// DeliveryEvent is a packet ejecting at its destination NIC. Delivering a
// request immediately injects the matching reply back toward the source,
// exercising the reply half of the VC partition.
type DeliveryEvent struct {
	time   int64
	Packet *Packet
	Hops   int
}

func (e *DeliveryEvent) Timestamp() int64 { return e.time }

func (e *DeliveryEvent) Execute(sim *Simulator) {
	p := e.Packet
	sim.Metrics.DeliveredPackets++
	sim.Metrics.TotalHops += e.Hops
	sim.Metrics.TotalExtraHops += e.Hops - sim.Topo.ExpectedHopCount(p.Src, p.Dst)
	sim.Metrics.TotalLatency += e.time - p.ArrivalTime

	if p.Class == network.ClassRequest {
		reply := &Packet{
			ID:          p.ID,
			Src:         p.Dst,
			Dst:         p.Src,
			Class:       network.ClassReply,
			ArrivalTime: e.time,
		}
		sim.Schedule(&InjectionEvent{time: e.time, Packet: reply})
	}
}
