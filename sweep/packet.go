package sweep

import "github.com/polarflyplus/routesim/network"

// Packet is one simulated transfer between two NICs. The planned Path is
// filled in at injection time and carried by the packet for its entire
// lifetime, per the source-routing model: the planner runs exactly once,
// every later router only executes the stored plan.
type Packet struct {
	ID       int
	Src, Dst int
	Class    network.PacketClass

	ArrivalTime int64
	Path        network.Path
}
