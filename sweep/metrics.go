package sweep

import "fmt"

// Metrics aggregates sweep-wide delivery statistics for final reporting.
type Metrics struct {
	InjectedPackets   int // requests + replies injected
	DeliveredPackets  int // packets that reached their destination NIC
	UnroutablePackets int // packets the planner could not route (dropped)

	MinimalRoutes    int
	NonMinimalRoutes int

	TotalHops      int   // channel traversals across all delivered packets
	TotalExtraHops int   // hops beyond the fault-free expectation
	TotalLatency   int64 // sum of (delivery - injection) times
}

// Print displays aggregated metrics at the end of the sweep.
func (m *Metrics) Print() {
	fmt.Println("=== Sweep Metrics ===")
	fmt.Printf("Injected Packets     : %d\n", m.InjectedPackets)
	fmt.Printf("Delivered Packets    : %d\n", m.DeliveredPackets)
	fmt.Printf("Unroutable Packets   : %d\n", m.UnroutablePackets)
	fmt.Printf("Minimal Routes       : %d\n", m.MinimalRoutes)
	fmt.Printf("Non-minimal Routes   : %d\n", m.NonMinimalRoutes)
	if m.DeliveredPackets > 0 {
		fmt.Printf("Average Hops         : %.2f\n", float64(m.TotalHops)/float64(m.DeliveredPackets))
		fmt.Printf("Average Extra Hops   : %.2f\n", float64(m.TotalExtraHops)/float64(m.DeliveredPackets))
		fmt.Printf("Average Latency      : %.2f time-units\n", float64(m.TotalLatency)/float64(m.DeliveredPackets))
	}
}
