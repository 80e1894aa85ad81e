package network

// Channel latency constants (time-units). These values are a contract
// surface: external traffic generators and the flit-level router
// microarchitecture (both out of scope here) rely on them staying fixed.
const (
	LatencyLocal       = 80  // hypercube link, either direction
	LatencyGlobal      = 80  // PolarFly link, either direction
	LatencyInjectEject = 600 // CPU/NIC injection or ejection
)

// Channel is a directed (router, port) -> (router', port') link. Every
// physical link materializes as two directed Channels (data and, at the
// router microarchitecture layer which is out of scope here, a reciprocal
// credit channel of the same latency).
type Channel struct {
	SrcRouter, SrcPort int
	DstRouter, DstPort int
	Latency            int
}
