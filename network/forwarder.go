package network

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Forwarder is the per-hop forwarding function: given a router, the
// inbound (port, VC), the packet's already-planned Path and class, and its
// final destination, it returns the outbound (port, VC). Forwarder is
// stateless with respect to routing - it never consults the FaultTable,
// since the Planner already guaranteed every hop on the path is alive.
// Its only mutable state is the per-router, per-port traffic counter,
// which has no functional effect.
type Forwarder struct {
	Topo  *Topology
	Order Order
	// V is the per-class VC half-width: VCs [0, V) are Request, [V, 2V) are
	// Reply, and within each half the offset encodes the planner phase.
	V int
	// Traffic[r][port] counts forwarding decisions that chose that output
	// port, ejections included.
	Traffic [][]int
}

// NewForwarder builds a Forwarder for the given Topology and VC partition
// width.
func NewForwarder(t *Topology, v int) *Forwarder {
	traffic := make([][]int, t.NumRouters)
	for r := range traffic {
		traffic[r] = make([]int, t.PortsPerRouter())
	}
	return &Forwarder{Topo: t, Order: BuildOrder(t.H), V: v, Traffic: traffic}
}

// Forward computes the outbound (port, VC) for a packet arriving at router
// r via (inPort, inVC), following path toward dst. It panics if the
// resulting VC would fall outside the class's half of the VC space - a
// planner/forwarder desynchronization bug.
func (f *Forwarder) Forward(r, inPort, inVC int, path Path, class PacketClass, dst int) (outPort, outVC int) {
	if r == dst {
		f.Traffic[r][0]++
		return 0, inVC
	}

	if inPort == 0 {
		if class == ClassReply {
			inVC = f.V
		} else {
			inVC = 0
		}
	}

	base := 0
	if class == ClassReply {
		base = f.V
	}
	phase := inVC - base
	if phase < 0 || phase > 2 {
		panic(fmt.Sprintf("network: forwarder: in_vc %d out of range for class %s (base %d)", inVC, class, base))
	}

	hms := [3]int{path.HM1, path.HM2, path.HM3}
	globals := [2]int{path.G1, path.G2}
	ord := f.Order[class]

	if inPort >= 1 && inPort <= f.Topo.H {
		consumedDim := inPort - 1
		idx := indexOf(ord[phase], consumedDim)
		if port, ok := nextSetBit(ord[phase], idx+1, hms[phase]); ok {
			outPort, outVC = port, inVC
		} else if phase < 2 && globals[phase] != 0 {
			outPort, outVC = globals[phase], inVC
		} else if phase < 2 {
			outPort, outVC = f.advance(phase+1, inVC+1, hms, globals, ord)
		} else {
			panic("network: forwarder: path exhausted before reaching destination")
		}
	} else if inPort == 0 {
		// Fresh injection: start phase 0 from the beginning of its order.
		outPort, outVC = f.advance(phase, inVC, hms, globals, ord)
	} else {
		// Arrived via a global hop: crossing it always advances the phase
		// and the VC slot within the class's half.
		outPort, outVC = f.advance(phase+1, inVC+1, hms, globals, ord)
	}

	f.assertVC(outVC, class)
	f.Traffic[r][outPort]++
	logrus.Debugf("[forwarder] router:%d in_port:%d in_vc:%d out_port:%d out_vc:%d class:%s",
		r, inPort, inVC, outPort, outVC, class)
	return outPort, outVC
}

// advance finds the next hop starting at (phase, vc): the first set bit of
// hms[phase] in its canonical order, or - if that phase has no local moves
// left - the global hop at its boundary, or, if that boundary's global
// port is unset (the planner never intended a hop there, an "internal
// hypercube escape"), the same search one phase further with vc
// incremented again. Panics if phase 2 is exhausted without producing a
// hop, since the planner guarantees the path reaches dst by then.
func (f *Forwarder) advance(phase, vc int, hms [3]int, globals [2]int, ord [3][]int) (int, int) {
	for {
		if phase > 2 {
			panic("network: forwarder: path exhausted before reaching destination")
		}
		if port, ok := nextSetBit(ord[phase], 0, hms[phase]); ok {
			return port, vc
		}
		if phase >= 2 {
			panic("network: forwarder: path exhausted before reaching destination")
		}
		if globals[phase] != 0 {
			return globals[phase], vc
		}
		phase++
		vc++
	}
}

// assertVC panics if vc falls outside class's half of the VC space.
func (f *Forwarder) assertVC(vc int, class PacketClass) {
	lo, hi := 0, f.V
	if class == ClassReply {
		lo, hi = f.V, 2*f.V
	}
	if vc < lo || vc >= hi {
		panic(fmt.Sprintf("network: forwarder: computed out_vc %d outside class %s range [%d, %d)", vc, class, lo, hi))
	}
}
