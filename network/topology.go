package network

import (
	"fmt"
	"strings"
)

// Topology derives router and channel counts from (H, P, ConnectionTable)
// and exposes the per-router output channel list used by WalkPath and by
// InjectFaults. Built once, read-only afterward.
type Topology struct {
	H, P int
	CT   ConnectionTable

	NumRouters  int
	NumChannels int // directed channels per direction, excluding injection/ejection

	// outputs[r][port] is the Channel leaving router r on that port.
	// Port 0 is injection/ejection (loops back to r itself); ports 1..H are
	// hypercube neighbors; ports H+1..H+P are PolarFly global links.
	outputs [][]Channel
}

// a returns 2^H, the number of routers per group.
func (t *Topology) a() int {
	return 1 << t.H
}

// PortsPerRouter returns H+P+1 (injection + hypercube + global).
func (t *Topology) PortsPerRouter() int {
	return t.H + t.P + 1
}

// Group returns r's group index, r >> H.
func (t *Topology) Group(r int) int {
	return r >> t.H
}

// HC returns r's hypercube coordinate, the low H bits of r.
func (t *Topology) HC(r int) int {
	return r & (t.a() - 1)
}

// RouterAt reconstructs a router ID from a group and hypercube coordinate.
func (t *Topology) RouterAt(grp, hc int) int {
	return grp*t.a() + hc
}

// Outputs returns router r's full output-channel list, indexed by port.
func (t *Topology) Outputs(r int) []Channel {
	return t.outputs[r]
}

// RouterName reproduces the human-readable router naming scheme from the
// original booksim2 source (_BuildNet): the hypercube coordinate bits,
// low-to-high, followed by the group index.
func (t *Topology) RouterName(r int) string {
	var b strings.Builder
	b.WriteString("router")
	for d := 0; d < t.H; d++ {
		fmt.Fprintf(&b, "_%d", (r>>d)&1)
	}
	fmt.Fprintf(&b, "_%d", t.Group(r))
	return b.String()
}

// ExpectedHopCount returns the minimal hop count between src and dst in a
// fault-free fabric: the popcount of the hypercube distance plus, when the
// endpoints are in different groups, one global hop if dst's group is a
// direct PolarFly neighbor of src's group and two if it is not (a global
// hop preserves the hypercube coordinate, and the shipped tables have
// diameter 2). This is a supplemental metrics helper
// (not part of the planner) adapted from the original source's
// polarflyplusnew_hopcnt, which computes the analogous quantity for
// booksim2's own group/router numbering.
func (t *Topology) ExpectedHopCount(src, dst int) int {
	hops := popcount(t.HC(src) ^ t.HC(dst))
	srcGrp, dstGrp := t.Group(src), t.Group(dst)
	if srcGrp != dstGrp {
		hops += 2
		for i := 0; i < t.CT.Ports(); i++ {
			if t.CT.Peer(srcGrp, i) == dstGrp {
				hops--
				break
			}
		}
	}
	return hops
}

// Build derives the full channel set for an H-dimension hypercube per group
// wired by ConnectionTable ct (P global ports per router).
func Build(h, p int, ct ConnectionTable) (*Topology, error) {
	if h <= 0 {
		return nil, fmt.Errorf("network: Build: H must be positive, got %d", h)
	}
	if ct.Ports() != p {
		return nil, fmt.Errorf("network: Build: connection table has %d columns, want %d", ct.Ports(), p)
	}
	g := ct.Groups()
	a := 1 << h
	numRouters := g * a
	ports := h + p + 1

	t := &Topology{
		H:           h,
		P:           p,
		CT:          ct,
		NumRouters:  numRouters,
		NumChannels: numRouters * (h + p),
	}
	t.outputs = make([][]Channel, numRouters)
	for r := range t.outputs {
		t.outputs[r] = make([]Channel, ports)
	}

	for r := 0; r < numRouters; r++ {
		grp := r >> h
		hc := r & (a - 1)

		t.outputs[r][0] = Channel{r, 0, r, 0, LatencyInjectEject}

		for d := 0; d < h; d++ {
			peer := r ^ (1 << d)
			port := d + 1
			t.outputs[r][port] = Channel{r, port, peer, port, LatencyLocal}
		}

		for i := 0; i < p; i++ {
			peerGrp := ct.Peer(grp, i)
			revIdx, err := reverseGlobalIndex(ct, grp, peerGrp)
			if err != nil {
				return nil, err
			}
			peerRouter := peerGrp*a + hc
			port := h + 1 + i
			revPort := h + 1 + revIdx
			t.outputs[r][port] = Channel{r, port, peerRouter, revPort, LatencyGlobal}
		}
	}
	return t, nil
}

// reverseGlobalIndex finds the index i such that ct[peerGrp][i] == grp - the
// reverse-port derivation the original source's _BuildNet performs by
// scanning the peer group's row (an O(P) lookup repeated per channel).
func reverseGlobalIndex(ct ConnectionTable, grp, peerGrp int) (int, error) {
	p := ct.Ports()
	for i := 0; i < p; i++ {
		if ct.Peer(peerGrp, i) == grp {
			return i, nil
		}
	}
	return 0, fmt.Errorf("network: reverseGlobalIndex: group %d has no reciprocal entry back to group %d - malformed connection table", peerGrp, grp)
}

func popcount(x int) int {
	n := 0
	for x != 0 {
		x &= x - 1
		n++
	}
	return n
}
