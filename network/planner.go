package network

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Planner is the source-routing planner: a pure function of (src, dst,
// class, FaultTable) that emits a complete Path, computed once at packet
// injection and carried by the packet for its entire lifetime. Planner
// holds only read-only references - Topo and Order are built once before
// simulation and never mutated.
type Planner struct {
	Topo  *Topology
	Order Order
}

// NewPlanner builds a Planner for the given Topology.
func NewPlanner(t *Topology) *Planner {
	return &Planner{Topo: t, Order: BuildOrder(t.H)}
}

// candidate is one (hm1, hm2, hm3, g1, g2) tuple accepted during
// enumeration, together with its tie-break weight.
type candidate struct {
	hm1, hm2, hm3 int
	g1, g2        int
	weight        int
	escape        bool
}

// less implements the winner ordering: fewest hops
// first, then prefer pushing work into earlier phases (hm1 DESC, hm2 DESC,
// hm3 DESC) so the first global hop departs as close to dst's hypercube
// coordinate as the fault-free fabric allows.
func (c candidate) less(o candidate) bool {
	if c.weight != o.weight {
		return c.weight < o.weight
	}
	if c.hm1 != o.hm1 {
		return c.hm1 > o.hm1
	}
	if c.hm2 != o.hm2 {
		return c.hm2 > o.hm2
	}
	return c.hm3 > o.hm3
}

// PlanRoute enumerates candidate paths from src to dst for packets of the
// given class, under faults, and returns the winning Path. It never
// mutates ft or p.Topo.
func (p *Planner) PlanRoute(src, dst int, class PacketClass, ft *FaultTable) Path {
	t := p.Topo
	a := 1 << t.H

	if ft.IsNodeDown(dst) {
		return p.logAndReturn(src, dst, Path{Quality: QualityUnroutable})
	}
	if src == dst {
		return p.logAndReturn(src, dst, Path{Quality: QualityMinimal})
	}

	srcGrp, dstGrp := t.Group(src), t.Group(dst)
	m := t.HC(src) ^ t.HC(dst)
	ord := p.Order[class]

	var best *candidate
	consider := func(c candidate) {
		if best == nil || c.less(*best) {
			cc := c
			best = &cc
		}
	}

	for i := 0; i < a; i++ { // hm2
		for j := 0; j < a; j++ { // hm3
			hm1 := m ^ i ^ j
			if c, ok := p.tryCandidate(src, dst, hm1, i, j, ord, ft); ok {
				consider(c)
			}
		}
	}

	if best == nil && srcGrp == dstGrp {
		best = p.tryEscape(src, dst, srcGrp, m, ord, ft)
	}

	if best == nil {
		return p.logAndReturn(src, dst, Path{Quality: QualityUnroutable})
	}

	quality := QualityNonMinimal
	if !best.escape && best.weight == popcount(m) {
		quality = QualityMinimal
	}

	path := Path{HM1: best.hm1, HM2: best.hm2, HM3: best.hm3, G1: best.g1, G2: best.g2, Quality: quality}
	return p.logAndReturn(src, dst, path)
}

// tryCandidate simulates one (hm1, hm2=i, hm3=j) triple from src toward
// dst, one state-machine pass: LocalA -> GlobalA -> LocalB
// -> GlobalB -> LocalC -> Accept|Reject. Transitions are skipped once the
// current group equals dstGrp.
func (p *Planner) tryCandidate(src, dst, hm1, hm2, hm3 int, ord [3][]int, ft *FaultTable) (candidate, bool) {
	t := p.Topo
	dstGrp := t.Group(dst)

	cur, ok := simulateLocal(t, ft, ord[0], src, hm1)
	if !ok {
		return candidate{}, false
	}

	var g1, g2 int
	if t.Group(cur) != dstGrp {
		idx, landingGrp, found := polarportCal(t.CT, t.Group(cur), dstGrp)
		if !found {
			panic(fmt.Sprintf("network: planner: no adjacency from group %d toward group %d - malformed connection table", t.Group(cur), dstGrp))
		}
		port := t.H + 1 + idx
		if ft.IsDead(cur, port) {
			return candidate{}, false
		}
		cur = t.RouterAt(landingGrp, t.HC(cur))
		g1 = port
	}

	cur, ok = simulateLocal(t, ft, ord[1], cur, hm2)
	if !ok {
		return candidate{}, false
	}

	if t.Group(cur) != dstGrp {
		idx, landingGrp, found := polarportCal(t.CT, t.Group(cur), dstGrp)
		if !found {
			panic(fmt.Sprintf("network: planner: no adjacency from group %d toward group %d - malformed connection table", t.Group(cur), dstGrp))
		}
		port := t.H + 1 + idx
		if ft.IsDead(cur, port) {
			return candidate{}, false
		}
		cur = t.RouterAt(landingGrp, t.HC(cur))
		g2 = port
	}

	cur, ok = simulateLocal(t, ft, ord[2], cur, hm3)
	if !ok {
		return candidate{}, false
	}

	if cur != dst {
		return candidate{}, false
	}

	return candidate{
		hm1: hm1, hm2: hm2, hm3: hm3, g1: g1, g2: g2,
		weight: popcount(hm1) + popcount(hm2) + popcount(hm3),
	}, true
}

// tryEscape performs the detour enumeration: when
// src and dst share a group and the main enumeration found no candidate,
// route out to an escape group and back, planning the three hypercube
// phases around the round trip. Escape candidates are weighted with the
// +2 penalty of the two extra global hops (naturally reflected in Hops()).
// Escape groups are tried in ascending port-index order and the first
// winner by the normal (weight, hm*) tie-break across all escape groups is
// kept, so ties resolve to the numerically lowest live global port.
func (p *Planner) tryEscape(src, dst, srcGrp, m int, ord [3][]int, ft *FaultTable) *candidate {
	t := p.Topo
	a := 1 << t.H
	p2 := t.CT.Ports()

	var best *candidate
	consider := func(c candidate) {
		if best == nil || c.less(*best) {
			cc := c
			best = &cc
		}
	}

	for k := 0; k < p2; k++ {
		escGrp := t.CT.Peer(srcGrp, k)
		if escGrp == srcGrp {
			continue // red-group self-loop entries carry no traffic
		}
		outPort := t.H + 1 + k
		backIdx, err := reverseGlobalIndex(t.CT, srcGrp, escGrp)
		if err != nil {
			panic(err.Error())
		}
		backPort := t.H + 1 + backIdx

		for i := 0; i < a; i++ { // hm2, inside escGrp
			for j := 0; j < a; j++ { // hm3, back inside srcGrp
				hm1 := m ^ i ^ j

				cur, ok := simulateLocal(t, ft, ord[0], src, hm1)
				if !ok {
					continue
				}
				if ft.IsDead(cur, outPort) {
					continue
				}
				cur = t.RouterAt(escGrp, t.HC(cur))

				cur, ok = simulateLocal(t, ft, ord[1], cur, i)
				if !ok {
					continue
				}
				if ft.IsDead(cur, backPort) {
					continue
				}
				cur = t.RouterAt(srcGrp, t.HC(cur))

				cur, ok = simulateLocal(t, ft, ord[2], cur, j)
				if !ok {
					continue
				}
				if cur != dst {
					continue
				}

				consider(candidate{
					hm1: hm1, hm2: i, hm3: j, g1: outPort, g2: backPort,
					weight: popcount(hm1) + popcount(i) + popcount(j) + 2,
					escape: true,
				})
			}
		}
	}
	return best
}

// simulateLocal walks mask's set bits, in order's canonical sequence,
// flipping r's hypercube coordinate one dimension at a time. It aborts
// (returning ok=false) the first time the outbound port for a required
// dimension is dead. Bits outside mask are never touched, and the walk
// never leaves r's starting group (hypercube moves only flip the low H
// bits of the router ID).
func simulateLocal(t *Topology, ft *FaultTable, order []int, r, mask int) (int, bool) {
	cur := r
	for _, d := range order {
		bit := 1 << uint(d)
		if mask&bit == 0 {
			continue
		}
		port := d + 1
		if ft.IsDead(cur, port) {
			return 0, false
		}
		cur ^= bit
	}
	return cur, true
}

// polarportCal resolves the next global port to take from srcGrp toward
// dstGrp, returning the column index within CT[srcGrp] and the group the
// port physically lands in. It tries the one-hop adjacency first; if
// srcGrp has no direct edge to dstGrp it falls back to a two-hop search
// for a common intermediate group, landing one hop short of dstGrp. The
// four canonical PolarFly tables resolve every group pair in one hop or
// through a single common neighbor; exhausting both searches indicates a
// malformed table, which callers treat as fatal.
func polarportCal(ct ConnectionTable, srcGrp, dstGrp int) (idx, landingGrp int, ok bool) {
	p := ct.Ports()
	for i := 0; i < p; i++ {
		if ct.Peer(srcGrp, i) == dstGrp {
			j := i
			if srcGrp == dstGrp {
				// Red-group self-loop entry: rotate to the next cyclic
				// index since self-loops carry no traffic.
				j = (i + 1) % p
			}
			return j, ct.Peer(srcGrp, j), true
		}
	}
	for i := 0; i < p; i++ {
		mid := ct.Peer(srcGrp, i)
		for j := 0; j < p; j++ {
			if ct.Peer(mid, j) == dstGrp {
				return i, mid, true
			}
		}
	}
	return 0, 0, false
}

// logAndReturn emits the stable planner summary line and
// returns path unchanged.
func (p *Planner) logAndReturn(src, dst int, path Path) Path {
	m := p.Topo.HC(src) ^ p.Topo.HC(dst)
	routing := "OK"
	if path.Quality == QualityUnroutable {
		routing = "NG"
	}
	extrahops := 0
	if path.Quality != QualityUnroutable {
		extrahops = path.Hops() - p.Topo.ExpectedHopCount(src, dst)
	}
	logrus.Infof("[planner] src:%d dest:%d mv:%d localmv1:%d localmv2:%d localmv3:%d global1:%d global2:%d routing:%s extrahops:%d %s",
		src, dst, m, path.HM1, path.HM2, path.HM3, path.G1, path.G2, routing, extrahops, path.Quality)
	return path
}
