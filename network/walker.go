package network

import "fmt"

// Hop is one channel traversal recorded by WalkPath, together with the VC
// the packet occupied while crossing it.
type Hop struct {
	Channel Channel
	OutVC   int
}

// WalkResult is the outcome of walking a planned Path hop-by-hop through
// the Forwarder: the traversed channels in order and the accumulated
// latency, including one injection and one ejection crossing.
type WalkResult struct {
	Hops    []Hop
	Latency int
}

// WalkPath drives a packet from src to dst through the per-hop Forwarder,
// exactly as the router pipeline would at simulation time: inject on port 0,
// call Forward at every router, follow the chosen output channel, eject on
// port 0 at dst. It returns an error if path is unroutable or if forwarding
// fails to terminate within the worst-case hop bound of 3H+2 (which would indicate a
// planner/forwarder desynchronization, the same class of bug the forwarder's
// VC assertion guards against).
func WalkPath(t *Topology, f *Forwarder, src, dst int, path Path, class PacketClass) (WalkResult, error) {
	if path.Quality == QualityUnroutable {
		return WalkResult{}, fmt.Errorf("network: WalkPath: path %d -> %d is unroutable", src, dst)
	}

	res := WalkResult{Latency: LatencyInjectEject}
	r, inPort, inVC := src, 0, 0

	// Worst case: 3 phases of up to H overshoot-and-return moves each, plus
	// two global hops.
	limit := 3*t.H + 2
	for i := 0; i <= limit; i++ {
		outPort, outVC := f.Forward(r, inPort, inVC, path, class, dst)
		if outPort == 0 {
			res.Latency += LatencyInjectEject
			return res, nil
		}
		ch := t.Outputs(r)[outPort]
		res.Hops = append(res.Hops, Hop{Channel: ch, OutVC: outVC})
		res.Latency += ch.Latency
		r, inPort, inVC = ch.DstRouter, ch.DstPort, outVC
	}
	return res, fmt.Errorf("network: WalkPath: no ejection after %d hops walking %d -> %d", len(res.Hops), src, dst)
}
