package network

import "testing"

func newTestForwarder(t *testing.T) (*Topology, *Forwarder) {
	t.Helper()
	topo := build7x3(t, 2)
	return topo, NewForwarder(topo, 3)
}

// TestForward_Ejection verifies arrival handling: at the destination the
// packet leaves on port 0 with its VC untouched.
func TestForward_Ejection(t *testing.T) {
	_, fwd := newTestForwarder(t)

	outPort, outVC := fwd.Forward(16, 4, 2, Path{G1: 4}, ClassRequest, 16)
	if outPort != 0 || outVC != 2 {
		t.Errorf("expected ejection (0, 2), got (%d, %d)", outPort, outVC)
	}
}

// TestForward_InjectionVC verifies the fresh-injection VC normalization:
// requests start in VC 0, replies in VC V.
func TestForward_InjectionVC(t *testing.T) {
	_, fwd := newTestForwarder(t)

	outPort, outVC := fwd.Forward(0, 0, 0, Path{HM1: 1}, ClassRequest, 1)
	if outPort != 1 || outVC != 0 {
		t.Errorf("request injection: expected (1, 0), got (%d, %d)", outPort, outVC)
	}

	outPort, outVC = fwd.Forward(0, 0, 0, Path{HM1: 1}, ClassReply, 1)
	if outPort != 1 || outVC != 3 {
		t.Errorf("reply injection: expected (1, 3), got (%d, %d)", outPort, outVC)
	}
}

// TestForward_GlobalHopKeepsVC verifies that finishing a phase's local
// moves emits the global hop in the same VC, and that the packet arriving
// over that global port at its destination is ejected.
func TestForward_GlobalHopKeepsVC(t *testing.T) {
	_, fwd := newTestForwarder(t)
	path := Path{HM1: 3, G1: 4} // router 0 -> 19: two local moves, then global

	// last local move of phase 1 done (arrived at router 3 via dimension 1)
	outPort, outVC := fwd.Forward(3, 2, 0, path, ClassRequest, 19)
	if outPort != 4 || outVC != 0 {
		t.Errorf("phase-end global hop: expected (4, 0), got (%d, %d)", outPort, outVC)
	}

	// arrival in group 4 over the global port: with no further moves
	// planned the packet is already at dst and is ejected
	outPort, outVC = fwd.Forward(19, 4, 0, path, ClassRequest, 19)
	if outPort != 0 {
		t.Errorf("expected ejection at dst, got port %d", outPort)
	}
}

// TestForward_InternalHypercubeEscape verifies the phase advance without a
// global hop: when a phase's moves are exhausted and no global hop is
// planned at its boundary, the next phase's mask is consumed with the VC
// incremented.
func TestForward_InternalHypercubeEscape(t *testing.T) {
	_, fwd := newTestForwarder(t)
	path := Path{HM1: 2, HM2: 1} // same-group detour: phase 2 used, no global

	// arrived at router 2 via dimension 1; phase 1 is exhausted, G1 unset
	outPort, outVC := fwd.Forward(2, 2, 0, path, ClassRequest, 3)
	if outPort != 1 || outVC != 1 {
		t.Errorf("internal escape: expected (1, 1), got (%d, %d)", outPort, outVC)
	}
}

// TestForward_PhaseOutOfRange_Panics verifies the desynchronization guard
// on an inbound VC outside the class's phase range.
func TestForward_PhaseOutOfRange_Panics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic on out-of-range inbound VC, got none")
		}
	}()

	_, fwd := newTestForwarder(t)
	fwd.Forward(0, 1, 5, Path{HM1: 1}, ClassRequest, 3)
}

// TestForward_ExhaustedPath_Panics verifies the guard against a path that
// runs out of moves before the destination.
func TestForward_ExhaustedPath_Panics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic on exhausted path, got none")
		}
	}()

	_, fwd := newTestForwarder(t)
	fwd.Forward(0, 0, 0, Path{}, ClassRequest, 16)
}

// TestForward_TrafficCounters verifies the per-router, per-port counter
// bookkeeping across a full walk.
func TestForward_TrafficCounters(t *testing.T) {
	topo, fwd := newTestForwarder(t)
	planner := NewPlanner(topo)
	ft := NewFaultTable(topo.NumRouters, topo.PortsPerRouter())

	path := planner.PlanRoute(0, 19, ClassRequest, ft)
	if _, err := WalkPath(topo, fwd, 0, 19, path, ClassRequest); err != nil {
		t.Fatalf("walk: %v", err)
	}

	// (3, 0, 0, 4, 0): dims 0 then 1 in group 0, global from router 3
	if fwd.Traffic[0][1] != 1 {
		t.Errorf("Traffic[0][1]: expected 1, got %d", fwd.Traffic[0][1])
	}
	if fwd.Traffic[1][2] != 1 {
		t.Errorf("Traffic[1][2]: expected 1, got %d", fwd.Traffic[1][2])
	}
	if fwd.Traffic[3][4] != 1 {
		t.Errorf("Traffic[3][4]: expected 1, got %d", fwd.Traffic[3][4])
	}
	if fwd.Traffic[19][0] != 1 {
		t.Errorf("Traffic[19][0] (ejection): expected 1, got %d", fwd.Traffic[19][0])
	}
}

// TestWalkPath_Latency verifies latency accumulation: injection, one
// global channel, ejection.
func TestWalkPath_Latency(t *testing.T) {
	topo, fwd := newTestForwarder(t)

	res, err := WalkPath(topo, fwd, 0, 16, Path{G1: 4, Quality: QualityMinimal}, ClassRequest)
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if len(res.Hops) != 1 {
		t.Fatalf("expected 1 hop, got %d", len(res.Hops))
	}
	want := 2*LatencyInjectEject + LatencyGlobal
	if res.Latency != want {
		t.Errorf("latency: expected %d, got %d", want, res.Latency)
	}
}

// TestWalkPath_Unroutable verifies the error on an unroutable path.
func TestWalkPath_Unroutable(t *testing.T) {
	topo, fwd := newTestForwarder(t)

	if _, err := WalkPath(topo, fwd, 0, 16, Path{Quality: QualityUnroutable}, ClassRequest); err == nil {
		t.Errorf("expected error walking an unroutable path")
	}
}

// TestWalkPath_EscapeVCProgression walks the external-group escape route
// and checks that the VC never decreases and stays inside the request
// half.
func TestWalkPath_EscapeVCProgression(t *testing.T) {
	topo, fwd := newTestForwarder(t)
	planner := NewPlanner(topo)
	ft := NewFaultTable(topo.NumRouters, topo.PortsPerRouter())
	for r := 0; r < 4; r++ {
		ft.MarkDead(r, 1)
	}

	path := planner.PlanRoute(0, 1, ClassRequest, ft)
	if path.Quality != QualityNonMinimal {
		t.Fatalf("expected escape route, got %+v", path)
	}

	res, err := WalkPath(topo, fwd, 0, 1, path, ClassRequest)
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	prev := 0
	for i, hop := range res.Hops {
		if hop.OutVC < prev {
			t.Errorf("hop %d: VC decreased %d -> %d", i, prev, hop.OutVC)
		}
		if hop.OutVC < 0 || hop.OutVC >= 3 {
			t.Errorf("hop %d: VC %d outside request half [0, 3)", i, hop.OutVC)
		}
		prev = hop.OutVC
	}
	last := res.Hops[len(res.Hops)-1]
	if last.Channel.DstRouter != 1 {
		t.Errorf("walk ended at %d, want 1", last.Channel.DstRouter)
	}
}
