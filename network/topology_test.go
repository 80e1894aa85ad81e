package network

import "testing"

func build7x3(t *testing.T, h int) *Topology {
	t.Helper()
	ct, err := SelectConnectionTable(3)
	if err != nil {
		t.Fatalf("SelectConnectionTable(3): %v", err)
	}
	topo, err := Build(h, 3, ct)
	if err != nil {
		t.Fatalf("Build(%d, 3): %v", h, err)
	}
	return topo
}

// TestBuild_Counts verifies the derived sizes for the 7x3 table with H=2:
// 7 groups of 4 routers, 6 ports per router, 5 non-injection channels each.
func TestBuild_Counts(t *testing.T) {
	topo := build7x3(t, 2)

	if topo.NumRouters != 28 {
		t.Errorf("NumRouters: expected 28, got %d", topo.NumRouters)
	}
	if topo.NumChannels != 28*5 {
		t.Errorf("NumChannels: expected %d, got %d", 28*5, topo.NumChannels)
	}
	if topo.PortsPerRouter() != 6 {
		t.Errorf("PortsPerRouter: expected 6, got %d", topo.PortsPerRouter())
	}
}

// TestBuild_HypercubeChannels verifies that hypercube port d+1 flips bit d
// and that the peer's reciprocal channel uses the same port number.
func TestBuild_HypercubeChannels(t *testing.T) {
	topo := build7x3(t, 2)

	for r := 0; r < topo.NumRouters; r++ {
		for d := 0; d < topo.H; d++ {
			port := d + 1
			ch := topo.Outputs(r)[port]
			wantPeer := r ^ (1 << d)
			if ch.DstRouter != wantPeer {
				t.Errorf("router %d port %d: expected peer %d, got %d", r, port, wantPeer, ch.DstRouter)
			}
			if ch.DstPort != port {
				t.Errorf("router %d port %d: expected reciprocal port %d, got %d", r, port, port, ch.DstPort)
			}
			if ch.Latency != LatencyLocal {
				t.Errorf("router %d port %d: expected latency %d, got %d", r, port, LatencyLocal, ch.Latency)
			}
			back := topo.Outputs(wantPeer)[ch.DstPort]
			if back.DstRouter != r || back.DstPort != port {
				t.Errorf("router %d port %d: reverse channel goes to (%d, %d), want (%d, %d)",
					r, port, back.DstRouter, back.DstPort, r, port)
			}
		}
	}
}

// TestBuild_GlobalChannels verifies that global channels preserve the
// hypercube coordinate and that the reverse-port derivation (scanning the
// peer group's table row) yields a true reciprocal.
func TestBuild_GlobalChannels(t *testing.T) {
	topo := build7x3(t, 2)

	for r := 0; r < topo.NumRouters; r++ {
		for i := 0; i < topo.P; i++ {
			port := topo.H + 1 + i
			ch := topo.Outputs(r)[port]
			if topo.HC(ch.DstRouter) != topo.HC(r) {
				t.Errorf("router %d port %d: global hop changed hypercube coordinate %d -> %d",
					r, port, topo.HC(r), topo.HC(ch.DstRouter))
			}
			if topo.Group(ch.DstRouter) != topo.CT.Peer(topo.Group(r), i) {
				t.Errorf("router %d port %d: landed in group %d, want %d",
					r, port, topo.Group(ch.DstRouter), topo.CT.Peer(topo.Group(r), i))
			}
			if ch.Latency != LatencyGlobal {
				t.Errorf("router %d port %d: expected latency %d, got %d", r, port, LatencyGlobal, ch.Latency)
			}
			if topo.Group(ch.DstRouter) == topo.Group(r) {
				continue // self-loop entry, no reciprocal to check
			}
			back := topo.Outputs(ch.DstRouter)[ch.DstPort]
			if back.DstRouter != r || back.DstPort != port {
				t.Errorf("router %d port %d: reverse global channel goes to (%d, %d), want (%d, %d)",
					r, port, back.DstRouter, back.DstPort, r, port)
			}
		}
	}
}

// TestBuild_InjectionChannel verifies the port-0 ejection loop and its
// latency.
func TestBuild_InjectionChannel(t *testing.T) {
	topo := build7x3(t, 2)

	ch := topo.Outputs(5)[0]
	if ch.DstRouter != 5 || ch.DstPort != 0 {
		t.Errorf("injection channel: expected self loop, got (%d, %d)", ch.DstRouter, ch.DstPort)
	}
	if ch.Latency != LatencyInjectEject {
		t.Errorf("injection channel: expected latency %d, got %d", LatencyInjectEject, ch.Latency)
	}
}

// TestBuild_Validation verifies the argument checks.
func TestBuild_Validation(t *testing.T) {
	ct, _ := SelectConnectionTable(3)
	if _, err := Build(0, 3, ct); err == nil {
		t.Errorf("Build(0, 3): expected error for non-positive H")
	}
	if _, err := Build(2, 4, ct); err == nil {
		t.Errorf("Build(2, 4): expected error for table column mismatch")
	}
}

// TestRouterName reproduces the original naming scheme: hypercube
// coordinate bits low-to-high, then the group index.
func TestRouterName(t *testing.T) {
	topo := build7x3(t, 2)

	tests := []struct {
		r    int
		name string
	}{
		{0, "router_0_0_0"},
		{1, "router_1_0_0"},
		{6, "router_0_1_1"},
		{27, "router_1_1_6"},
	}
	for _, tt := range tests {
		if got := topo.RouterName(tt.r); got != tt.name {
			t.Errorf("RouterName(%d): expected %q, got %q", tt.r, tt.name, got)
		}
	}
}

// TestGroupAndHC verifies the router-ID decomposition helpers.
func TestGroupAndHC(t *testing.T) {
	topo := build7x3(t, 2)

	if topo.Group(7) != 1 || topo.HC(7) != 3 {
		t.Errorf("router 7: expected group 1, hc 3, got group %d, hc %d", topo.Group(7), topo.HC(7))
	}
	if topo.RouterAt(1, 3) != 7 {
		t.Errorf("RouterAt(1, 3): expected 7, got %d", topo.RouterAt(1, 3))
	}
}

// TestExpectedHopCount verifies the fault-free hop-count expectation: the
// popcount of the hypercube distance plus one global hop when the groups
// are direct PolarFly neighbors.
func TestExpectedHopCount(t *testing.T) {
	topo := build7x3(t, 2)

	tests := []struct {
		src, dst, hops int
	}{
		{0, 0, 0},
		{0, 1, 1},
		{0, 3, 2},
		{0, 16, 1}, // group 4, same hypercube coordinate
		{0, 19, 3}, // group 4, hc distance 2
	}
	for _, tt := range tests {
		if got := topo.ExpectedHopCount(tt.src, tt.dst); got != tt.hops {
			t.Errorf("ExpectedHopCount(%d, %d): expected %d, got %d", tt.src, tt.dst, tt.hops, got)
		}
	}
}
