package network

import "fmt"

// Quality classifies a planned route relative to the best a fault-free
// fabric could offer between the same endpoints.
type Quality int

const (
	// QualityMinimal means the route matches the fault-free hop-count lower
	// bound for this (src, dst) pair exactly, with no external-group escape.
	QualityMinimal Quality = iota
	// QualityNonMinimal means the route is valid but costs extra hops, or
	// used an external-group escape, to route around a fault.
	QualityNonMinimal
	// QualityUnroutable means no candidate path was found, with or without
	// the external-group escape. Path's fields are all zero.
	QualityUnroutable
)

func (q Quality) String() string {
	switch q {
	case QualityMinimal:
		return "minimal"
	case QualityNonMinimal:
		return "non-minimal"
	case QualityUnroutable:
		return "unroutable"
	default:
		return fmt.Sprintf("Quality(%d)", int(q))
	}
}

// Path is the source-routed 5-tuple a packet carries for its entire
// lifetime: three hypercube-move bitmasks (one per phase) and up to two
// global-hop port indices (0 means "no hop at this boundary"). This
// replaces the original source's raw routing-info int array with a typed
// value (per the redesign flag).
type Path struct {
	HM1, HM2, HM3 int
	G1, G2        int
	Quality       Quality
}

// Hops returns the total hop count the path represents: the popcount of
// each hypercube-move mask plus one hop for each global link traversed.
func (p Path) Hops() int {
	hops := popcount(p.HM1) + popcount(p.HM2) + popcount(p.HM3)
	if p.G1 != 0 {
		hops++
	}
	if p.G2 != 0 {
		hops++
	}
	return hops
}

// PacketClass distinguishes the two traffic classes that partition the
// virtual-channel space: a Request travels outbound and, on delivery,
// triggers a Reply that retraces a fresh plan between the swapped endpoints.
type PacketClass int

const (
	ClassRequest PacketClass = iota
	ClassReply
)

func (c PacketClass) String() string {
	switch c {
	case ClassRequest:
		return "request"
	case ClassReply:
		return "reply"
	default:
		return fmt.Sprintf("PacketClass(%d)", int(c))
	}
}
