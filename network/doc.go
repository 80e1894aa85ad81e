// Package network implements the routing core of a cycle-level simulator for
// a PolarFly+ hybrid datacenter interconnect: a hypercube local to each
// group, wired together by a PolarFly graph across groups.
//
// # Reading Guide
//
// Start with these files to understand the routing kernel:
//   - table.go: the four canonical ConnectionTable sizes
//   - topology.go: router/channel derivation from (H, P, ConnectionTable)
//   - faulttable.go: fault injection and the per-port failure map
//   - planner.go: PlanRoute, the source-routing planner (the core of the core)
//   - forwarder.go: Forward, the per-hop forwarding function
//   - walker.go: WalkPath, the planner/forwarder round-trip driver
//
// # Architecture
//
// Topology, ConnectionTable and FaultTable are built once before simulation
// and are read-only afterward. PlanRoute is a pure function invoked once per
// packet at injection; its Path result is carried in the packet and consumed
// hop-by-hop by Forward, which never touches the FaultTable (the planner
// already guaranteed every hop on the path is alive).
package network
