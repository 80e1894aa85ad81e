// cmd/root.go
package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/polarflyplus/routesim/network"
	"github.com/polarflyplus/routesim/sweep"
)

var (
	hypercubePorts int
	polarflyPorts  int
	numVCs         int
	linkFailures   int
	failSeed       string
	logLevel       string
	configFile     string

	routeSrc   int
	routeDst   int
	routeClass string

	sweepRate    float64
	sweepHorizon int64
	sweepSeed    int64
)

var rootCmd = &cobra.Command{
	Use:   "routesim",
	Short: "Source-routing core of a cycle-level PolarFly+ interconnect simulator",
}

// loadNetworkConfig resolves the effective configuration: the YAML file when
// --config is given, otherwise the command-line flags.
func loadNetworkConfig() (*network.Config, error) {
	if configFile != "" {
		return network.LoadConfig(configFile)
	}
	return &network.Config{
		K:            hypercubePorts,
		N:            polarflyPorts,
		NumVCs:       numVCs,
		LinkFailures: linkFailures,
		FailSeed:     failSeed,
	}, nil
}

// buildNetwork validates the configuration, builds the topology, and
// injects the configured faults from the fault-injection RNG subsystem.
func buildNetwork() (*network.Config, *network.Topology, *network.FaultTable, error) {
	cfg, err := loadNetworkConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, err
	}
	ct, err := network.SelectConnectionTable(cfg.N)
	if err != nil {
		return nil, nil, nil, err
	}
	topo, err := network.Build(cfg.K, cfg.N, ct)
	if err != nil {
		return nil, nil, nil, err
	}
	ft := network.NewFaultTable(topo.NumRouters, topo.PortsPerRouter())
	if cfg.LinkFailures > 0 {
		prng := network.NewPartitionedRNG(cfg.ResolveSeed())
		network.InjectFaults(topo, ft, cfg.LinkFailures, prng.ForSubsystem(network.SubsystemFaultInjection))
	}
	return cfg, topo, ft, nil
}

func setLogLevel() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

var topologyCmd = &cobra.Command{
	Use:   "topology",
	Short: "Print the derived topology for the configured table",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()
		cfg, topo, _, err := buildNetwork()
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		fmt.Printf("table          : %dx%d\n", topo.CT.Groups(), topo.CT.Ports())
		fmt.Printf("groups         : %d (%d routers each)\n", topo.CT.Groups(), 1<<cfg.K)
		fmt.Printf("routers        : %d\n", topo.NumRouters)
		fmt.Printf("channels       : %d per direction\n", topo.NumChannels)
		fmt.Printf("ports/router   : %d (1 inject + %d hypercube + %d global)\n",
			topo.PortsPerRouter(), cfg.K, cfg.N)
		fmt.Printf("link latency   : %d time-units, inject/eject %d\n",
			network.LatencyLocal, network.LatencyInjectEject)
	},
}

var routeCmd = &cobra.Command{
	Use:   "route",
	Short: "Plan one route and walk it hop by hop",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()
		cfg, topo, ft, err := buildNetwork()
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if routeSrc < 0 || routeSrc >= topo.NumRouters || routeDst < 0 || routeDst >= topo.NumRouters {
			logrus.Fatalf("src/dst must be in [0, %d)", topo.NumRouters)
		}
		class := network.ClassRequest
		switch routeClass {
		case "request":
		case "reply":
			class = network.ClassReply
		default:
			logrus.Fatalf("Invalid packet class: %s (want request or reply)", routeClass)
		}

		planner := network.NewPlanner(topo)
		path := planner.PlanRoute(routeSrc, routeDst, class, ft)
		fmt.Printf("path: hm1=%#x hm2=%#x hm3=%#x g1=%d g2=%d (%s)\n",
			path.HM1, path.HM2, path.HM3, path.G1, path.G2, path.Quality)
		if path.Quality == network.QualityUnroutable {
			os.Exit(1)
		}

		fwd := network.NewForwarder(topo, cfg.V())
		res, err := network.WalkPath(topo, fwd, routeSrc, routeDst, path, class)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		for i, hop := range res.Hops {
			fmt.Printf("hop %d: %s port %d -> %s port %d (vc %d)\n",
				i, topo.RouterName(hop.Channel.SrcRouter), hop.Channel.SrcPort,
				topo.RouterName(hop.Channel.DstRouter), hop.Channel.DstPort, hop.OutVC)
		}
		fmt.Printf("%d hops, %d time-units end to end\n", len(res.Hops), res.Latency)
	},
}

var faultsCmd = &cobra.Command{
	Use:   "faults",
	Short: "Inject the configured faults and dump the fault map",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()
		_, topo, ft, err := buildNetwork()
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		// O = alive, X = dead, one row per router - same dump the original
		// booksim2 network printed after InsertRandomFaults.
		for r := 0; r < topo.NumRouters; r++ {
			fmt.Printf("fault node:%d ", r)
			if ft.IsNodeDown(r) {
				fmt.Println("X")
			} else {
				fmt.Println("O")
			}
		}
		for r := 0; r < topo.NumRouters; r++ {
			fmt.Printf("fault table: node%d ", r)
			for port := 0; port < topo.PortsPerRouter(); port++ {
				if ft.IsDead(r, port) {
					fmt.Print("X")
				} else {
					fmt.Print("O")
				}
			}
			fmt.Println()
		}
	},
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run a randomized request/reply sweep over the routing core",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()
		cfg, topo, ft, err := buildNetwork()
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		logrus.Infof("[sweep] starting: %d routers, rate=%.4f, horizon=%d, faults=%d",
			topo.NumRouters, sweepRate, sweepHorizon, cfg.LinkFailures)

		prng := network.NewPartitionedRNG(sweepSeed)
		sim := sweep.NewSimulator(topo, ft, cfg.V(), sweepHorizon)
		sim.GeneratePoissonArrivals(sweepRate, sweepHorizon, prng.ForSubsystem(network.SubsystemTraffic))
		sim.Run()
		sim.Metrics.Print()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().IntVar(&hypercubePorts, "k", 2, "Hypercube port count H (2^H routers per group)")
	rootCmd.PersistentFlags().IntVar(&polarflyPorts, "n", 3, "PolarFly port count P; selects the connection table (3, 4, 6 or 8)")
	rootCmd.PersistentFlags().IntVar(&numVCs, "num-vcs", 6, "Total virtual channels (request + reply halves)")
	rootCmd.PersistentFlags().IntVar(&linkFailures, "link-failures", 0, "Number of routers to mark node-down")
	rootCmd.PersistentFlags().StringVar(&failSeed, "fail-seed", "0", "Fault-injection seed (integer, or \"time\" for wall clock)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML config file (overrides topology/fault flags)")

	routeCmd.Flags().IntVar(&routeSrc, "src", 0, "Source router ID")
	routeCmd.Flags().IntVar(&routeDst, "dst", 0, "Destination router ID")
	routeCmd.Flags().StringVar(&routeClass, "class", "request", "Packet class (request or reply)")

	sweepCmd.Flags().Float64Var(&sweepRate, "rate", 0.01, "Poisson arrival rate (packets per time-unit)")
	sweepCmd.Flags().Int64Var(&sweepHorizon, "horizon", 1000000, "Injection horizon in time-units")
	sweepCmd.Flags().Int64Var(&sweepSeed, "seed", 0, "Traffic RNG master seed")

	rootCmd.AddCommand(topologyCmd)
	rootCmd.AddCommand(routeCmd)
	rootCmd.AddCommand(faultsCmd)
	rootCmd.AddCommand(sweepCmd)
}
