package main

import (
	"fmt"
	"os"
	"sort"

	"golang.org/x/exp/rand"

	"github.com/lightningnetwork/lnsim/graph"
	"github.com/lightningnetwork/lnsim/htlcswitch"
	"github.com/lightningnetwork/lnsim/orchestrator"
	"github.com/lightningnetwork/lnsim/seed"
)

const (
	appName    = "lnsim"
	appVersion = "0.1.0"
)

// lnsimMain is the true entry point for lnsim. This function is required
// since defers created in the top-level scope of a main method aren't
// executed if os.Exit() is called.
func lnsimMain() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() {
		if logRotator != nil {
			logRotator.Close()
		}
	}()

	if cfg.SnapshotFile == "" {
		return fmt.Errorf("no topology snapshot given, use --snapshot")
	}

	data, err := os.ReadFile(cfg.SnapshotFile)
	if err != nil {
		lsimLog.Errorf("NODE CONNECTION ERROR: %v", err)
		return err
	}
	g, err := graph.LoadSnapshot(data)
	if err != nil {
		return err
	}
	lsimLog.Infof("Loaded snapshot %s: %d nodes, %d channels, %d sat total",
		cfg.SnapshotFile, g.NumNodes(), g.NumChannels(), g.TotalCapacity())

	params := defaultParameters()
	if cfg.ParamsFile != "" {
		raw, err := os.ReadFile(cfg.ParamsFile)
		if err != nil {
			return err
		}
		params, err = orchestrator.LoadParameters(raw)
		if err != nil {
			return err
		}
	}
	if cfg.TestFile != "" {
		params.TestFile = cfg.TestFile
	}
	if cfg.ResultsFile != "" {
		params.ResultsFile = cfg.ResultsFile
	}
	if params.ResultsFile == "" {
		params.ResultsFile = "results.json"
	}

	src := rand.NewSource(cfg.RandSeed)

	if err := seed.SeedBalances(g, cfg.balanceConfig(src)); err != nil {
		return err
	}
	if err := seed.SeedHTLCs(g, cfg.htlcConfig()); err != nil {
		return err
	}
	if err := orchestrator.CheckCorrectness(g); err != nil {
		return err
	}
	lsimLog.Infof("Seeded balances (%s) and %d pending HTLCs per edge",
		cfg.BalanceDist, cfg.HTLCNumber)

	plan, err := loadOrGeneratePlan(g, params, src)
	if err != nil {
		return err
	}

	o := orchestrator.New(orchestrator.Config{
		Graph:  g,
		Params: params,
		SwitchConfig: htlcswitch.Config{
			Implementation: htlcswitch.ImplementationTag(cfg.Implementation),
			UseNodePolicy:  cfg.UseNodePolicy,
			SleepMaxMs:     params.Sleep,
			MinDiffNs:      params.MinDiffNs,
			MaxDiffNs:      params.MaxDiffNs,
			StepDiffNs:     params.StepDiffNs,
			Src:            src,
		},
	})

	results, err := o.Run(plan, cfg.Description)
	if err != nil {
		return err
	}

	if err := results.Save(params.ResultsFile); err != nil {
		return err
	}
	lsimLog.Infof("Wrote %d payment records to %s",
		len(results)-1, params.ResultsFile)

	return nil
}

// loadOrGeneratePlan reads the configured test plan when one exists, and
// otherwise generates a random plan over the loaded graph, persisting it
// for reuse when a test-file path is configured.
func loadOrGeneratePlan(g *graph.Graph, params *orchestrator.Parameters,
	src rand.Source) (orchestrator.TestPlan, error) {

	if params.TestFile != "" {
		raw, err := os.ReadFile(params.TestFile)
		if err == nil {
			return orchestrator.LoadTestPlan(raw)
		}
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	tags := make([]string, 0, len(params.Connector))
	for tag := range params.Connector {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	if len(tags) == 0 {
		tags = []string{"lnd"}
	}

	plan := orchestrator.GenerateTestPlan(g, tags, params.NumRoutes,
		params.MaxAmount, src)
	for tag, entry := range plan {
		entry.Node = params.Connector[tag]
		plan[tag] = entry
	}

	if params.TestFile != "" {
		raw, err := plan.Marshal()
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(params.TestFile, raw, 0644); err != nil {
			return nil, err
		}
		lsimLog.Infof("Generated test plan with %d routes per tag: %s",
			params.NumRoutes, params.TestFile)
	}

	return plan, nil
}

func main() {
	if err := lnsimMain(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
