package main

import (
	"fmt"
	"os"
	"path/filepath"

	flags "github.com/btcsuite/go-flags"

	"github.com/lightningnetwork/lnsim/orchestrator"
	"github.com/lightningnetwork/lnsim/seed"
	"golang.org/x/exp/rand"
)

const (
	defaultConfigFilename = "lnsim.conf"
	defaultLogDirname     = "logs"
	defaultLogFilename    = "lnsim.log"
	defaultDebugLevel     = "info"

	defaultNumK      = 3
	defaultNumRoutes = 10
	defaultMaxAmount = 1000
	defaultSleepMs   = 100

	defaultMinDiffNs  = 0
	defaultMaxDiffNs  = int64(30e9)
	defaultStepDiffNs = int64(1e6)
)

// config describes the configuration options for lnsim.
//
// See loadConfig for details on the configuration load process.
type config struct {
	ShowVersion bool   `short:"V" long:"version" description:"Display version information and exit"`
	ConfigFile  string `short:"C" long:"configfile" description:"Path to configuration file"`
	LogDir      string `long:"logdir" description:"Directory to log output"`
	DebugLevel  string `short:"d" long:"debuglevel" description:"Logging level {trace, debug, info, warn, error, critical}"`

	SnapshotFile string `short:"s" long:"snapshot" description:"Path to the JSON topology snapshot to load"`
	ParamsFile   string `long:"params" description:"Path to the simulation parameters file"`
	TestFile     string `long:"testfile" description:"Path to the test plan; overrides the parameters file entry"`
	ResultsFile  string `long:"resultsfile" description:"Path the results document is written to; overrides the parameters file entry"`
	Description  string `long:"description" description:"Free-form description stamped into the results header"`

	Implementation string `long:"implementation" description:"Implementation tag whose defaults apply when node policies are not used (c-lightning, lnd, lnd_0.6, eclair)"`
	UseNodePolicy  bool   `long:"nodepolicy" description:"Draw HTLC parameters from each channel's own policy instead of the implementation defaults"`

	BalanceDist   string  `long:"balancedist" description:"Balance seeding distribution (const, unif, normal, exp, beta)"`
	BalanceMu     float64 `long:"balancemu" description:"Mean of the normal balance distribution"`
	BalanceSigma  float64 `long:"balancesigma" description:"Std deviation of the normal balance distribution"`
	BalanceLambda float64 `long:"balancelambda" description:"Rate of the exponential balance distribution"`
	BalanceAlpha  float64 `long:"balancealpha" description:"Alpha of the beta balance distribution"`
	BalanceBeta   float64 `long:"balancebeta" description:"Beta of the beta balance distribution"`

	HTLCNumber int     `long:"htlcnumber" description:"Pending HTLCs to seed per directed edge"`
	HTLCFract  float64 `long:"htlcfract" description:"Fraction of balance locked by each seeded HTLC"`

	RandSeed uint64 `long:"randseed" description:"Seed for the simulation randomness streams"`
}

// loadConfig initializes and parses the config using a config file and
// command line options.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Pre-parse the command line to check for an alternative config file
//  3. Load configuration file overwriting defaults with any specified
//     options
//  4. Parse CLI options and overwrite/add any specified options
func loadConfig() (*config, error) {
	defaultCfg := config{
		LogDir:         defaultLogDirname,
		DebugLevel:     defaultDebugLevel,
		Implementation: "lnd",
		BalanceDist:    "const",
		BalanceMu:      0.5,
		BalanceSigma:   0.2,
		BalanceLambda:  1,
		BalanceAlpha:   2,
		BalanceBeta:    2,
		RandSeed:       1,
	}

	preCfg := defaultCfg
	preParser := flags.NewParser(&preCfg, flags.Default)
	if _, err := preParser.Parse(); err != nil {
		return nil, err
	}

	if preCfg.ShowVersion {
		fmt.Println(appName, "version", appVersion)
		os.Exit(0)
	}

	cfg := defaultCfg
	parser := flags.NewParser(&cfg, flags.Default)

	configFile := preCfg.ConfigFile
	if configFile == "" {
		configFile = defaultConfigFilename
	}
	if err := flags.NewIniParser(parser).ParseFile(configFile); err != nil {
		// A missing default config file is fine; an explicitly
		// requested one is not.
		if preCfg.ConfigFile != "" || !os.IsNotExist(err) {
			return nil, err
		}
	}

	if _, err := parser.Parse(); err != nil {
		return nil, err
	}

	if err := initLogRotator(filepath.Join(cfg.LogDir, defaultLogFilename)); err != nil {
		return nil, err
	}
	if err := setLogLevels(cfg.DebugLevel); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// balanceConfig translates the balance flags into a seed.BalanceConfig.
// An empty distribution name disables the pass.
func (c *config) balanceConfig(src rand.Source) *seed.BalanceConfig {
	if c.BalanceDist == "" {
		return nil
	}
	return &seed.BalanceConfig{
		Name:   seed.BalanceTag(c.BalanceDist),
		Mu:     c.BalanceMu,
		Sigma:  c.BalanceSigma,
		Lambda: c.BalanceLambda,
		Alpha:  c.BalanceAlpha,
		Beta:   c.BalanceBeta,
		Src:    src,
	}
}

// htlcConfig translates the HTLC flags into a seed.HTLCConfig. A zero
// HTLC count disables the pass.
func (c *config) htlcConfig() *seed.HTLCConfig {
	if c.HTLCNumber <= 0 {
		return nil
	}
	return &seed.HTLCConfig{
		Number:      c.HTLCNumber,
		AmountFract: c.HTLCFract,
	}
}

// defaultParameters returns the parameters used when no parameters file
// is given.
func defaultParameters() *orchestrator.Parameters {
	return &orchestrator.Parameters{
		ResultsFile: "results.json",
		NumK:        defaultNumK,
		NumRoutes:   defaultNumRoutes,
		MaxAmount:   defaultMaxAmount,
		Loop:        1,
		Sleep:       defaultSleepMs,
		MinDiffNs:   defaultMinDiffNs,
		MaxDiffNs:   defaultMaxDiffNs,
		StepDiffNs:  defaultStepDiffNs,
	}
}
