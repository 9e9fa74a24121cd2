// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/meterio/meter-auction/api"
	"github.com/meterio/meter-auction/genesis"
	"github.com/meterio/meter-auction/logdb"
	"github.com/meterio/meter-auction/lvldb"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/script"
	"github.com/meterio/meter-auction/solo"
	"github.com/meterio/meter-auction/state"
	cli "gopkg.in/urfave/cli.v1"
)

var (
	version   string
	gitCommit string
	gitTag    string
	log       = slog.Default().With("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "auctiond",
		Usage:     "NFT escrow auction node of Meter.io",
		Copyright: "2020 Meter Foundation <https://meter.io/>",
		Flags: []cli.Flag{
			dataDirFlag,
			genesisFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiTimeoutFlag,
			observeAddrFlag,
			persistFlag,
			verbosityFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:  "dev-accounts",
				Usage: "print the pre-funded accounts of the devnet genesis",
				Action: func(ctx *cli.Context) error {
					for _, addr := range genesis.DevAccounts() {
						fmt.Println(addr.String())
					}
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()

	initLogger(ctx)
	defer func() { log.Info("exited") }()

	gene := selectGenesis(ctx)

	var mainDB *lvldb.LevelDB
	var logDB *logdb.LogDB
	var instanceDir string

	if ctx.Bool(persistFlag.Name) {
		instanceDir = makeInstanceDir(ctx, gene)
		mainDB = openMainDB(ctx, instanceDir)
		logDB = openLogDB(ctx, instanceDir)
	} else {
		instanceDir = "Memory"
		mainDB = openMemMainDB()
		logDB = openMemLogDB()
	}
	defer func() { log.Info("closing main database..."); mainDB.Close() }()
	defer func() { log.Info("closing log database..."); logDB.Close() }()

	se := script.NewScriptEngine()
	node, err := solo.New(state.NewCreator(mainDB), se, logDB, gene)
	if err != nil {
		fatal("initialize chain:", err)
	}
	defer func() { log.Info("closing solo..."); node.Close() }()

	apiHandler, apiCloser := api.New(node, logDB, ctx.String(apiCorsFlag.Name))
	defer func() { log.Info("closing API..."); apiCloser() }()

	apiURL, srvCloser := startAPIServer(ctx, apiHandler, node.GenesisID())
	defer func() { log.Info("stopping API server..."); srvCloser() }()

	observeURL, observeSrvCloser := startObserveServer(ctx)
	defer func() { log.Info("closing observe server..."); observeSrvCloser() }()

	printStartupMessage(gene, node, instanceDir, apiURL, observeURL)

	<-exitSignal.Done()
	return nil
}

func printStartupMessage(gene *genesis.Genesis, node *solo.Solo, dataDir, apiURL, observeURL string) {
	best := node.BestBlock()
	fmt.Printf(`Starting %v
    Network     [ %v %v ]
    Best block  [ %v #%v ]
    Engine      [ %v ]
    Instance dir[ %v ]
    API portal  [ %v ]
    Metrics     [ %v ]
`,
		fmt.Sprintf("auctiond %v", fullVersion()),
		gene.ID(), gene.Name(),
		best.ID(), best.Number(),
		meter.AuctionModuleAddr,
		dataDir,
		apiURL,
		observeURL)
}
