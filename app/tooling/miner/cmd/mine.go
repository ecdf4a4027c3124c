package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/ardanlabs/minesim/foundation/logger"
	"github.com/ardanlabs/minesim/foundation/mining/difficulty"
	"github.com/ardanlabs/minesim/foundation/mining/genesis"
	"github.com/ardanlabs/minesim/foundation/mining/ledger"
	"github.com/ardanlabs/minesim/foundation/mining/pow"
	"github.com/ardanlabs/minesim/foundation/mining/signature"
	"github.com/ardanlabs/minesim/foundation/mining/storage"
	"github.com/spf13/cobra"
)

var (
	difficultyName string
	blockNumber    uint64
	transactions   string
	previousHash   string
	workers        int
	configFile     string
	saveFile       string
)

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Mine a single block and save it to disk",
	RunE:  mineRun,
}

func init() {
	mineCmd.Flags().StringVarP(&difficultyName, "difficulty", "d", difficulty.Medium.Name, "Mining difficulty tier.")
	mineCmd.Flags().Uint64VarP(&blockNumber, "block-number", "n", 1, "Block number.")
	mineCmd.Flags().StringVarP(&transactions, "transactions", "t", "Dhaval->Bhavin:20,Mando->Cara:45", "Transaction payload.")
	mineCmd.Flags().StringVarP(&previousHash, "previous-hash", "p", signature.ZeroHash, "Hash of the previous block.")
	mineCmd.Flags().IntVarP(&workers, "workers", "w", 0, "Number of parallel workers, 0 selects one per CPU.")
	mineCmd.Flags().StringVarP(&configFile, "config-file", "c", "", "Path to a JSON file with custom block data.")
	mineCmd.Flags().StringVarP(&saveFile, "save-file", "s", "mined_block.json", "File to save the mined block to.")

	rootCmd.AddCommand(mineCmd)
}

func mineRun(cmd *cobra.Command, args []string) error {

	// Silence cobra usage output for runtime failures; flag errors have
	// already been reported by this point.
	cmd.SilenceUsage = true

	log, err := logger.New("MINER")
	if err != nil {
		return err
	}
	defer log.Sync()

	gen, err := genesis.Load(genesisFile)
	if err != nil {
		return fmt.Errorf("unable to load genesis file: %w", err)
	}

	level, err := difficulty.Parse(difficultyName)
	if err != nil {
		return err
	}

	// Block data comes from the flags unless a config file overrides it.
	tmpl := ledger.Template{
		BlockNumber:  blockNumber,
		Transactions: transactions,
		PrevHash:     previousHash,
	}
	if configFile != "" {
		tmpl, err = storage.Load(configFile)
		if err != nil {
			return fmt.Errorf("unable to load block data: %w", err)
		}
	}

	log.Infow("start mining", "block", tmpl.BlockNumber, "difficulty", level.Name)

	block, stats, err := pow.Search(context.Background(), pow.Args{
		Template: tmpl,
		Bits:     level.Bits,
		Workers:  workers,
		EvHandler: func(v string, args ...any) {
			log.Infof(v, args...)
		},
	})
	if err != nil {
		if errors.Is(err, pow.ErrNoSolution) {
			log.Warnw("no valid hash in the nonce space", "elapsed", stats.Elapsed, "hashrate", stats.HashRate)
		}
		return err
	}

	block.MiningTime = stats.Elapsed.Seconds()
	block.Reward = gen.MiningReward

	log.Infow("mined block successfully", "hash", block.Hash, "nonce", block.Nonce, "elapsed", stats.Elapsed, "hashrate", stats.HashRate)

	if err := storage.Save(block, saveFile); err != nil {
		return fmt.Errorf("unable to save mined block: %w", err)
	}
	log.Infow("mined block saved", "file", saveFile)

	return nil
}
