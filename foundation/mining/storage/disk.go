// Package storage writes mined blocks to disk as JSON artifacts, one file
// per block. These files are outputs of a mining run; the chain itself
// lives in memory.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strconv"

	"github.com/ardanlabs/minesim/foundation/mining/ledger"
)

// Disk represents the serialization implementation for storing mined
// blocks in their own separate files on disk.
type Disk struct {
	archivePath string
}

// NewDisk constructs a Disk value for use, creating the archive directory
// when needed.
func NewDisk(archivePath string) (*Disk, error) {
	if err := os.MkdirAll(archivePath, 0755); err != nil {
		return nil, err
	}

	return &Disk{archivePath: archivePath}, nil
}

// Write stores the block on disk in a file labeled with the block number.
func (d *Disk) Write(block ledger.Block) error {
	return Save(block, d.getPath(block.BlockNumber))
}

// GetBlock locates and returns the contents of the specified block by
// number.
func (d *Disk) GetBlock(num uint64) (ledger.Block, error) {
	f, err := os.Open(d.getPath(num))
	if err != nil {
		return ledger.Block{}, err
	}
	defer f.Close()

	var block ledger.Block
	if err := json.NewDecoder(f).Decode(&block); err != nil {
		return ledger.Block{}, err
	}

	return block, nil
}

// getPath forms the path to the specified block.
func (d *Disk) getPath(blockNum uint64) string {
	name := strconv.FormatUint(blockNum, 10)
	return path.Join(d.archivePath, fmt.Sprintf("block_%s.json", name))
}

// =============================================================================

// Save writes the block to the specified file in a human readable format.
func Save(block ledger.Block, file string) error {
	data, err := json.MarshalIndent(block, "", "  ")
	if err != nil {
		return err
	}

	f, err := os.OpenFile(file, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return err
	}

	return nil
}

// Load reads a block template from the specified JSON file. This supports
// callers that keep custom block data in a configuration file.
func Load(file string) (ledger.Template, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return ledger.Template{}, err
	}

	var tmpl ledger.Template
	if err := json.Unmarshal(content, &tmpl); err != nil {
		return ledger.Template{}, err
	}

	return tmpl, nil
}
