// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"net/http"
	"time"

	v1 "github.com/ardanlabs/minesim/business/web/v1"
	"github.com/ardanlabs/minesim/foundation/events"
	"github.com/ardanlabs/minesim/foundation/mining/difficulty"
	"github.com/ardanlabs/minesim/foundation/mining/ledger"
	"github.com/ardanlabs/minesim/foundation/mining/pow"
	"github.com/ardanlabs/minesim/foundation/mining/state"
	"github.com/ardanlabs/minesim/foundation/mining/storage"
	"github.com/ardanlabs/minesim/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of mining simulation endpoints.
type Handlers struct {
	Log     *zap.SugaredLogger
	State   *state.State
	Archive *storage.Disk
	WS      websocket.Upgrader
	Evts    *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// Status returns the current snapshot of the node.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.Status(), http.StatusOK)
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.State.Genesis()
	return web.Respond(ctx, w, gen, http.StatusOK)
}

// Mine runs a synchronous mining attempt for the next block in the chain
// and appends the block to the chain on success.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var nm newMine
	if err := web.Decode(r, &nm); err != nil {
		return err
	}

	name := nm.Difficulty
	if name == "" {
		name = h.State.Genesis().Difficulty
	}

	level, err := difficulty.Parse(name)
	if err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	tmpl := h.State.NextTemplate(nm.Transactions)

	h.Log.Infow("mine request", "traceid", v.TraceID, "block", tmpl.BlockNumber, "difficulty", level.Name, "workers", nm.Workers)

	block, err := h.State.MineNewBlock(ctx, tmpl, level, nm.Workers)
	if err != nil {
		if errors.Is(err, pow.ErrNoSolution) {
			return v1.NewRequestError(errors.New("failed to mine the block"), http.StatusInternalServerError)
		}
		return err
	}

	block, err = h.State.AppendBlock(block)
	if err != nil {
		return v1.NewRequestError(err, http.StatusConflict)
	}

	// Archive the mined block as a JSON artifact. Losing the artifact is
	// not worth failing the request over.
	if err := h.Archive.Write(block); err != nil {
		h.Log.Errorw("archive block", "traceid", v.TraceID, "block", block.BlockNumber, "ERROR", err)
	}

	resp := mined{
		Block:    toBlock(block),
		Retarget: h.State.Status().Retarget,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Chain returns the blocks in the chain in mining order.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	dbBlocks := h.State.RetrieveBlocks()
	if len(dbBlocks) == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	blocks := make([]block, len(dbBlocks))
	for i, blk := range dbBlocks {
		blocks[i] = toBlock(blk)
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// BlockByNumber returns the block with the specified number.
func (h Handlers) BlockByNumber(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	number, err := web.ParamUint(r, "number")
	if err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	blk, exists := h.State.RetrieveBlock(number)
	if !exists {
		return v1.NewRequestError(errors.New("block not found"), http.StatusNotFound)
	}

	return web.Respond(ctx, w, toBlock(blk), http.StatusOK)
}

// Retarget returns the current difficulty recommendation for the next
// block based on recent mining times.
func (h Handlers) Retarget(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := struct {
		Recommendation string `json:"recommendation"`
	}{
		Recommendation: h.State.Retarget().String(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// =============================================================================

// toBlock converts a ledger block into the response model.
func toBlock(blk ledger.Block) block {
	return block{
		BlockNumber:  blk.BlockNumber,
		Transactions: blk.Transactions,
		PrevHash:     blk.PrevHash,
		Nonce:        blk.Nonce,
		Hash:         blk.Hash,
		MiningTime:   blk.MiningTime,
		Reward:       blk.Reward,
	}
}
