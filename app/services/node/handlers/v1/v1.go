// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/ardanlabs/minesim/app/services/node/handlers/v1/public"
	"github.com/ardanlabs/minesim/foundation/events"
	"github.com/ardanlabs/minesim/foundation/mining/state"
	"github.com/ardanlabs/minesim/foundation/mining/storage"
	"github.com/ardanlabs/minesim/foundation/web"
	"go.uber.org/zap"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log     *zap.SugaredLogger
	State   *state.State
	Archive *storage.Disk
	Evts    *events.Events
}

// PublicRoutes binds all the version 1 public routes.
func PublicRoutes(app *web.App, cfg Config) {
	pbl := public.Handlers{
		Log:     cfg.Log,
		State:   cfg.State,
		Archive: cfg.Archive,
		Evts:    cfg.Evts,
	}

	app.Handle(http.MethodGet, version, "/events", pbl.Events)
	app.Handle(http.MethodGet, version, "/status", pbl.Status)
	app.Handle(http.MethodGet, version, "/genesis", pbl.Genesis)
	app.Handle(http.MethodGet, version, "/chain", pbl.Chain)
	app.Handle(http.MethodGet, version, "/chain/:number", pbl.BlockByNumber)
	app.Handle(http.MethodGet, version, "/retarget", pbl.Retarget)
	app.Handle(http.MethodPost, version, "/mine", pbl.Mine)
}
