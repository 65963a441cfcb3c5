// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/ardanlabs/ledger/app/services/node/handlers/v1/public"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/ardanlabs/ledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log   *zap.SugaredLogger
	State *state.State
	Evts  *events.Events
}

// PublicRoutes binds all the version 1 public routes. Every route is also
// mounted at the root since other nodes ask for /id and /chain directly.
func PublicRoutes(app *web.App, cfg Config) {
	pbl := public.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
		WS:    websocket.Upgrader{},
		Evts:  cfg.Evts,
	}

	for _, group := range []string{"", version} {
		app.Handle(http.MethodGet, group, "/id", pbl.Identity)
		app.Handle(http.MethodGet, group, "/mine", pbl.Mine)
		app.Handle(http.MethodPost, group, "/transactions/new", pbl.SubmitTransaction)
		app.Handle(http.MethodGet, group, "/transactions/pending", pbl.Mempool)
		app.Handle(http.MethodGet, group, "/chain", pbl.Chain)
		app.Handle(http.MethodPost, group, "/nodes/register", pbl.RegisterNodes)
		app.Handle(http.MethodGet, group, "/nodes", pbl.Nodes)
		app.Handle(http.MethodGet, group, "/nodes/resolve", pbl.Resolve)
		app.Handle(http.MethodGet, group, "/events", pbl.Events)
	}
}
