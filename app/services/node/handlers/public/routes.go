package public

import (
	"net/http"

	"github.com/forgechain/forge/foundation/blockchain/ledger"
	"github.com/forgechain/forge/foundation/blockchain/peer"
	"github.com/forgechain/forge/foundation/events"
	"github.com/forgechain/forge/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log      *zap.SugaredLogger
	Ledger   *ledger.Ledger
	Registry *peer.PeerSet
	Evts     *events.Events
}

// Routes binds all the public routes.
func Routes(app *web.App, cfg Config) {
	pbl := Handlers{
		Log:      cfg.Log,
		Ledger:   cfg.Ledger,
		Registry: cfg.Registry,
		WS:       websocket.Upgrader{},
		Evts:     cfg.Evts,
	}

	const group = ""

	app.Handle(http.MethodGet, group, "/events", pbl.Events)
	app.Handle(http.MethodGet, group, "/mine", pbl.Mine)
	app.Handle(http.MethodGet, group, "/chain", pbl.Chain)
	app.Handle(http.MethodGet, group, "/nodes", pbl.Nodes)
	app.Handle(http.MethodGet, group, "/transactions/pending", pbl.PendingTransactions)
	app.Handle(http.MethodPost, group, "/transactions/new", pbl.SubmitTransaction)
}
