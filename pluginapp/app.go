package pluginapp

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"

	"github.com/lightninglabs/hodlvoice/blockheight"
	"github.com/lightninglabs/hodlvoice/cache"
	"github.com/lightninglabs/hodlvoice/cleanup"
	"github.com/lightninglabs/hodlvoice/clnrpc"
	"github.com/lightninglabs/hodlvoice/controller"
	"github.com/lightninglabs/hodlvoice/hodllog"
	"github.com/lightninglabs/hodlvoice/hodlrpc"
	"github.com/lightninglabs/hodlvoice/reconcile"
	"github.com/lightninglabs/hodlvoice/rpcserver"
	"github.com/lightninglabs/hodlvoice/store"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
)

// TLSPaths locates the mutual-TLS identity material the gRPC surface
// serves with. Opaque to this package beyond their filesystem location.
type TLSPaths struct {
	CertFile string
	KeyFile  string
	CACert   string
}

// App wires components A-I together and runs the plugin's full lifetime:
// the stdio protocol loop, the reconciler, the cleanup task, and the gRPC
// server. Grounded on daemon/lnd.go's Main, generalized from lnd's many
// subsystems down to hodlvoice's handful.
type App struct {
	TLS TLSPaths

	config     Config
	rpc        *clnrpc.Client
	store      *store.Store
	cache      cache.Cache
	height     *blockheight.Cell
	controller *controller.Controller
	reconciler *reconcile.Task
	cleaner    *cleanup.Task
	grpcServer *grpc.Server
}

// New returns an App configured with mutual-TLS identity paths. Everything
// else is resolved during the init handshake, once the host tells us its
// lightning-dir and option values.
func New(tls TLSPaths) *App {
	return &App{TLS: tls}
}

// Run executes the full plugin lifetime and blocks until the host closes
// stdin, then returns nil; a non-nil error means the stdio loop itself
// failed, which the caller should treat as a fatal condition.
func (a *App) Run() error {
	plugin := &Plugin{
		In:  os.Stdin,
		Out: os.Stdout,
		Options: []ManifestOption{
			{
				Name:        "grpc-hodl-port",
				Type:        "int",
				Default:     -1,
				Description: "Which port should the hold-invoice grpc plugin listen for incoming connections?",
			},
			{
				Name:        "hodlvoice-log-level",
				Type:        "string",
				Default:     "info",
				Description: "Logging level for the hodlvoice plugin's subsystems (trace, debug, info, warn, error).",
			},
		},
		Hooks: map[string]HookHandler{
			"htlc_accepted": a.handleHTLCAccepted,
		},
		Notifications: map[string]NotificationHandler{
			"block_added": a.handleBlockAdded,
		},
		OnInit:  a.onInit,
		OnFatal: func(err error) { os.Exit(1) },
	}

	return plugin.Run()
}

func (a *App) onInit(lightningDir, rpcFile string, options map[string]interface{}) error {
	cfg := DefaultConfig()
	if rpcFile != "" {
		cfg.RPCFile = rpcFile
	}
	cfg.LightningDir = lightningDir

	if err := cfg.ReadConfigFile(lightningDir); err != nil {
		return err
	}

	if err := hodllog.InitLogRotator(filepath.Join(lightningDir, "hodlvoice.log"), 10*1024, 3); err != nil {
		return fmt.Errorf("initializing log rotator: %v", err)
	}
	if level, ok := options["hodlvoice-log-level"].(string); ok && level != "" {
		hodllog.SetLevels(level)
	}

	port, err := resolveGRPCPort(options)
	if err != nil {
		return err
	}
	cfg.GRPCPort = port
	if !cfg.GRPCEnabled() {
		return fmt.Errorf("`grpc-hodl-port` option is not configured")
	}

	tlsConfig, err := LoadServerTLSConfig(a.TLS.CertFile, a.TLS.KeyFile, a.TLS.CACert)
	if err != nil {
		return fmt.Errorf("initializing tls: %v", err)
	}

	a.config = cfg
	a.rpc = clnrpc.New(filepath.Join(lightningDir, cfg.RPCFile))
	a.store = store.New(a.rpc)
	a.cache = cache.New()
	a.height = blockheight.New(0)
	a.controller = controller.New(a.rpc, a.store, a.cache, a.height, cfg.CltvDelta)
	a.reconciler = reconcile.New(a.store, a.cache)
	a.cleaner = cleanup.New(a.rpc, a.store, a.cache)

	a.grpcServer = grpc.NewServer(grpc.Creds(credentials.NewTLS(tlsConfig)))
	hodlrpc.RegisterHodlvoiceServer(a.grpcServer, rpcserver.New(a.rpc, a.store))

	listener, err := net.Listen("tcp", fmt.Sprintf("0.0.0.0:%d", cfg.GRPCPort))
	if err != nil {
		return fmt.Errorf("binding grpc-hodl-port %d: %v", cfg.GRPCPort, err)
	}

	go a.reconciler.Run()
	go a.cleaner.Run()
	go func() {
		if err := a.grpcServer.Serve(listener); err != nil {
			log.Errorf("grpc server exited: %v", err)
		}
	}()

	log.Infof("hodlvoice initialized: lightning-dir=%s grpc-hodl-port=%d cltv-delta=%d",
		lightningDir, cfg.GRPCPort, cfg.CltvDelta)

	return nil
}

func resolveGRPCPort(options map[string]interface{}) (int, error) {
	raw, ok := options["grpc-hodl-port"]
	if !ok {
		return 0, fmt.Errorf("missing 'grpc-hodl-port' option")
	}

	switch v := raw.(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	case string:
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
			return 0, fmt.Errorf("grpc-hodl-port is not a valid integer: %v", raw)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("grpc-hodl-port is not a valid integer: %v", raw)
	}
}

func (a *App) handleHTLCAccepted(params json.RawMessage) (interface{}, error) {
	htlc, err := controller.ParseHTLC(params, json.Unmarshal)
	if err != nil {
		log.Debugf("malformed htlc_accepted payload, failing: %v", err)
		return controller.Fail, nil
	}

	decision, err := a.controller.OnHTLCAccepted(htlc)
	if err != nil {
		return nil, err
	}
	return decision, nil
}

type blockAddedParams struct {
	Block struct {
		Height uint32 `json:"height"`
	} `json:"block"`
}

func (a *App) handleBlockAdded(params json.RawMessage) error {
	var payload blockAddedParams
	if err := json.Unmarshal(params, &payload); err != nil {
		return fmt.Errorf("decoding block_added notification: %v", err)
	}
	a.height.Set(payload.Block.Height)
	return nil
}
