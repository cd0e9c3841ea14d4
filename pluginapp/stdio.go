package pluginapp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/lightninglabs/hodlvoice/hodllog"
)

var log = hodllog.Get(hodllog.SubsystemPlugin)

// ManifestOption describes one plugin option advertised in getmanifest, as
// the host's getmanifest response shape expects it.
type ManifestOption struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	Default     interface{} `json:"default"`
	Description string      `json:"description"`
}

// HookHandler processes one htlc_accepted invocation and returns the value
// to place under "result" in the response (e.g. a controller.Decision,
// which renders as {"result":"continue"} or {"result":"fail"}).
type HookHandler func(params json.RawMessage) (interface{}, error)

// NotificationHandler processes one subscribed notification. Its return
// value is logged, never sent back: notifications get no reply.
type NotificationHandler func(params json.RawMessage) error

// Plugin runs the line-delimited JSON-RPC protocol a Core-Lightning-style
// host speaks with its plugins over stdio: a getmanifest/init handshake
// followed by a stream of hook calls and notifications.
type Plugin struct {
	In  io.Reader
	Out io.Writer

	Options       []ManifestOption
	Hooks         map[string]HookHandler
	Notifications map[string]NotificationHandler

	// OnInit is called once, after the host's init call arrives, with
	// the node's configured lightning-dir, rpc-file name, and the
	// resolved option values. Returning an error aborts startup: the
	// init reply carries the error and the process exits non-zero.
	OnInit func(lightningDir, rpcFile string, options map[string]interface{}) error

	// OnFatal is called when OnInit fails, after the error reply has
	// been written to the host. Typically os.Exit with a non-zero code.
	OnFatal func(err error)

	lightningDir string
}

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *rpcErrorObject `json:"error,omitempty"`
}

type rpcErrorObject struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type initParams struct {
	Options       map[string]interface{} `json:"options"`
	Configuration struct {
		LightningDir string `json:"lightning-dir"`
		RPCFile      string `json:"rpc-file"`
	} `json:"configuration"`
}

// Run executes the handshake and then loops reading requests until the
// host closes stdin (its own process exiting, per the spec's "termination
// of the host plugin drops all tasks" lifecycle).
func (p *Plugin) Run() error {
	scanner := bufio.NewScanner(p.In)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req rpcRequest
		if err := json.Unmarshal(line, &req); err != nil {
			log.Errorf("decoding request from host: %v", err)
			continue
		}

		p.dispatch(req)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading from host: %v", err)
	}
	return nil
}

func (p *Plugin) dispatch(req rpcRequest) {
	switch req.Method {
	case "getmanifest":
		p.handleGetManifest(req)
	case "init":
		p.handleInit(req)
	default:
		if handler, ok := p.Hooks[req.Method]; ok {
			result, err := handler(req.Params)
			if err != nil {
				log.Errorf("hook %s: %v", req.Method, err)
				p.reply(req.ID, nil, err)
				return
			}
			p.reply(req.ID, result, nil)
			return
		}
		if handler, ok := p.Notifications[req.Method]; ok {
			if err := handler(req.Params); err != nil {
				log.Errorf("notification %s: %v", req.Method, err)
			}
			return
		}
		log.Warnf("unhandled method %s from host", req.Method)
	}
}

func (p *Plugin) handleGetManifest(req rpcRequest) {
	manifest := map[string]interface{}{
		"options":       p.Options,
		"rpcmethods":    []interface{}{},
		"subscriptions": p.notificationTopics(),
		"hooks":         p.hookTopics(),
		"dynamic":       false,
	}
	p.reply(req.ID, manifest, nil)
}

func (p *Plugin) handleInit(req rpcRequest) {
	var params initParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		p.reply(req.ID, nil, fmt.Errorf("decoding init params: %v", err))
		p.fatal(fmt.Errorf("decoding init params: %v", err))
		return
	}
	p.lightningDir = params.Configuration.LightningDir

	if p.OnInit != nil {
		if err := p.OnInit(p.lightningDir, params.Configuration.RPCFile, params.Options); err != nil {
			p.reply(req.ID, nil, err)
			p.fatal(err)
			return
		}
	}

	p.reply(req.ID, map[string]interface{}{}, nil)
}

// fatal is called after a configuration or TLS failure during init: the
// init reply already carries the error, so the process exits immediately
// after rather than continuing to serve a half-initialized plugin.
func (p *Plugin) fatal(err error) {
	log.Errorf("fatal during init: %v", err)
	if p.OnFatal != nil {
		p.OnFatal(err)
	}
}

func (p *Plugin) notificationTopics() []string {
	topics := make([]string, 0, len(p.Notifications))
	for topic := range p.Notifications {
		topics = append(topics, topic)
	}
	return topics
}

func (p *Plugin) hookTopics() []map[string]string {
	hooks := make([]map[string]string, 0, len(p.Hooks))
	for name := range p.Hooks {
		hooks = append(hooks, map[string]string{"name": name})
	}
	return hooks
}

// reply writes a JSON-RPC response. Requests with no ID are notifications
// and get no reply, matching the host's own convention.
func (p *Plugin) reply(id json.RawMessage, result interface{}, err error) {
	if len(id) == 0 {
		return
	}

	resp := rpcResponse{JSONRPC: "2.0", ID: id}
	if err != nil {
		resp.Error = &rpcErrorObject{Code: -32603, Message: err.Error()}
	} else {
		resp.Result = result
	}

	out, marshalErr := json.Marshal(resp)
	if marshalErr != nil {
		log.Errorf("encoding response to host: %v", marshalErr)
		return
	}
	out = append(out, '\n')
	if _, writeErr := p.Out.Write(out); writeErr != nil {
		log.Errorf("writing response to host: %v", writeErr)
	}
}
