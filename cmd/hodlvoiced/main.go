package main

import (
	"fmt"
	"os"

	flags "github.com/jessevdk/go-flags"
	"github.com/lightninglabs/hodlvoice/pluginapp"
)

// cliOptions are the command-line flags hodlvoiced accepts, separate from
// the host-driven config-file/option path. Everything the host controls
// (lightning-dir, cltv-delta, grpc-hodl-port) arrives through the plugin
// protocol instead; these flags only locate the mTLS identity, which the
// spec treats as opaque material out of its scope.
type cliOptions struct {
	TLSCertPath string `long:"tlscert" description:"path to the gRPC surface's TLS certificate" default:"hodlvoice-tls.cert"`
	TLSKeyPath  string `long:"tlskey" description:"path to the gRPC surface's TLS key" default:"hodlvoice-tls.key"`
	TLSCAPath   string `long:"tlscacert" description:"path to the CA root clients of the grpc surface must present a certificate from" default:"hodlvoice-ca.cert"`
}

func main() {
	if err := run(os.Args); err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var opts cliOptions
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.ParseArgs(args[1:]); err != nil {
		return err
	}

	app := pluginapp.New(pluginapp.TLSPaths{
		CertFile: opts.TLSCertPath,
		KeyFile:  opts.TLSKeyPath,
		CACert:   opts.TLSCAPath,
	})

	return app.Run()
}
