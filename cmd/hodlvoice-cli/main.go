package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lightninglabs/hodlvoice/hodlrpc"
	"github.com/urfave/cli"
	"google.golang.org/grpc"
)

const (
	defaultRPCServer  = "localhost:10100"
	defaultTLSCert    = "hodlvoice-cli.cert"
	defaultTLSKey     = "hodlvoice-cli.key"
	defaultTLSCACert  = "hodlvoice-ca.cert"
)

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "[hodlvoice-cli] %v\n", err)
	os.Exit(1)
}

func printJSON(resp interface{}) {
	b, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		fatal(err)
	}
	os.Stdout.Write(b)
	fmt.Println()
}

// getClient dials the plugin's gRPC surface with a mutually-authenticated
// TLS connection: the server requires a client certificate, so unlike
// lncli's macaroon-based auth, there's no separate credential layer here
// beyond the handshake itself.
func getClient(ctx *cli.Context) (hodlrpc.HodlvoiceClient, func()) {
	conn := getClientConn(ctx)

	cleanUp := func() {
		conn.Close()
	}

	return hodlrpc.NewHodlvoiceClient(conn), cleanUp
}

func getClientConn(ctx *cli.Context) *grpc.ClientConn {
	certFile := ctx.GlobalString("tlscert")
	keyFile := ctx.GlobalString("tlskey")
	caFile := ctx.GlobalString("tlscacert")

	creds, err := loadClientTLS(certFile, keyFile, caFile)
	if err != nil {
		fatal(err)
	}

	opts := []grpc.DialOption{
		grpc.WithTransportCredentials(creds),
	}

	conn, err := grpc.Dial(ctx.GlobalString("rpcserver"), opts...)
	if err != nil {
		fatal(err)
	}

	return conn
}

func main() {
	app := cli.NewApp()
	app.Name = "hodlvoice-cli"
	app.Usage = "control plane for the hodlvoice hold-invoice plugin"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rpcserver",
			Value: defaultRPCServer,
			Usage: "host:port of the hodlvoice grpc-hodl-port surface",
		},
		cli.StringFlag{
			Name:  "tlscert",
			Value: defaultTLSCert,
			Usage: "path to this client's TLS certificate",
		},
		cli.StringFlag{
			Name:  "tlskey",
			Value: defaultTLSKey,
			Usage: "path to this client's TLS key",
		},
		cli.StringFlag{
			Name:  "tlscacert",
			Value: defaultTLSCACert,
			Usage: "path to the CA root the plugin's server certificate is signed by",
		},
	}
	app.Commands = []cli.Command{
		pingCommand,
		hodlInvoiceCommand,
		hodlInvoiceSettleCommand,
		hodlInvoiceCancelCommand,
		hodlInvoiceLookupCommand,
	}

	if err := app.Run(os.Args); err != nil {
		fatal(err)
	}
}

// actionDecorator surfaces gRPC errors the same way the plain command
// errors are surfaced: nothing lncli-specific (no macaroon/unlock special
// casing) applies here, so it's a thin pass-through kept for symmetry with
// the rest of the command table.
func actionDecorator(f func(*cli.Context) error) func(*cli.Context) error {
	return func(c *cli.Context) error {
		return f(c)
	}
}
