package main

import (
	"encoding/hex"
	"fmt"

	"github.com/lightninglabs/hodlvoice/hodlrpc"
	"github.com/urfave/cli"
	"golang.org/x/net/context"
)

var pingCommand = cli.Command{
	Name:   "ping",
	Usage:  "Check that the grpc-hodl-port surface is reachable.",
	Action: actionDecorator(ping),
}

func ping(ctx *cli.Context) error {
	client, cleanUp := getClient(ctx)
	defer cleanUp()

	_, err := client.Ping(context.Background(), &hodlrpc.PingRequest{})
	if err != nil {
		return err
	}

	fmt.Println("pong")
	return nil
}

var hodlInvoiceCommand = cli.Command{
	Name:      "hodl-invoice",
	Usage:     "Create a new hold invoice.",
	ArgsUsage: "amt_msat",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  "label",
			Usage: "a unique label identifying the invoice",
		},
		cli.StringFlag{
			Name:  "description",
			Usage: "a description of the payment to attach to the invoice",
		},
		cli.Int64Flag{
			Name:  "expiry",
			Value: 3600,
			Usage: "the invoice's expiry time in seconds",
		},
	},
	Action: actionDecorator(hodlInvoice),
}

func hodlInvoice(ctx *cli.Context) error {
	client, cleanUp := getClient(ctx)
	defer cleanUp()

	var amt int64
	switch {
	case ctx.Args().Present():
		if _, err := fmt.Sscanf(ctx.Args().First(), "%d", &amt); err != nil {
			return fmt.Errorf("unable to parse amt_msat argument: %v", err)
		}
	default:
		return fmt.Errorf("amt_msat argument missing")
	}

	req := &hodlrpc.HodlInvoiceRequest{
		AmountMsat:  uint64(amt),
		Label:       ctx.String("label"),
		Description: ctx.String("description"),
		ExpirySecs:  ctx.Int64("expiry"),
	}

	resp, err := client.HodlInvoice(context.Background(), req)
	if err != nil {
		return err
	}

	printJSON(struct {
		Bolt11      string `json:"bolt11"`
		PaymentHash string `json:"payment_hash"`
		ExpiresAt   int64  `json:"expires_at"`
	}{
		Bolt11:      resp.Bolt11,
		PaymentHash: hex.EncodeToString(resp.PaymentHash),
		ExpiresAt:   resp.ExpiresAt,
	})

	return nil
}

var hodlInvoiceSettleCommand = cli.Command{
	Name:      "hodl-invoice-settle",
	Usage:     "Settle an accepted hold invoice, releasing its HTLCs.",
	ArgsUsage: "payment_hash",
	Action:    actionDecorator(hodlInvoiceSettle),
}

func hodlInvoiceSettle(ctx *cli.Context) error {
	client, cleanUp := getClient(ctx)
	defer cleanUp()

	hash, err := paymentHashArg(ctx)
	if err != nil {
		return err
	}

	resp, err := client.HodlInvoiceSettle(context.Background(), &hodlrpc.HodlInvoiceSettleRequest{
		PaymentHash: hash,
	})
	if err != nil {
		return err
	}

	printJSON(struct {
		State int32 `json:"state"`
	}{State: resp.State})

	return nil
}

var hodlInvoiceCancelCommand = cli.Command{
	Name:      "hodl-invoice-cancel",
	Usage:     "Cancel a hold invoice, failing back its HTLCs.",
	ArgsUsage: "payment_hash",
	Action:    actionDecorator(hodlInvoiceCancel),
}

func hodlInvoiceCancel(ctx *cli.Context) error {
	client, cleanUp := getClient(ctx)
	defer cleanUp()

	hash, err := paymentHashArg(ctx)
	if err != nil {
		return err
	}

	resp, err := client.HodlInvoiceCancel(context.Background(), &hodlrpc.HodlInvoiceCancelRequest{
		PaymentHash: hash,
	})
	if err != nil {
		return err
	}

	printJSON(struct {
		State int32 `json:"state"`
	}{State: resp.State})

	return nil
}

var hodlInvoiceLookupCommand = cli.Command{
	Name:      "hodl-invoice-lookup",
	Usage:     "Look up a hold invoice's current state.",
	ArgsUsage: "payment_hash",
	Action:    actionDecorator(hodlInvoiceLookup),
}

func hodlInvoiceLookup(ctx *cli.Context) error {
	client, cleanUp := getClient(ctx)
	defer cleanUp()

	hash, err := paymentHashArg(ctx)
	if err != nil {
		return err
	}

	resp, err := client.HodlInvoiceLookup(context.Background(), &hodlrpc.HodlInvoiceLookupRequest{
		PaymentHash: hash,
	})
	if err != nil {
		return err
	}

	printJSON(struct {
		State          int32  `json:"state"`
		HasHtlcExpiry  bool   `json:"has_htlc_expiry"`
		HtlcCltvExpiry uint32 `json:"htlc_cltv_expiry,omitempty"`
	}{
		State:          resp.State,
		HasHtlcExpiry:  resp.HasHtlcExpiry,
		HtlcCltvExpiry: resp.HtlcCltvExpiry,
	})

	return nil
}

func paymentHashArg(ctx *cli.Context) ([]byte, error) {
	if !ctx.Args().Present() {
		return nil, fmt.Errorf("payment_hash argument missing")
	}

	hash, err := hex.DecodeString(ctx.Args().First())
	if err != nil {
		return nil, fmt.Errorf("unable to decode payment_hash argument: %v", err)
	}
	if len(hash) != 32 {
		return nil, fmt.Errorf("payment_hash must be 32 bytes, got %d", len(hash))
	}

	return hash, nil
}
