package main

import (
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
)

var deposit = cli.Command{
	Name:  "deposit",
	Usage: "deposit some amount of an asset into the ledger",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "amount",
			Usage:    "the amount to deposit, in base units",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "denom",
			Usage:    "the denomination of the deposited asset",
			Required: true,
		},
		&addressFlag,
	},
	Action: depositAction,
}

type coin struct {
	Denom  string          `json:"denom"`
	Amount decimal.Decimal `json:"amount"`
}

func depositAction(ctx *cli.Context) error {
	caller, err := getCallerAddress(ctx)
	if err != nil {
		return err
	}
	amount, err := decimal.NewFromString(ctx.String("amount"))
	if err != nil {
		return err
	}

	resp, err := doRequest(http.MethodPost, "/v1/deposit", caller, map[string]interface{}{
		"funds": []coin{{ctx.String("denom"), amount}},
	})
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}
