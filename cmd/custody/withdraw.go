package main

import (
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
)

var withdraw = cli.Command{
	Name:  "withdraw",
	Usage: "withdraw some amount of a previously deposited asset",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "amount",
			Usage:    "the amount to withdraw, in base units",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "denom",
			Usage:    "the denomination of the withdrawn asset",
			Required: true,
		},
		&addressFlag,
	},
	Action: withdrawAction,
}

func withdrawAction(ctx *cli.Context) error {
	caller, err := getCallerAddress(ctx)
	if err != nil {
		return err
	}
	amount, err := decimal.NewFromString(ctx.String("amount"))
	if err != nil {
		return err
	}

	resp, err := doRequest(http.MethodPost, "/v1/withdraw", caller, coin{
		Denom:  ctx.String("denom"),
		Amount: amount,
	})
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}
