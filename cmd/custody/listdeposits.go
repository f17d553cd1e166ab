package main

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/urfave/cli/v2"
)

var listdeposits = cli.Command{
	Name:  "deposits",
	Usage: "get the list of all deposit records of an address",
	Flags: []cli.Flag{
		&addressFlag,
	},
	Action: listDepositsAction,
}

func listDepositsAction(ctx *cli.Context) error {
	address, err := getCallerAddress(ctx)
	if err != nil {
		return err
	}

	resp, err := doRequest(
		http.MethodGet, fmt.Sprintf("/v1/deposits/%s", url.PathEscape(address)),
		"", nil,
	)
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}
