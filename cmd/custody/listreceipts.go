package main

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/urfave/cli/v2"
)

var listreceipts = cli.Command{
	Name:  "receipts",
	Usage: "get the list of deposits and withdrawals of an address",
	Flags: []cli.Flag{
		&addressFlag,
		&cli.Int64Flag{
			Name:  "page",
			Usage: "the number of the page to be listed. If omitted, the entire list is returned",
		},
		&cli.Int64Flag{
			Name:  "page-size",
			Usage: "the size of the page",
			Value: 10,
		},
	},
	Action: listReceiptsAction,
}

func listReceiptsAction(ctx *cli.Context) error {
	address, err := getCallerAddress(ctx)
	if err != nil {
		return err
	}

	path := fmt.Sprintf("/v1/receipts/%s", url.PathEscape(address))
	if pageNumber := ctx.Int64("page"); pageNumber > 0 {
		path = fmt.Sprintf(
			"%s?page=%d&page_size=%d", path, pageNumber, ctx.Int64("page-size"),
		)
	}

	resp, err := doRequest(http.MethodGet, path, "", nil)
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}
