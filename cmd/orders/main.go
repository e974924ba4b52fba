package main

import (
	"context"
	"fmt"
	"os"

	"mintme-bridge/internal/broker"
	"mintme-bridge/internal/cli"
	"mintme-bridge/internal/types"
)

func main() {
	os.Exit(run(context.Background()))
}

func run(ctx context.Context) int {
	page, err := cli.ParsePageArgs(os.Args[1:], os.Stdout)
	if err != nil {
		return cli.ExitCode(err)
	}
	client, _, err := cli.ClientFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\nPlease ensure PUB_API_KEY and PRIV_API_KEY are set in your environment or .env file\n", err)
		return 1
	}

	fmt.Printf("=== MintMe %s Orders ===\n", page.State())
	fmt.Printf("- Offset: %d\n- Limit: %d\n", page.Offset, page.Limit)

	var res broker.Result
	if page.State() == types.OrderStateFinished {
		res, err = client.FetchFinishedOrders(ctx, page.Offset, page.Limit)
	} else {
		res, err = client.FetchActiveOrders(ctx, page.Offset, page.Limit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Println("\nFetch Result:")
	cli.PrintOrders(os.Stdout, res)
	return 0
}
