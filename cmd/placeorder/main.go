package main

import (
	"context"
	"fmt"
	"os"

	"mintme-bridge/internal/cli"
)

func main() {
	os.Exit(run(context.Background()))
}

func run(ctx context.Context) int {
	req, err := cli.ParseOrderArgs(os.Args[1:], os.Stdout)
	if err != nil {
		return cli.ExitCode(err)
	}
	client, _, err := cli.ClientFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\nPlease ensure PUB_API_KEY and PRIV_API_KEY are set in your environment or .env file\n", err)
		return 1
	}

	catalog := client.LoadMarkets()
	if m, ok := catalog.Lookup(req.Base, req.Quote); ok {
		if err := m.Validate(req); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	fmt.Println("=== MintMe Order Creation ===")
	cli.PrintOrderSummary(os.Stdout, req)
	fmt.Println("\nSubmitting order to MintMe...")
	res, err := client.CreateOrder(ctx, req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Println("\nOrder Result:")
	cli.PrintOrderResult(os.Stdout, res)
	return 0
}
