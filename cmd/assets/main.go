package main

import (
	"context"
	"fmt"
	"os"

	"mintme-bridge/internal/cli"
)

func main() {
	client, _, err := cli.ClientFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	catalog := client.LoadMarkets()

	fmt.Println("=== MintMe Assets ===")
	res, err := client.FetchAssets(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching MintMe assets: %v\n", err)
		os.Exit(1)
	}
	if err := cli.PrintAssets(os.Stdout, res, catalog, 10); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
