package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"github.com/langowen/currency_converter/internal/client"
	"log"
	"os"
	"time"
)

func main() {
	network := flag.String("network", "unix", "transport network: unix or tcp")
	address := flag.String("address", "/tmp/currency_converter.sock", "socket path or loopback host:port")
	timeout := flag.Duration("timeout", 5*time.Second, "request timeout")
	flag.Parse()

	c := client.New(*network, *address, *timeout)
	ctx := context.Background()

	args := flag.Args()
	if len(args) == 0 {
		args = []string{"demo"}
	}

	var (
		result any
		err    error
	)

	switch args[0] {
	case "convert":
		if len(args) != 4 {
			usage()
		}
		var amount float64
		if _, scanErr := fmt.Sscan(args[3], &amount); scanErr != nil {
			log.Fatalf("invalid amount %q: %v", args[3], scanErr)
		}
		result, err = c.ConvertCurrency(ctx, args[1], args[2], amount)
	case "rates":
		if len(args) != 2 {
			usage()
		}
		result, err = c.GetExchangeRates(ctx, args[1])
	case "currencies":
		result, err = c.GetSupportedCurrencies(ctx)
	case "demo":
		demo(ctx, c)
		return
	default:
		usage()
	}

	if err != nil {
		log.Fatal(err)
	}
	printJSON(result)
}

func demo(ctx context.Context, c *client.Client) {
	if res, err := c.ConvertCurrency(ctx, "USD", "EUR", 100); err != nil {
		log.Println(err)
	} else {
		printJSON(res)
	}

	if res, err := c.GetExchangeRates(ctx, "USD"); err != nil {
		log.Println(err)
	} else {
		printJSON(res)
	}

	if res, err := c.GetSupportedCurrencies(ctx); err != nil {
		log.Println(err)
	} else {
		printJSON(res)
	}
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Println(err)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [flags] convert SRC TGT AMOUNT | rates CODE | currencies | demo\n", os.Args[0])
	flag.PrintDefaults()
	os.Exit(2)
}
