// Package cli holds the flag parsing and console output shared by the
// command line tools under cmd/.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"mintme-bridge/internal/mintme"
	"mintme-bridge/internal/model"
	"mintme-bridge/internal/types"

	"github.com/shopspring/decimal"
)

// ErrUsage marks invalid command line input. The usage text has already
// been written when it is returned.
var ErrUsage = errors.New("invalid usage")

const orderUsage = `Usage: placeorder [options]

Options:
  --base=SYMBOL       Base asset symbol (e.g., LAGX)
  --quote=SYMBOL      Quote asset symbol (e.g., MINTME)
  --price=NUMBER      Price per unit
  --amount=NUMBER     Amount to buy/sell
  --action=TYPE       Order type (buy or sell)
  --donation=NUMBER   Donation amount (default: 0)
  --market            Use market price (no price needed)
  --help              Show this help message

Example:
  placeorder --base=LAGX --quote=MINTME --price=5 --amount=12.33 --action=buy
`

const ordersUsage = `Usage: orders [options]

Options:
  --offset=NUMBER     Offset for pagination (default: 0)
  --limit=NUMBER      Maximum number of orders to fetch (default: 100)
  --finished          List finished orders instead of active ones
  --help              Show this help message

Example:
  orders --offset=0 --limit=20
`

// ExitCode maps a parse or run error to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, ErrUsage):
		return 2
	default:
		return 1
	}
}

func usageError(out io.Writer, usage, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(out, "Error: %s\n%s", msg, usage)
	return fmt.Errorf("%w: %s", ErrUsage, msg)
}

// newFlagSet returns a silent flag set; parse decides what gets printed.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	return fs
}

func parse(fs *flag.FlagSet, args []string, out io.Writer, usage string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fmt.Fprint(out, usage)
			return err
		}
		return usageError(out, usage, "%v", err)
	}
	if fs.NArg() > 0 {
		return usageError(out, usage, "unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	return nil
}

// ParseOrderArgs turns placeorder flags into an order request.
func ParseOrderArgs(args []string, out io.Writer) (model.OrderRequest, error) {
	fs := newFlagSet("placeorder")
	base := fs.String("base", "", "")
	quote := fs.String("quote", "", "")
	price := fs.String("price", "", "")
	amount := fs.String("amount", "", "")
	action := fs.String("action", "", "")
	donation := fs.String("donation", "0", "")
	market := fs.Bool("market", false, "")
	if err := parse(fs, args, out, orderUsage); err != nil {
		return model.OrderRequest{}, err
	}

	var missing []string
	for _, f := range []struct{ name, value string }{
		{"base", *base}, {"quote", *quote}, {"amount", *amount}, {"action", *action},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return model.OrderRequest{}, usageError(out, orderUsage, "missing required parameters: %s", strings.Join(missing, ", "))
	}
	if !*market && strings.TrimSpace(*price) == "" {
		return model.OrderRequest{}, usageError(out, orderUsage, "price is required when not using market price")
	}
	side := types.OrderSide(strings.ToLower(strings.TrimSpace(*action)))
	if !side.Valid() {
		return model.OrderRequest{}, usageError(out, orderUsage, `action must be either "buy" or "sell"`)
	}

	req := model.OrderRequest{
		Base:        strings.TrimSpace(*base),
		Quote:       strings.TrimSpace(*quote),
		MarketPrice: *market,
		Side:        side,
	}
	var err error
	if req.Amount, err = decimal.NewFromString(strings.TrimSpace(*amount)); err != nil {
		return model.OrderRequest{}, usageError(out, orderUsage, "invalid amount %q", *amount)
	}
	if req.Donation, err = decimal.NewFromString(strings.TrimSpace(*donation)); err != nil {
		return model.OrderRequest{}, usageError(out, orderUsage, "invalid donation %q", *donation)
	}
	if !*market {
		if req.Price, err = decimal.NewFromString(strings.TrimSpace(*price)); err != nil {
			return model.OrderRequest{}, usageError(out, orderUsage, "invalid price %q", *price)
		}
	}
	return req, nil
}

type PageArgs struct {
	Offset   int
	Limit    int
	Finished bool
}

func (p PageArgs) State() types.OrderState {
	if p.Finished {
		return types.OrderStateFinished
	}
	return types.OrderStateActive
}

// ParsePageArgs reads the orders tool flags.
func ParsePageArgs(args []string, out io.Writer) (PageArgs, error) {
	fs := newFlagSet("orders")
	var p PageArgs
	fs.IntVar(&p.Offset, "offset", mintme.DefaultOffset, "")
	fs.IntVar(&p.Limit, "limit", mintme.DefaultLimit, "")
	fs.BoolVar(&p.Finished, "finished", false, "")
	if err := parse(fs, args, out, ordersUsage); err != nil {
		return PageArgs{}, err
	}
	if p.Offset < 0 {
		return PageArgs{}, usageError(out, ordersUsage, "offset must not be negative")
	}
	if p.Limit <= 0 {
		return PageArgs{}, usageError(out, ordersUsage, "limit must be positive")
	}
	return p, nil
}
