package console

import (
	"strconv"
	"strings"

	"github.com/juju/errors"
	"github.com/temoto/till/currency"
)

const (
	CmdCount    = "count"
	CmdDeposit  = "deposit"
	CmdDump     = "dump"
	CmdHelp     = "help"
	CmdSwap     = "swap"
	CmdValue    = "value"
	CmdWithdraw = "withdraw"
)

const usage = `syntax: command [args...], # starts comment
- value              total value in register
- count [N]          count all bills or of nominal N
- deposit N...       add bills, e.g. deposit 20 20 5
- withdraw AMOUNT    take bills worth exactly AMOUNT, largest first
- swap +N... -N[:C]  insert bills +N, remove C (default 1) bills of nominal N
                     e.g. swap +1 +1 +1 +1 +1 -5 (values must match)
- dump               register contents as JSON
- help
`

func Commands() []string {
	return []string{CmdCount, CmdDeposit, CmdDump, CmdHelp, CmdSwap, CmdValue, CmdWithdraw}
}

type Command struct {
	Name string
	// count (at most one), deposit, swap insert
	Nominals []currency.Nominal
	// withdraw
	Amount currency.Amount
	// swap
	Remove map[currency.Nominal]uint
}

// Parse returns nil,nil for empty line or comment.
func Parse(line string) (*Command, error) {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	words := strings.Fields(line)
	if len(words) == 0 {
		return nil, nil
	}
	cmd := &Command{Name: strings.ToLower(words[0])}
	args := words[1:]

	switch cmd.Name {
	case CmdValue, CmdDump, CmdHelp:
		if len(args) != 0 {
			return nil, errors.NotValidf("%s takes no arguments", cmd.Name)
		}

	case CmdCount:
		if len(args) > 1 {
			return nil, errors.NotValidf("count takes at most one nominal")
		}
		for _, a := range args {
			n, err := currency.ParseNominal(a)
			if err != nil {
				return nil, err
			}
			cmd.Nominals = append(cmd.Nominals, n)
		}

	case CmdDeposit:
		if len(args) == 0 {
			return nil, errors.NotValidf("deposit without bills")
		}
		for _, a := range args {
			n, err := currency.ParseNominal(a)
			if err != nil {
				return nil, err
			}
			cmd.Nominals = append(cmd.Nominals, n)
		}

	case CmdWithdraw:
		if len(args) != 1 {
			return nil, errors.NotValidf("withdraw takes one amount")
		}
		u, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil || u == 0 {
			return nil, errors.NotValidf("amount=%s", args[0])
		}
		cmd.Amount = currency.Amount(u)

	case CmdSwap:
		cmd.Remove = make(map[currency.Nominal]uint)
		for _, a := range args {
			switch {
			case strings.HasPrefix(a, "+"):
				n, err := currency.ParseNominal(a[1:])
				if err != nil {
					return nil, err
				}
				cmd.Nominals = append(cmd.Nominals, n)
			case strings.HasPrefix(a, "-"):
				word := a[1:]
				count := uint64(1)
				if i := strings.IndexByte(word, ':'); i >= 0 {
					var err error
					if count, err = strconv.ParseUint(word[i+1:], 10, 32); err != nil {
						return nil, errors.NotValidf("swap remove count=%s", word[i+1:])
					}
					word = word[:i]
				}
				n, err := currency.ParseNominal(word)
				if err != nil {
					return nil, err
				}
				cmd.Remove[n] += uint(count)
			default:
				return nil, errors.NotValidf("swap argument=%s expected +N or -N[:C]", a)
			}
		}
		if len(cmd.Nominals) == 0 && len(cmd.Remove) == 0 {
			return nil, errors.NotValidf("swap without bills")
		}

	default:
		return nil, errors.NotValidf("unknown command=%s", cmd.Name)
	}
	return cmd, nil
}
