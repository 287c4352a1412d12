// Package console runs text commands against a cash register.
package console

import (
	"fmt"
	"io"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/juju/errors"
	"github.com/temoto/till/cash"
	"github.com/temoto/till/currency"
	"github.com/temoto/till/log2"
)

type Console struct {
	log      *log2.Log
	register *cash.Register
	minter   cash.Minter
	scale    int
	w        io.Writer
}

func New(log *log2.Log, register *cash.Register, minter cash.Minter, scale int, w io.Writer) *Console {
	return &Console{
		log:      log,
		register: register,
		minter:   minter,
		scale:    scale,
		w:        w,
	}
}

func (self *Console) Exec(line string) error {
	cmd, err := Parse(line)
	if err != nil {
		return errors.Annotatef(err, "line='%s'", line)
	}
	if cmd == nil {
		return nil
	}
	self.log.Debugf("console exec %s", cmd.Name)
	return self.Do(cmd)
}

func (self *Console) Do(cmd *Command) error {
	switch cmd.Name {
	case CmdHelp:
		return self.print(usage)

	case CmdValue:
		return self.printf("value=%s\n", self.format(self.register.Value()))

	case CmdCount:
		if len(cmd.Nominals) == 0 {
			return self.printf("count=%d\n", self.register.CountBills(cash.AllNominals))
		}
		n := cmd.Nominals[0]
		return self.printf("count[%s]=%d\n", self.format(currency.Amount(n)), self.register.CountBills(n))

	case CmdDeposit:
		bills, err := cash.MintMany(self.minter, cmd.Nominals...)
		if err != nil {
			return errors.Annotate(err, "deposit")
		}
		self.register.AddBills(bills)
		return self.printf("deposited=%s value=%s\n", self.formatBills(bills), self.format(self.register.Value()))

	case CmdWithdraw:
		bills, err := self.register.Withdraw(cmd.Amount)
		if err != nil {
			return errors.Annotate(err, "withdraw")
		}
		return self.printf("withdrawn=%s value=%s\n", self.formatBills(bills), self.format(self.register.Value()))

	case CmdSwap:
		insert, err := cash.MintMany(self.minter, cmd.Nominals...)
		if err != nil {
			return errors.Annotate(err, "swap")
		}
		removed, err := self.register.Swap(insert, cmd.Remove)
		if err != nil {
			return errors.Annotate(err, "swap")
		}
		return self.printf("removed=%s inserted=%s value=%s\n",
			self.formatBills(removed), self.formatBills(insert), self.format(self.register.Value()))

	case CmdDump:
		b, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(self.Dump(), "", "  ")
		if err != nil {
			return errors.Annotate(err, "dump")
		}
		return self.printf("%s\n", b)
	}
	return errors.NotValidf("unknown command=%s", cmd.Name)
}

type Dump struct {
	Currency string                `json:"currency"`
	Value    string                `json:"value"`
	Count    uint                  `json:"count"`
	Buckets  []cash.BucketSnapshot `json:"buckets"`
}

func (self *Console) Dump() Dump {
	return Dump{
		Currency: self.minter.Label(),
		Value:    self.format(self.register.Value()),
		Count:    self.register.CountBills(cash.AllNominals),
		Buckets:  self.register.Snapshot(),
	}
}

func (self *Console) format(a currency.Amount) string { return a.Format(self.scale) }

func (self *Console) formatBills(bills []cash.CashBill) string {
	if len(bills) == 0 {
		return "-"
	}
	parts := make([]string, len(bills))
	for i, b := range bills {
		parts[i] = fmt.Sprintf("%s%s(%s)", b.CurrencyLabel(), self.format(b.Value()), b.Character())
	}
	return strings.Join(parts, ",")
}

func (self *Console) print(s string) error {
	_, err := io.WriteString(self.w, s)
	return errors.Trace(err)
}

func (self *Console) printf(format string, args ...interface{}) error {
	_, err := fmt.Fprintf(self.w, format, args...)
	return errors.Trace(err)
}
