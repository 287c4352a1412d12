package cash

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/juju/errors"
	"github.com/temoto/till/currency"
	"github.com/temoto/till/log2"
)

// AllNominals as CountBills argument counts every bucket.
const AllNominals currency.Nominal = 0

// Register holds bills grouped by nominal.
// Not safe for concurrent use. Withdraw and Swap need exclusive access for their
// whole duration, otherwise a concurrent Value() may see value in flight.
type Register struct {
	shelf    shelf
	strategy currency.ExpendStrategy
	log      *log2.Log
}

// Option configures NewRegister.
type Option func(*Register)

// WithStrategy replaces default greedy largest-first withdraw.
func WithStrategy(s currency.ExpendStrategy) Option {
	return func(r *Register) { r.strategy = s }
}

// WithLog sets debug log, nil is silent.
func WithLog(log *log2.Log) Option {
	return func(r *Register) { r.log = log }
}

// NewRegister returns empty register, least-count strategy unless WithStrategy.
func NewRegister(opts ...Option) *Register {
	r := &Register{strategy: currency.NewExpendLeastCount()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Value is exact while every bill is within currency.MaxNominal.
func (self *Register) Value() currency.Amount {
	sum := currency.Amount(0)
	for _, b := range self.shelf.buckets {
		sum += currency.Amount(b.nominal) * currency.Amount(len(b.bills))
	}
	return sum
}

func (self *Register) AddBill(bill CashBill) {
	self.addBill(bill)
	self.log.Debugf("register add nominal=%d value=%d", bill.Value(), self.Value())
}

func (self *Register) AddBills(bills []CashBill) {
	for _, bill := range bills {
		self.addBill(bill)
	}
	self.log.Debugf("register add bills=%d value=%d", len(bills), self.Value())
}

func (self *Register) addBill(bill CashBill) {
	if bill == nil {
		panic("code error Register.AddBill bill=nil")
	}
	n := currency.Nominal(bill.Value())
	if n == 0 || n > currency.MaxNominal {
		panic(fmt.Sprintf("code error Register.AddBill value=%d bill=%#v", n, bill))
	}
	b := self.shelf.ensure(n)
	b.bills = append(b.bills, bill)
}

// CountBills with AllNominals returns total count, otherwise count of nominal n.
func (self *Register) CountBills(n currency.Nominal) uint {
	if n != AllNominals {
		return self.shelf.count(n)
	}
	total := uint(0)
	for _, b := range self.shelf.buckets {
		total += uint(len(b.bills))
	}
	return total
}

// Nominals ever deposited, largest first.
func (self *Register) Nominals() []currency.Nominal { return self.shelf.nominals() }

// Withdraw removes bills worth exactly amount. With default strategy it takes
// as many of the largest nominal as fit, then next smaller and so on; oldest bills first.
// This gives fewest bills only for canonical nominal sets.
// Errors: ErrInsufficientFunds when amount exceeds Value(),
// ErrInsufficientBills when held nominals can not compose amount.
// Register is unchanged on error.
func (self *Register) Withdraw(amount currency.Amount) ([]CashBill, error) {
	if amount == 0 {
		return nil, errors.NotValidf("withdraw amount=0")
	}
	value := self.Value()
	counts := self.shelf.counts()
	plan := currency.NewNominalGroup(counts.Nominals()...)
	if err := counts.Withdraw(plan, amount, self.strategy); err != nil {
		if amount > value {
			return nil, errors.Annotatef(ErrInsufficientFunds, "withdraw amount=%d value=%d", amount, value)
		}
		return nil, errors.Annotatef(ErrInsufficientBills, "withdraw amount=%d value=%d (%s)", amount, value, errors.Cause(err))
	}

	result := make([]CashBill, 0, 8)
	_ = plan.Iter(func(n currency.Nominal, count uint) error {
		result = self.shelf.take(n, count, result)
		return nil
	})
	self.log.Debugf("register withdraw amount=%d bills=%s value=%d", amount, plan.String(), self.Value())
	return result, nil
}

// Swap exchanges bills: removes `remove` counts per nominal and deposits `insert`.
// Removed and inserted values must be equal. Returns removed bills.
// ErrInvalidOperation when register lacks bills, values differ or an inserted bill
// is zero or above currency.MaxNominal, register is unchanged then.
func (self *Register) Swap(insert []CashBill, remove map[currency.Nominal]uint) ([]CashBill, error) {
	// stage
	nominals := make([]currency.Nominal, 0, len(remove))
	for n := range remove {
		nominals = append(nominals, n)
	}
	sort.Slice(nominals, func(i, j int) bool { return nominals[i] > nominals[j] })
	staged := currency.NewNominalGroup(nominals...)
	for _, n := range nominals {
		need := remove[n]
		if need == 0 {
			continue
		}
		have := uint(0)
		if n != 0 {
			have = self.shelf.count(n)
		}
		if have < need {
			return nil, errors.Annotatef(ErrInvalidOperation, "cannot remove %d bills of value %d, %d available", need, n, have)
		}
		_ = staged.Add(n, need)
	}
	for i, b := range insert {
		if b == nil {
			return nil, errors.Annotatef(ErrInvalidOperation, "insert[%d]=nil", i)
		}
		if v := b.Value(); v == 0 || v > currency.Amount(currency.MaxNominal) {
			return nil, errors.Annotatef(ErrInvalidOperation, "insert[%d] value=%d", i, v)
		}
	}
	removeValue := staged.Total()
	insertValue, ok := sumBills(insert)
	if !ok {
		return nil, errors.Annotatef(ErrInvalidOperation, "value of bills to insert overflows")
	}
	if removeValue != insertValue {
		return nil, errors.Annotatef(ErrInvalidOperation, "value of bills to remove=%d does not equal value of bills to insert=%d", removeValue, insertValue)
	}

	// commit
	result := make([]CashBill, 0, 8)
	_ = staged.Iter(func(n currency.Nominal, count uint) error {
		result = self.shelf.take(n, count, result)
		return nil
	})
	for _, b := range insert {
		self.addBill(b)
	}
	self.log.Debugf("register swap removed=%s inserted=%d bills value=%d", staged.String(), len(insert), self.Value())
	return result, nil
}

type BucketSnapshot struct {
	Nominal currency.Nominal `json:"nominal"`
	Count   int              `json:"count"`
	// FIFO order, empty for bills without serial
	Serials []string `json:"serials,omitempty"`
}

type serialer interface {
	Serial() uuid.UUID
}

// Snapshot lists non-empty buckets, largest nominal first.
func (self *Register) Snapshot() []BucketSnapshot {
	ss := make([]BucketSnapshot, 0, len(self.shelf.buckets))
	for _, b := range self.shelf.buckets {
		if len(b.bills) == 0 {
			continue
		}
		s := BucketSnapshot{Nominal: b.nominal, Count: len(b.bills)}
		for _, bill := range b.bills {
			if sb, ok := bill.(serialer); ok {
				s.Serials = append(s.Serials, sb.Serial().String())
			}
		}
		ss = append(ss, s)
	}
	return ss
}

func (self *Register) String() string {
	parts := make([]string, 0, len(self.shelf.buckets)+1)
	for _, b := range self.shelf.buckets {
		if len(b.bills) > 0 {
			parts = append(parts, fmt.Sprintf("%d:%d", b.nominal, len(b.bills)))
		}
	}
	parts = append(parts, fmt.Sprintf("total:%d", self.Value()))
	return strings.Join(parts, ",")
}
