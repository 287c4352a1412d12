package currency

import (
	"fmt"
	"math"
	"math/bits"
	"sort"
	"strconv"
	"strings"

	"github.com/juju/errors"
	"github.com/shopspring/decimal"
)

// Amount is integer counting lowest currency unit, e.g. $1.20 = 120
type Amount uint64

// Format renders amount as exact decimal, scale is count of lowest units in one major unit.
// scale<=1 means amounts are already whole units.
func (self Amount) Format(scale int) string {
	d := decimal.NewFromUint64(uint64(self))
	if scale > 1 {
		d = d.Div(decimal.NewFromInt(int64(scale)))
	}
	return d.String()
}

func (self Amount) String() string { return self.Format(1) }

// Sum returns total of amounts, ok=false on overflow.
func Sum(amounts ...Amount) (total Amount, ok bool) {
	for _, a := range amounts {
		s, carry := bits.Add64(uint64(total), uint64(a), 0)
		if carry != 0 {
			return 0, false
		}
		total = Amount(s)
	}
	return total, true
}

// Nominal is value of one coin or bill
type Nominal Amount

// MaxNominal bounds one bill, so Amount can not overflow below 2^32 bills.
const MaxNominal Nominal = math.MaxUint32

// ParseNominal accepts positive decimal not above MaxNominal.
func ParseNominal(s string) (Nominal, error) {
	u, err := strconv.ParseUint(s, 10, 32)
	if err != nil || u == 0 {
		return 0, errors.NotValidf("nominal=%s", s)
	}
	return Nominal(u), nil
}

var (
	ErrNominalInvalid = errors.New("Nominal is not valid for this group")
	ErrNominalCount   = errors.New("Not enough nominals for this amount")
)

// NominalGroup operates money comprised of multiple nominals, like coins or bills.
// bill1 : 3
// bill5 : 1
// bill10: 4
// total : 48
// Only counts are stored, see cash.Register for physical bills.
type NominalGroup struct {
	values map[Nominal]uint
}

func NewNominalGroup(valid ...Nominal) *NominalGroup {
	ng := &NominalGroup{}
	ng.SetValid(valid)
	return ng
}

func (self *NominalGroup) Copy() *NominalGroup {
	ng2 := &NominalGroup{
		values: make(map[Nominal]uint, len(self.values)),
	}
	for k, v := range self.values {
		ng2.values[k] = v
	}
	return ng2
}

func (self *NominalGroup) SetValid(valid []Nominal) {
	self.values = make(map[Nominal]uint, len(valid))
	for _, n := range valid {
		if n != 0 {
			self.values[n] = 0
		}
	}
}

func (self *NominalGroup) Add(n Nominal, count uint) error {
	if _, ok := self.values[n]; !ok {
		return errors.Annotatef(ErrNominalInvalid, "Add(n=%d, c=%d)", n, count)
	}
	self.values[n] += count
	return nil
}

// Nominals returns valid nominals, largest first.
func (self *NominalGroup) Nominals() []Nominal {
	return self.order(ngOrderSortElemNominal)
}

// Iter visits nominals largest first.
func (self *NominalGroup) Iter(f func(nominal Nominal, count uint) error) error {
	for _, nominal := range self.Nominals() {
		if err := f(nominal, self.values[nominal]); err != nil {
			return err
		}
	}
	return nil
}

func (self *NominalGroup) Total() Amount {
	sum := Amount(0)
	for nominal, count := range self.values {
		sum += Amount(nominal) * Amount(count)
	}
	return sum
}

// Withdraw moves nominals worth exactly amount from self into `to` (may be nil).
// On error self is left partially expended, run on Copy() to check first.
func (self *NominalGroup) Withdraw(to *NominalGroup, amount Amount, strategy ExpendStrategy) error {
	return self.expendLoop(to, amount, strategy)
}

func (self *NominalGroup) String() string {
	parts := make([]string, 0, len(self.values)+1)
	for _, nominal := range self.Nominals() {
		if count := self.values[nominal]; count > 0 {
			parts = append(parts, fmt.Sprintf("%d:%d", nominal, count))
		}
	}
	parts = append(parts, fmt.Sprintf("total:%d", self.Total()))
	return strings.Join(parts, ",")
}

func (self *NominalGroup) expendLoop(to *NominalGroup, amount Amount, strategy ExpendStrategy) error {
	strategy.Reset(self)
	for amount > 0 {
		nominal, err := strategy.ExpendOne(self, amount)
		if err != nil {
			return errors.Annotatef(err, "remainder=%d", amount)
		}
		if nominal == 0 {
			panic("code error ExpendStrategy returned Nominal 0 without error")
		}
		amount -= Amount(nominal)
		if to != nil {
			if to.values == nil {
				to.values = make(map[Nominal]uint)
			}
			to.values[nominal] += 1
		}
	}
	return nil
}

// common code from strategies
func expendOneOrdered(from *NominalGroup, order []Nominal, max Amount) (Nominal, error) {
	if len(order) < len(from.values) {
		panic("code error expendOneOrdered order must include all nominals")
	}
	if max == 0 {
		return 0, nil
	}
	for _, n := range order {
		if Amount(n) <= max && from.values[n] > 0 {
			from.values[n] -= 1
			return n, nil
		}
	}
	return 0, ErrNominalCount
}

type ngOrderSortElemFunc func(Nominal, uint) Nominal

// order is stable: ties are broken by larger nominal first.
func (self *NominalGroup) order(sortElemFunc ngOrderSortElemFunc) []Nominal {
	order := make([]Nominal, 0, len(self.values))
	for n := range self.values {
		order = append(order, n)
	}
	sort.Slice(order, func(i, j int) bool {
		ni, nj := order[i], order[j]
		ei, ej := sortElemFunc(ni, self.values[ni]), sortElemFunc(nj, self.values[nj])
		if ei != ej {
			return ei > ej
		}
		return ni > nj
	})
	return order
}
func ngOrderSortElemNominal(n Nominal, c uint) Nominal { return n }
func ngOrderSortElemCount(n Nominal, c uint) Nominal   { return Nominal(c) }

// NominalGroup.Withdraw = strategy.Reset + loop strategy.ExpendOne
type ExpendStrategy interface {
	Reset(from *NominalGroup)
	ExpendOne(from *NominalGroup, max Amount) (Nominal, error)
}

type ExpendGenericOrder struct {
	order        []Nominal
	SortElemFunc ngOrderSortElemFunc
}

func (self *ExpendGenericOrder) Reset(from *NominalGroup) {
	self.order = from.order(self.SortElemFunc)
}
func (self *ExpendGenericOrder) ExpendOne(from *NominalGroup, max Amount) (Nominal, error) {
	return expendOneOrdered(from, self.order, max)
}

// NewExpendLeastCount is greedy largest nominal first.
// Gives minimal count of bills only for canonical nominal sets (like 1,2,5,10,20,50,100).
// For arbitrary sets, e.g. 1,3,4 amount=6 gives 4+1+1 not 3+3, and may fail
// where a solution exists, e.g. 3,4 amount=6 with one 4 and two 3.
func NewExpendLeastCount() ExpendStrategy {
	return &ExpendGenericOrder{SortElemFunc: ngOrderSortElemNominal}
}

// NewExpendMostAvailable prefers nominals with most stock, keeps scarce ones for later.
func NewExpendMostAvailable() ExpendStrategy {
	return &ExpendGenericOrder{SortElemFunc: ngOrderSortElemCount}
}

func ParseExpendStrategy(name string) (ExpendStrategy, error) {
	switch name {
	case "", "least-count":
		return NewExpendLeastCount(), nil
	case "most-available":
		return NewExpendMostAvailable(), nil
	}
	return nil, errors.NotValidf("expend strategy=%s", name)
}
