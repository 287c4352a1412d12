package cash

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/juju/errors"
	"github.com/temoto/till/currency"
)

// CashBill is one physical instrument. Two bills of same value are different bills.
type CashBill interface {
	Value() currency.Amount
	CurrencyLabel() string
	Character() string
}

// Minter creates bills of one family.
type Minter interface {
	Label() string
	// largest first
	Nominals() []currency.Nominal
	Mint(n currency.Nominal) (CashBill, error)
}

// UsdDenomination is face value of US dollar bill.
type UsdDenomination currency.Nominal

const (
	UsdOne     UsdDenomination = 1
	UsdTwo     UsdDenomination = 2
	UsdFive    UsdDenomination = 5
	UsdTen     UsdDenomination = 10
	UsdTwenty  UsdDenomination = 20
	UsdFifty   UsdDenomination = 50
	UsdHundred UsdDenomination = 100
)

const UsdLabel = "USD"

// UsdDenominations lists bills in circulation, largest first.
func UsdDenominations() []UsdDenomination {
	return []UsdDenomination{UsdHundred, UsdFifty, UsdTwenty, UsdTen, UsdFive, UsdTwo, UsdOne}
}

func (self UsdDenomination) Character() (string, error) {
	switch self {
	case UsdOne:
		return "Washington", nil
	case UsdTwo:
		return "Jefferson", nil
	case UsdFive:
		return "Lincoln", nil
	case UsdTen:
		return "Hamilton", nil
	case UsdTwenty:
		return "Jackson", nil
	case UsdFifty:
		return "Grant", nil
	case UsdHundred:
		return "Franklin", nil
	}
	return "", errors.Annotatef(ErrFormat, "usd denomination=%d", self)
}

type UsdBill struct {
	denomination UsdDenomination
	character    string
	serial       uuid.UUID
}

func NewUsdBill(d UsdDenomination) (*UsdBill, error) {
	character, err := d.Character()
	if err != nil {
		return nil, err
	}
	return &UsdBill{denomination: d, character: character, serial: uuid.New()}, nil
}

func (self *UsdBill) Value() currency.Amount        { return currency.Amount(self.denomination) }
func (self *UsdBill) CurrencyLabel() string         { return UsdLabel }
func (self *UsdBill) Character() string             { return self.character }
func (self *UsdBill) Denomination() UsdDenomination { return self.denomination }
func (self *UsdBill) Serial() uuid.UUID             { return self.serial }
func (self *UsdBill) String() string                { return formatBill(self) }

type usdMinter struct{}

// USD mints UsdBill.
var USD Minter = usdMinter{}

func (usdMinter) Label() string { return UsdLabel }
func (usdMinter) Nominals() []currency.Nominal {
	ds := UsdDenominations()
	ns := make([]currency.Nominal, len(ds))
	for i, d := range ds {
		ns[i] = currency.Nominal(d)
	}
	return ns
}
func (usdMinter) Mint(n currency.Nominal) (CashBill, error) {
	b, err := NewUsdBill(UsdDenomination(n))
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Family is a bill family registered at runtime, e.g. from config.
type Family struct {
	label      string
	characters map[currency.Nominal]string
	nominals   []currency.Nominal
}

func NewFamily(label string, characters map[currency.Nominal]string) (*Family, error) {
	if label == "" {
		return nil, errors.NotValidf("family label empty")
	}
	if len(characters) == 0 {
		return nil, errors.NotValidf("family=%s without nominals", label)
	}
	f := &Family{
		label:      label,
		characters: make(map[currency.Nominal]string, len(characters)),
		nominals:   make([]currency.Nominal, 0, len(characters)),
	}
	for n, c := range characters {
		if n == 0 || n > currency.MaxNominal {
			return nil, errors.NotValidf("family=%s nominal=%d", label, n)
		}
		f.characters[n] = c
		f.nominals = append(f.nominals, n)
	}
	sort.Slice(f.nominals, func(i, j int) bool { return f.nominals[i] > f.nominals[j] })
	return f, nil
}

func (self *Family) Label() string { return self.label }

func (self *Family) Nominals() []currency.Nominal {
	ns := make([]currency.Nominal, len(self.nominals))
	copy(ns, self.nominals)
	return ns
}

func (self *Family) NewBill(n currency.Nominal) (*FamilyBill, error) {
	if _, ok := self.characters[n]; !ok {
		return nil, errors.Annotatef(ErrFormat, "family=%s nominal=%d", self.label, n)
	}
	return &FamilyBill{family: self, nominal: n, serial: uuid.New()}, nil
}

func (self *Family) Mint(n currency.Nominal) (CashBill, error) {
	b, err := self.NewBill(n)
	if err != nil {
		return nil, err
	}
	return b, nil
}

type FamilyBill struct {
	family  *Family
	nominal currency.Nominal
	serial  uuid.UUID
}

func (self *FamilyBill) Value() currency.Amount { return currency.Amount(self.nominal) }
func (self *FamilyBill) CurrencyLabel() string  { return self.family.label }
func (self *FamilyBill) Character() string      { return self.family.characters[self.nominal] }
func (self *FamilyBill) Serial() uuid.UUID      { return self.serial }
func (self *FamilyBill) String() string         { return formatBill(self) }

func formatBill(b CashBill) string {
	return fmt.Sprintf("%s%d(%s)", b.CurrencyLabel(), b.Value(), b.Character())
}

// MintMany is convenience for tests and opening float.
func MintMany(m Minter, ns ...currency.Nominal) ([]CashBill, error) {
	bills := make([]CashBill, 0, len(ns))
	for _, n := range ns {
		b, err := m.Mint(n)
		if err != nil {
			return nil, err
		}
		bills = append(bills, b)
	}
	return bills, nil
}

// sumBills returns ok=false on overflow.
func sumBills(bills []CashBill) (currency.Amount, bool) {
	values := make([]currency.Amount, len(bills))
	for i, b := range bills {
		values[i] = b.Value()
	}
	return currency.Sum(values...)
}
