package cash

import (
	"sort"

	"github.com/temoto/till/currency"
)

type bucket struct {
	nominal currency.Nominal
	// FIFO, oldest first
	bills []CashBill
}

// shelf keeps buckets sorted by nominal, largest first.
// Empty buckets are kept.
type shelf struct {
	buckets []*bucket
}

func (self *shelf) index(n currency.Nominal) int {
	return sort.Search(len(self.buckets), func(i int) bool { return self.buckets[i].nominal <= n })
}

func (self *shelf) get(n currency.Nominal) *bucket {
	i := self.index(n)
	if i < len(self.buckets) && self.buckets[i].nominal == n {
		return self.buckets[i]
	}
	return nil
}

func (self *shelf) ensure(n currency.Nominal) *bucket {
	i := self.index(n)
	if i < len(self.buckets) && self.buckets[i].nominal == n {
		return self.buckets[i]
	}
	b := &bucket{nominal: n}
	self.buckets = append(self.buckets, nil)
	copy(self.buckets[i+1:], self.buckets[i:])
	self.buckets[i] = b
	return b
}

func (self *shelf) count(n currency.Nominal) uint {
	if b := self.get(n); b != nil {
		return uint(len(b.bills))
	}
	return 0
}

// take moves count oldest bills of nominal n to the end of dst.
// Caller must check availability.
func (self *shelf) take(n currency.Nominal, count uint, dst []CashBill) []CashBill {
	if count == 0 {
		return dst
	}
	b := self.get(n)
	if b == nil || uint(len(b.bills)) < count {
		panic("code error shelf.take not enough bills")
	}
	dst = append(dst, b.bills[:count]...)
	rest := make([]CashBill, len(b.bills)-int(count))
	copy(rest, b.bills[count:])
	b.bills = rest
	return dst
}

func (self *shelf) counts() *currency.NominalGroup {
	ng := currency.NewNominalGroup(self.nominals()...)
	for _, b := range self.buckets {
		if err := ng.Add(b.nominal, uint(len(b.bills))); err != nil {
			panic("code error shelf.counts: " + err.Error())
		}
	}
	return ng
}

func (self *shelf) nominals() []currency.Nominal {
	ns := make([]currency.Nominal, len(self.buckets))
	for i, b := range self.buckets {
		ns[i] = b.nominal
	}
	return ns
}
