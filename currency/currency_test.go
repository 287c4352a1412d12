package currency

import (
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestNominalGroup(t *testing.T) *NominalGroup {
	ng := NewNominalGroup(10, 5, 2, 1)
	if err := ng.Add(101, 1); err == nil {
		t.Fatal("expected invalid nominal")
	}
	if err := ng.Add(10, 2); err != nil {
		t.Fatal(err)
	}
	if err := ng.Add(5, 8); err != nil {
		t.Fatal(err)
	}
	if err := ng.Add(2, 1); err != nil {
		t.Fatal(err)
	}
	if err := ng.Add(1, 3); err != nil {
		t.Fatal(err)
	}
	return ng
}

func testCheckNominalGroup(t *testing.T, strategy ExpendStrategy) {
	ng := createTestNominalGroup(t)

	total1 := ng.Total()
	if err := ng.Copy().Withdraw(nil, 17, strategy); err != nil {
		t.Fatal(err)
	}
	total2 := ng.Total()
	if err := ng.Withdraw(nil, 17, strategy); err != nil {
		t.Fatal(err)
	}
	total3 := ng.Total()
	if err := ng.Copy().Withdraw(nil, 100, strategy); err == nil {
		t.Fatal("expected withdraw error")
	}
	total4 := ng.Total()
	if err := ng.Withdraw(nil, 100, strategy); err == nil {
		t.Fatal("expected withdraw error")
	}
	total5 := ng.Total()
	const exptotal1 = 65
	const exptotal2 = 48
	const exptotal3 = 0
	if total1 != exptotal1 || total2 != exptotal1 {
		t.Fatalf("expected total1 %d == total2 %d == %d", total1, total2, exptotal1)
	}
	if total3 != exptotal2 || total4 != exptotal2 {
		t.Fatalf("expected total3 %d == total4 %d == %d", total3, total4, exptotal2)
	}
	if total5 != exptotal3 {
		t.Fatalf("expected total5 %d == %d", total5, exptotal3)
	}
}

func TestNominalGroup(t *testing.T) {
	t.Parallel()
	t.Run("ExpendLeastCount", func(t *testing.T) { testCheckNominalGroup(t, NewExpendLeastCount()) })
	t.Run("ExpendMostAvailable", func(t *testing.T) { testCheckNominalGroup(t, NewExpendMostAvailable()) })
}

func TestWithdrawLeastCount(t *testing.T) {
	t.Parallel()
	ng := NewNominalGroup(100, 20, 1)
	require.NoError(t, ng.Add(100, 1))
	require.NoError(t, ng.Add(20, 5))
	require.NoError(t, ng.Add(1, 1))

	to := NewNominalGroup(100, 20, 1)
	require.NoError(t, ng.Withdraw(to, 101, NewExpendLeastCount()))
	assert.Equal(t, "100:1,1:1,total:101", to.String())
	assert.Equal(t, "20:5,total:100", ng.String())
}

func TestWithdrawMostAvailable(t *testing.T) {
	t.Parallel()
	ng := NewNominalGroup(10, 5, 1)
	require.NoError(t, ng.Add(10, 1))
	require.NoError(t, ng.Add(5, 4))
	require.NoError(t, ng.Add(1, 2))

	to := NewNominalGroup()
	require.NoError(t, ng.Withdraw(to, 10, NewExpendMostAvailable()))
	assert.Equal(t, "5:2,total:10", to.String())
}

func TestWithdrawNonCanonical(t *testing.T) {
	t.Parallel()
	// greedy picks 4 first and gets stuck, although 3+3 exists
	ng := NewNominalGroup(4, 3)
	require.NoError(t, ng.Add(4, 1))
	require.NoError(t, ng.Add(3, 2))
	err := ng.Copy().Withdraw(nil, 6, NewExpendLeastCount())
	require.Error(t, err)
	assert.Equal(t, ErrNominalCount, errors.Cause(err))
	assert.Equal(t, Amount(10), ng.Total())
}

func TestNominalGroupIterOrder(t *testing.T) {
	t.Parallel()
	ng := NewNominalGroup(1, 50, 5, 0, 20)
	seen := []Nominal{}
	require.NoError(t, ng.Iter(func(n Nominal, c uint) error {
		seen = append(seen, n)
		return nil
	}))
	assert.Equal(t, []Nominal{50, 20, 5, 1}, seen)

	assert.Equal(t, ErrNominalInvalid, errors.Cause(ng.Add(0, 1)))
}

func TestAmountFormat(t *testing.T) {
	t.Parallel()
	cases := []struct {
		a      Amount
		scale  int
		expect string
	}{
		{0, 1, "0"},
		{120, 1, "120"},
		{120, 0, "120"},
		{120, 100, "1.2"},
		{105, 100, "1.05"},
		{7, 10, "0.7"},
		{4294967306, 1, "4294967306"},
		{18446744073709551615, 100, "184467440737095516.15"},
	}
	for _, c := range cases {
		assert.Equal(t, c.expect, c.a.Format(c.scale), "Format(%d, %d)", c.a, c.scale)
	}
}

func TestParseExpendStrategy(t *testing.T) {
	t.Parallel()
	for _, name := range []string{"", "least-count", "most-available"} {
		s, err := ParseExpendStrategy(name)
		assert.NoError(t, err, name)
		assert.NotNil(t, s, name)
	}
	_, err := ParseExpendStrategy("random")
	assert.True(t, errors.IsNotValid(err))
}

func TestParseNominal(t *testing.T) {
	t.Parallel()
	n, err := ParseNominal("20")
	require.NoError(t, err)
	assert.Equal(t, Nominal(20), n)
	n, err = ParseNominal("4294967295")
	require.NoError(t, err)
	assert.Equal(t, MaxNominal, n)

	for _, s := range []string{"", "0", "-5", "x", "4294967296", "1.5"} {
		_, err := ParseNominal(s)
		require.Error(t, err, s)
		assert.True(t, errors.IsNotValid(err), s)
		assert.Contains(t, err.Error(), "nominal="+s)
	}
}

func TestSum(t *testing.T) {
	t.Parallel()
	total, ok := Sum(1<<31+5, 1<<31+5)
	assert.True(t, ok)
	assert.Equal(t, Amount(4294967306), total)
	_, ok = Sum(1<<63, 1<<63)
	assert.False(t, ok)
	total, ok = Sum()
	assert.True(t, ok)
	assert.Equal(t, Amount(0), total)
}
