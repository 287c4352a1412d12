package state

import (
	"path/filepath"
	"sort"

	"github.com/hashicorp/hcl"
	"github.com/juju/errors"
	"github.com/temoto/till/cash"
	"github.com/temoto/till/currency"
	"github.com/temoto/till/helpers"
	"github.com/temoto/till/log2"
)

type Config struct {
	// includeSeen contains absolute paths to prevent include loops
	includeSeen map[string]struct{}
	// only used for Unmarshal, do not access
	XXX_Include []ConfigSource `hcl:"include"`

	Currencies []CurrencyConfig `hcl:"currency"`
	Log        struct {
		Level string `hcl:"level"`
	} `hcl:"log"`
	Money struct {
		Scale int `hcl:"scale"`
	} `hcl:"money"`
	Till struct {
		Currency string      `hcl:"currency"`
		Strategy string      `hcl:"strategy"`
		Float    []FloatItem `hcl:"float"`
	} `hcl:"till"`
}

type ConfigSource struct {
	Name     string `hcl:"name,key"`
	Optional bool   `hcl:"optional"`
}

type CurrencyConfig struct {
	Label    string          `hcl:"label,key"`
	Nominals []NominalConfig `hcl:"nominal"`
}

type NominalConfig struct {
	Value     string `hcl:"value,key"`
	Character string `hcl:"character"`
}

type FloatItem struct {
	Nominal string `hcl:"nominal,key"`
	Count   int    `hcl:"count"`
}

// Scale is count of lowest currency units in one major unit, at least 1.
func (c *Config) Scale() int {
	if c.Money.Scale < 1 {
		return 1
	}
	return c.Money.Scale
}

func (c *Config) LogLevel() (log2.Level, error) { return log2.ParseLevel(c.Log.Level) }

func (c *Config) Strategy() (currency.ExpendStrategy, error) {
	s, err := currency.ParseExpendStrategy(c.Till.Strategy)
	return s, errors.Annotate(err, "config till.strategy")
}

// Minter for till.currency, "USD" unless overridden by currency block is built in.
func (c *Config) Minter() (cash.Minter, error) {
	label := c.Till.Currency
	if label == "" {
		label = cash.UsdLabel
	}
	for _, cc := range c.Currencies {
		if cc.Label == label {
			f, err := cc.family()
			if err != nil {
				return nil, err
			}
			return f, nil
		}
	}
	if label == cash.UsdLabel {
		return cash.USD, nil
	}
	return nil, errors.NotFoundf("config till.currency=%s", label)
}

// OpeningFloat mints bills to deposit at start, largest nominal first.
func (c *Config) OpeningFloat(m cash.Minter) ([]cash.CashBill, error) {
	items := make([]FloatItem, len(c.Till.Float))
	copy(items, c.Till.Float)
	nominals := make(map[string]currency.Nominal, len(items))
	for _, item := range items {
		n, err := currency.ParseNominal(item.Nominal)
		if err != nil {
			return nil, errors.Annotate(err, "config till.float")
		}
		if item.Count < 0 {
			return nil, errors.NotValidf("config till.float nominal=%s count=%d", item.Nominal, item.Count)
		}
		nominals[item.Nominal] = n
	}
	sort.SliceStable(items, func(i, j int) bool { return nominals[items[i].Nominal] > nominals[items[j].Nominal] })

	bills := make([]cash.CashBill, 0, 32)
	for _, item := range items {
		for i := 0; i < item.Count; i++ {
			b, err := m.Mint(nominals[item.Nominal])
			if err != nil {
				return nil, errors.Annotatef(err, "config till.float nominal=%s", item.Nominal)
			}
			bills = append(bills, b)
		}
	}
	return bills, nil
}

// NewRegister validates till config and returns register with opening float deposited.
func (c *Config) NewRegister(log *log2.Log) (*cash.Register, cash.Minter, error) {
	errs := make([]error, 0, 4)
	strategy, err := c.Strategy()
	if err != nil {
		errs = append(errs, err)
	}
	m, err := c.Minter()
	if err != nil {
		errs = append(errs, err)
	}
	if _, err = c.LogLevel(); err != nil {
		errs = append(errs, errors.Annotate(err, "config log.level"))
	}
	if err = helpers.FoldErrors(errs); err != nil {
		return nil, nil, err
	}
	bills, err := c.OpeningFloat(m)
	if err != nil {
		return nil, nil, err
	}
	r := cash.NewRegister(cash.WithStrategy(strategy), cash.WithLog(log))
	r.AddBills(bills)
	return r, m, nil
}

func (cc *CurrencyConfig) family() (*cash.Family, error) {
	characters := make(map[currency.Nominal]string, len(cc.Nominals))
	for _, nc := range cc.Nominals {
		n, err := currency.ParseNominal(nc.Value)
		if err != nil {
			return nil, errors.Annotatef(err, "config currency=%s", cc.Label)
		}
		if _, ok := characters[n]; ok {
			return nil, errors.NotValidf("config currency=%s duplicate nominal=%d", cc.Label, n)
		}
		characters[n] = nc.Character
	}
	f, err := cash.NewFamily(cc.Label, characters)
	return f, errors.Annotatef(err, "config currency=%s", cc.Label)
}

func (c *Config) read(log *log2.Log, fs FullReader, source ConfigSource, errs *[]error) {
	norm := fs.Normalize(source.Name)
	if _, ok := c.includeSeen[norm]; ok {
		*errs = append(*errs, errors.Errorf("config duplicate source=%s", source.Name))
		return
	}
	log.Debugf("config reading source='%s' path=%s", source.Name, norm)
	c.includeSeen[source.Name] = struct{}{}
	c.includeSeen[norm] = struct{}{}

	bs, err := fs.ReadAll(norm)
	if bs == nil && err == nil {
		if !source.Optional {
			err = errors.NotFoundf("config required name=%s path=%s", source.Name, norm)
			*errs = append(*errs, err)
		}
		return
	}
	if err != nil {
		*errs = append(*errs, errors.Annotatef(err, "config source=%s", source.Name))
		return
	}

	err = hcl.Unmarshal(bs, c)
	if err != nil {
		err = errors.Annotatef(err, "config unmarshal source=%s content='%s'", source.Name, string(bs))
		*errs = append(*errs, err)
		return
	}

	var includes []ConfigSource
	includes, c.XXX_Include = c.XXX_Include, nil
	for _, include := range includes {
		includeNorm := fs.Normalize(include.Name)
		if _, ok := c.includeSeen[includeNorm]; ok {
			err = errors.Errorf("config include loop: from=%s include=%s", source.Name, include.Name)
			*errs = append(*errs, err)
			continue
		}
		c.read(log, fs, include, errs)
	}
}

func ReadConfig(log *log2.Log, fs FullReader, names ...string) (*Config, error) {
	if len(names) == 0 {
		return nil, errors.New("code error ReadConfig() without names")
	}

	if osfs, ok := fs.(*OsFullReader); ok {
		dir, name := filepath.Split(names[0])
		osfs.SetBase(dir)
		names[0] = name
	}
	c := &Config{
		includeSeen: make(map[string]struct{}),
	}
	errs := make([]error, 0, 8)
	for _, name := range names {
		c.read(log, fs, ConfigSource{Name: name}, &errs)
	}
	return c, helpers.FoldErrors(errs)
}

func MustReadConfig(log *log2.Log, fs FullReader, names ...string) *Config {
	c, err := ReadConfig(log, fs, names...)
	if err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	return c
}
