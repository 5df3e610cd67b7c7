package bill

type Category struct {
	Name         string   `json:"name"`
	AccountLabel string   `json:"account_label"`
	Providers    []string `json:"providers"`
}

var Catalog = []Category{
	{Name: "Airtime", AccountLabel: "Phone Number", Providers: []string{"MTN", "Airtel", "Glo", "9mobile"}},
	{Name: "Electricity", AccountLabel: "Meter Number", Providers: []string{"IKEDC", "EKEDC", "AEDC", "PHED"}},
	{Name: "Data", AccountLabel: "Phone Number", Providers: []string{"MTN Data", "Airtel Data", "Glo Data", "9mobile Data"}},
	{Name: "TV", AccountLabel: "Card Number", Providers: []string{"DSTV", "GOTV", "StarTimes"}},
}

func FindCategory(name string) (Category, bool) {
	for _, c := range Catalog {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

func (c Category) HasProvider(provider string) bool {
	for _, p := range c.Providers {
		if p == provider {
			return true
		}
	}
	return false
}
