// Package catalog holds the static brand, sex and size reference data the bot
// offers in its inline keyboards, plus lookups between callback keys and the
// display labels stored in the database.
package catalog

// Item pairs a user-visible label with its stable callback key.
type Item struct {
	Label string
	Key   string
}

// Brands lists the shoe brands available for subscription, in menu order.
var Brands = []Item{
	{Label: "Nike", Key: "nike"},
	{Label: "Adidas", Key: "adidas"},
	{Label: "Asics", Key: "asics"},
	{Label: "New Balance", Key: "new_balance"},
	{Label: "Saucony", Key: "saucony"},
	{Label: "Brooks", Key: "brooks"},
	{Label: "Hoka", Key: "hoka"},
	{Label: "Puma", Key: "puma"},
	{Label: "Mizuno", Key: "mizuno"},
	{Label: "On Running", Key: "on_running"},
	{Label: "Salomon", Key: "salomon"},
	{Label: "Altra", Key: "altra"},
	{Label: "Anta", Key: "anta"},
	{Label: "Skechers", Key: "skechers"},
	{Label: "Bmai", Key: "bmai"},
	{Label: "Li-Ning", Key: "li_ning"},
}

// Sexes lists the two targeting groups. Labels are what gets stored and shown.
var Sexes = []Item{
	{Label: "Мужской", Key: "male"},
	{Label: "Женский", Key: "female"},
}

// Sizes lists foot lengths in centimeters, comma as decimal separator.
var Sizes = []Item{
	{Label: "22,5", Key: "size_22_5"},
	{Label: "23", Key: "size_23"},
	{Label: "23,5", Key: "size_23_5"},
	{Label: "24", Key: "size_24"},
	{Label: "24,5", Key: "size_24_5"},
	{Label: "25", Key: "size_25"},
	{Label: "25,25", Key: "size_25_25"},
	{Label: "25,5", Key: "size_25_5"},
	{Label: "25,75", Key: "size_25_75"},
	{Label: "26", Key: "size_26"},
	{Label: "26,5", Key: "size_26_5"},
	{Label: "27", Key: "size_27"},
	{Label: "27,5", Key: "size_27_5"},
	{Label: "28", Key: "size_28"},
	{Label: "28,25", Key: "size_28_25"},
	{Label: "28,5", Key: "size_28_5"},
	{Label: "29", Key: "size_29"},
	{Label: "29,5", Key: "size_29_5"},
	{Label: "30", Key: "size_30"},
	{Label: "30,5", Key: "size_30_5"},
	{Label: "31", Key: "size_31"},
	{Label: "31,5", Key: "size_31_5"},
	{Label: "32", Key: "size_32"},
	{Label: "32,5", Key: "size_32_5"},
	{Label: "33", Key: "size_33"},
	{Label: "33,5", Key: "size_33_5"},
	{Label: "34", Key: "size_34"},
	{Label: "34,5", Key: "size_34_5"},
	{Label: "35", Key: "size_35"},
}

func byKey(items []Item, key string) (Item, bool) {
	for _, it := range items {
		if it.Key == key {
			return it, true
		}
	}
	return Item{}, false
}

func byLabel(items []Item, label string) (Item, bool) {
	for _, it := range items {
		if it.Label == label {
			return it, true
		}
	}
	return Item{}, false
}

// BrandByKey resolves a brand callback key to its catalog entry.
func BrandByKey(key string) (Item, bool) { return byKey(Brands, key) }

// SexByKey resolves a sex callback key to its catalog entry.
func SexByKey(key string) (Item, bool) { return byKey(Sexes, key) }

// SizeByKey resolves a size callback key to its catalog entry.
func SizeByKey(key string) (Item, bool) { return byKey(Sizes, key) }

// BrandByLabel resolves a stored brand label back to its catalog entry.
func BrandByLabel(label string) (Item, bool) { return byLabel(Brands, label) }

// SexByLabel resolves a stored sex label back to its catalog entry.
func SexByLabel(label string) (Item, bool) { return byLabel(Sexes, label) }

// SizeByLabel resolves a stored size label back to its catalog entry.
func SizeByLabel(label string) (Item, bool) { return byLabel(Sizes, label) }
