package usecase

import (
	"strings"

	"github.com/greenscan/backend/internal/classify"
	"github.com/greenscan/backend/internal/domain"
)

// groceryTerm is a common Norwegian grocery noun served without any upstream call
type groceryTerm struct {
	Name     string
	Category string
	English  string
	Synonyms []string
}

// Categories used by the grocery table
const (
	categoryFruit      = "Frukt og bær"
	categoryVegetables = "Grønnsaker"
	categoryDairy      = "Meieri"
	categoryMeat       = "Kjøtt"
	categoryFish       = "Fisk og sjømat"
	categoryBakery     = "Brød og korn"
	categoryEggs       = "Egg"
	categoryDrinks     = "Drikke"
)

var groceryTerms = []groceryTerm{
	{Name: "Banan", Category: categoryFruit, English: "banana", Synonyms: []string{"bananer"}},
	{Name: "Eple", Category: categoryFruit, English: "apple", Synonyms: []string{"epler"}},
	{Name: "Appelsin", Category: categoryFruit, English: "orange", Synonyms: []string{"appelsiner"}},
	{Name: "Pære", Category: categoryFruit, English: "pear", Synonyms: []string{"pærer"}},
	{Name: "Druer", Category: categoryFruit, English: "grapes", Synonyms: []string{"drue"}},
	{Name: "Jordbær", Category: categoryFruit, English: "strawberries", Synonyms: []string{"strawberry"}},
	{Name: "Blåbær", Category: categoryFruit, English: "blueberries", Synonyms: []string{"blueberry"}},
	{Name: "Sitron", Category: categoryFruit, English: "lemon", Synonyms: []string{"sitroner"}},
	{Name: "Avokado", Category: categoryFruit, English: "avocado", Synonyms: []string{"avocado"}},
	{Name: "Potet", Category: categoryVegetables, English: "potato", Synonyms: []string{"poteter", "potatoes"}},
	{Name: "Gulrot", Category: categoryVegetables, English: "carrot", Synonyms: []string{"gulrøtter", "carrots"}},
	{Name: "Løk", Category: categoryVegetables, English: "onion", Synonyms: []string{"rødløk", "onions"}},
	{Name: "Tomat", Category: categoryVegetables, English: "tomato", Synonyms: []string{"tomater", "tomatoes"}},
	{Name: "Agurk", Category: categoryVegetables, English: "cucumber"},
	{Name: "Brokkoli", Category: categoryVegetables, English: "broccoli"},
	{Name: "Paprika", Category: categoryVegetables, English: "peppers", Synonyms: []string{"bell pepper"}},
	{Name: "Salat", Category: categoryVegetables, English: "lettuce", Synonyms: []string{"isbergsalat", "hjertesalat"}},
	{Name: "Kål", Category: categoryVegetables, English: "cabbage", Synonyms: []string{"hodekål"}},
	{Name: "Spinat", Category: categoryVegetables, English: "spinach"},
	{Name: "Melk", Category: categoryDairy, English: "milk", Synonyms: []string{"helmelk", "lettmelk", "skummetmelk"}},
	{Name: "Yoghurt", Category: categoryDairy, English: "yogurt", Synonyms: []string{"yogurt"}},
	{Name: "Smør", Category: categoryDairy, English: "butter"},
	{Name: "Ost", Category: categoryDairy, English: "cheese", Synonyms: []string{"hvitost", "gulost"}},
	{Name: "Brunost", Category: categoryDairy, English: "brown cheese", Synonyms: []string{"geitost", "mysost"}},
	{Name: "Rømme", Category: categoryDairy, English: "sour cream"},
	{Name: "Fløte", Category: categoryDairy, English: "cream", Synonyms: []string{"matfløte", "kremfløte"}},
	{Name: "Egg", Category: categoryEggs, English: "eggs", Synonyms: []string{"frittgående egg"}},
	{Name: "Brød", Category: categoryBakery, English: "bread", Synonyms: []string{"grovbrød", "loff"}},
	{Name: "Knekkebrød", Category: categoryBakery, English: "crispbread"},
	{Name: "Havregryn", Category: categoryBakery, English: "oats", Synonyms: []string{"havre"}},
	{Name: "Ris", Category: categoryBakery, English: "rice"},
	{Name: "Pasta", Category: categoryBakery, English: "pasta", Synonyms: []string{"spaghetti", "makaroni"}},
	{Name: "Hvetemel", Category: categoryBakery, English: "wheat flour", Synonyms: []string{"mel"}},
	{Name: "Laks", Category: categoryFish, English: "salmon", Synonyms: []string{"laksefilet"}},
	{Name: "Torsk", Category: categoryFish, English: "cod", Synonyms: []string{"torskefilet"}},
	{Name: "Makrell", Category: categoryFish, English: "mackerel"},
	{Name: "Reker", Category: categoryFish, English: "shrimp"},
	{Name: "Kylling", Category: categoryMeat, English: "chicken", Synonyms: []string{"kyllingfilet", "kyllinglår"}},
	{Name: "Kjøttdeig", Category: categoryMeat, English: "ground beef", Synonyms: []string{"karbonadedeig"}},
	{Name: "Svinekjøtt", Category: categoryMeat, English: "pork", Synonyms: []string{"svinekotelett"}},
	{Name: "Vann", Category: categoryDrinks, English: "water", Synonyms: []string{"mineralvann"}},
	{Name: "Kaffe", Category: categoryDrinks, English: "coffee", Synonyms: []string{"filterkaffe"}},
}

// staticBarcodePrefix marks synthetic products built from the grocery table
const staticBarcodePrefix = "local:"

// keywords returns the folded name, synonyms and English name
func (t groceryTerm) keywords() []string {
	out := make([]string, 0, len(t.Synonyms)+2)
	out = append(out, classify.Fold(t.Name))
	for _, s := range t.Synonyms {
		out = append(out, classify.Fold(s))
	}
	if t.English != "" {
		out = append(out, classify.Fold(t.English))
	}
	return out
}

// matches reports whether the folded query names this term: the query equals
// or is contained in a keyword, starts with a keyword as a whole word, or
// equals the category.
func (t groceryTerm) matches(foldedQuery string) bool {
	if foldedQuery == "" {
		return false
	}
	for _, kw := range t.keywords() {
		if strings.Contains(kw, foldedQuery) || strings.HasPrefix(foldedQuery, kw+" ") {
			return true
		}
	}
	return foldedQuery == classify.Fold(t.Category)
}

// product builds the synthetic record for this term
func (t groceryTerm) product() domain.CanonicalProduct {
	p := domain.CanonicalProduct{
		Barcode:     staticBarcodePrefix + slugify(t.Name),
		Name:        t.Name,
		Category:    t.Category,
		IsNorwegian: true,
		NovaGroup:   1,
	}
	p.ApplyDefaults()
	return p
}

// matchGroceryTerms returns synthetic products for every table entry the query names
func matchGroceryTerms(query string) []domain.CanonicalProduct {
	folded := classify.Fold(strings.TrimSpace(query))
	var out []domain.CanonicalProduct
	for _, t := range groceryTerms {
		if t.matches(folded) {
			out = append(out, t.product())
		}
	}
	return out
}

// englishFor translates a single Norwegian grocery word to its English
// reference name, or returns "" when the word is not in the table.
func englishFor(word string) string {
	folded := classify.Fold(strings.TrimSpace(word))
	if folded == "" {
		return ""
	}
	for _, t := range groceryTerms {
		if classify.Fold(t.Name) == folded {
			return t.English
		}
		for _, s := range t.Synonyms {
			if classify.Fold(s) == folded {
				return t.English
			}
		}
	}
	return ""
}

func slugify(s string) string {
	return strings.Join(strings.Fields(classify.Fold(s)), "-")
}
