package pricing

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/spesasmart/pricing/internal/domain/models"
)

// catalogOffer builds an active offer of its own product for Jan 1..10 2025.
func catalogOffer(slug, name, category, price string, original string) models.CatalogOffer {
	o := offer(uuid.New(), slug, price, day(2025, time.January, 1), day(2025, time.January, 10))
	o.ProductID = uuid.New()
	o.ChainSlug = slug
	if original != "" {
		o.OriginalPrice = decp(original)
	}
	co := models.CatalogOffer{Offer: o, ProductName: name}
	if category != "" {
		co.Category = strp(category)
	}
	return co
}

func names(offers []models.CatalogOffer) []string {
	out := make([]string, 0, len(offers))
	for _, o := range offers {
		out = append(out, o.ProductName)
	}
	return out
}

func equalNames(got []models.CatalogOffer, want ...string) bool {
	g := names(got)
	if len(g) != len(want) {
		return false
	}
	for i := range g {
		if g[i] != want[i] {
			return false
		}
	}
	return true
}

func catalogFixture() []models.CatalogOffer {
	expired := catalogOffer("coop", "Burro", "Latticini", "1.50", "2.00")
	expired.ValidTo = dayp(2025, time.January, 2)
	return []models.CatalogOffer{
		catalogOffer("lidl", "Latte intero", "Latticini", "1.39", "1.79"), // 22.35%
		catalogOffer("esselunga", "Caffè macinato", "Caffè", "3.49", "5.39"), // 35.25%
		catalogOffer("coop", "Yogurt greco", "Latticini yogurt", "0.99", ""),
		catalogOffer("lidl", "Acqua", "", "0.19", "0.25"), // 24%
		expired,
	}
}

func TestFilterOffers(t *testing.T) {
	asOf := day(2025, time.January, 5)
	cases := []struct {
		name string
		q    models.OfferQuery
		want []string
	}{
		{name: "no filters drops expired", q: models.OfferQuery{}, want: []string{"Latte intero", "Caffè macinato", "Yogurt greco", "Acqua"}},
		{name: "chain slugs any of", q: models.OfferQuery{ChainSlugs: []string{"LIDL", "coop"}}, want: []string{"Latte intero", "Yogurt greco", "Acqua"}},
		{name: "category substring", q: models.OfferQuery{Category: "latticini"}, want: []string{"Latte intero", "Yogurt greco"}},
		{name: "min discount inclusive", q: models.OfferQuery{MinDiscount: decp("24")}, want: []string{"Caffè macinato", "Acqua"}},
		{name: "combined", q: models.OfferQuery{ChainSlugs: []string{"lidl"}, Category: "latt", MinDiscount: decp("10")}, want: []string{"Latte intero"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FilterOffers(catalogFixture(), tc.q, asOf)
			if !equalNames(got, tc.want...) {
				t.Fatalf("got %v, want %v", names(got), tc.want)
			}
		})
	}
}

func TestFilterOffers_DerivesDiscount(t *testing.T) {
	got := FilterOffers(catalogFixture(), models.OfferQuery{ChainSlugs: []string{"esselunga"}}, day(2025, time.January, 5))
	if len(got) != 1 || got[0].DiscountPct == nil {
		t.Fatalf("discount not derived: %+v", got)
	}
	assertDecEqual(t, "discount", *got[0].DiscountPct, "35.25")
}

func TestSortOffers(t *testing.T) {
	asOf := day(2025, time.January, 5)
	cases := []struct {
		by   models.OfferSort
		want []string
	}{
		{by: models.SortByPrice, want: []string{"Acqua", "Yogurt greco", "Latte intero", "Caffè macinato"}},
		{by: models.SortByDiscount, want: []string{"Caffè macinato", "Acqua", "Latte intero", "Yogurt greco"}},
		{by: models.SortByName, want: []string{"Acqua", "Caffè macinato", "Latte intero", "Yogurt greco"}},
	}
	for _, tc := range cases {
		t.Run(string(tc.by), func(t *testing.T) {
			got := FilterOffers(catalogFixture(), models.OfferQuery{}, asOf)
			SortOffers(got, tc.by)
			if !equalNames(got, tc.want...) {
				t.Fatalf("got %v, want %v", names(got), tc.want)
			}
		})
	}
}

func TestSortOffers_TiesKeepInputOrder(t *testing.T) {
	a := catalogOffer("lidl", "Pasta", "Pasta", "0.89", "")
	b := catalogOffer("coop", "Pasta", "Pasta", "0.89", "")
	offers := []models.CatalogOffer{a, b}
	SortOffers(offers, models.SortByPrice)
	if offers[0].ID != a.ID || offers[1].ID != b.ID {
		t.Fatalf("tied offers reordered")
	}
}

func TestPage(t *testing.T) {
	offers := FilterOffers(catalogFixture(), models.OfferQuery{}, day(2025, time.January, 5))
	cases := []struct {
		name          string
		limit, offset int
		want          int
	}{
		{name: "first page", limit: 2, offset: 0, want: 2},
		{name: "last partial page", limit: 3, offset: 3, want: 1},
		{name: "past the end", limit: 2, offset: 10, want: 0},
		{name: "no limit", limit: 0, offset: 1, want: 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Page(offers, tc.limit, tc.offset)
			if got == nil || len(got) != tc.want {
				t.Fatalf("got %d offers, want %d", len(got), tc.want)
			}
		})
	}
}

func TestActiveOffers_DefaultsAndClamp(t *testing.T) {
	asOf := day(2025, time.January, 5)
	got := ActiveOffers(catalogFixture(), models.OfferQuery{Sort: models.SortByName, Limit: 2, Offset: 1}, asOf)
	if !equalNames(got, "Caffè macinato", "Latte intero") {
		t.Fatalf("got %v", names(got))
	}
	if n := ClampLimit(0, DefaultOfferLimit, MaxOfferLimit); n != DefaultOfferLimit {
		t.Fatalf("default limit=%d", n)
	}
	if n := ClampLimit(1000, DefaultOfferLimit, MaxOfferLimit); n != MaxOfferLimit {
		t.Fatalf("clamped limit=%d", n)
	}
}

func TestBestDiscounts(t *testing.T) {
	asOf := day(2025, time.January, 5)
	got := BestDiscounts(catalogFixture(), "", 0, asOf)
	if !equalNames(got, "Caffè macinato", "Acqua", "Latte intero") {
		t.Fatalf("got %v", names(got))
	}
	if got := BestDiscounts(catalogFixture(), "LATT", 0, asOf); !equalNames(got, "Latte intero") {
		t.Fatalf("category filter: got %v", names(got))
	}
	if got := BestDiscounts(catalogFixture(), "", 1, asOf); !equalNames(got, "Caffè macinato") {
		t.Fatalf("limit: got %v", names(got))
	}
}

func TestCategoryOffers_ExactMatchCheapestFirst(t *testing.T) {
	asOf := day(2025, time.January, 5)
	extra := catalogOffer("coop", "Mozzarella", "latticini", "0.79", "")
	offers := append(catalogFixture(), extra)

	got := CategoryOffers(offers, "Latticini", 0, asOf)
	if !equalNames(got, "Mozzarella", "Latte intero") {
		t.Fatalf("got %v", names(got))
	}
}

func TestAttachPrevious(t *testing.T) {
	offers := FilterOffers(catalogFixture(), models.OfferQuery{}, day(2025, time.January, 5))
	target := offers[0]

	older := offer(lidl, "Lidl", "1.59", day(2024, time.December, 1), day(2024, time.December, 7))
	older.ProductID = target.ProductID
	shadowed := offer(coop, "Coop", "1.69", day(2024, time.November, 1), day(2024, time.November, 7))
	shadowed.ProductID = target.ProductID

	AttachPrevious(offers, []models.Offer{older, shadowed})
	if offers[0].Previous == nil || offers[0].Previous.ChainName != "Lidl" {
		t.Fatalf("previous=%+v, want the first expired entry", offers[0].Previous)
	}
	assertDecEqual(t, "previous price", offers[0].Previous.Price, "1.59")
	for _, o := range offers[1:] {
		if o.Previous != nil {
			t.Fatalf("%s should have no previous price", o.ProductName)
		}
	}

	ids := ProductIDs(append(offers, offers[0]))
	if len(ids) != len(offers) || ids[0] != target.ProductID {
		t.Fatalf("ProductIDs=%v", ids)
	}
}
