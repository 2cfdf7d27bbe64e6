// Package listing holds the page math and the filter/sort predicates used
// by the destination grids.
package listing

import (
	"regexp"
	"sort"
	"strconv"

	"github.com/fMoyano90/universonomada-web/internal/models"
)

// Pages derives the page count from a total; never less than one so the
// empty grid still renders a single page link.
func Pages(total, pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	pages := (total + pageSize - 1) / pageSize
	if pages < 1 {
		pages = 1
	}
	return pages
}

// ClampPage keeps page requests inside [1, totalPages]; out-of-range
// requests (previous on page one, a direct jump past the end) are no-ops
// onto the nearest boundary.
func ClampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// PageNumbers enumerates the page links for the template.
func PageNumbers(totalPages int) []int {
	nums := make([]int, totalPages)
	for i := range nums {
		nums[i] = i + 1
	}
	return nums
}

// Price brackets offered by the static international listing filter.
const (
	PriceAny    = ""
	PriceLow    = "lt1500"     // under $1.500.000
	PriceMedium = "1500to3000" // $1.500.000 to $3.000.000
	PriceHigh   = "gt3000"     // over $3.000.000
)

const (
	SortNone      = ""
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortDuration  = "duration_desc"
)

func matchesPrice(d models.Destination, bracket string) bool {
	switch bracket {
	case PriceLow:
		return d.Price < 1_500_000
	case PriceMedium:
		return d.Price >= 1_500_000 && d.Price <= 3_000_000
	case PriceHigh:
		return d.Price > 3_000_000
	}
	return true
}

func matchesAvailability(d models.Destination, tag string) bool {
	if tag == "" {
		return true
	}
	for _, t := range d.ActivityType {
		if t == tag {
			return true
		}
	}
	return false
}

var durationDigits = regexp.MustCompile(`\d+`)

// durationDays pulls the leading day count out of strings like
// "5 días / 4 noches". Unparseable durations sort as zero.
func durationDays(d models.Destination) int {
	match := durationDigits.FindString(d.Duration)
	if match == "" {
		return 0
	}
	n, _ := strconv.Atoi(match)
	return n
}

// FilterSort applies the price bracket and availability tag, then the
// selected comparator. Everything is recomputed fully on each call; the
// input order is the insertion order and SortNone keeps it.
func FilterSort(items []models.Destination, priceBracket, availability, sortBy string) []models.Destination {
	var out []models.Destination
	for _, d := range items {
		if matchesPrice(d, priceBracket) && matchesAvailability(d, availability) {
			out = append(out, d)
		}
	}

	switch sortBy {
	case SortPriceAsc:
		sort.Slice(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceDesc:
		sort.Slice(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case SortDuration:
		sort.Slice(out, func(i, j int) bool { return durationDays(out[i]) > durationDays(out[j]) })
	}
	return out
}
