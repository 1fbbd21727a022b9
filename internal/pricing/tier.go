// Package pricing maps a movie's age to a price tier and computes what a
// rental costs. All amounts are exact decimals in the service's base currency.
package pricing

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tier is the pricing bracket of a movie derived from its age in whole weeks.
type Tier string

const (
	TierNew     Tier = "NEW"
	TierRegular Tier = "REGULAR"
	TierOld     Tier = "OLD"
)

// Week boundaries between tiers. A movie is NEW up to and including
// WeeksNew, REGULAR while strictly below WeeksRegular and OLD afterwards.
const (
	WeeksNew     = 52
	WeeksRegular = 162
)

var (
	priceNew     = decimal.RequireFromString("5.00")
	priceRegular = decimal.RequireFromString("3.49")
	priceOld     = decimal.RequireFromString("1.99")
)

const day = 24 * time.Hour

// Classify returns the tier of a movie released on releaseDate as seen on
// referenceDate. Movies not released yet are always NEW.
func Classify(releaseDate, referenceDate time.Time) Tier {
	release, ref := civil(releaseDate), civil(referenceDate)
	if release.After(ref) {
		return TierNew
	}
	return TierForWeek(WeeksBetween(release, ref))
}

// TierForWeek returns the tier that applies to a movie that is weeks whole
// weeks past its release. Negative values mean the movie is not out yet.
func TierForWeek(weeks int) Tier {
	switch {
	case weeks <= WeeksNew:
		return TierNew
	case weeks < WeeksRegular:
		return TierRegular
	default:
		return TierOld
	}
}

// UnitPrice is the weekly price of a tier. Unknown tiers cost as much as NEW.
func UnitPrice(t Tier) decimal.Decimal {
	switch t {
	case TierRegular:
		return priceRegular
	case TierOld:
		return priceOld
	default:
		return priceNew
	}
}

// WeeksBetween counts whole calendar weeks from from to to, truncated toward
// zero. The result is negative when to is before from.
func WeeksBetween(from, to time.Time) int {
	days := int(civil(to).Sub(civil(from)) / day)
	return days / 7
}

// RentalTotal prices a rental of durationWeeks weeks for a movie that is
// startOffsetWeeks weeks past release when the rental begins. Every week is
// billed at the tier of its own distance from release. The billed window
// covers week indexes [start+duration, start+2*duration), which is the
// window existing invoices were computed with.
func RentalTotal(startOffsetWeeks, durationWeeks int) decimal.Decimal {
	total := decimal.Zero
	if durationWeeks <= 0 {
		return total
	}
	first := startOffsetWeeks + durationWeeks
	for w := first; w < first+durationWeeks; w++ {
		total = total.Add(UnitPrice(TierForWeek(w)))
	}
	return total
}

// RentalTotalAt prices a rental starting at start for a movie released on
// releaseDate.
func RentalTotalAt(releaseDate, start time.Time, durationWeeks int) decimal.Decimal {
	return RentalTotal(WeeksBetween(releaseDate, start), durationWeeks)
}

// civil drops the clock part so that week arithmetic works on calendar days.
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
