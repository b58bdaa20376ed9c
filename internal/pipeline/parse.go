package pipeline

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"potbs/internal"
	"potbs/internal/util"
)

const Currency = "doubloons"

var (
	reDays         = regexp.MustCompile(`(\d+)d`)
	reHours        = regexp.MustCompile(`(\d+)h`)
	reMinutes      = regexp.MustCompile(`(\d+)m`)
	reDecimalHours = regexp.MustCompile(`(\d+\.?\d*)\s*hour`)
	reItemSplit    = regexp.MustCompile(`[,\n\r]+`)
)

// ParseDuration reads labour text as fractional hours. Unit-suffixed parts
// ("1d 12h 30m") win; the decimal form ("0.75 hour(s)") is only consulted
// when no unit matched. Unparseable text is zero hours.
func ParseDuration(text string) float64 {
	total := 0.0
	if m := reDays.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			total += float64(n) * 24
		}
	}
	if m := reHours.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			total += float64(n)
		}
	}
	if m := reMinutes.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			total += float64(n) / 60
		}
	}

	if total == 0 {
		if m := reDecimalHours.FindStringSubmatch(text); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				total = v
			}
		}
	}

	return total
}

func ParseLabour(text string) internal.LabourInfo {
	return internal.LabourInfo{RawText: text, ParsedHours: ParseDuration(text)}
}

// ParseCost takes the first digit run as the amount; text without digits
// keeps a nil amount so "unknown" stays distinct from "free".
func ParseCost(text string) internal.CostInfo {
	info := internal.CostInfo{RawText: text, Currency: Currency}
	if n, ok := util.FirstDigits(text); ok {
		info.Amount = &n
	}
	return info
}

// ParseItems reads name/quantity pairs from a table cell. With hyperlinks
// present, each link text is looked up as "name: qty" in the cell text and
// links without a quantity are dropped, not guessed; the count of drops is
// returned. Plain-text cells fall back to comma-separated "name: qty"
// segments with a default quantity of one.
func ParseItems(cell *goquery.Selection) ([]internal.Item, int) {
	links := cell.Find("a")
	if links.Length() == 0 {
		return parseItemsText(cell.Text()), 0
	}

	cellText := cell.Text()
	items := []internal.Item{}
	dropped := 0
	links.Each(func(_ int, link *goquery.Selection) {
		name := strings.TrimSpace(link.Text())
		if name == "" {
			return
		}
		re := regexp.MustCompile(regexp.QuoteMeta(name) + `:\s*(\d+)`)
		m := re.FindStringSubmatch(cellText)
		if m == nil {
			dropped++
			return
		}
		qty, err := strconv.Atoi(m[1])
		if err != nil || qty < 1 {
			dropped++
			return
		}
		items = append(items, internal.Item{Name: name, Quantity: qty})
	})
	return items, dropped
}

func parseItemsText(text string) []internal.Item {
	items := []internal.Item{}
	for _, part := range reItemSplit.Split(text, -1) {
		part = strings.TrimSpace(part)
		if part == "" || !strings.Contains(part, ":") {
			continue
		}
		idx := strings.LastIndex(part, ":")
		name := strings.TrimSpace(part[:idx])
		if name == "" {
			continue
		}
		qty := 1
		if n, ok := util.FirstDigits(part[idx+1:]); ok {
			qty = n
		}
		if qty < 1 {
			continue
		}
		items = append(items, internal.Item{Name: name, Quantity: qty})
	}
	return items
}
