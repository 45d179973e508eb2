package board

import (
	"strconv"
	"strings"
	"time"

	"github.com/goodsign/monday"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// InvalidDate is displayed for due dates that cannot be parsed.
const InvalidDate = "Invalid Date"

// Supported lists the display locales, default first.
var Supported = []language.Tag{
	language.BrazilianPortuguese,
	language.AmericanEnglish,
}

var matcher = language.NewMatcher(Supported)

// MatchLocale picks the supported locale closest to prefs. Each pref may be a
// single BCP 47 tag or a whole Accept-Language header; unparsable entries are
// ignored. With no usable preference the default locale is returned.
func MatchLocale(prefs ...string) language.Tag {
	var tags []language.Tag
	for _, p := range prefs {
		if strings.TrimSpace(p) == "" {
			continue
		}
		t, _, err := language.ParseAcceptLanguage(p)
		if err != nil {
			continue
		}
		tags = append(tags, t...)
	}
	_, idx, _ := matcher.Match(tags...)
	return Supported[idx]
}

// longDate is the long date layout and month names of one locale.
type longDate struct {
	layout string
	names  monday.Locale
}

var longDates = map[string]longDate{
	"pt": {"2 de January de 2006", monday.LocalePtBR},
	"en": {"January 2, 2006", monday.LocaleEnUS},
}

// Formatter turns raw task fields into display text for one locale.
type Formatter struct {
	locale  language.Tag
	date    longDate
	printer *message.Printer
}

// NewFormatter creates a Formatter for locale.
func NewFormatter(locale language.Tag) *Formatter {
	base, _ := locale.Base()
	date, ok := longDates[base.String()]
	if !ok {
		date = longDates["pt"]
	}
	return &Formatter{
		locale:  locale,
		date:    date,
		printer: newPrinter(locale),
	}
}

// Catalog returns the texts of the formatter's locale, sharing its printer.
func (f *Formatter) Catalog() *Catalog { return &Catalog{printer: f.printer} }

// Locale returns the formatter's locale.
func (f *Formatter) Locale() language.Tag { return f.locale }

// FormatDate renders an ISO date (or RFC 3339 timestamp) as a long date.
// The value is pinned to UTC so that a date-only value never shifts a day in
// timezones west of Greenwich.
func (f *Formatter) FormatDate(iso string) string {
	t, ok := parseDate(iso)
	if !ok {
		return InvalidDate
	}
	return monday.Format(t, f.date.layout, f.date.names)
}

// DateInput returns the YYYY-MM-DD form used to seed a date input, or "".
func (f *Formatter) DateInput(iso string) string {
	t, ok := parseDate(iso)
	if !ok {
		return ""
	}
	return t.Format(time.DateOnly)
}

// FormatCost renders a cost with the locale's separators.
func (f *Formatter) FormatCost(cost float64) string {
	return f.printer.Sprintf("%v", number.Decimal(cost, number.MaxFractionDigits(2)))
}

// CostInput returns the plain form used to seed a cost input.
func CostInput(cost float64) string {
	return strconv.FormatFloat(cost, 'f', -1, 64)
}

var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	"2006-01-02T15:04:05",
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
