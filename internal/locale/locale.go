// Package locale formats counters and timestamps for the dashboard's display
// language.
package locale

import (
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter renders numbers and wall-clock times for one language.
type Formatter struct {
	tag     language.Tag
	printer *message.Printer
	layout  string
}

// New builds a Formatter from a BCP 47 tag such as "zh-CN" or "en-US".
// Unparseable tags fall back to Chinese, the dashboard's native language.
func New(tag string) *Formatter {
	parsed, err := language.Parse(tag)
	if err != nil {
		parsed = language.SimplifiedChinese
	}
	return &Formatter{
		tag:     parsed,
		printer: message.NewPrinter(parsed),
		layout:  dateTimeLayout(parsed),
	}
}

// Tag returns the resolved language tag.
func (f *Formatter) Tag() language.Tag {
	return f.tag
}

// Int formats n with the locale's digit grouping.
func (f *Formatter) Int(n int64) string {
	return f.printer.Sprintf("%d", n)
}

// Floor formats floor(v) with the locale's digit grouping.
func (f *Formatter) Floor(v float64) string {
	return f.Int(int64(math.Floor(v)))
}

// DateTime renders t in the local zone with year, month, day, hour, minute,
// and second in the locale's field order.
func (f *Formatter) DateTime(t time.Time) string {
	return t.In(time.Local).Format(f.layout)
}

func dateTimeLayout(tag language.Tag) string {
	base, _ := tag.Base()
	switch base.String() {
	case "zh", "ja":
		return "2006/01/02 15:04:05"
	case "en":
		if region, _ := tag.Region(); region.String() == "US" {
			return "01/02/2006, 15:04:05"
		}
		return "02/01/2006, 15:04:05"
	case "de", "ru":
		return "02.01.2006, 15:04:05"
	default:
		return "2006-01-02 15:04:05"
	}
}
