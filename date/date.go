// Package date implements the timestamp of a trade: calendar components in UTC
// with second granularity and the matching Unix epoch.
package date

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateFormat is the format used to represent dates as strings.
const DateFormat = time.DateTime

// readFormats are the layouts accepted by Parse, tried in order.
var readFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05 MST",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-1-2 15:04:05",
	"2006-01-02",
	"2006-1-2",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
	"02-01-2006 15:04:05",
}

// Date is a point in time with second granularity, always in UTC.
type Date struct {
	t time.Time
}

// New returns a normalized Date for the given components, interpreted in UTC.
func New(year int, month time.Month, day, hour, minute, second int) Date {
	return Date{t: time.Date(year, month, day, hour, minute, second, 0, time.UTC)}
}

// FromTime truncates t to the second and converts it to UTC.
func FromTime(t time.Time) Date { return Date{t: t.UTC().Truncate(time.Second)} }

// FromEpoch returns the Date of a Unix epoch. Values with more than 10 digits
// are read as milliseconds.
func FromEpoch(epoch int64) Date {
	if epoch > 9_999_999_999 || epoch < -9_999_999_999 {
		return FromTime(time.UnixMilli(epoch))
	}
	return FromTime(time.Unix(epoch, 0))
}

// Now returns the current time.
func Now() Date { return FromTime(time.Now()) }

// Parse parses a Date from a string. It is lenient: see readFormats for the
// accepted layouts, and all digits strings are read as epochs.
func Parse(str string) (Date, error) {
	str = strings.TrimSpace(str)
	if str == "" {
		return Date{}, fmt.Errorf("invalid date: empty")
	}
	if n, err := strconv.ParseInt(str, 10, 64); err == nil && len(str) >= 9 {
		return FromEpoch(n), nil
	}
	for _, layout := range readFormats {
		if t, err := time.Parse(layout, str); err == nil {
			return FromTime(t), nil
		}
	}
	return Date{}, fmt.Errorf("invalid date %q", str)
}

// ParseLayout parses str with an explicit layout, in UTC.
func ParseLayout(layout, str string) (Date, error) {
	t, err := time.ParseInLocation(layout, strings.TrimSpace(str), time.UTC)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q want format %q: %w", str, layout, err)
	}
	return FromTime(t), nil
}

// MustParse is like Parse but panics on error.
func MustParse(str string) Date {
	d, err := Parse(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}

func (d Date) Year() int          { return d.t.Year() }
func (d Date) Month() time.Month  { return d.t.Month() }
func (d Date) Day() int           { return d.t.Day() }
func (d Date) Hour() int          { return d.t.Hour() }
func (d Date) Minute() int        { return d.t.Minute() }
func (d Date) Second() int        { return d.t.Second() }
func (d Date) Unix() int64        { return d.t.Unix() }
func (d Date) Millis() int64      { return d.t.UnixMilli() }
func (d Date) Time() time.Time    { return d.t }
func (d Date) IsZero() bool       { return d.t.IsZero() }
func (d Date) Before(x Date) bool { return d.t.Before(x.t) }
func (d Date) After(x Date) bool  { return d.t.After(x.t) }

// Equal reports whether d and x are the same second.
func (d Date) Equal(x Date) bool { return d.t.Equal(x.t) }

// String format the date in its standard format.
func (d Date) String() string { return d.t.Format(DateFormat) }

// Day only format.
func (d Date) DayString() string { return d.t.Format(time.DateOnly) }

// jsonDate is the persisted shape of a Date.
type jsonDate struct {
	Year      int   `json:"year"`
	Month     int   `json:"month"`
	Day       int   `json:"day"`
	Hour      int   `json:"hour"`
	Minute    int   `json:"minute"`
	Second    int   `json:"second"`
	Timestamp int64 `json:"timestamp"`
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonDate{
		Year:      d.Year(),
		Month:     int(d.Month()),
		Day:       d.Day(),
		Hour:      d.Hour(),
		Minute:    d.Minute(),
		Second:    d.Second(),
		Timestamp: d.Unix(),
	})
}

// UnmarshalJSON reads the persisted object. The timestamp wins over the
// components when both are present.
func (d *Date) UnmarshalJSON(bytes []byte) error {
	var j jsonDate
	if err := json.Unmarshal(bytes, &j); err != nil {
		return err
	}
	if j.Timestamp != 0 {
		*d = FromEpoch(j.Timestamp)
		return nil
	}
	*d = New(j.Year, time.Month(j.Month), j.Day, j.Hour, j.Minute, j.Second)
	return nil
}

// check that a Date pointer is a valid json marshall/unmarshaller type.
var _ json.Marshaler = (*Date)(nil)
var _ json.Unmarshaler = (*Date)(nil)
