package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// cronField matches one position of a five-field cron expression.
type cronField struct {
	any  bool // "*"
	step int  // "*/n", 0 when unused
	lo   int  // range minimum, steps count from here
	vals []int
}

// CronExpr is a minimal five-field cron matcher
// (minute hour day-of-month month day-of-week). It supports "*", "*/n"
// and comma-separated literals, which covers schedule cadences like
// "0 0 */2 * *" (every two days at midnight).
type CronExpr struct {
	fields [5]cronField
	expr   string
}

// ParseCron parses a five-field cron expression.
func ParseCron(expr string) (*CronExpr, error) {
	parts := strings.Fields(expr)
	if len(parts) != 5 {
		return nil, fmt.Errorf("cron expression %q: want 5 fields, got %d", expr, len(parts))
	}

	bounds := [5][2]int{{0, 59}, {0, 23}, {1, 31}, {1, 12}, {0, 6}}

	var c CronExpr
	c.expr = expr
	for i, part := range parts {
		f, err := parseCronField(part, bounds[i][0], bounds[i][1])
		if err != nil {
			return nil, fmt.Errorf("cron expression %q, field %d: %w", expr, i+1, err)
		}
		c.fields[i] = f
	}
	return &c, nil
}

func parseCronField(s string, lo, hi int) (cronField, error) {
	if s == "*" {
		return cronField{any: true}, nil
	}
	if rest, ok := strings.CutPrefix(s, "*/"); ok {
		n, err := strconv.Atoi(rest)
		if err != nil || n <= 0 {
			return cronField{}, fmt.Errorf("invalid step %q", s)
		}
		return cronField{step: n, lo: lo}, nil
	}
	var vals []int
	for _, piece := range strings.Split(s, ",") {
		n, err := strconv.Atoi(piece)
		if err != nil {
			return cronField{}, fmt.Errorf("invalid value %q", piece)
		}
		if n < lo || n > hi {
			return cronField{}, fmt.Errorf("value %d out of range [%d,%d]", n, lo, hi)
		}
		vals = append(vals, n)
	}
	return cronField{vals: vals}, nil
}

func (f cronField) matches(v int) bool {
	if f.any {
		return true
	}
	if f.step > 0 {
		// Steps count from the field's range minimum, so "*/2" in the
		// day-of-month field fires on days 1, 3, 5, ...
		return (v-f.lo)%f.step == 0
	}
	for _, want := range f.vals {
		if v == want {
			return true
		}
	}
	return false
}

// Matches reports whether the given wall-clock minute satisfies the
// expression. Following cron convention, when both day-of-month and
// day-of-week are restricted, either matching is enough.
func (c *CronExpr) Matches(t time.Time) bool {
	t = t.Truncate(time.Minute)
	if !c.fields[0].matches(t.Minute()) {
		return false
	}
	if !c.fields[1].matches(t.Hour()) {
		return false
	}
	if !c.fields[3].matches(int(t.Month())) {
		return false
	}

	dom := c.fields[2]
	dow := c.fields[4]
	domOK := dom.matches(t.Day())
	dowOK := dow.matches(int(t.Weekday()))
	if !dom.any && !dow.any {
		return domOK || dowOK
	}
	return domOK && dowOK
}

// String returns the original expression.
func (c *CronExpr) String() string { return c.expr }
