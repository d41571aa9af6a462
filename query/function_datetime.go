package query

import (
	"fmt"
	"time"

	"github.com/araddon/dateparse"

	"github.com/vegasq/gql/datastore"
)

// Canonical layouts of the string forms. Months, days and time fields
// may be written without leading zeros.
const (
	dateLayout     = "2006-1-2"
	datetimeLayout = "2006-1-2 15:4:5"
)

// dateFunc implements date(year, month, day) and date(string).
// The numeric month is zero-based: date(2000, 0, 1) is January 1st.
type dateFunc struct{}

func (dateFunc) Name() string  { return "date" }
func (dateFunc) MinArity() int { return 1 }
func (dateFunc) MaxArity() int { return 3 }

func (f dateFunc) Evaluate(env *Env, args []any) (any, error) {
	loc := env.location()

	switch len(args) {
	case 1:
		t, err := parseTimeArg(f.Name(), args[0], dateLayout, loc)
		if err != nil {
			return nil, err
		}
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
	case 3:
		fields, err := intArgs(f.Name(), args)
		if err != nil {
			return nil, err
		}
		return time.Date(int(fields[0]), time.Month(fields[1]+1), int(fields[2]), 0, 0, 0, 0, loc), nil
	default:
		return nil, &FunctionArgumentError{
			Function: f.Name(),
			Msg:      fmt.Sprintf("expects (year, month, day) or a date string, got %d arguments", len(args)),
		}
	}
}

// datetimeFunc implements datetime(year, month, day, hour, minute, second)
// and datetime(string). The month follows the date() convention and the
// hour is on a 24-hour clock.
type datetimeFunc struct{}

func (datetimeFunc) Name() string  { return "datetime" }
func (datetimeFunc) MinArity() int { return 1 }
func (datetimeFunc) MaxArity() int { return 6 }

func (f datetimeFunc) Evaluate(env *Env, args []any) (any, error) {
	loc := env.location()

	switch len(args) {
	case 1:
		t, err := parseTimeArg(f.Name(), args[0], datetimeLayout, loc)
		if err != nil {
			return nil, err
		}
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), nil
	case 6:
		fields, err := intArgs(f.Name(), args)
		if err != nil {
			return nil, err
		}
		return time.Date(int(fields[0]), time.Month(fields[1]+1), int(fields[2]),
			int(fields[3]), int(fields[4]), int(fields[5]), 0, loc), nil
	default:
		return nil, &FunctionArgumentError{
			Function: f.Name(),
			Msg:      fmt.Sprintf("expects (year, month, day, hour, minute, second) or a datetime string, got %d arguments", len(args)),
		}
	}
}

// parseTimeArg parses the string form of date() and datetime(). The
// canonical layout is tried first, then dateparse's format detection.
func parseTimeArg(fn string, arg any, layout string, loc *time.Location) (time.Time, error) {
	s, ok := arg.(string)
	if !ok {
		return time.Time{}, &FunctionArgumentError{
			Function: fn,
			Msg:      fmt.Sprintf("single argument must be a string, got %T", arg),
		}
	}

	if t, err := time.ParseInLocation(layout, s, loc); err == nil {
		return t, nil
	}
	t, err := dateparse.ParseIn(s, loc)
	if err != nil {
		return time.Time{}, &FunctionArgumentError{
			Function: fn,
			Msg:      fmt.Sprintf("cannot parse %q", s),
			Err:      err,
		}
	}
	return t.In(loc), nil
}

func intArgs(fn string, args []any) ([]int64, error) {
	fields := make([]int64, len(args))
	for i, arg := range args {
		n, ok := datastore.Int64(arg)
		if !ok {
			return nil, &FunctionArgumentError{
				Function: fn,
				Msg:      fmt.Sprintf("argument %d must be an integer, got %T", i+1, arg),
			}
		}
		fields[i] = n
	}
	return fields, nil
}
