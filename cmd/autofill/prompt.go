package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/shift-autofill/internal/domain/shift"
	"github.com/cmlabs-hris/shift-autofill/internal/pkg/validator"
)

var (
	ErrInvalidMonth = errors.New("month must be between 1 and 12")
	ErrInvalidYear  = fmt.Errorf("year must be %d or later", shift.MinYear)
)

// promptYearMonth asks for whatever the flags left unset. A blank answer
// leaves the value nil, which resolveYearMonth turns into the current one.
func promptYearMonth(in io.Reader, out io.Writer, year, month *int, now time.Time) (*int, *int, error) {
	reader := bufio.NewReader(in)

	ask := func(label string, def int) (*int, error) {
		fmt.Fprintf(out, "%s [%d]: ", label, def)
		answer, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		answer = strings.TrimSpace(answer)
		if answer == "" {
			return nil, nil
		}
		n, err := strconv.Atoi(answer)
		if err != nil {
			return nil, fmt.Errorf("%s must be a number, got %q", strings.ToLower(label), answer)
		}
		return &n, nil
	}

	var err error
	if year == nil {
		if year, err = ask("Year", now.Year()); err != nil {
			return nil, nil, err
		}
	}
	if month == nil {
		if month, err = ask("Month", int(now.Month())); err != nil {
			return nil, nil, err
		}
	}
	return year, month, nil
}

// resolveYearMonth fills nil values from now and validates the result.
func resolveYearMonth(year, month *int, now time.Time) (int, int, error) {
	y, m := now.Year(), int(now.Month())
	if year != nil {
		y = *year
	}
	if month != nil {
		m = *month
	}
	if !validator.IsValidMonth(m) {
		return 0, 0, ErrInvalidMonth
	}
	if y < shift.MinYear {
		return 0, 0, ErrInvalidYear
	}
	return y, m, nil
}
