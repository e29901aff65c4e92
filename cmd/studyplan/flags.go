package main

import (
	"github.com/spf13/pflag"

	"github.com/at-ishikawa/studyplan/internal/material"
	"github.com/at-ishikawa/studyplan/internal/plan"
)

// WeekdaysFlag accepts weekday names or numbers, e.g. "sat,sun" or "0,6".
type WeekdaysFlag plan.Weekdays

// Set implements pflag.Value.
func (w *WeekdaysFlag) Set(v string) error {
	days, err := material.ParseWeekdays(v)
	if err != nil {
		return err
	}
	*w = WeekdaysFlag(days.Normalize())
	return nil
}

// String implements pflag.Value.
func (w *WeekdaysFlag) String() string {
	if w == nil {
		return ""
	}
	return material.FormatWeekdays(plan.Weekdays(*w))
}

// Type implements pflag.Value.
func (w *WeekdaysFlag) Type() string {
	return "weekdays"
}

// DateFlag is an optional YYYY-MM-DD date.
type DateFlag struct {
	date plan.Date
	set  bool
}

// Set implements pflag.Value.
func (d *DateFlag) Set(v string) error {
	date, err := plan.ParseDate(v)
	if err != nil {
		return err
	}
	d.date = date
	d.set = true
	return nil
}

// String implements pflag.Value.
func (d *DateFlag) String() string {
	if d == nil || !d.set {
		return ""
	}
	return d.date.String()
}

// Type implements pflag.Value.
func (d *DateFlag) Type() string {
	return "date"
}

// Or returns the date, or fallback when the flag was not given.
func (d *DateFlag) Or(fallback plan.Date) plan.Date {
	if !d.set {
		return fallback
	}
	return d.date
}

// Ptr returns the date, or nil when the flag was not given.
func (d *DateFlag) Ptr() *plan.Date {
	if !d.set {
		return nil
	}
	date := d.date
	return &date
}

var (
	_ pflag.Value = (*WeekdaysFlag)(nil)
	_ pflag.Value = (*DateFlag)(nil)
)
