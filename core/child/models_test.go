package child

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"
)

func TestChild_Age(t *testing.T) {
	date := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }
	now := date(2020, time.June, 15)

	tests := []struct {
		name string
		dob  null.Time
		want int
	}{
		{name: "unknown", dob: null.Time{}, want: 0},
		{name: "birthday today", dob: null.TimeFrom(date(2014, time.June, 15)), want: 6},
		{name: "birthday tomorrow", dob: null.TimeFrom(date(2014, time.June, 16)), want: 5},
		{name: "birthday last month", dob: null.TimeFrom(date(2014, time.May, 30)), want: 6},
		{name: "birthday next month", dob: null.TimeFrom(date(2014, time.July, 1)), want: 5},
		{name: "born in the future", dob: null.TimeFrom(date(2021, time.January, 1)), want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Child{DateOfBirth: tt.dob}.Age(now))
		})
	}
}

func TestChild_FullName(t *testing.T) {
	assert.Equal(t, "Amr Diab", Child{FirstName: "Amr", LastName: "Diab"}.FullName())
	assert.Equal(t, "Amr", Child{FirstName: "Amr"}.FullName())
}
