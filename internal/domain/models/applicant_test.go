package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestContactSetResolve(t *testing.T) {
	cases := []struct {
		name string
		in   ContactSet
		want ContactSet
	}{
		{"whatsapp only", ContactSet{Whatsapp: "9999999999"}, ContactSet{"9999999999", "9999999999", "9999999999"}},
		{"number only", ContactSet{Number: " 222 "}, ContactSet{"222", "222", "222"}},
		{"explicit values kept", ContactSet{Phone: "111", Number: "222"}, ContactSet{"111", "111", "222"}},
		{"empty", ContactSet{}, ContactSet{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.in.Resolve())
		})
	}
}

func TestContactSetAliases(t *testing.T) {
	assert.Equal(t, []string{"111", "222"}, ContactSet{Phone: "111", Whatsapp: "111", Number: "222"}.Aliases())
	assert.Empty(t, ContactSet{}.Aliases())
}

func TestAgeOn(t *testing.T) {
	d := func(y int, m time.Month, day int) time.Time { return time.Date(y, m, day, 0, 0, 0, 0, time.UTC) }

	assert.Equal(t, Age{Years: 21, Months: 4, Days: 2}, AgeOn(d(2004, 5, 17), d(2025, 9, 19)))
	assert.Equal(t, Age{Years: 20, Months: 11, Days: 29}, AgeOn(d(2004, 5, 17), d(2025, 5, 16)))
	assert.Equal(t, Age{Years: 1}, AgeOn(d(2024, 2, 29), d(2025, 3, 1)))
	assert.Equal(t, Age{}, AgeOn(d(2030, 1, 1), d(2025, 1, 1)))
}

func TestContactSetOversized(t *testing.T) {
	long := strings.Repeat("9", MaxContactLen+1)
	assert.Equal(t, "", ContactSet{Phone: strings.Repeat("9", MaxContactLen)}.Oversized())
	assert.Equal(t, "", ContactSet{Phone: "  " + strings.Repeat("9", MaxContactLen) + " "}.Oversized())
	assert.Equal(t, "phone", ContactSet{Phone: long}.Oversized())
	assert.Equal(t, "whatsapp", ContactSet{Phone: "1", Whatsapp: long}.Oversized())
	assert.Equal(t, "number", ContactSet{Number: long}.Oversized())
}
