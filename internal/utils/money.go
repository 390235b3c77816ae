package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseAmount coerces a form/JSON amount into a number. Blank reads as zero;
// "₹ 1,500.50" and "Rs. 500" are accepted.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	for _, p := range []string{"₹", "Rs.", "Rs", "rs.", "rs", "INR"} {
		s = strings.TrimPrefix(s, p)
	}
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return math.Round(v*100) / 100, nil
}

// FormatRupee renders an amount with Indian digit grouping, e.g. Rs 1,23,456.00.
func FormatRupee(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	whole := int64(amount)
	paise := int64(math.Round((amount - float64(whole)) * 100))
	if paise == 100 {
		whole++
		paise = 0
	}
	return fmt.Sprintf("%sRs %s.%02d", sign, groupIndian(whole), paise)
}

func groupIndian(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	head, tail := s[:len(s)-3], s[len(s)-3:]
	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(parts, ",") + "," + tail
}
