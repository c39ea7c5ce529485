// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// inrPrinter formats numbers with Indian digit grouping (1,00,000).
var inrPrinter = message.NewPrinter(language.MustParse("en-IN"))

// FormatINR renders an amount as an Indian rupee price string, e.g.
// "₹2,500" or "₹1,499.50". Whole amounts drop the fractional part.
func FormatINR(amount float64) string {
	var s string
	if amount == float64(int64(amount)) {
		s = inrPrinter.Sprintf("%d", int64(amount))
	} else {
		s = inrPrinter.Sprintf("%.2f", amount)
	}
	return "₹" + s
}

// FormatINRRange renders a price range for filter labels.
func FormatINRRange(min, max float64) string {
	var b strings.Builder
	b.WriteString(FormatINR(min))
	b.WriteString(" – ")
	b.WriteString(FormatINR(max))
	return b.String()
}
