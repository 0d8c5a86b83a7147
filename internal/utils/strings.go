package utils

import (
	"strconv"
	"strings"
)

// PadFloat formats a float with specified total width, preserving original decimals
func PadFloat(num float64, width int) string {
	str := strconv.FormatFloat(num, 'f', -1, 64)

	sign := ""
	if strings.HasPrefix(str, "-") {
		sign, str = "-", str[1:]
	}

	intPart, decPart, hasDec := strings.Cut(str, ".")

	// only the integer part is padded
	if padding := width - len(intPart); padding > 0 {
		intPart = strings.Repeat("0", padding) + intPart
	}

	if hasDec {
		return sign + intPart + "." + decPart
	}
	return sign + intPart
}
