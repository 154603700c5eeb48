package invoice

import (
	"fmt"
	"strings"
)

var (
	upperDigits = [...]string{"零", "壹", "贰", "叁", "肆", "伍", "陆", "柒", "捌", "玖"}
	digitUnits  = [...]string{"仟", "佰", "拾", ""}
	groupUnits  = [...]string{"", "万", "亿", "万亿"}
)

// AmountInWords renders a whole-yuan amount in Chinese financial uppercase,
// e.g. 1270 becomes 壹仟贰佰柒拾元整 and 10270 becomes 壹万零贰佰柒拾元整.
func AmountInWords(yuan int64) (string, error) {
	if yuan < 0 {
		return "", fmt.Errorf("amount must not be negative: %d", yuan)
	}
	if yuan == 0 {
		return "零元整", nil
	}

	var groups []int64
	for v := yuan; v > 0; v /= 10000 {
		groups = append(groups, v%10000)
	}
	if len(groups) > len(groupUnits) {
		return "", fmt.Errorf("amount too large: %d", yuan)
	}

	var b strings.Builder
	zero := false
	for i := len(groups) - 1; i >= 0; i-- {
		g := groups[i]
		if g == 0 {
			zero = b.Len() > 0
			continue
		}
		if b.Len() > 0 && (zero || g < 1000) {
			b.WriteString("零")
		}
		b.WriteString(groupInWords(g))
		b.WriteString(groupUnits[i])
		zero = false
	}
	b.WriteString("元整")
	return b.String(), nil
}

// groupInWords renders 1..9999 without leading zeros; inner runs of zeros
// collapse to a single 零 and trailing zeros are dropped.
func groupInWords(g int64) string {
	digits := [4]int64{g / 1000, g / 100 % 10, g / 10 % 10, g % 10}

	var b strings.Builder
	zero := false
	for i, d := range digits {
		if d == 0 {
			zero = b.Len() > 0
			continue
		}
		if zero {
			b.WriteString("零")
			zero = false
		}
		b.WriteString(upperDigits[d])
		b.WriteString(digitUnits[i])
	}
	return b.String()
}

// FormatYuan renders an amount the way the request form prints it
func FormatYuan(yuan int64) string {
	return fmt.Sprintf("¥%d", yuan)
}
