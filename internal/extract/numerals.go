package extract

import (
	"errors"
	"strings"
)

var errNotNumeral = errors.New("not a chinese numeral")

var numeralValues = map[rune]int{
	'一': 1, '二': 2, '兩': 2, '三': 3, '四': 4,
	'五': 5, '六': 6, '七': 7, '八': 8, '九': 9,
}

// parseSpelled parses Chinese numerals from 1 to 99: 三, 十, 十二, 二十, 二十五.
func parseSpelled(s string) (int, error) {
	rs := []rune(strings.TrimSpace(s))
	switch len(rs) {
	case 1:
		if rs[0] == '十' {
			return 10, nil
		}
		if v, ok := numeralValues[rs[0]]; ok {
			return v, nil
		}
	case 2:
		if rs[0] == '十' {
			if v, ok := numeralValues[rs[1]]; ok {
				return 10 + v, nil
			}
		}
		if rs[1] == '十' {
			if v, ok := numeralValues[rs[0]]; ok {
				return v * 10, nil
			}
		}
	case 3:
		hi, okHi := numeralValues[rs[0]]
		low, okLow := numeralValues[rs[2]]
		if okHi && okLow && rs[1] == '十' {
			return hi*10 + low, nil
		}
	}
	return 0, errNotNumeral
}
