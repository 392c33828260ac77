package prompt

import (
	"strconv"
	"strings"
)

var smallNumbers = map[string]int{
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14, "fifteen": 15,
	"sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19,
	"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50,
	"sixty": 60, "seventy": 70, "eighty": 80, "ninety": 90,
}

var scaleNumbers = map[string]int{
	"hundred":  100,
	"thousand": 1000,
	"million":  1000000,
}

// ParseNumber finds a whole number in free text, written either in digits or
// in English words ("zero", "two adults", "1 thousand"). The first numeric
// run wins.
func ParseNumber(text string) (int, bool) {
	var total, current int
	found, inRun := false, false

	for _, raw := range strings.Fields(strings.ToLower(text)) {
		word := strings.Trim(raw, ".,!?;:'\"")

		if isDigits(word) {
			if inRun {
				break
			}
			current, _ = strconv.Atoi(word)
			found, inRun = true, true
			continue
		}
		if v, ok := smallNumbers[word]; ok {
			if inRun {
				current += v
			} else {
				current = v
				found, inRun = true, true
			}
			continue
		}
		if scale, ok := scaleNumbers[word]; ok && inRun {
			if current == 0 {
				current = 1
			}
			current *= scale
			if scale >= 1000 {
				total += current
				current = 0
			}
			continue
		}
		if inRun && word == "and" {
			// "one hundred and five"
			continue
		}
		if inRun {
			break
		}
	}

	if !found {
		return 0, false
	}
	return total + current, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
