package item

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	leadingAmount = regexp.MustCompile(`^[0-9]*`)
	trailingName  = regexp.MustCompile(`[A-Za-z\s]*$`)
)

// Parse splits a free-text entry such as "3 apples" or "an onion" into an
// amount and an item name. Entries without a leading number count as one.
func Parse(text string) (int, string, error) {
	text = strings.TrimSpace(text)

	amount := 1
	if !hasArticle(text) {
		digits := leadingAmount.FindString(text)
		if digits != "" {
			n, err := strconv.Atoi(digits)
			if err != nil {
				return 0, "", ErrInvalidAmount
			}

			amount = n
		}
	}

	if amount == 0 {
		amount = 1
	}

	name := trailingName.FindString(text)
	name = strings.TrimLeft(name, " \t\r\n\f")
	name = strings.TrimPrefix(name, "a ")
	name = strings.TrimPrefix(name, "an ")
	name = strings.TrimSpace(name)

	if name == "" {
		return 0, "", ErrEmptyName
	}

	return amount, name, nil
}

func hasArticle(text string) bool {
	return strings.HasPrefix(text, "a ") || strings.HasPrefix(text, "an ")
}
