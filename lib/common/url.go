package common

import (
	"strings"

	"boscoin.io/congress/lib/errors"
)

var (
	TrueQueryStringValue  []string = []string{"true", "yes", "1"}
	FalseQueryStringValue []string = []string{"false", "no", "0"}
)

// ParseBoolQueryString parses a boolean query value. 'true', '1' and 'yes'
// are `true`, 'false', '0' and 'no' are `false`; anything else is
// `errors.BadRequestParameter`.
func ParseBoolQueryString(v string) (yesno bool, err error) {
	if _, yesno = InStringArray(TrueQueryStringValue, strings.ToLower(v)); yesno {
		return
	}
	if _, ok := InStringArray(FalseQueryStringValue, strings.ToLower(v)); ok {
		return false, nil
	}

	err = errors.BadRequestParameter.Clone().SetData("value", v)
	return
}
