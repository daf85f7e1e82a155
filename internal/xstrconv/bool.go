package xstrconv

import (
	"strconv"
	"strings"
)

// ParseBool extends strconv.ParseBool with on/off and yes/no.
func ParseBool(str string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "on", "yes", "y":
		return true, nil
	case "off", "no", "n":
		return false, nil
	default:
		return strconv.ParseBool(str)
	}
}
