package scoring

import (
	"slices"
	"strings"
)

type Category string

const (
	CategoryBike             Category = "bike"
	CategoryRun              Category = "run"
	CategoryHiking           Category = "hiking"
	CategoryAlpineSnowSports Category = "alpine_snow_sports"
	CategoryLanglaufenInline Category = "langlaufen_inline"
	CategoryGym              Category = "gym"
	CategoryBallSports       Category = "ball_sports"
	CategoryKlettern         Category = "klettern"
	CategoryWaterSports      Category = "water_sports"
)

var categories = []Category{
	CategoryBike,
	CategoryRun,
	CategoryHiking,
	CategoryAlpineSnowSports,
	CategoryLanglaufenInline,
	CategoryGym,
	CategoryBallSports,
	CategoryKlettern,
	CategoryWaterSports,
}

var categoryNames = map[Category]string{
	CategoryBike:             "Bike",
	CategoryRun:              "Run",
	CategoryHiking:           "Hiking",
	CategoryAlpineSnowSports: "Alpine & Snow Sports",
	CategoryLanglaufenInline: "Langlaufen & Inline",
	CategoryGym:              "Gym",
	CategoryBallSports:       "Ball Sports",
	CategoryKlettern:         "Klettern",
	CategoryWaterSports:      "Water Sports",
}

// Categories returns all known categories in display order.
func Categories() []Category {
	return slices.Clone(categories)
}

// ParseCategory accepts the tag itself as well as spellings like "AlpineSnowSports"
// or "alpine-snow-sports".
func ParseCategory(s string) (Category, error) {
	normalized := normalizeCategory(s)
	for _, c := range categories {
		if normalizeCategory(string(c)) == normalized {
			return c, nil
		}
	}
	return "", &UnknownCategoryError{Category: s}
}

func (c Category) Valid() bool {
	return slices.Contains(categories, c)
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return string(c)
}

func (c Category) index() int {
	if i := slices.Index(categories, c); i >= 0 {
		return i
	}
	return len(categories)
}

func normalizeCategory(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '_', '-', ' ', '&':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(s)))
}
