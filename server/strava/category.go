package strava

import (
	"github.com/topi314/strava-challenge/server/scoring"
)

var sportCategories = map[string]scoring.Category{
	"Ride":              scoring.CategoryBike,
	"GravelRide":        scoring.CategoryBike,
	"MountainBikeRide":  scoring.CategoryBike,
	"EBikeRide":         scoring.CategoryBike,
	"EMountainBikeRide": scoring.CategoryBike,
	"VirtualRide":       scoring.CategoryBike,
	"Velomobile":        scoring.CategoryBike,
	"Handcycle":         scoring.CategoryBike,

	"Run":        scoring.CategoryRun,
	"TrailRun":   scoring.CategoryRun,
	"VirtualRun": scoring.CategoryRun,

	"Hike": scoring.CategoryHiking,
	"Walk": scoring.CategoryHiking,

	"AlpineSki":      scoring.CategoryAlpineSnowSports,
	"BackcountrySki": scoring.CategoryAlpineSnowSports,
	"Snowboard":      scoring.CategoryAlpineSnowSports,
	"Snowshoe":       scoring.CategoryAlpineSnowSports,
	"IceSkate":       scoring.CategoryAlpineSnowSports,

	"NordicSki":   scoring.CategoryLanglaufenInline,
	"InlineSkate": scoring.CategoryLanglaufenInline,
	"RollerSki":   scoring.CategoryLanglaufenInline,
	"Skateboard":  scoring.CategoryLanglaufenInline,

	"WeightTraining":                scoring.CategoryGym,
	"Workout":                       scoring.CategoryGym,
	"Crossfit":                      scoring.CategoryGym,
	"Yoga":                          scoring.CategoryGym,
	"Pilates":                       scoring.CategoryGym,
	"HighIntensityIntervalTraining": scoring.CategoryGym,
	"Elliptical":                    scoring.CategoryGym,
	"StairStepper":                  scoring.CategoryGym,
	"VirtualRow":                    scoring.CategoryGym,

	"Soccer":      scoring.CategoryBallSports,
	"Tennis":      scoring.CategoryBallSports,
	"Badminton":   scoring.CategoryBallSports,
	"Squash":      scoring.CategoryBallSports,
	"TableTennis": scoring.CategoryBallSports,
	"Pickleball":  scoring.CategoryBallSports,
	"Racquetball": scoring.CategoryBallSports,

	"RockClimbing": scoring.CategoryKlettern,

	"Swim":            scoring.CategoryWaterSports,
	"Rowing":          scoring.CategoryWaterSports,
	"Kayaking":        scoring.CategoryWaterSports,
	"Canoeing":        scoring.CategoryWaterSports,
	"StandUpPaddling": scoring.CategoryWaterSports,
	"Surfing":         scoring.CategoryWaterSports,
	"Kitesurf":        scoring.CategoryWaterSports,
	"Windsurf":        scoring.CategoryWaterSports,
	"Sail":            scoring.CategoryWaterSports,
}

// CategoryFor maps a Strava sport type onto a challenge category. Sport types without a
// category do not count toward the challenge.
func CategoryFor(sportType string) (scoring.Category, bool) {
	c, ok := sportCategories[sportType]
	return c, ok
}
