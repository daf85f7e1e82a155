package rules

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/topi314/strava-challenge/server/scoring"
)

//go:embed template.yaml
var template []byte

var errEmpty = errors.New("rules file is empty")

// File is the YAML representation of the scoring rules.
type File struct {
	Points          []int    `yaml:"points"`
	TopCategories   int      `yaml:"top_categories"`
	MovingTimeScope string   `yaml:"moving_time_scope"`
	PrizeSplit      []int    `yaml:"prize_split"`
	Categories      []string `yaml:"categories"`
	Payments        Payments `yaml:"payments"`
}

// Payments is the YAML representation of the weekly minimum.
type Payments struct {
	PricePerWeek        int64         `yaml:"price_per_week"`
	Currency            string        `yaml:"currency"`
	StartWeek           int           `yaml:"start_week"`
	PointsRequired      int           `yaml:"points_required"`
	EarlyPointsRequired int           `yaml:"early_points_required"`
	EarlyUntilWeek      int           `yaml:"early_until_week"`
	MinActivityTime     time.Duration `yaml:"min_activity_time"`
	Jokers              int           `yaml:"jokers"`
}

func defaultFile() File {
	defaults := scoring.DefaultRules()
	return File{
		Points:          defaults.Points.Values(),
		TopCategories:   defaults.TopCategories,
		MovingTimeScope: string(defaults.MovingTimeScope),
		PrizeSplit:      defaults.PrizeSplit,
		Payments: Payments{
			PricePerWeek:        defaults.Payments.PricePerWeek,
			Currency:            defaults.Payments.Currency,
			StartWeek:           defaults.Payments.StartWeek,
			PointsRequired:      defaults.Payments.PointsRequired,
			EarlyPointsRequired: defaults.Payments.EarlyPointsRequired,
			EarlyUntilWeek:      defaults.Payments.EarlyUntilWeek,
			MinActivityTime:     defaults.Payments.MinActivityTime,
			Jokers:              defaults.Payments.Jokers,
		},
	}
}

// Load reads the rules at path. A missing or empty file is replaced with the default template first.
func Load(path string) (scoring.Rules, error) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) || (err == nil && info.Size() == 0) {
		if err = writeTemplate(path); err != nil {
			return scoring.Rules{}, err
		}
	} else if err != nil {
		return scoring.Rules{}, fmt.Errorf("failed to stat rules file: %w", err)
	}

	return read(path)
}

func writeTemplate(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create rules directory: %w", err)
		}
	}
	if err := os.WriteFile(path, template, 0o644); err != nil {
		return fmt.Errorf("failed to write rules template: %w", err)
	}
	return nil
}

func read(path string) (scoring.Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return scoring.Rules{}, fmt.Errorf("failed to read rules file: %w", err)
	}
	rules, err := Parse(data)
	if err != nil {
		return scoring.Rules{}, fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}
	return rules, nil
}

// Parse decodes YAML rules on top of the defaults. Unknown keys are rejected.
func Parse(data []byte) (scoring.Rules, error) {
	file := defaultFile()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return scoring.Rules{}, errEmpty
		}
		return scoring.Rules{}, err
	}

	return file.Rules()
}

func (f File) Rules() (scoring.Rules, error) {
	points, err := scoring.NewPointsTable(f.Points...)
	if err != nil {
		return scoring.Rules{}, err
	}

	scope, err := scoring.ParseMovingTimeScope(f.MovingTimeScope)
	if err != nil {
		return scoring.Rules{}, err
	}

	categories := make([]scoring.Category, 0, len(f.Categories))
	for _, name := range f.Categories {
		category, err := scoring.ParseCategory(name)
		if err != nil {
			return scoring.Rules{}, err
		}
		categories = append(categories, category)
	}

	rules := scoring.Rules{
		Points:          points,
		TopCategories:   f.TopCategories,
		MovingTimeScope: scope,
		PrizeSplit:      f.PrizeSplit,
		Categories:      categories,
		Payments: scoring.PaymentRules{
			PricePerWeek:        f.Payments.PricePerWeek,
			Currency:            f.Payments.Currency,
			StartWeek:           f.Payments.StartWeek,
			PointsRequired:      f.Payments.PointsRequired,
			EarlyPointsRequired: f.Payments.EarlyPointsRequired,
			EarlyUntilWeek:      f.Payments.EarlyUntilWeek,
			MinActivityTime:     f.Payments.MinActivityTime,
			Jokers:              f.Payments.Jokers,
		},
	}
	if err = rules.Validate(); err != nil {
		return scoring.Rules{}, err
	}
	return rules, nil
}
