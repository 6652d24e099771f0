package main

import (
	"fmt"
	"os"

	"bookgen/internal/book"
	"bookgen/internal/content"

	"gopkg.in/yaml.v3"
)

// profile is the optional --config file. Every field is a default that an
// explicit flag overrides.
type profile struct {
	Locale     string   `yaml:"locale"`
	Seed       string   `yaml:"seed"`
	AvgLikes   *float64 `yaml:"avg_likes"`
	AvgReviews *float64 `yaml:"avg_reviews"`
	PageSize   int      `yaml:"page_size"`
	Server     string   `yaml:"server"`
	DSN        string   `yaml:"dsn"`
}

func loadProfile(path string) (profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return profile{}, fmt.Errorf("read profile: %w", err)
	}

	var p profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return profile{}, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return p, nil
}

// config is the default config with the profile's fields applied.
func (p profile) config() (book.Config, error) {
	cfg := book.DefaultConfig()
	if p.Locale != "" {
		locale, err := content.ParseLocale(p.Locale)
		if err != nil {
			return book.Config{}, fmt.Errorf("profile: %w", err)
		}
		cfg.Locale = locale
	}
	cfg.Seed = p.Seed
	if p.AvgLikes != nil {
		cfg.AvgLikes = *p.AvgLikes
	}
	if p.AvgReviews != nil {
		cfg.AvgReviews = *p.AvgReviews
	}
	return cfg, nil
}
