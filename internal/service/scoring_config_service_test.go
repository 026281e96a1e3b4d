package service

import (
	"errors"
	"testing"
	"time"
)

func TestScoringConfigCreateAndResolve(t *testing.T) {
	f := setupEngineTest(t)

	if _, err := f.scoringConfigs.Create(CreateScoringConfigInput{BusinessID: 1, EffectiveFrom: "2024-01-01", DaySlots: 4, NightSlots: 3}); err != nil {
		t.Fatalf("create config failed: %v", err)
	}
	if _, err := f.scoringConfigs.Create(CreateScoringConfigInput{BusinessID: 1, EffectiveFrom: "2024-02-15T10:30:00Z", DaySlots: 6, NightSlots: 5}); err != nil {
		t.Fatalf("create config failed: %v", err)
	}
	if _, err := f.scoringConfigs.Create(CreateScoringConfigInput{BusinessID: 1, EffectiveFrom: "2024-02-15", DaySlots: 1, NightSlots: 1}); !errors.Is(err, ErrScoringConfigInvalid) {
		t.Fatalf("duplicate effective date should be invalid, got %v", err)
	}

	cases := []struct {
		day       time.Time
		wantDay   int
		wantNight int
	}{
		{day: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), wantDay: 4, wantNight: 3},
		{day: time.Date(2024, 2, 14, 23, 0, 0, 0, time.UTC), wantDay: 4, wantNight: 3},
		{day: time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), wantDay: 6, wantNight: 5},
		{day: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), wantDay: 6, wantNight: 5},
	}
	for _, tc := range cases {
		config, err := f.scoringConfigs.ConfigFor(1, tc.day)
		if err != nil {
			t.Fatalf("config for %s failed: %v", tc.day, err)
		}
		if config.DaySlots != tc.wantDay || config.NightSlots != tc.wantNight {
			t.Fatalf("config for %s want %d/%d got %d/%d", tc.day, tc.wantDay, tc.wantNight, config.DaySlots, config.NightSlots)
		}
	}

	if _, err := f.scoringConfigs.ConfigFor(1, time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)); !errors.Is(err, ErrScoringConfigNotFound) {
		t.Fatalf("date before first config should be not found, got %v", err)
	}

	history, err := f.scoringConfigs.List(1)
	if err != nil {
		t.Fatalf("list configs failed: %v", err)
	}
	if len(history) != 2 || history[0].DaySlots != 6 {
		t.Fatalf("history should be newest first, got %+v", history)
	}
}

func TestScoringConfigValidation(t *testing.T) {
	f := setupEngineTest(t)
	cases := []CreateScoringConfigInput{
		{BusinessID: 0, EffectiveFrom: "2024-01-01"},
		{BusinessID: 1, EffectiveFrom: "not-a-date"},
		{BusinessID: 1, EffectiveFrom: "2024-01-01", DaySlots: -1},
		{BusinessID: 1, EffectiveFrom: "2024-01-01", NightSlots: maxReportSlots + 1},
	}
	for i, input := range cases {
		if _, err := f.scoringConfigs.Create(input); !errors.Is(err, ErrScoringConfigInvalid) {
			t.Fatalf("case %d: want ErrScoringConfigInvalid, got %v", i, err)
		}
	}
	if _, err := f.scoringConfigs.List(0); !errors.Is(err, ErrScoringConfigInvalid) {
		t.Fatalf("list with zero business should be invalid, got %v", err)
	}
}
