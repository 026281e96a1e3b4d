package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/cumplido-next/internal/constants"
	"github.com/cumplido-next/internal/models"

	"github.com/shopspring/decimal"
)

func TestClassifyBucket(t *testing.T) {
	cases := []struct {
		label string
		want  uint8
	}{
		{label: "00:00", want: constants.ShiftTypeNight},
		{label: "05:59", want: constants.ShiftTypeNight},
		{label: "06:00", want: constants.ShiftTypeDay},
		{label: "13:59", want: constants.ShiftTypeDay},
		{label: "14:00", want: constants.ShiftTypeMid},
		{label: "21:59", want: constants.ShiftTypeMid},
		{label: "22:00", want: constants.ShiftTypeNight},
		{label: "23:59", want: constants.ShiftTypeNight},
	}
	for _, tc := range cases {
		got, err := ClassifyBucket(tc.label)
		if err != nil {
			t.Fatalf("classify %s failed: %v", tc.label, err)
		}
		if got != tc.want {
			t.Fatalf("classify %s want %d got %d", tc.label, tc.want, got)
		}
	}

	for _, bad := range []string{"24:00", "7:00", "07:60", "aa:bb", "", "07:00:00"} {
		if _, err := ClassifyBucket(bad); !errors.Is(err, ErrScoreSheetInvalid) {
			t.Fatalf("classify %q should be invalid, got %v", bad, err)
		}
	}
}

func fullDaySubmission() ScoreSubmission {
	score := func(v int64) models.ScoreEntry {
		return models.ScoreEntry{Score: decimal.NewFromInt(v)}
	}
	return ScoreSubmission{
		"R1": {"06:00": score(5), "14:30": score(4), "22:00": score(3)},
		"R2": {"09:15": score(2), "18:45": score(1), "02:30": score(5)},
		"R3": {"13:59": score(4), "21:59": score(3), "05:59": score(2)},
	}
}

func TestScoreSheetPartitionAcrossThreeSiblings(t *testing.T) {
	f := setupEngineTest(t)
	ids := map[uint8]uint{}
	for _, shift := range []string{"1", "3", "2"} {
		result := f.mustAssign(t, "7", "2024-03-01", shift, nil)
		st, _ := ParseShiftType(shift)
		ids[st] = result.FulfillmentID
	}

	submitted := fullDaySubmission()
	saved := map[uint8]models.ScoreEntries{}
	for shift, id := range ids {
		entries, err := f.scores.Save(context.Background(), id, submitted)
		if err != nil {
			t.Fatalf("save for shift %d failed: %v", shift, err)
		}
		stored, err := f.scores.Get(id)
		if err != nil {
			t.Fatalf("get for shift %d failed: %v", shift, err)
		}
		if stored.Count() != entries.Count() {
			t.Fatalf("stored sheet must equal returned sheet for shift %d", shift)
		}
		saved[shift] = stored
	}

	seen := map[string]uint8{}
	total := 0
	for shift, entries := range saved {
		if entries.Count() != 3 {
			t.Fatalf("shift %d should keep 3 entries, got %d", shift, entries.Count())
		}
		for slotKey, times := range entries {
			for label, entry := range times {
				key := slotKey + "@" + label
				if owner, dup := seen[key]; dup {
					t.Fatalf("entry %s kept by both %d and %d", key, owner, shift)
				}
				seen[key] = shift
				original := submitted[slotKey][label]
				if !entry.Score.Equal(original.Score) {
					t.Fatalf("entry %s score changed", key)
				}
				bucket, _ := ClassifyBucket(label)
				if bucket != shift {
					t.Fatalf("entry %s routed to %d but belongs to %d", key, shift, bucket)
				}
				total++
			}
		}
	}
	if total != 9 {
		t.Fatalf("union must equal the submission, got %d entries", total)
	}
}

func TestScoreSheetNoMidFallbackRoutesByShiftType(t *testing.T) {
	f := setupEngineTest(t)
	day := f.mustAssign(t, "7", "2024-03-01", "1", nil)
	night := f.mustAssign(t, "7", "2024-03-01", "2", nil)

	submitted := ScoreSubmission{"R1": {"15:00": {Score: decimal.NewFromInt(5)}, "08:00": {Score: decimal.NewFromInt(4)}}}

	nightEntries, err := f.scores.Save(context.Background(), night.FulfillmentID, submitted)
	if err != nil {
		t.Fatalf("save night failed: %v", err)
	}
	if _, ok := nightEntries["R1"]["15:00"]; !ok {
		t.Fatalf("15:00 must be kept for night when no mid sibling exists")
	}
	if nightEntries.Count() != 2 {
		t.Fatalf("all entries route to night without mid sibling, got %d", nightEntries.Count())
	}

	dayEntries, err := f.scores.Save(context.Background(), day.FulfillmentID, submitted)
	if err != nil {
		t.Fatalf("save day failed: %v", err)
	}
	if dayEntries.Count() != 2 {
		t.Fatalf("all entries route to day without mid sibling, got %d", dayEntries.Count())
	}
}

func TestScoreSheetEmptySubmissionOverwrites(t *testing.T) {
	f := setupEngineTest(t)
	day := f.mustAssign(t, "7", "2024-03-01", "1", nil)
	if _, err := f.scores.Save(context.Background(), day.FulfillmentID, ScoreSubmission{"R1": {"08:00": {Score: decimal.NewFromInt(4)}}}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := f.scores.Save(context.Background(), day.FulfillmentID, ScoreSubmission{}); err != nil {
		t.Fatalf("empty save failed: %v", err)
	}
	stored, err := f.scores.Get(day.FulfillmentID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.Count() != 0 {
		t.Fatalf("empty submission must overwrite, got %+v", stored)
	}
}

func TestScoreSheetFilteredToEmptyStillOverwrites(t *testing.T) {
	f := setupEngineTest(t)
	f.mustAssign(t, "7", "2024-03-01", "3", nil)
	day := f.mustAssign(t, "7", "2024-03-01", "1", nil)
	if _, err := f.scores.Save(context.Background(), day.FulfillmentID, ScoreSubmission{"R1": {"08:00": {Score: decimal.NewFromInt(4)}}}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	entries, err := f.scores.Save(context.Background(), day.FulfillmentID, ScoreSubmission{"R1": {"15:00": {Score: decimal.NewFromInt(4)}}})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if entries.Count() != 0 {
		t.Fatalf("mid entry must be discarded for day, got %+v", entries)
	}
	stored, _ := f.scores.Get(day.FulfillmentID)
	if stored.Count() != 0 {
		t.Fatalf("previous sheet must be replaced, got %+v", stored)
	}
}

func TestScoreSheetValidationAndNotFound(t *testing.T) {
	f := setupEngineTest(t)
	day := f.mustAssign(t, "7", "2024-03-01", "1", nil)

	if _, err := f.scores.Save(context.Background(), day.FulfillmentID, ScoreSubmission{"X1": {"08:00": {}}}); !errors.Is(err, ErrScoreSheetInvalid) {
		t.Fatalf("bad slot key should be invalid, got %v", err)
	}
	if _, err := f.scores.Save(context.Background(), day.FulfillmentID, ScoreSubmission{"R1": {"8am": {}}}); !errors.Is(err, ErrScoreSheetInvalid) {
		t.Fatalf("bad time label should be invalid, got %v", err)
	}
	if _, err := f.scores.Save(context.Background(), 999, ScoreSubmission{}); !errors.Is(err, ErrFulfillmentNotFound) {
		t.Fatalf("missing fulfillment should be not found, got %v", err)
	}
	entries, err := f.scores.Get(day.FulfillmentID)
	if err != nil || entries == nil || entries.Count() != 0 {
		t.Fatalf("absent sheet should be an empty map, got %+v err=%v", entries, err)
	}
}

func TestScoreSheetSaveLosesToConcurrentRemoval(t *testing.T) {
	f := setupEngineTest(t)
	day := f.mustAssign(t, "7", "2024-03-01", "1", workerPtr("A"))

	scores := NewScoreSheetService(f.removeOnRead(t, "7", "2024-03-01", "1"), f.sheetRepo, nil)
	_, err := scores.Save(context.Background(), day.FulfillmentID, ScoreSubmission{"R1": {"08:00": {Score: decimal.NewFromInt(5)}}})
	if !errors.Is(err, ErrFulfillmentNotFound) {
		t.Fatalf("save on a removed record must fail, got %v", err)
	}
	if got := f.countRows(t, &models.ScoreSheet{}); got != 0 {
		t.Fatalf("no orphan score sheet allowed, got %d", got)
	}
}

func TestScoreEntryAcceptsScoreOrValue(t *testing.T) {
	var submitted ScoreSubmission
	raw := `{"R1": {"08:00": {"value": 4.5, "remark": "ok"}, "09:00": {"score": "3"}}}`
	if err := json.Unmarshal([]byte(raw), &submitted); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !submitted["R1"]["08:00"].Score.Equal(decimal.RequireFromString("4.5")) {
		t.Fatalf("value field should populate score")
	}
	if submitted["R1"]["08:00"].Remark == nil || *submitted["R1"]["08:00"].Remark != "ok" {
		t.Fatalf("remark should be kept")
	}
	if !submitted["R1"]["09:00"].Score.Equal(decimal.NewFromInt(3)) {
		t.Fatalf("string score should be parsed")
	}
	if err := json.Unmarshal([]byte(`{"R1": {"08:00": {"remark": "x"}}}`), &submitted); err == nil {
		t.Fatalf("entry without score must fail")
	}
}
