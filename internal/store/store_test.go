package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/vidforge/vidforge-agent/internal/assemble"
	"github.com/vidforge/vidforge-agent/internal/script"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testScript(id string) *script.Script {
	return &script.Script{
		ID:                id,
		Niche:             "ai_technology",
		Platform:          "youtube",
		Duration:          300,
		Hook:              "Did you know?",
		Body:              "Body text here.",
		CallToAction:      "Subscribe.",
		Hashtags:          []string{"#ai"},
		TextOverlays:      []string{"WOW"},
		WordCount:         120,
		EstimatedDuration: 46,
		QualityScore:      80,
		CreatedAt:         time.Now().UTC(),
	}
}

func testArtifact(id, scriptID string, createdAt time.Time) *assemble.VideoArtifact {
	return &assemble.VideoArtifact{
		ID:             id,
		ScriptID:       scriptID,
		Platform:       "youtube",
		Niche:          "ai_technology",
		VideoPath:      "/storage/videos/processed/" + scriptID + ".mp4",
		Resolution:     "1920x1080",
		DurationSec:    46,
		SizeBytes:      6 << 20,
		ProductionTime: 1500 * time.Millisecond,
		QualityScore:   60,
		AudioGenerated: true,
		BackgroundUsed: true,
		SubtitlesAdded: true,
		OverlayCount:   2,
		CreatedAt:      createdAt,
	}
}

func TestNew_MigratesIdempotently(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	db1, err := New(path, nil)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	db1.Close()

	db2, err := New(path, nil)
	if err != nil {
		t.Fatalf("second open must not rerun migrations: %v", err)
	}
	db2.Close()
}

func TestSaveScript_Idempotent(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	s := testScript("s1")

	if err := db.SaveScript(ctx, s); err != nil {
		t.Fatal(err)
	}
	s.QualityScore = 95
	if err := db.SaveScript(ctx, s); err != nil {
		t.Fatalf("second save must upsert: %v", err)
	}

	totals, err := db.CountTotals(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if totals.Scripts != 1 {
		t.Errorf("scripts = %d, want 1", totals.Scripts)
	}

	var score int
	if err := db.Conn().QueryRow("SELECT quality_score FROM scripts WHERE id = 's1'").Scan(&score); err != nil {
		t.Fatal(err)
	}
	if score != 95 {
		t.Errorf("quality_score = %d, want updated value 95", score)
	}
}

func TestSaveArtifact_RoundTrip(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	if err := db.SaveScript(ctx, testScript("s1")); err != nil {
		t.Fatal(err)
	}
	created := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	if err := db.SaveArtifact(ctx, testArtifact("a1", "s1", created)); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveArtifact(ctx, testArtifact("a1", "s1", created)); err != nil {
		t.Fatalf("resave must upsert: %v", err)
	}

	records, err := db.RecentArtifacts(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	r := records[0]
	if r.ID != "a1" || r.ScriptID != "s1" || r.SizeBytes != 6<<20 || r.Resolution != "1920x1080" {
		t.Errorf("record = %+v", r)
	}
	if r.ProductionTimeMS != 1500 {
		t.Errorf("production_time_ms = %d, want 1500", r.ProductionTimeMS)
	}
	if !r.AudioGenerated || !r.SubtitlesAdded || r.OverlayCount != 2 || r.ThumbnailGenerated {
		t.Errorf("stage flags = %+v", r)
	}
	if !r.CreatedAt.Equal(created) {
		t.Errorf("created_at = %v, want %v", r.CreatedAt, created)
	}
}

func TestRecentArtifacts_OrderAndLimit(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	if err := db.SaveScript(ctx, testScript("s1")); err != nil {
		t.Fatal(err)
	}
	base := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"a1", "a2", "a3"} {
		if err := db.SaveArtifact(ctx, testArtifact(id, "s1", base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatal(err)
		}
	}

	records, err := db.RecentArtifacts(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records[0].ID != "a3" || records[1].ID != "a2" {
		t.Errorf("order = %s, %s, want newest first", records[0].ID, records[1].ID)
	}
}

func TestArtifactCountForDay(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	if err := db.SaveScript(ctx, testScript("s1")); err != nil {
		t.Fatal(err)
	}
	day1 := time.Date(2026, 8, 27, 23, 59, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 28, 0, 1, 0, 0, time.UTC)
	db.SaveArtifact(ctx, testArtifact("a1", "s1", day1))
	db.SaveArtifact(ctx, testArtifact("a2", "s1", day2))
	db.SaveArtifact(ctx, testArtifact("a3", "s1", day2))

	count, err := db.ArtifactCountForDay(ctx, "2026-08-28")
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}

	count, err = db.ArtifactCountForDay(ctx, "2026-08-26")
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}
