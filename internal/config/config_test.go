package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *c != *Default() {
		t.Fatalf("got %+v, want defaults", c)
	}
	if c.CleanPath != filepath.Join("data", "metadata_clean.csv") || c.ListenAddr != "127.0.0.1:8501" {
		t.Fatalf("unexpected defaults: %+v", c)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	p := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(p, []byte("top_words: 20\nsource_path: raw/metadata.csv\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CORD19_TOP_JOURNALS", "5")
	c, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.TopWords != 20 || c.SourcePath != "raw/metadata.csv" || c.TopJournals != 5 {
		t.Fatalf("overrides not applied: %+v", c)
	}
}

func TestLoadMissingExplicitFileFallsBackToDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.TopWords != 15 {
		t.Fatalf("top_words = %d", c.TopWords)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	p := filepath.Join(t.TempDir(), "cfg.yaml")
	body := "default_year_lo: 2022\ndefault_year_hi: 2021\nlog_format: xml\n"
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(p)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"default_year_lo", "log_format"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q does not name %s", err, want)
		}
	}
}

func TestSaveRoundTrip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "config.yaml")
	c := Default()
	c.ListenAddr = "0.0.0.0:9000"
	c.MinWordLen = 5
	if err := Save(c, p); err != nil {
		t.Fatalf("Save: %v", err)
	}
	back, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *back != *c {
		t.Fatalf("got %+v, want %+v", back, c)
	}
}

func TestSaveRefusesInvalid(t *testing.T) {
	c := Default()
	c.ListenAddr = "not an address"
	if err := Save(c, filepath.Join(t.TempDir(), "c.yaml")); err == nil {
		t.Fatalf("expected error")
	}
}
