package confkit_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"dailyproxy-api/pkg/confkit"
)

type credentials struct {
	Finnhub struct {
		APIKey string `yaml:"api_key"`
	} `yaml:"finnhub"`
	FRED struct {
		APIKey string `yaml:"api_key"`
	} `yaml:"fred"`
}

func writeUpstream(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "upstream.yaml")
	body := "finnhub:\n  api_key: ${CONFKIT_FINNHUB}\nfred:\n  api_key: ${CONFKIT_UNSET}\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestLoadYAMLExpandsEnv(t *testing.T) {
	t.Setenv("NO_DOTENV", "1")
	t.Setenv("CONFKIT_FINNHUB", "fh-123")

	cfg, err := confkit.LoadYAML[credentials](writeUpstream(t, t.TempDir()))
	if err != nil {
		t.Fatalf("LoadYAML() error = %v", err)
	}
	if cfg.Finnhub.APIKey != "fh-123" {
		t.Fatalf("finnhub key = %q, want fh-123", cfg.Finnhub.APIKey)
	}
	if cfg.FRED.APIKey != "" {
		t.Fatalf("fred key = %q, want empty", cfg.FRED.APIKey)
	}
}

func TestLoadYAMLErrors(t *testing.T) {
	t.Setenv("NO_DOTENV", "1")
	dir := t.TempDir()
	if _, err := confkit.LoadYAML[credentials](filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("finnhub: [unterminated"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := confkit.LoadYAML[credentials](bad); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSectionHydrate(t *testing.T) {
	t.Setenv("NO_DOTENV", "1")
	t.Setenv("CONFKIT_FINNHUB", "fh-123")
	etc := t.TempDir()
	upstreamPath := writeUpstream(t, etc)

	cases := []struct {
		name     string
		file     string
		env      map[string]string
		wantPath string
	}{
		{name: "relative to main config", file: "upstream.yaml", wantPath: upstreamPath},
		{name: "absolute", file: upstreamPath, wantPath: upstreamPath},
		{name: "env expanded", file: "${CONFKIT_ETC}/upstream.yaml", env: map[string]string{"CONFKIT_ETC": etc}, wantPath: upstreamPath},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			section := confkit.Section[credentials]{File: tc.file}
			if err := section.Hydrate(etc, confkit.LoadYAML[credentials]); err != nil {
				t.Fatalf("Hydrate() error = %v", err)
			}
			if section.File != tc.wantPath {
				t.Fatalf("File = %q, want %q", section.File, tc.wantPath)
			}
			if section.Value == nil || section.Value.Finnhub.APIKey != "fh-123" {
				t.Fatalf("Value = %+v", section.Value)
			}
		})
	}
}

func TestSectionHydrateEmptyFile(t *testing.T) {
	var section confkit.Section[credentials]
	err := section.Hydrate("/etc", func(string) (*credentials, error) {
		t.Fatal("loader should not run without a file")
		return nil, nil
	})
	if err != nil || section.Value != nil {
		t.Fatalf("Hydrate() = %v, value %+v", err, section.Value)
	}
}

func TestSectionHydrateLoaderError(t *testing.T) {
	boom := errors.New("boom")
	section := confkit.Section[credentials]{File: "market.yaml"}
	err := section.Hydrate("/etc", func(string) (*credentials, error) { return nil, boom })
	if !errors.Is(err, boom) {
		t.Fatalf("Hydrate() error = %v, want boom", err)
	}
	if section.File != "market.yaml" || section.Value != nil {
		t.Fatalf("section changed on failure: %+v", section)
	}
}
