package rules_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/prospectscan/prospectscan/internal/rules"
)

func TestMatchIndustry(t *testing.T) {
	cat := rules.DefaultCatalog()
	cases := []struct {
		domain string
		want   string
	}{
		{"supertienda.mx", "Retail"},
		{"bancodelsur.com", "Financiero"},
		{"hotelplaya.es", "Hospitalidad"},
		{"cloudsoft.io", "Tecnología"},
		{"clinicasalud.com", "Salud"},
		{"universidadcentral.edu", "Educación"},
		{"tramites.gob.mx", "Gobierno"},
		{"acme-widgets.com", rules.DefaultIndustry},
		{"", rules.DefaultIndustry},
	}
	for _, c := range cases {
		if got := cat.MatchIndustry(c.domain); got != c.want {
			t.Errorf("MatchIndustry(%q) = %q, want %q", c.domain, got, c.want)
		}
	}
}

// Catalogs are shared across the batch worker pool, so the pattern match
// must be safe for concurrent use on a freshly built catalog.
func TestMatchIndustryConcurrent(t *testing.T) {
	cat := rules.DefaultCatalog()
	domains := []string{"bancodelsur.com", "cloudsoft.io", "supertienda.mx", "acme.com"}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, d := range domains {
				cat.MatchIndustry(d)
			}
		}()
	}
	wg.Wait()

	if got := cat.MatchIndustry("bancodelsur.com"); got != "Financiero" {
		t.Errorf("MatchIndustry after concurrent use = %q, want Financiero", got)
	}
}

func TestMultiplierDefaultsToOne(t *testing.T) {
	cat := rules.DefaultCatalog()
	if m := cat.Multiplier("Financiero"); m != 2.0 {
		t.Errorf("Multiplier(Financiero) = %v, want 2.0", m)
	}
	if m := cat.Multiplier("Hospitalidad"); m != 1.0 {
		t.Errorf("Multiplier(Hospitalidad) = %v, want 1.0", m)
	}
}

func TestDefaultCatalogValidates(t *testing.T) {
	if err := rules.DefaultCatalog().Validate(); err != nil {
		t.Fatalf("default catalog must validate: %v", err)
	}
}

func TestCatalogYAMLRoundTrip(t *testing.T) {
	orig := rules.DefaultCatalog()
	raw, err := yaml.Marshal(orig)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	loaded, err := rules.LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if loaded.Version != orig.Version {
		t.Errorf("version = %q, want %q", loaded.Version, orig.Version)
	}
	if got := loaded.VendorCosts["Hornetsecurity"]; got.Min != 15 || got.Max != 25 || !got.PerUser {
		t.Errorf("Hornetsecurity cost survived badly: %+v", got)
	}
	if loaded.DefaultBudgetMin != orig.DefaultBudgetMin || loaded.DefaultBudgetMax != orig.DefaultBudgetMax {
		t.Errorf("default budget range = %d..%d, want %d..%d",
			loaded.DefaultBudgetMin, loaded.DefaultBudgetMax, orig.DefaultBudgetMin, orig.DefaultBudgetMax)
	}
	if got := loaded.MatchIndustry("bancodelsur.com"); got != "Financiero" {
		t.Errorf("reloaded MatchIndustry = %q, want Financiero", got)
	}
}

func TestLoadCatalogRejectsBadRange(t *testing.T) {
	bad := &rules.Catalog{Version: "v1", DefaultBudgetMin: 100, DefaultBudgetMax: 50}
	raw, err := yaml.Marshal(bad)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := rules.LoadCatalog(path); err == nil {
		t.Errorf("inverted budget range should be rejected")
	}
}
