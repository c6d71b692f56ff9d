package insight_test

import (
	"strings"
	"testing"

	"github.com/prospectscan/prospectscan/internal/insight"
	"github.com/prospectscan/prospectscan/internal/model"
	"github.com/prospectscan/prospectscan/internal/rules"
)

func cleanPosture() model.SecurityPosture {
	return model.SecurityPosture{
		Domain:   "empresa.com",
		General:  model.PostureAdvanced,
		HasSPF:   true,
		HasDMARC: true,
		HasHTTPS: true,
		CDNWAF:   "Cloudflare",
	}
}

// A fully clean posture with no vendor investment derives nothing: every
// insight needs a concrete signal to fire on.
func TestCleanPostureDerivesNoInsights(t *testing.T) {
	cat := rules.DefaultCatalog()
	got := insight.Derive(cleanPosture(), "Tecnología", cat)
	if len(got) != 0 {
		t.Errorf("clean posture derived %d insights: %+v", len(got), got)
	}
}

func TestMissingHTTPSDerivesCriticalSSL(t *testing.T) {
	cat := rules.DefaultCatalog()
	p := cleanPosture()
	p.HasHTTPS = false

	got := insight.Derive(p, "Corporativo", cat)
	var ssl *model.Insight
	for i := range got {
		if got[i].Category == "ssl" {
			ssl = &got[i]
		}
	}
	if ssl == nil {
		t.Fatalf("missing HTTPS did not derive an ssl insight")
	}
	if ssl.Status != "critical" {
		t.Errorf("status = %q, want critical", ssl.Status)
	}
	if _, ok := ssl.CostEstimate["potential_loss"]; !ok {
		t.Errorf("ssl insight must quantify the potential loss")
	}
}

// Revenue-at-risk scales with the industry multiplier from the catalog.
func TestSSLImpactScalesWithIndustry(t *testing.T) {
	cat := rules.DefaultCatalog()
	p := cleanPosture()
	p.HasHTTPS = false

	// Multipliers: Corporativo 1.0, Financiero 2.0.
	corp := insight.Derive(p, "Corporativo", cat)
	fin := insight.Derive(p, "Financiero", cat)

	if len(corp) == 0 || len(fin) == 0 {
		t.Fatalf("expected insights for both industries")
	}
	// Base 200,000 doubles to 400,000 for Financiero.
	if !strings.Contains(fin[0].BusinessImpact, "$400,000") {
		t.Errorf("financiero impact not doubled: %s", fin[0].BusinessImpact)
	}
	if !strings.Contains(corp[0].BusinessImpact, "$200,000") {
		t.Errorf("corporativo impact wrong: %s", corp[0].BusinessImpact)
	}
}

func TestNoCDNDerivesWAFWarning(t *testing.T) {
	cat := rules.DefaultCatalog()
	p := cleanPosture()
	p.CDNWAF = ""

	got := insight.Derive(p, "Retail", cat)
	if len(got) != 1 {
		t.Fatalf("expected exactly the waf insight, got %+v", got)
	}
	if got[0].Category != "infrastructure" || got[0].Status != "warning" {
		t.Errorf("insight = %+v", got[0])
	}
	if !strings.Contains(got[0].Recommendation, "Retail") {
		t.Errorf("recommendation must mention the industry: %s", got[0].Recommendation)
	}
}

func TestVendorInvestmentDerivesPositiveEmailInsight(t *testing.T) {
	cat := rules.DefaultCatalog()
	p := cleanPosture()
	p.SecurityVendors = []string{"Hornetsecurity"}

	got := insight.Derive(p, "Tecnología", cat)
	if len(got) != 1 {
		t.Fatalf("expected one insight, got %+v", got)
	}
	in := got[0]
	if in.Category != "email" || in.Status != "ok" {
		t.Errorf("insight = %+v", in)
	}
	// The known vendor's price band feeds the impact line.
	if !strings.Contains(in.BusinessImpact, "15-25") {
		t.Errorf("impact must carry the vendor price band: %s", in.BusinessImpact)
	}
}

func TestMissingDMARCDerivesWarningWithFreefix(t *testing.T) {
	cat := rules.DefaultCatalog()
	p := cleanPosture()
	p.HasDMARC = false

	got := insight.Derive(p, "Tecnología", cat)
	if len(got) != 1 {
		t.Fatalf("expected one insight, got %+v", got)
	}
	in := got[0]
	if in.Category != "email" || in.Status != "warning" {
		t.Errorf("insight = %+v", in)
	}
	if !strings.Contains(in.CostEstimate["fix_cost"], "$0") {
		t.Errorf("DMARC fix must be zero cost: %v", in.CostEstimate)
	}
}

// Vendor presence wins over the DMARC gap: the email dimension yields one
// insight, not two.
func TestVendorWinsOverDMARCGap(t *testing.T) {
	cat := rules.DefaultCatalog()
	p := cleanPosture()
	p.SecurityVendors = []string{"Proofpoint"}
	p.HasDMARC = false

	got := insight.Derive(p, "Tecnología", cat)
	if len(got) != 1 {
		t.Fatalf("expected one insight, got %+v", got)
	}
	if got[0].Status != "ok" {
		t.Errorf("vendor investment should produce the positive insight, got %+v", got[0])
	}
}

func TestDetectIndustryNormalizes(t *testing.T) {
	cat := rules.DefaultCatalog()
	if got := insight.DetectIndustry("  BancoDelSur.COM  ", cat); got != "Financiero" {
		t.Errorf("DetectIndustry = %q, want Financiero", got)
	}
}
