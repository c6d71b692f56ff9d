package rules

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// VendorCost is the estimated market price band for a known vendor, used as
// a budget signal when the vendor shows up in a posture's tech stack.
type VendorCost struct {
	Min  int    `yaml:"min" json:"min"`
	Max  int    `yaml:"max" json:"max"`
	Unit string `yaml:"unit" json:"unit"`

	// PerUser distinguishes per-seat pricing (extrapolated by headcount) from
	// flat monthly pricing like CDN plans.
	PerUser bool `yaml:"per_user" json:"per_user"`
}

// IssueImpact is the static severity row for one observable issue class:
// estimated revenue at risk, time to fix and remediation cost. These are
// lookup data maintained by the commercial team, not computed values.
type IssueImpact struct {
	Severity      string `yaml:"severity" json:"severity"`
	RevenueMin    int    `yaml:"revenue_min" json:"revenue_min"`
	RevenueMax    int    `yaml:"revenue_max" json:"revenue_max"`
	RevenueUnit   string `yaml:"revenue_unit" json:"revenue_unit"`
	FixTime       string `yaml:"fix_time" json:"fix_time"`
	FixCostMin    int    `yaml:"fix_cost_min" json:"fix_cost_min"`
	FixCostMax    int    `yaml:"fix_cost_max" json:"fix_cost_max"`
	FixCostUnit   string `yaml:"fix_cost_unit" json:"fix_cost_unit"`
	Remediation   string `yaml:"remediation" json:"remediation"`
	UrgencyLabel  string `yaml:"urgency" json:"urgency"`
	InsightStatus string `yaml:"status" json:"status"`
}

// IndustryRule maps a domain-name pattern to an industry tag.
type IndustryRule struct {
	Pattern  string `yaml:"pattern" json:"pattern"`
	Industry string `yaml:"industry" json:"industry"`

	re *regexp.Regexp
}

// Catalog bundles the static commercial lookup data the engine and the
// insight derivations consume. Like the rule table it is versioned
// configuration, injected rather than global.
type Catalog struct {
	Version string `yaml:"version" json:"version"`

	VendorCosts map[string]VendorCost  `yaml:"vendor_costs" json:"vendor_costs"`
	Issues      map[string]IssueImpact `yaml:"issues" json:"issues"`
	Industries  []IndustryRule         `yaml:"industries" json:"industries"`

	// Regulations maps an industry tag to the regimes that apply to it.
	Regulations map[string][]string `yaml:"regulations" json:"regulations"`

	// ImpactMultipliers scale revenue-at-risk figures per industry.
	ImpactMultipliers map[string]float64 `yaml:"impact_multipliers" json:"impact_multipliers"`

	// DefaultBudgetMin/Max is the documented wide default budget range used
	// when no cost signals were detected. Deliberately wide, never zero.
	DefaultBudgetMin int `yaml:"default_budget_min" json:"default_budget_min"`
	DefaultBudgetMax int `yaml:"default_budget_max" json:"default_budget_max"`

	// SeatsMin/Max is the seat band assumed when extrapolating per-user
	// vendor pricing to an annual figure.
	SeatsMin int `yaml:"seats_min" json:"seats_min"`
	SeatsMax int `yaml:"seats_max" json:"seats_max"`
}

// DefaultIndustry is the tag assigned when no industry pattern matches.
const DefaultIndustry = "Corporativo"

// MatchIndustry runs the best-effort pattern match over a domain name.
// Unmatched domains get DefaultIndustry, never an error. Read-only: catalogs
// are shared across the batch worker pool, so patterns are compiled up front
// (Validate) and never written here.
func (c *Catalog) MatchIndustry(domain string) string {
	for i := range c.Industries {
		r := &c.Industries[i]
		if r.re == nil {
			continue
		}
		if r.re.MatchString(domain) {
			return r.Industry
		}
	}
	return DefaultIndustry
}

// Multiplier returns the industry's revenue-impact multiplier, 1.0 when the
// industry has no specific entry.
func (c *Catalog) Multiplier(industry string) float64 {
	if m, ok := c.ImpactMultipliers[industry]; ok {
		return m
	}
	return 1.0
}

// Validate checks the invariants loaders rely on and compiles the industry
// patterns. Compilation happens here, once, before the catalog is shared:
// MatchIndustry runs concurrently and must not mutate the catalog.
func (c *Catalog) Validate() error {
	if c.Version == "" {
		return fmt.Errorf("rules: catalog version is required")
	}
	if c.DefaultBudgetMin <= 0 || c.DefaultBudgetMax <= c.DefaultBudgetMin {
		return fmt.Errorf("rules: default budget range must be positive and widening (got %d..%d)", c.DefaultBudgetMin, c.DefaultBudgetMax)
	}
	for i := range c.Industries {
		re, err := regexp.Compile(c.Industries[i].Pattern)
		if err != nil {
			return fmt.Errorf("rules: bad industry pattern %q: %w", c.Industries[i].Pattern, err)
		}
		c.Industries[i].re = re
	}
	return nil
}

// LoadCatalog reads a catalog from a YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rules: reading catalog %s: %w", path, err)
	}
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("rules: parsing catalog %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	// Seat band is optional in config files; fall back to the built-in band.
	if c.SeatsMin <= 0 {
		c.SeatsMin = 500
	}
	if c.SeatsMax < c.SeatsMin {
		c.SeatsMax = c.SeatsMin * 2
	}
	return &c, nil
}

// DefaultCatalog returns the built-in commercial lookup data. Figures mirror
// the published market price bands the sales team maintains.
func DefaultCatalog() *Catalog {
	c := &Catalog{
		Version: "catalogo-v2.0",
		VendorCosts: map[string]VendorCost{
			"Hornetsecurity":   {Min: 15, Max: 25, Unit: "EUR/usuario/año", PerUser: true},
			"Proofpoint":       {Min: 25, Max: 45, Unit: "USD/usuario/año", PerUser: true},
			"Mimecast":         {Min: 30, Max: 50, Unit: "USD/usuario/año", PerUser: true},
			"Microsoft 365":    {Min: 12, Max: 20, Unit: "USD/usuario/año", PerUser: true},
			"Google Workspace": {Min: 6, Max: 18, Unit: "USD/usuario/año", PerUser: true},
			"Cloudflare":       {Min: 200, Max: 5000, Unit: "USD/mes"},
			"Akamai":           {Min: 5000, Max: 50000, Unit: "USD/mes"},
		},
		Issues: map[string]IssueImpact{
			"ssl_invalid": {
				Severity:      "CRITICAL",
				RevenueMin:    200000,
				RevenueMax:    500000,
				RevenueUnit:   "USD/mes",
				FixTime:       "24-48h",
				FixCostMin:    0,
				FixCostMax:    500,
				FixCostUnit:   "USD/año",
				Remediation:   "Implementar Let's Encrypt (gratuito) o AWS Certificate Manager. Tiempo de fix: 2-4 horas.",
				UrgencyLabel:  "immediate",
				InsightStatus: "critical",
			},
			"no_waf": {
				Severity:      "HIGH",
				RevenueMin:    50000,
				RevenueMax:    200000,
				RevenueUnit:   "USD/año",
				FixTime:       "1-2 semanas",
				FixCostMin:    2400,
				FixCostMax:    60000,
				FixCostUnit:   "USD/año",
				Remediation:   "Implementar Cloudflare u otro CDN/WAF gestionado. Reducción de 40-60% en costos de infraestructura.",
				UrgencyLabel:  "high",
				InsightStatus: "warning",
			},
			"weak_dmarc": {
				Severity:      "MEDIUM",
				RevenueMin:    10000,
				RevenueMax:    50000,
				RevenueUnit:   "USD/año",
				FixTime:       "2-4 días",
				FixCostMin:    0,
				FixCostMax:    0,
				FixCostUnit:   "USD",
				Remediation:   "Implementar DMARC con política 'quarantine' inicialmente, luego 'reject'.",
				UrgencyLabel:  "high",
				InsightStatus: "warning",
			},
		},
		Industries: []IndustryRule{
			{Pattern: `retail|tienda|super|shop|store`, Industry: "Retail"},
			{Pattern: `bank|banco|financial|credit|seguros`, Industry: "Financiero"},
			{Pattern: `hotel|resort|tourism|viaje|travel`, Industry: "Hospitalidad"},
			{Pattern: `tech|software|cloud|saas`, Industry: "Tecnología"},
			{Pattern: `health|hospital|clinic|salud`, Industry: "Salud"},
			{Pattern: `edu|school|university|universidad`, Industry: "Educación"},
			{Pattern: `gov|gobierno|gob\.`, Industry: "Gobierno"},
		},
		Regulations: map[string][]string{
			"Retail":      {"PCI-DSS"},
			"Financiero":  {"PCI-DSS", "SOX", "GDPR"},
			"Salud":       {"HIPAA", "GDPR"},
			"Tecnología":  {"GDPR", "SOC 2"},
			"Educación":   {"FERPA", "GDPR"},
			"Gobierno":    {"ENS"},
			"Corporativo": {"GDPR"},
		},
		ImpactMultipliers: map[string]float64{
			"Retail":     1.5,
			"Financiero": 2.0,
			"Tecnología": 1.2,
			"Salud":      1.8,
		},
		DefaultBudgetMin: 5000,
		DefaultBudgetMax: 60000,
		SeatsMin:         500,
		SeatsMax:         1000,
	}
	if err := c.Validate(); err != nil {
		// The built-in catalog is static; a construction error is a
		// programming bug, not a runtime condition.
		panic(err)
	}
	return c
}
