package model

import "time"

// SecurityPosture is the aggregated technical classification produced by the
// DNS/HTTP probing collaborator. It is cold and technical: no business
// context is ever mixed in, and it never descends to vendor-level diagnosis.
type SecurityPosture struct {
	Domain string `json:"domain"`

	// Aggregated posture buckets. Identity covers email security, Exposure
	// covers the web surface, General combines both.
	Identity PostureLevel `json:"identity_posture"`
	Exposure PostureLevel `json:"exposure_posture"`
	General  PostureLevel `json:"general_posture"`

	// Score is a 0-100 aggregate used only for ordering.
	Score int `json:"aggregated_score"`

	// Detected vendors, for cross-referencing, not diagnosis.
	EmailVendors    []string `json:"email_vendors,omitempty"`
	SecurityVendors []string `json:"security_vendors,omitempty"`

	// CDNWAF names the detected CDN/WAF provider; empty when none detected.
	CDNWAF string `json:"cdn_waf,omitempty"`

	// Simple boolean hygiene indicators.
	HasSPF   bool `json:"has_spf"`
	HasDMARC bool `json:"has_dmarc"`
	HasHTTPS bool `json:"has_https"`
	HasHSTS  bool `json:"has_hsts"`

	// AnalyzedAt is when the probing ran; Method tags how
	// (e.g. "dns_scan", "header_check").
	AnalyzedAt time.Time `json:"analyzed_at"`
	Method     string    `json:"analysis_method"`
}
