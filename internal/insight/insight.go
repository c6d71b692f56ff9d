// Package insight converts boolean/enum posture observations into
// severity-tagged commercial insights: what was observed, what it costs the
// business and what fixing it looks like. All impact figures come from the
// injected rules.Catalog; nothing here invents a number.
package insight

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/prospectscan/prospectscan/internal/model"
	"github.com/prospectscan/prospectscan/internal/rules"
)

// DetectIndustry runs the catalog's best-effort keyword match over a domain
// name. Unmatched domains get the generic corporate tag, never an error.
func DetectIndustry(domain string, cat *rules.Catalog) string {
	return cat.MatchIndustry(strings.ToLower(strings.TrimSpace(domain)))
}

// Derive produces the insight list for one posture. Each derivation rule
// fires only when its condition holds on a concrete input field, so removing
// the signal removes the insight.
func Derive(p model.SecurityPosture, industry string, cat *rules.Catalog) []model.Insight {
	var out []model.Insight
	if in := deriveTLS(p, industry, cat); in != nil {
		out = append(out, *in)
	}
	if in := deriveWAF(p, industry, cat); in != nil {
		out = append(out, *in)
	}
	if in := deriveEmail(p, cat); in != nil {
		out = append(out, *in)
	}
	return out
}

// deriveTLS fires when HTTPS is not enforced. Impact scales with the
// industry multiplier from the catalog.
func deriveTLS(p model.SecurityPosture, industry string, cat *rules.Catalog) *model.Insight {
	if p.HasHTTPS {
		return nil
	}
	issue, ok := cat.Issues["ssl_invalid"]
	if !ok {
		return nil
	}
	mult := cat.Multiplier(industry)
	minLoss := int(float64(issue.RevenueMin) * mult)
	maxLoss := int(float64(issue.RevenueMax) * mult)

	return &model.Insight{
		Category:        "ssl",
		Title:           "Certificado SSL inválido o ausente",
		Status:          issue.InsightStatus,
		TechnicalDetail: "HTTPS no forzado. Los navegadores mostrarán advertencias de seguridad.",
		BusinessImpact: fmt.Sprintf("Pérdida estimada: %s-%s %s en conversión. Penalización SEO activa.",
			usd(minLoss), usd(maxLoss), issue.RevenueUnit),
		CostEstimate: map[string]string{
			"fix_cost":       fmt.Sprintf("%s-%s %s", usd(issue.FixCostMin), usd(issue.FixCostMax), issue.FixCostUnit),
			"potential_loss": fmt.Sprintf("%s-%s %s", usd(minLoss), usd(maxLoss), issue.RevenueUnit),
		},
		Recommendation: issue.Remediation,
		Urgency:        issue.UrgencyLabel,
	}
}

// deriveWAF fires when no CDN/WAF provider was detected.
func deriveWAF(p model.SecurityPosture, industry string, cat *rules.Catalog) *model.Insight {
	if p.CDNWAF != "" {
		return nil
	}
	issue, ok := cat.Issues["no_waf"]
	if !ok {
		return nil
	}
	return &model.Insight{
		Category:        "infrastructure",
		Title:           "Sin WAF/CDN de protección",
		Status:          issue.InsightStatus,
		TechnicalDetail: "No se detectaron cabeceras de Cloudflare, Akamai, Fastly u otros proveedores de protección.",
		BusinessImpact: fmt.Sprintf("Vulnerable a ataques volumétricos, sin optimización de latencia. Pérdida potencial: %s-%s %s.",
			usd(issue.RevenueMin), usd(issue.RevenueMax), issue.RevenueUnit),
		CostEstimate: map[string]string{
			"fix_cost": fmt.Sprintf("%s-%s %s", usd(issue.FixCostMin), usd(issue.FixCostMax), issue.FixCostUnit),
			"roi_time": "3-6 meses",
		},
		Recommendation: fmt.Sprintf("%s Aplica a empresas de %s.", issue.Remediation, industry),
		Urgency:        issue.UrgencyLabel,
	}
}

// deriveEmail reports either an active email-security investment (a positive
// budget signal) or a weak/absent DMARC policy, whichever the posture shows.
func deriveEmail(p model.SecurityPosture, cat *rules.Catalog) *model.Insight {
	if len(p.SecurityVendors) > 0 {
		vendor := p.SecurityVendors[0]
		detail := fmt.Sprintf("Gateway de seguridad: %s. SPF: %s. DMARC: %s.",
			vendor, presente(p.HasSPF), presente(p.HasDMARC))

		impact := "Inversión activa en ciberseguridad. Cliente B2B calificado."
		if cost, ok := cat.VendorCosts[vendor]; ok {
			impact = fmt.Sprintf("Inversión activa en ciberseguridad (~%d-%d %s). Cliente B2B calificado.",
				cost.Min, cost.Max, cost.Unit)
		}
		return &model.Insight{
			Category:        "email",
			Title:           "Seguridad de email: excelente",
			Status:          "ok",
			TechnicalDetail: detail,
			BusinessImpact:  impact,
			Recommendation: fmt.Sprintf("Usar como punto de entrada: 'Su inversión en %s es excelente. ¿Han considerado el mismo nivel de protección para su web?'",
				vendor),
			Urgency: "medium",
		}
	}

	if !p.HasDMARC {
		issue, ok := cat.Issues["weak_dmarc"]
		if !ok {
			return nil
		}
		return &model.Insight{
			Category:        "email",
			Title:           "DMARC ausente o débil",
			Status:          issue.InsightStatus,
			TechnicalDetail: "DMARC: ausente. El dominio es vulnerable a phishing y spoofing.",
			BusinessImpact: fmt.Sprintf("Riesgo de suplantación de identidad y daño reputacional. Costo promedio de incidente: %s-%s.",
				usd(issue.RevenueMin), usd(issue.RevenueMax)),
			CostEstimate: map[string]string{
				"fix_cost":     "$0 (configuración gratuita)",
				"avoided_cost": fmt.Sprintf("%s-%s por incidente prevenido", usd(issue.RevenueMin), usd(issue.RevenueMax)),
			},
			Recommendation: issue.Remediation,
			Urgency:        issue.UrgencyLabel,
		}
	}
	return nil
}

func presente(b bool) string {
	if b {
		return "presente"
	}
	return "ausente"
}

// usd renders an integer amount as "$1,234,567".
func usd(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-$" + b.String()
	}
	return "$" + b.String()
}
