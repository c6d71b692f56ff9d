// Package ingest builds immutable snapshots out of already-parsed source
// rows and normalizes the domains they key on. Parsing the source export
// itself (CSV, API dumps) happens upstream; this package only seals a batch:
// checksum, version counter and the new/updated/total bookkeeping relative
// to the previous snapshot.
package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/mail"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"

	"github.com/prospectscan/prospectscan/internal/model"
)

// BuildSnapshot seals a batch of source records into a new immutable
// Snapshot. prev, when non-nil, is the previous version of the same feed and
// drives the version counter and the new/updated counts.
func BuildSnapshot(source model.DataSource, records []model.SourceCompanyRecord, prev *model.Snapshot) model.Snapshot {
	id := uuid.New().String()
	now := time.Now().UTC()

	version := 1
	prevDigests := map[string]string{}
	if prev != nil {
		version = prev.Version + 1
		for _, r := range prev.Records {
			prevDigests[r.Domain] = recordDigest(r)
		}
	}

	owned := make([]model.SourceCompanyRecord, len(records))
	copy(owned, records)
	newCount, updatedCount := 0, 0
	for i := range owned {
		owned[i].SnapshotID = id
		prevDigest, seen := prevDigests[owned[i].Domain]
		switch {
		case !seen:
			newCount++
		case prevDigest != recordDigest(owned[i]):
			updatedCount++
		}
	}

	return model.Snapshot{
		ID:             id,
		Source:         source,
		IngestedAt:     now,
		Version:        version,
		Checksum:       checksum(owned),
		TotalRecords:   len(owned),
		NewRecords:     newCount,
		UpdatedRecords: updatedCount,
		Records:        owned,
	}
}

// checksum is the sha256 hex digest over the sorted canonical record lines,
// independent of input order and of the snapshot id.
func checksum(records []model.SourceCompanyRecord) string {
	lines := make([]string, 0, len(records))
	for _, r := range records {
		lines = append(lines, recordDigest(r))
	}
	sort.Strings(lines)
	h := sha256.New()
	for _, l := range lines {
		h.Write([]byte(l))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// recordDigest canonicalizes the fields downstream derivations read. The
// snapshot id is deliberately excluded so digests are comparable across
// versions.
func recordDigest(r model.SourceCompanyRecord) string {
	growth := model.NotAvailable
	if r.EmployeeGrowth12M != nil {
		growth = fmt.Sprintf("%.2f", *r.EmployeeGrowth12M)
	}
	funding := model.NotAvailable
	if r.RecentFunding != nil {
		funding = fmt.Sprintf("%t", *r.RecentFunding)
	}
	return strings.Join([]string{
		r.SourceID, r.Domain, r.Name, r.Industry, r.SubIndustry,
		r.EmployeeRange, r.RevenueRange, r.Country, r.Region,
		growth, funding, strings.Join(r.KnownTechStack, ";"),
	}, "|")
}

// RegistrableDomain normalizes a raw URL or bare host down to its eTLD+1.
// Hosts the public-suffix list cannot reduce (intranet names, IPs) pass
// through unchanged.
func RegistrableDomain(raw string) (string, error) {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "" {
		return "", fmt.Errorf("ingest: empty domain")
	}
	host := raw
	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", fmt.Errorf("ingest: parsing %q: %w", raw, err)
		}
		host = u.Hostname()
	} else if i := strings.IndexAny(raw, "/:"); i >= 0 {
		host = raw[:i]
	}
	if host == "" {
		return "", fmt.Errorf("ingest: no host in %q", raw)
	}
	registrable, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host, nil
	}
	return registrable, nil
}

// personalDomains are consumer mail providers filtered out when extracting
// company domains from email lists.
var personalDomains = map[string]bool{
	"gmail.com":      true,
	"googlemail.com": true,
	"hotmail.com":    true,
	"outlook.com":    true,
	"live.com":       true,
	"yahoo.com":      true,
	"yahoo.es":       true,
	"icloud.com":     true,
	"aol.com":        true,
	"protonmail.com": true,
	"proton.me":      true,
}

// DomainFromEmail validates an email address and extracts its registrable
// domain. ok is false for malformed addresses and for personal providers.
func DomainFromEmail(email string) (domain string, ok bool) {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return "", false
	}
	at := strings.LastIndex(addr.Address, "@")
	if at < 0 || at == len(addr.Address)-1 {
		return "", false
	}
	host := strings.ToLower(addr.Address[at+1:])
	registrable, err := RegistrableDomain(host)
	if err != nil {
		return "", false
	}
	if personalDomains[registrable] {
		return "", false
	}
	return registrable, true
}

// UniqueDomains extracts the deduplicated, sorted set of company domains
// from a list of emails, skipping invalid addresses and personal providers.
func UniqueDomains(emails []string) []string {
	seen := map[string]bool{}
	for _, e := range emails {
		if d, ok := DomainFromEmail(e); ok {
			seen[d] = true
		}
	}
	out := make([]string, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}
