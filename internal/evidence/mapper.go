// SPDX-License-Identifier: Apache-2.0

package evidence

import (
	"net/url"
	"strings"
)

// domainRule maps a set of domain patterns to a score. A pattern starting
// with '.' matches any host ending in it; otherwise it matches the host
// itself and its subdomains.
type domainRule struct {
	patterns []string
	score    float64
}

// Rule tables are evaluated in order; the first match wins.
var (
	eliteUniversityDomains = []string{
		"mit.edu", "stanford.edu", "harvard.edu", "berkeley.edu", "caltech.edu",
		"princeton.edu", "yale.edu", "ox.ac.uk", "cam.ac.uk", "usp.br", "unicamp.br",
	}
	journalDomains = []string{
		"nature.com", "science.org", "sciencemag.org", "cell.com", "thelancet.com",
		"nejm.org", "ieee.org", "acm.org", "springer.com", "sciencedirect.com",
		"wiley.com", "scielo.br", "scielo.org", "plos.org",
	}
	academicSuffixes = []string{
		".edu", ".edu.br", ".edu.pt", ".edu.au", ".ac.uk", ".ac.jp", ".ac.nz",
	}
	moocDomains = []string{
		"coursera.org", "edx.org", "khanacademy.org", "udemy.com", "udacity.com",
	}
	referenceDomains = []string{
		"wikipedia.org", "britannica.com",
	}
	openAccessDomains = []string{
		"arxiv.org", "biorxiv.org", "medrxiv.org", "ncbi.nlm.nih.gov", "europepmc.org",
		"plos.org", "scielo.br", "scielo.org", "doaj.org", "wikipedia.org", "wikimedia.org",
		".gov", ".gov.br", ".gov.uk", ".gov.pt",
	}
	commercialJournalDomains = []string{
		"sciencedirect.com", "elsevier.com", "springer.com", "wiley.com",
		"tandfonline.com", "jstor.org", "sagepub.com",
	}
)

// authorityDomainFloors raise the authority base of a passage hosted on a
// recognised domain. They never lower it.
var authorityDomainFloors = []domainRule{
	{patterns: eliteUniversityDomains, score: 0.95},
	{patterns: journalDomains, score: 0.9},
	{patterns: academicSuffixes, score: 0.8},
	{patterns: append(append([]string{}, moocDomains...), referenceDomains...), score: 0.6},
}

var licenseDomainScores = []domainRule{
	{patterns: openAccessDomains, score: 1.0},
	{patterns: academicSuffixes, score: 0.8},
	{patterns: moocDomains, score: 0.6},
	{patterns: commercialJournalDomains, score: 0.4},
}

// matchDomain returns the score of the first rule matching host.
func matchDomain(rules []domainRule, host string) (float64, bool) {
	if host == "" {
		return 0, false
	}
	for _, rule := range rules {
		for _, pattern := range rule.patterns {
			if hostMatches(host, pattern) {
				return rule.score, true
			}
		}
	}
	return 0, false
}

func hostMatches(host, pattern string) bool {
	if strings.HasPrefix(pattern, ".") {
		return strings.HasSuffix(host, pattern)
	}
	return host == pattern || strings.HasSuffix(host, "."+pattern)
}

// domainOf returns the lowercased host of a passage, preferring the explicit
// metadata domain over the URL.
func domainOf(e Evidence) string {
	if d := normalizeHost(e.Metadata.Domain); d != "" {
		return d
	}
	return hostOf(e.URL)
}

func hostOf(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return normalizeHost(u.Hostname())
}

func normalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	host = strings.TrimSuffix(host, ".")
	return strings.TrimPrefix(host, "www.")
}
