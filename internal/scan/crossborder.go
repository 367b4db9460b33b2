package scan

import (
	"fmt"
	"sort"
	"strings"
)

// countryDomains maps country-code TLD suffixes to countries. The table
// is fixed and covers the EU/EEA suffixes the heuristics care about.
var countryDomains = map[string]string{
	".uk": "United Kingdom",
	".de": "Germany",
	".fr": "France",
	".it": "Italy",
	".es": "Spain",
	".nl": "Netherlands",
	".se": "Sweden",
	".dk": "Denmark",
	".no": "Norway",
	".fi": "Finland",
	".pl": "Poland",
	".cz": "Czech Republic",
	".at": "Austria",
	".ch": "Switzerland",
	".be": "Belgium",
	".ie": "Ireland",
	".pt": "Portugal",
	".gr": "Greece",
	".hu": "Hungary",
	".ro": "Romania",
	".bg": "Bulgaria",
	".hr": "Croatia",
	".si": "Slovenia",
	".sk": "Slovakia",
	".lt": "Lithuania",
	".lv": "Latvia",
	".ee": "Estonia",
	".lu": "Luxembourg",
	".mt": "Malta",
	".cy": "Cyprus",
}

// DetectCrossBorder derives cross-border transfer indicators from the
// distinct email set. Two or more distinct contributor countries produce
// a multi-country indicator. Any non-empty scan additionally produces the
// fixed platform-transfer indicator: hosting history on a third-party
// platform is treated as an international transfer by policy, regardless
// of the personal data actually found. A zero-commit scan produces no
// indicators at all.
func DetectCrossBorder(emails []string, totalCommits int) []CrossBorderIndicator {
	if totalCommits == 0 {
		return nil
	}

	countries := map[string]struct{}{}
	for _, email := range emails {
		at := strings.LastIndex(email, "@")
		if at < 0 {
			continue
		}
		domain := strings.ToLower(email[at+1:])
		for tld, country := range countryDomains {
			if strings.HasSuffix(domain, tld) {
				countries[country] = struct{}{}
			}
		}
	}

	var indicators []CrossBorderIndicator
	if len(countries) > 1 {
		names := make([]string, 0, len(countries))
		for c := range countries {
			names = append(names, c)
		}
		sort.Strings(names)
		indicators = append(indicators, CrossBorderIndicator{
			Type:        "multi_country_contributors",
			Description: fmt.Sprintf("Contributors from %d different countries detected", len(names)),
			Countries:   names,
			Implication: "Cross-border data transfer without explicit consent mechanism",
		})
	}

	indicators = append(indicators, CrossBorderIndicator{
		Type:        "platform_transfer",
		Description: "Repository history hosted on a third-party platform (US-based)",
		Implication: "EU personal data transferred to US without adequate safeguards",
		LegalBasis:  "Unclear - no explicit consent for international transfer",
	})
	return indicators
}
