package filter

import (
	"strings"

	"github.com/amishk599/jobmatch/internal/model"
)

// Ensure KeywordFilter implements model.JobFilter.
var _ model.JobFilter = (*KeywordFilter)(nil)

// KeywordFilter keeps postings whose title or company mentions any of the
// keywords. Matching is case-insensitive. An empty keyword list matches all.
type KeywordFilter struct {
	keywords []string
}

// NewKeywordFilter returns a filter over the given keywords. Blank keywords
// are ignored.
func NewKeywordFilter(keywords []string) *KeywordFilter {
	var kws []string
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			kws = append(kws, kw)
		}
	}
	return &KeywordFilter{keywords: kws}
}

// ForPreferences builds a KeywordFilter from the extracted preferences.
func ForPreferences(prefs model.Preferences) model.JobFilter {
	return NewKeywordFilter(prefs.Keywords)
}

// Match returns true if the posting's title or company contains any keyword.
func (f *KeywordFilter) Match(job model.JobPosting) bool {
	if len(f.keywords) == 0 {
		return true
	}

	titleLower := strings.ToLower(job.Title)
	companyLower := strings.ToLower(job.Company)
	for _, kw := range f.keywords {
		if strings.Contains(titleLower, kw) || strings.Contains(companyLower, kw) {
			return true
		}
	}
	return false
}
