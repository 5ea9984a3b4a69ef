package filter

import (
	"testing"

	"github.com/amishk599/jobmatch/internal/model"
)

func posting(title, company string) model.JobPosting {
	return model.JobPosting{Title: title, Company: company}
}

func TestKeywordFilter_Match(t *testing.T) {
	tests := []struct {
		name      string
		keywords  []string
		job       model.JobPosting
		wantMatch bool
	}{
		{
			name:      "title contains keyword",
			keywords:  []string{"frontend", "developer"},
			job:       posting("Senior Frontend Engineer", "Acme"),
			wantMatch: true,
		},
		{
			name:      "case insensitive matching",
			keywords:  []string{"REACT"},
			job:       posting("React Developer", "Beta"),
			wantMatch: true,
		},
		{
			name:      "company contains keyword",
			keywords:  []string{"stripe"},
			job:       posting("Software Engineer", "Stripe"),
			wantMatch: true,
		},
		{
			name:      "no keyword matches",
			keywords:  []string{"devops", "sre"},
			job:       posting("Frontend Engineer", "Acme"),
			wantMatch: false,
		},
		{
			name:      "empty keyword list passes all",
			keywords:  []string{},
			job:       posting("Any Role", "Anyone"),
			wantMatch: true,
		},
		{
			name:      "blank keywords are ignored",
			keywords:  []string{"  ", ""},
			job:       posting("Any Role", "Anyone"),
			wantMatch: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewKeywordFilter(tt.keywords)
			got := f.Match(tt.job)
			if got != tt.wantMatch {
				t.Errorf("Match() = %v, want %v", got, tt.wantMatch)
			}
		})
	}
}

func TestForPreferences_UsesKeywords(t *testing.T) {
	f := ForPreferences(model.Preferences{Keywords: []string{"go"}, Location: "Berlin", Remote: true})
	if !f.Match(posting("Go Engineer", "")) {
		t.Error("expected Go Engineer to match")
	}
	if f.Match(posting("Java Engineer", "")) {
		t.Error("expected Java Engineer not to match")
	}
}
