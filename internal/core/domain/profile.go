package domain

import "slices"

// MaxRecentlyViewed bounds UserProfile.RecentlyViewedDocuments.
const MaxRecentlyViewed = 10

// UserProfile describes the person using a workspace.
type UserProfile struct {
	ID                    string
	Name                  string
	Email                 string
	UIPreferences         map[string]any
	SearchPreferences     map[string]any
	Role                  string
	Employer              string
	PreferredJurisdiction string

	// RecentlyViewedDocuments is most-recent-first and deduplicated.
	RecentlyViewedDocuments []string
}

// AddViewedDocument moves documentID to the front of the recently viewed list.
func (p *UserProfile) AddViewedDocument(documentID string) {
	recent := slices.DeleteFunc(slices.Clone(p.RecentlyViewedDocuments), func(id string) bool {
		return id == documentID
	})
	recent = slices.Insert(recent, 0, documentID)
	if len(recent) > MaxRecentlyViewed {
		recent = recent[:MaxRecentlyViewed]
	}
	p.RecentlyViewedDocuments = recent
}

// ToMap converts the profile into its nested-map form.
func (p *UserProfile) ToMap() map[string]any {
	recent := p.RecentlyViewedDocuments
	if recent == nil {
		recent = []string{}
	}
	return map[string]any{
		"id":                        p.ID,
		"name":                      p.Name,
		"email":                     p.Email,
		"ui_preferences":            p.UIPreferences,
		"search_preferences":        p.SearchPreferences,
		"role":                      optionalString(p.Role),
		"employer":                  optionalString(p.Employer),
		"preferred_jurisdiction":    optionalString(p.PreferredJurisdiction),
		"recently_viewed_documents": recent,
	}
}
