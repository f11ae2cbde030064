package access

import "strings"

// Template is a named, immutable permission bundle used to provision new
// admins quickly. The permission list is fixed at catalog build time; it is
// only ever copied onto accounts, never granted implicitly.
type Template struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Icon        string   `json:"icon"`
	Color       string   `json:"color"`
	Permissions []string `json:"permissions"`
}

// CopyPermissions returns a fresh slice suitable for assigning to an
// account without aliasing the catalog.
func (t Template) CopyPermissions() []string {
	return append([]string(nil), t.Permissions...)
}

// Template categories used for presentation grouping only; they carry no
// authorization meaning.
const (
	CategoryCommunity      = "community"
	CategoryAcademics      = "academics"
	CategoryAdministration = "administration"
)

// SimilarityThreshold is the minimum overlap ratio for FindSimilar to
// report a match.
const SimilarityThreshold = 0.5

// Catalog is the process-wide, read-only set of role templates. Build it
// once at startup; it requires no locking because it is never mutated.
type Catalog struct {
	templates []Template
}

type keywordRule struct {
	keywords    []string
	templateIDs []string
}

var recommendationRules = []keywordRule{
	{keywords: []string{"society", "club"}, templateIDs: []string{"society_admin"}},
	{keywords: []string{"event", "fest"}, templateIDs: []string{"events_manager"}},
	{keywords: []string{"placement", "career"}, templateIDs: []string{"placement_coordinator"}},
	{keywords: []string{"notes", "library"}, templateIDs: []string{"notes_librarian"}},
	{keywords: []string{"head", "hod", "dean"}, templateIDs: []string{"department_head"}},
	{keywords: []string{"moderat"}, templateIDs: []string{"content_moderator"}},
}

// defaultRecommendedIDs is the advisory fallback pair when no keyword
// matches the hint.
var defaultRecommendedIDs = []string{"society_admin", "events_manager"}

// NewCatalog builds the fixed template catalog. Declaration order is
// significant: FindSimilar breaks ties toward earlier templates.
func NewCatalog() *Catalog {
	return &Catalog{templates: []Template{
		{
			ID:          "society_admin",
			Name:        "Society Admin",
			Description: "Runs a student society: manages its events and shared notes.",
			Category:    CategoryCommunity,
			Icon:        "groups",
			Color:       "indigo",
			Permissions: []string{
				"events:create:own",
				"events:edit:own",
				"events:delete:own",
				"notes:upload:own",
				"notes:edit:own",
				"members:view:department",
			},
		},
		{
			ID:          "events_manager",
			Name:        "Events Manager",
			Description: "Coordinates events across a department.",
			Category:    CategoryCommunity,
			Icon:        "event",
			Color:       "teal",
			Permissions: []string{
				"events:create:department",
				"events:edit:department",
				"events:delete:department",
				"events:view:all",
			},
		},
		{
			ID:          "notes_librarian",
			Name:        "Notes Librarian",
			Description: "Curates the shared study-notes library campus-wide.",
			Category:    CategoryAcademics,
			Icon:        "menu_book",
			Color:       "amber",
			Permissions: []string{
				"notes:upload:all",
				"notes:edit:all",
				"notes:delete:all",
				"notes:view:all",
			},
		},
		{
			ID:          "placement_coordinator",
			Name:        "Placement Coordinator",
			Description: "Manages placement drives and postings for a department.",
			Category:    CategoryAcademics,
			Icon:        "work",
			Color:       "blue",
			Permissions: []string{
				"placements:create:department",
				"placements:edit:department",
				"placements:delete:department",
				"members:view:department",
			},
		},
		{
			ID:          "department_head",
			Name:        "Department Head",
			Description: "Read access to everything happening in the department.",
			Category:    CategoryAdministration,
			Icon:        "account_balance",
			Color:       "purple",
			Permissions: []string{
				"members:view:department",
				"members:edit:department",
				"events:view:department",
				"notes:view:department",
				"placements:view:department",
			},
		},
		{
			ID:          "content_moderator",
			Name:        "Content Moderator",
			Description: "Removes inappropriate content anywhere on campus.",
			Category:    CategoryAdministration,
			Icon:        "shield",
			Color:       "red",
			Permissions: []string{
				"notes:delete:all",
				"events:delete:all",
				"comments:delete:all",
			},
		},
	}}
}

// All returns the templates in declaration order. The returned slice is a
// copy; the catalog stays immutable.
func (c *Catalog) All() []Template {
	return append([]Template(nil), c.templates...)
}

// Grouped returns templates keyed by presentation category.
func (c *Catalog) Grouped() map[string][]Template {
	out := make(map[string][]Template)
	for _, t := range c.templates {
		out[t.Category] = append(out[t.Category], t)
	}
	return out
}

// FindByID returns the template with the given id, if any.
func (c *Catalog) FindByID(id string) (Template, bool) {
	for _, t := range c.templates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

// Recommended suggests templates from a free-text hint such as the domain
// segment of an email address. Purely advisory: results must never grant
// access by themselves. Falls back to a fixed default pair when nothing
// matches.
func (c *Catalog) Recommended(hint string) []Template {
	hint = strings.ToLower(strings.TrimSpace(hint))
	var ids []string
	if hint != "" {
		for _, rule := range recommendationRules {
			for _, kw := range rule.keywords {
				if strings.Contains(hint, kw) {
					ids = append(ids, rule.templateIDs...)
					break
				}
			}
		}
	}
	if len(ids) == 0 {
		ids = defaultRecommendedIDs
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]Template, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if t, ok := c.FindByID(id); ok {
			out = append(out, t)
		}
	}
	return out
}

// FindSimilar scores every template against the given permission set as
// |intersection| / max(1, |template permissions|) and returns the best
// template at or above the similarity threshold. Ties resolve to the first
// template in declaration order, keeping results deterministic.
func (c *Catalog) FindSimilar(permissions []string) (Template, float64, bool) {
	granted := make(map[string]struct{}, len(permissions))
	for _, p := range permissions {
		granted[p] = struct{}{}
	}
	var (
		best      Template
		bestScore float64
		found     bool
	)
	for _, t := range c.templates {
		overlap := 0
		for _, p := range t.Permissions {
			if _, ok := granted[p]; ok {
				overlap++
			}
		}
		size := len(t.Permissions)
		if size == 0 {
			size = 1
		}
		score := float64(overlap) / float64(size)
		if score > bestScore {
			best, bestScore, found = t, score, true
		}
	}
	if !found || bestScore < SimilarityThreshold {
		return Template{}, 0, false
	}
	return best, bestScore, true
}
