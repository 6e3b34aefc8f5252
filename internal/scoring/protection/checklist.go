// internal/scoring/protection/checklist.go
package protection

import (
	"fmt"
	"sort"

	"github.com/arthverse/arthverse/internal/models"
)

// ChecklistItem is one inclusion or exclusion a policy may carry.
type ChecklistItem struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Default bool   `json:"default"`
	Checked bool   `json:"checked"`
}

type Checklist struct {
	Category   models.PolicyCategory `json:"category"`
	Inclusions []ChecklistItem       `json:"inclusions"`
	Exclusions []ChecklistItem       `json:"exclusions"`
}

type item struct {
	key   string
	label string
	def   bool
}

var (
	lifeInclusions = []item{
		{"death_illness", "Death due to illness", true},
		{"death_accident", "Death due to accident", true},
		{"accidental_disability", "Accidental disability rider", false},
		{"critical_illness", "Critical illness rider", false},
		{"waiver_premium", "Waiver of premium", false},
		{"terminal_illness", "Terminal illness benefit", false},
	}
	lifeExclusions = []item{
		{"suicide_clause", "Suicide clause (1-2 years)", true},
		{"ped", "Pre-existing diseases not disclosed", true},
		{"alcohol_drugs", "Death due to alcohol/drugs", true},
		{"adventure_sports", "Adventure sports", false},
		{"war_terrorism", "War/terrorism", true},
	}
	healthInclusions = []item{
		{"hospitalization", "Hospitalization covered", true},
		{"daycare", "Day-care procedures", true},
		{"pre_post_hosp", "Pre & post hospitalization", true},
		{"critical_illness", "Critical illness", false},
		{"opd", "OPD coverage", false},
		{"maternity", "Maternity coverage", false},
		{"ambulance", "Ambulance charges", true},
		{"room_rent", "Room rent (no capping)", false},
		{"ayush", "AYUSH treatment", false},
		{"domiciliary", "Domiciliary hospitalization", false},
	}
	healthExclusions = []item{
		{"ped_waiting", "Pre-existing diseases (waiting period)", true},
		{"initial_waiting", "Initial 30-day waiting period", true},
		{"specific_diseases", "Specific diseases (1-2 year wait)", true},
		{"cosmetic", "Cosmetic/plastic surgery", true},
		{"dental", "Dental treatment (unless accident)", true},
		{"mental_health", "Mental health conditions", false},
		{"self_inflicted", "Self-inflicted injuries", true},
		{"adventure_sports", "Adventure sports injuries", true},
	}
	vehicleInclusions = []item{
		{"own_damage", "Own damage cover", true},
		{"third_party", "Third-party liability", true},
		{"theft", "Theft coverage", true},
		{"fire", "Fire damage", true},
		{"natural_calamity", "Natural calamity", true},
		{"personal_accident", "Personal accident cover", true},
		{"zero_depreciation", "Zero depreciation", false},
		{"roadside_assistance", "Roadside assistance", false},
		{"engine_protect", "Engine protection", false},
		{"ncb_protect", "NCB protection", false},
	}
	vehicleExclusions = []item{
		{"drunk_driving", "Drunk driving", true},
		{"no_license", "Driving without valid license", true},
		{"wear_tear", "Normal wear and tear", true},
		{"consequential_damage", "Consequential damage", true},
		{"electrical_failure", "Electrical/mechanical failure", true},
		{"racing", "Racing/speed testing", true},
	}
	cardInclusions = []item{
		{"accidental_death", "Accidental death cover", false},
		{"air_travel", "Air travel insurance", false},
		{"fraud_protection", "Fraud/purchase protection", true},
		{"lost_card", "Lost card liability", true},
		{"travel_insurance", "Travel insurance", false},
		{"baggage_delay", "Baggage delay cover", false},
		{"lounge_access", "Lounge access", false},
		{"golf_cover", "Golf cover", false},
	}
)

// ChecklistFor returns a fresh copy of the standard checklist of a category,
// with every item checked at its default.
func ChecklistFor(category models.PolicyCategory) (*Checklist, error) {
	var inc, exc []item
	switch category {
	case models.CategoryLife:
		inc, exc = lifeInclusions, lifeExclusions
	case models.CategoryHealth:
		inc, exc = healthInclusions, healthExclusions
	case models.CategoryVehicle:
		inc, exc = vehicleInclusions, vehicleExclusions
	case models.CategoryCards:
		inc = cardInclusions
	default:
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownCategory, category)
	}

	return &Checklist{
		Category:   category,
		Inclusions: materialize(inc),
		Exclusions: materialize(exc),
	}, nil
}

func materialize(items []item) []ChecklistItem {
	out := make([]ChecklistItem, len(items))
	for i, it := range items {
		out[i] = ChecklistItem{Key: it.key, Label: it.label, Default: it.def, Checked: it.def}
	}
	return out
}

// ApplyCoverage overlays a user's saved ticks on the checklist and returns the
// keys that match no checklist item, sorted.
func (c *Checklist) ApplyCoverage(cov *models.PolicyCoverage) []string {
	if cov == nil {
		return nil
	}

	var unknown []string
	unknown = append(unknown, overlay(c.Inclusions, cov.Inclusions)...)
	unknown = append(unknown, overlay(c.Exclusions, cov.Exclusions)...)
	sort.Strings(unknown)
	return unknown
}

func overlay(items []ChecklistItem, ticks map[string]bool) []string {
	index := make(map[string]int, len(items))
	for i, it := range items {
		index[it.Key] = i
	}

	var unknown []string
	for key, checked := range ticks {
		i, ok := index[key]
		if !ok {
			unknown = append(unknown, key)
			continue
		}
		items[i].Checked = checked
	}
	return unknown
}

// Gaps lists the labels of inclusions that are not checked.
func (c *Checklist) Gaps() []string {
	var out []string
	for _, it := range c.Inclusions {
		if !it.Checked {
			out = append(out, it.Label)
		}
	}
	return out
}
