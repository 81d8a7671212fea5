package validation

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/profile-extractor/internal/schemas"
	"github.com/jonathan/profile-extractor/internal/types"
)

// Defaults for non-empty values that match nothing.
const (
	DefaultCompanyType   = "For Profit"
	DefaultSchoolType    = "Academic"
	DefaultEmployeeCount = "1-10"
	DefaultGrowthStage   = "Small Business"
)

type fuzzyRule struct {
	pattern *regexp.Regexp
	value   string
}

func rule(pattern, value string) fuzzyRule {
	return fuzzyRule{pattern: regexp.MustCompile(`(?i)` + pattern), value: value}
}

var organizationTypeRules = []fuzzyRule{
	rule(`\bb.?corp\b|benefit corporation`, "Bcorp"),
	rule(`private.*profit|\bllc\b|partnership`, "Private For Profit"),
	rule(`public.*profit|corporation|public.*company|publicly traded`, "Public For Profit"),
	rule(`non.?profit|not.for.profit|charity|foundation`, "Non Profit"),
	rule(`government|\bgov\b|agency|municipal`, "Government Organization"),
	rule(`political`, "Political Organization"),
	rule(`academic|university|college|school|education|institute`, "Academic"),
	rule(`for.profit|commercial|company|business`, "For Profit"),
}

var growthStageRules = []fuzzyRule{
	rule(`large.*enterprise|enterprise|fortune|multinational`, "Large Enterprise"),
	rule(`established.*startup`, "Established Startup"),
	rule(`pre.?revenue|early.?stage|seed`, "Pre-Revenue Startup"),
	rule(`small.*business|small`, "Small Business"),
	rule(`medium.*business|mid.?size|medium`, "Medium Business"),
	rule(`high.?growth|growth.*startup|scale.?up|series [a-d]`, "High-Growth Startup"),
}

var employeeBounds = []struct {
	max     int
	bracket string
}{
	{10, "1-10"},
	{50, "11-50"},
	{100, "51-100"},
	{500, "101-500"},
	{1000, "501-1000"},
	{5000, "1001-5000"},
	{10000, "5001-10000"},
	{50000, "10001-50000"},
}

var countToken = regexp.MustCompile(`(?i)(\d[\d,]*)(\s*k\b)?`)

// MapEnum maps v onto the allowed values of f.
func MapEnum(f schemas.Field, domain types.Domain, v string) string {
	switch f.Label {
	case "ORGANIZATION_TYPE":
		return MapOrganizationType(v, domain)
	case "EMPLOYEES_COUNT":
		return MapEmployeeCount(v)
	case "GROWTH_STAGE":
		return MapGrowthStage(v)
	}
	if exact := exactMatch(v, f.Allowed); exact != "" {
		return exact
	}
	if len(f.Allowed) > 0 {
		return f.Allowed[0]
	}
	return v
}

// MapOrganizationType maps free text onto schemas.OrganizationTypes. Blank
// input stays blank; anything else unmatched gets the domain default.
func MapOrganizationType(v string, domain types.Domain) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if exact := exactMatch(v, schemas.OrganizationTypes); exact != "" {
		return exact
	}
	if m := fuzzy(v, organizationTypeRules); m != "" {
		return m
	}
	return DefaultOrganizationType(domain)
}

// DefaultOrganizationType is the organization type used when nothing else is known.
func DefaultOrganizationType(domain types.Domain) string {
	if domain == types.DomainSchool {
		return DefaultSchoolType
	}
	return DefaultCompanyType
}

// MapEmployeeCount buckets the largest number in v into schemas.EmployeeBrackets.
func MapEmployeeCount(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if exact := exactMatch(v, schemas.EmployeeBrackets); exact != "" {
		return exact
	}

	maxCount := -1
	for _, m := range countToken.FindAllStringSubmatch(v, -1) {
		n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
		if err != nil {
			continue
		}
		if m[2] != "" {
			n *= 1000
		}
		maxCount = max(maxCount, n)
	}
	if maxCount < 0 {
		return DefaultEmployeeCount
	}
	return EmployeeBracket(maxCount)
}

// EmployeeBracket returns the bracket containing n.
func EmployeeBracket(n int) string {
	for _, b := range employeeBounds {
		if n <= b.max {
			return b.bracket
		}
	}
	return schemas.EmployeeBrackets[len(schemas.EmployeeBrackets)-1]
}

// MapGrowthStage maps free text onto schemas.GrowthStages.
func MapGrowthStage(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if exact := exactMatch(v, schemas.GrowthStages); exact != "" {
		return exact
	}
	if m := fuzzy(v, growthStageRules); m != "" {
		return m
	}
	return DefaultGrowthStage
}

func exactMatch(v string, allowed []string) string {
	v = strings.Trim(v, ` '"`)
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return a
		}
	}
	return ""
}

func fuzzy(v string, rules []fuzzyRule) string {
	for _, r := range rules {
		if r.pattern.MatchString(v) {
			return r.value
		}
	}
	return ""
}
