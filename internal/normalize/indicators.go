package normalize

// businessWords are tokens that strongly suggest an organization.
var businessWords = toSet(
	"LLC", "INC", "CORP", "CORPORATION", "CO", "COMPANY", "LTD", "LIMITED", "LLP", "LP", "PLLC", "PC", "PA",
	"GROUP", "HOLDINGS", "PARTNERS", "ASSOCIATES", "ENTERPRISES", "INDUSTRIES", "INTERNATIONAL",
	"SERVICES", "SERVICE", "SOLUTIONS", "SYSTEMS", "TECHNOLOGIES", "TECHNOLOGY", "CONSULTING",
	"MANAGEMENT", "PROPERTIES", "REALTY", "CONSTRUCTION", "CONTRACTING", "SUPPLY", "SUPPLIES",
	"DISTRIBUTION", "DISTRIBUTORS", "MANUFACTURING", "LOGISTICS", "TRANSPORT", "TRUCKING",
	"BANK", "CREDIT", "UNION", "INSURANCE", "FINANCIAL", "CAPITAL", "INVESTMENTS", "TRUST",
	"HOSPITAL", "CLINIC", "MEDICAL", "DENTAL", "HEALTH", "PHARMACY", "LABS", "LABORATORY",
	"RESTAURANT", "CAFE", "GRILL", "BAKERY", "MARKET", "STORE", "STORES", "SHOP", "MART",
	"CENTER", "CENTRE", "AUTHORITY", "DEPARTMENT", "DEPT", "COUNTY", "CITY", "STATE", "SCHOOL",
	"UNIVERSITY", "COLLEGE", "ACADEMY", "FOUNDATION", "ASSOCIATION", "SOCIETY", "CHURCH",
	"MINISTRIES", "AGENCY", "BUREAU", "COMMISSION", "DISTRICT", "UTILITIES", "ELECTRIC", "ENERGY",
	"WATER", "GAS", "TELECOM", "WIRELESS", "COMMUNICATIONS", "MEDIA", "STUDIO", "STUDIOS",
	"STORAGE", "EQUIPMENT", "RENTAL", "RENTALS", "MOTORS", "AUTO", "AUTOMOTIVE", "FARMS", "RANCH",
)

// individualWords are tokens that suggest a natural person: generational
// suffixes, honorifics and common given names.
var individualWords = toSet(
	"JR", "SR", "II", "III", "IV", "MR", "MRS", "MS", "MISS", "DR",
	"JAMES", "JOHN", "ROBERT", "MICHAEL", "WILLIAM", "DAVID", "RICHARD", "JOSEPH", "THOMAS",
	"CHARLES", "CHRISTOPHER", "DANIEL", "MATTHEW", "ANTHONY", "MARK", "DONALD", "STEVEN", "PAUL",
	"ANDREW", "JOSHUA", "KENNETH", "KEVIN", "BRIAN", "GEORGE", "TIMOTHY", "RONALD", "EDWARD",
	"JASON", "JEFFREY", "RYAN", "JACOB", "GARY", "NICHOLAS", "ERIC", "JONATHAN", "STEPHEN",
	"LARRY", "JUSTIN", "SCOTT", "BRANDON", "BENJAMIN", "SAMUEL", "GREGORY", "FRANK", "PATRICK",
	"RAYMOND", "JACK", "DENNIS", "JERRY", "TYLER", "AARON", "JOSE", "HENRY", "ADAM", "DOUGLAS",
	"PETER", "KYLE", "NOAH", "ETHAN", "JEREMY", "WALTER", "CHRISTIAN", "KEITH", "ROGER", "TERRY",
	"MARY", "PATRICIA", "JENNIFER", "LINDA", "ELIZABETH", "BARBARA", "SUSAN", "JESSICA", "SARAH",
	"KAREN", "LISA", "NANCY", "BETTY", "MARGARET", "SANDRA", "ASHLEY", "KIMBERLY", "EMILY",
	"DONNA", "MICHELLE", "CAROL", "AMANDA", "DOROTHY", "MELISSA", "DEBORAH", "STEPHANIE",
	"REBECCA", "SHARON", "LAURA", "CYNTHIA", "KATHLEEN", "AMY", "ANGELA", "SHIRLEY", "ANNA",
	"BRENDA", "PAMELA", "EMMA", "NICOLE", "HELEN", "SAMANTHA", "KATHERINE", "CHRISTINE", "DEBRA",
	"RACHEL", "CAROLYN", "JANET", "CATHERINE", "MARIA", "HEATHER", "DIANE", "JULIE", "JOYCE",
	"VICTORIA", "KELLY", "CHRISTINA", "LAUREN", "JOAN", "EVELYN", "OLIVIA", "JUDITH", "MEGAN",
	"CHERYL", "MARTHA", "ANDREA", "FRANCES", "HANNAH", "JACQUELINE", "ANN", "GLORIA", "JEAN",
	"KATHRYN", "ALICE", "TERESA", "SARA", "JANICE", "DORIS", "MADISON", "JULIA", "GRACE", "JUDY",
)

// IsBusinessIndicator reports whether a normalized token suggests a business.
func IsBusinessIndicator(token string) bool {
	_, ok := businessWords[token]
	return ok
}

// IsIndividualIndicator reports whether a normalized token suggests a person.
func IsIndividualIndicator(token string) bool {
	_, ok := individualWords[token]
	return ok
}

// IndicatorCounts counts business and individual indicator tokens.
func IndicatorCounts(tokens []string) (business, individual int) {
	for _, t := range tokens {
		if IsBusinessIndicator(t) {
			business++
		}
		if IsIndividualIndicator(t) {
			individual++
		}
	}
	return business, individual
}

func toSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
