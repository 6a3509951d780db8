package keyword

// builtin is the comprehensive exclusion list. Single-token entries are kept
// to names that are not also common surnames so that a person called
// "Wells" or "Chase" is not excluded.
var builtin = []string{
	// Banks and lenders.
	"BANK", "BANCORP", "CREDIT UNION", "FEDERAL CREDIT UNION", "SAVINGS AND LOAN",
	"BANK OF AMERICA", "WELLS FARGO", "JPMORGAN", "JP MORGAN", "CHASE BANK", "CITIBANK",
	"CITIGROUP", "US BANK", "PNC", "TRUIST", "CAPITAL ONE", "TD BANK", "HSBC", "BARCLAYS",
	"SANTANDER", "REGIONS BANK", "FIFTH THIRD", "KEYBANK", "HUNTINGTON BANK", "ALLY BANK",
	"DISCOVER", "AMERICAN EXPRESS", "AMEX", "NAVY FEDERAL", "USAA", "SCHWAB", "FIDELITY",
	"VANGUARD", "MORGAN STANLEY", "GOLDMAN SACHS", "MERRILL LYNCH", "EDWARD JONES",
	"PAYPAL", "VENMO", "ZELLE", "STRIPE", "SQUARE", "WESTERN UNION", "MONEYGRAM",
	"MORTGAGE", "LENDING", "FINANCE", "FINANCIAL",

	// Government.
	"VA", "IRS", "USPS", "SSA", "DMV", "FBI", "FEMA", "HUD", "USDA", "NOAA", "NASA",
	"INTERNAL REVENUE SERVICE", "SOCIAL SECURITY", "DEPARTMENT OF", "DEPT OF",
	"VETERANS AFFAIRS", "US TREASURY", "UNITED STATES TREASURY", "TREASURER",
	"POSTAL SERVICE", "POST OFFICE", "STATE OF", "COUNTY OF", "CITY OF", "TOWN OF",
	"VILLAGE OF", "SCHOOL DISTRICT", "BOARD OF EDUCATION", "MUNICIPAL", "COMMONWEALTH",
	"SHERIFF", "POLICE DEPARTMENT", "FIRE DEPARTMENT", "CLERK OF COURT", "DISTRICT COURT",
	"TAX COLLECTOR", "FRANCHISE TAX BOARD", "MEDICARE", "MEDICAID",

	// Utilities and carriers.
	"AT&T", "VERIZON", "T-MOBILE", "SPRINT", "COMCAST", "XFINITY", "SPECTRUM",
	"CHARTER COMMUNICATIONS", "COX COMMUNICATIONS", "CENTURYLINK", "LUMEN", "FRONTIER",
	"DIRECTV", "DISH NETWORK", "PACIFIC GAS", "PG&E", "CON EDISON", "DUKE ENERGY",
	"XCEL ENERGY", "NORTHWESTERN ENERGY", "DOMINION ENERGY", "EVERSOURCE", "NATIONAL GRID",
	"WATER DEPARTMENT", "ELECTRIC", "UTILITIES", "UTILITY", "WASTE MANAGEMENT",
	"REPUBLIC SERVICES", "FEDEX", "UPS STORE", "DHL",

	// Insurers.
	"INSURANCE", "ASSURANCE", "STATE FARM", "GEICO", "PROGRESSIVE INSURANCE", "ALLSTATE",
	"LIBERTY MUTUAL", "NATIONWIDE", "FARMERS INSURANCE", "TRAVELERS", "METLIFE",
	"PRUDENTIAL", "AFLAC", "HUMANA", "AETNA", "CIGNA", "UNITEDHEALTHCARE",
	"BLUE CROSS", "BLUE SHIELD", "KAISER PERMANENTE", "ANTHEM",

	// Retailers and platforms.
	"AMAZON", "WALMART", "TARGET STORES", "COSTCO", "HOME DEPOT", "LOWES", "BEST BUY",
	"KROGER", "SAFEWAY", "ALBERTSONS", "WALGREENS", "CVS", "RITE AID", "STAPLES",
	"OFFICE DEPOT", "IKEA", "MACYS", "NORDSTROM", "KOHLS", "SEARS", "WHOLE FOODS",
	"TRADER JOE", "STARBUCKS", "MCDONALDS", "APPLE", "MICROSOFT", "GOOGLE", "NETFLIX",
	"SPOTIFY", "ADOBE", "DROPBOX", "UBER", "LYFT", "AIRBNB", "EXXON", "CHEVRON", "SHELL OIL",

	// Generic institutional terms.
	"HOSPITAL", "MEDICAL CENTER", "HEALTH SYSTEM", "CLINIC", "UNIVERSITY", "COLLEGE",
	"FOUNDATION", "ASSOCIATION", "AUTHORITY", "COMMISSION",
}

// Builtin returns a copy of the built-in exclusion keywords.
func Builtin() []string {
	out := make([]string, len(builtin))
	copy(out, builtin)
	return out
}
