package classification

import "github.com/Veraticus/payee-classifier/internal/normalize"

// Industry is a keyword dictionary tied to a SIC code.
type Industry struct {
	Name           string
	SICCode        string
	SICDescription string
	Keywords       []string
}

// industries are checked in order; the first hit supplies the SIC code.
var industries = []Industry{
	{
		Name: "Healthcare", SICCode: "8011", SICDescription: "Offices and Clinics of Doctors of Medicine",
		Keywords: []string{"MEDICAL", "CLINIC", "HOSPITAL", "HEALTH", "HEALTHCARE", "PHYSICIANS", "PEDIATRICS", "ORTHOPEDICS", "RADIOLOGY", "URGENT CARE"},
	},
	{
		Name: "Dental", SICCode: "8021", SICDescription: "Offices and Clinics of Dentists",
		Keywords: []string{"DENTAL", "DENTISTRY", "ORTHODONTICS", "ORTHODONTIST"},
	},
	{
		Name: "Pharmacy", SICCode: "5912", SICDescription: "Drug Stores and Proprietary Stores",
		Keywords: []string{"PHARMACY", "DRUG", "DRUGS", "APOTHECARY"},
	},
	{
		Name: "Legal", SICCode: "8111", SICDescription: "Legal Services",
		Keywords: []string{"LAW", "LEGAL", "ATTORNEYS", "LAWYERS", "LAW OFFICE", "LAW FIRM"},
	},
	{
		Name: "Accounting", SICCode: "8721", SICDescription: "Accounting, Auditing, and Bookkeeping Services",
		Keywords: []string{"ACCOUNTING", "BOOKKEEPING", "CPA", "CPAS", "TAX SERVICE", "PAYROLL"},
	},
	{
		Name: "Finance", SICCode: "6022", SICDescription: "State Commercial Banks",
		Keywords: []string{"BANK", "BANCORP", "CREDIT UNION", "SAVINGS", "LENDING", "MORTGAGE", "CAPITAL", "FINANCIAL"},
	},
	{
		Name: "Insurance", SICCode: "6411", SICDescription: "Insurance Agents, Brokers, and Service",
		Keywords: []string{"INSURANCE", "ASSURANCE", "UNDERWRITERS", "MUTUAL"},
	},
	{
		Name: "Real Estate", SICCode: "6531", SICDescription: "Real Estate Agents and Managers",
		Keywords: []string{"REALTY", "REALTORS", "REAL ESTATE", "PROPERTIES", "PROPERTY MANAGEMENT", "APARTMENTS", "HOMEOWNERS ASSOCIATION", "HOA"},
	},
	{
		Name: "Construction", SICCode: "1521", SICDescription: "General Building Contractors-Residential Buildings",
		Keywords: []string{"CONSTRUCTION", "CONTRACTORS", "CONTRACTING", "BUILDERS", "ROOFING", "PLUMBING", "ELECTRICAL", "HVAC", "REMODELING"},
	},
	{
		Name: "Automotive", SICCode: "7538", SICDescription: "General Automotive Repair Shops",
		Keywords: []string{"AUTO", "AUTOMOTIVE", "MOTORS", "COLLISION", "TIRE", "TIRES", "AUTO BODY", "TOWING"},
	},
	{
		Name: "Restaurants", SICCode: "5812", SICDescription: "Eating Places",
		Keywords: []string{"RESTAURANT", "CAFE", "GRILL", "PIZZA", "PIZZERIA", "DINER", "BISTRO", "TAQUERIA", "BBQ", "KITCHEN", "EATERY"},
	},
	{
		Name: "Retail", SICCode: "5399", SICDescription: "Miscellaneous General Merchandise Stores",
		Keywords: []string{"STORE", "STORES", "MART", "MARKET", "SUPERMARKET", "OUTLET", "BOUTIQUE", "HARDWARE"},
	},
	{
		Name: "Technology", SICCode: "7371", SICDescription: "Computer Programming Services",
		Keywords: []string{"SOFTWARE", "TECHNOLOGIES", "TECHNOLOGY", "TECH", "DIGITAL", "COMPUTER", "COMPUTERS", "DATA", "NETWORKS", "IT SERVICES"},
	},
	{
		Name: "Telecommunications", SICCode: "4813", SICDescription: "Telephone Communications, Except Radiotelephone",
		Keywords: []string{"TELECOM", "WIRELESS", "COMMUNICATIONS", "CELLULAR", "BROADBAND", "INTERNET"},
	},
	{
		Name: "Utilities", SICCode: "4911", SICDescription: "Electric Services",
		Keywords: []string{"ELECTRIC", "ENERGY", "POWER", "UTILITIES", "UTILITY", "GAS COMPANY", "WATER DISTRICT"},
	},
	{
		Name: "Transportation", SICCode: "4213", SICDescription: "Trucking, Except Local",
		Keywords: []string{"TRUCKING", "FREIGHT", "LOGISTICS", "TRANSPORT", "TRANSPORTATION", "SHIPPING", "COURIER", "MOVERS", "MOVING"},
	},
	{
		Name: "Hospitality", SICCode: "7011", SICDescription: "Hotels and Motels",
		Keywords: []string{"HOTEL", "HOTELS", "MOTEL", "INN", "RESORT", "LODGE", "SUITES"},
	},
	{
		Name: "Education", SICCode: "8221", SICDescription: "Colleges, Universities, and Professional Schools",
		Keywords: []string{"UNIVERSITY", "COLLEGE", "SCHOOL", "ACADEMY", "INSTITUTE", "LEARNING CENTER"},
	},
	{
		Name: "Landscaping", SICCode: "0782", SICDescription: "Lawn and Garden Services",
		Keywords: []string{"LANDSCAPING", "LANDSCAPE", "LAWN", "TREE SERVICE", "NURSERY", "GARDEN CENTER"},
	},
	{
		Name: "Cleaning", SICCode: "7349", SICDescription: "Building Cleaning and Maintenance Services",
		Keywords: []string{"CLEANING", "JANITORIAL", "MAID", "MAIDS", "CARPET CLEANING", "PEST CONTROL"},
	},
	{
		Name: "Nonprofit", SICCode: "8399", SICDescription: "Social Services, Not Elsewhere Classified",
		Keywords: []string{"FOUNDATION", "CHARITY", "CHARITIES", "MINISTRIES", "CHURCH", "FELLOWSHIP", "RESCUE MISSION"},
	},
}

// governmentSIC is attached to government entity matches.
const (
	governmentSICCode        = "9199"
	governmentSICDescription = "General Government, Not Elsewhere Classified"
)

// obviousBusinesses are normalized brand literals matched as whole words.
var obviousBusinesses = []string{
	"AMAZON", "AMAZON COM", "WALMART", "TARGET STORE", "COSTCO", "HOME DEPOT", "LOWES", "BEST BUY",
	"STARBUCKS", "MCDONALDS", "NETFLIX", "SPOTIFY", "HULU", "DISNEY PLUS", "APPLE COM",
	"GOOGLE", "MICROSOFT", "FACEBOOK", "PAYPAL", "VENMO", "UBER", "LYFT", "DOORDASH",
	"GRUBHUB", "INSTACART", "EBAY", "ETSY", "SHOPIFY", "ZOOM US", "SLACK TECHNOLOGIES", "ADOBE", "INTUIT",
	"QUICKBOOKS", "FEDEX", "UPS", "USPS", "DHL", "VERIZON", "COMCAST", "XFINITY", "SPECTRUM",
	"T MOBILE", "AT AND T", "GEICO", "STATE FARM", "ALLSTATE", "PROGRESSIVE INSURANCE", "WELLS FARGO",
	"BANK OF AMERICA", "CHASE BANK", "JPMORGAN CHASE", "CITIBANK", "CAPITAL ONE", "AMERICAN EXPRESS", "DISCOVER CARD",
}

// legalSuffixes are matched as whole words of the normalized name.
var legalSuffixes = normalizePhrases(
	"LLC", "L L C", "INC", "INCORPORATED", "CORP", "CORPORATION", "CO", "COMPANY", "LTD", "LIMITED",
	"LLP", "L L P", "LP", "PLLC", "PC", "P C", "PA", "GMBH", "PLC", "NA", "PTY",
)

// businessKeywords are matched as substrings of the normalized name.
var businessKeywords = []string{
	"SERVICES", "SOLUTIONS", "CONSULTING", "CONSULTANTS", "MANAGEMENT", "GROUP", "HOLDINGS",
	"ENTERPRISES", "INDUSTRIES", "PARTNERS", "ASSOCIATES", "INTERNATIONAL", "SYSTEMS",
	"WORLDWIDE", "VENTURES", "DEVELOPMENT", "DISTRIBUTORS", "DISTRIBUTION", "SUPPLY",
	"SUPPLIES", "PRODUCTS", "EQUIPMENT", "AGENCY", "BROKERAGE", "MARKETING", "ADVERTISING",
}

// governmentPhrases identify public entities.
var governmentPhrases = []string{
	"DEPARTMENT OF", "DEPT OF", "CITY OF", "COUNTY OF", "STATE OF", "TOWN OF", "VILLAGE OF",
	"TOWNSHIP OF", "BOROUGH OF", "SCHOOL DISTRICT", "WATER DISTRICT", "FIRE DISTRICT",
	"US TREASURY", "UNITED STATES TREASURY", "INTERNAL REVENUE SERVICE", "SOCIAL SECURITY ADMINISTRATION",
	"POSTAL SERVICE", "BOARD OF EDUCATION", "BOARD OF SUPERVISORS", "SECRETARY OF STATE",
	"FRANCHISE TAX BOARD", "DEPARTMENT OF REVENUE", "DEPARTMENT OF MOTOR VEHICLES",
	"TAX COLLECTOR", "TREASURER", "MUNICIPAL", "FEDERAL", "COMMONWEALTH OF", "PUBLIC SCHOOLS",
	"HOUSING AUTHORITY", "TRANSIT AUTHORITY", "PORT AUTHORITY", "CLERK OF COURT", "DISTRICT COURT",
}

// professionalTitles mark a natural person.
var professionalTitles = normalizePhrases(
	"DR", "MR", "MRS", "MS", "MISS", "MX", "PROF", "PROFESSOR", "ESQ", "ESQUIRE", "HON",
	"REV", "REVEREND", "FATHER", "PASTOR", "RABBI", "IMAM", "SGT", "SERGEANT", "CPL", "PVT",
	"LT", "LIEUTENANT", "CAPT", "CAPTAIN", "MAJ", "MAJOR", "COL", "COLONEL", "GEN", "ADM",
	"CMDR", "JUDGE", "MD", "DDS", "DVM", "PHD", "RN", "JR", "SR", "II", "III", "IV",
)

// enhancedBusinessTerms is a broad long-tail list of business words, matched
// as whole words.
var enhancedBusinessTerms = normalizePhrases(
	"STUDIO", "STUDIOS", "SALON", "SPA", "BARBERSHOP", "GYM", "FITNESS", "YOGA", "BAKERY",
	"BAR", "PUB", "TAVERN", "BREWERY", "BREWING", "WINERY", "DISTILLERY", "CATERING", "FLORIST",
	"FLOWERS", "GALLERY", "THEATER", "THEATRE", "CINEMA", "BOOKS", "BOOKSTORE", "PRINTING",
	"PRESS", "PUBLISHING", "MEDIA", "PRODUCTIONS", "ENTERTAINMENT", "DESIGN", "DESIGNS",
	"ENGINEERING", "ARCHITECTS", "ARCHITECTURE", "LABS", "LAB", "LABORATORY", "LABORATORIES",
	"WORKS", "WORKSHOP", "DEPOT", "EXPRESS", "NETWORK", "CENTER", "CENTRE", "CLUB", "KENNEL",
	"KENNELS", "VETERINARY", "ANIMAL HOSPITAL", "PETS", "FARM", "FARMS", "RANCH", "ORCHARD",
	"DAIRY", "FOODS", "BEVERAGE", "BEVERAGES", "IMPORTS", "EXPORTS", "TRADING", "WHOLESALE",
	"RENTALS", "RENTAL", "LEASING", "PARKING", "GARAGE", "CARWASH", "LAUNDRY", "LAUNDROMAT",
	"DRY CLEANERS", "TAILORS", "JEWELERS", "JEWELRY", "OPTICAL", "EYECARE", "CHIROPRACTIC",
	"THERAPY", "WELLNESS", "PHYSICAL THERAPY", "ASSOCIATION", "SOCIETY", "COOPERATIVE",
	"CO OP", "ALLIANCE", "COUNCIL", "TRUST", "FUND", "PARTNERSHIP", "OUTFITTERS", "SPORTS",
	"ATHLETICS", "CYCLES", "MARINE", "AVIATION", "AIRLINES", "AIRWAYS", "TRAVEL", "TOURS",
	"EVENTS", "PHOTOGRAPHY", "SECURITY", "ALARM", "SIGNS", "GRAPHICS", "SUPPLY CO",
)

// personalNamePatterns match two- and three-token personal names. They are
// compiled case-insensitively so "john smith" and "JOHN SMITH" both match.
var personalNamePatterns = []string{
	`^\p{L}[\p{L}'\-]+\s+\p{L}[\p{L}'\-]+$`,
	`^\p{L}[\p{L}'\-]+\s+\p{L}\.?\s+\p{L}[\p{L}'\-]+$`,
	`^\p{L}[\p{L}'\-]+\s+\p{L}[\p{L}'\-]+\s+\p{L}[\p{L}'\-]+$`,
	`^\p{L}[\p{L}'\-]+,\s*\p{L}[\p{L}'\-]+(\s+\p{L}\.?)?$`,
	`^\p{L}[\p{L}'\-]+\s+\p{L}[\p{L}'\-]+,?\s+(JR|SR|II|III|IV)\.?$`,
	`^\p{L}\.?\s*\p{L}\.?\s+\p{L}[\p{L}'\-]+$`,
}

// Industries returns the industry dictionary in match order.
func Industries() []Industry {
	out := make([]Industry, len(industries))
	copy(out, industries)
	return out
}

func normalizePhrases(words ...string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = normalize.Name(w)
	}
	return out
}
