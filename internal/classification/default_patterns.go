package classification

// DefaultPatterns returns the built-in brand and industry patterns.
func DefaultPatterns() []Pattern {
	return []Pattern{
		// Brands - highest priority
		{
			Name:           "Auto Brand",
			Kind:           PatternKindBrand,
			Regex:          `\b(TOYOTA|HONDA|FORD\s+MOTOR|CHEVROLET|CHEVY|NISSAN|SUBARU|HYUNDAI|KIA|MAZDA|VOLKSWAGEN|BMW|MERCEDES|AUDI|LEXUS|TESLA|JEEP|CHRYSLER|GMC|BUICK|CADILLAC)\b`,
			SICCode:        "5511",
			SICDescription: "Motor Vehicle Dealers (New and Used)",
			Priority:       100,
			Confidence:     95,
		},
		{
			Name:           "Tech Company",
			Kind:           PatternKindBrand,
			Regex:          `\b(AMAZON|GOOGLE|MICROSOFT|APPLE\s+(STORE|INC|COM)|META\s+PLATFORMS|FACEBOOK|NETFLIX|ADOBE|ORACLE|IBM|INTEL|CISCO|SALESFORCE|DROPBOX|ZOOM\s+VIDEO|SPOTIFY|UBER|LYFT|AIRBNB|PAYPAL)\b`,
			SICCode:        "7372",
			SICDescription: "Prepackaged Software",
			Priority:       100,
			Confidence:     95,
		},
		{
			Name:           "Retail Chain",
			Kind:           PatternKindBrand,
			Regex:          `\b(WAL\s*MART|TARGET\s+(STORE|STORES|CORP)|COSTCO|KROGER|SAFEWAY|WALGREENS|CVS|HOME\s+DEPOT|LOWE\s*S|BEST\s+BUY|STAPLES|IKEA|MACY\s*S|NORDSTROM|KOHL\s*S|DOLLAR\s+(GENERAL|TREE)|TRADER\s+JOE\s*S|WHOLE\s+FOODS|ALDI|PUBLIX|MEIJER|SAMS\s+CLUB)\b`,
			SICCode:        "5399",
			SICDescription: "Miscellaneous General Merchandise Stores",
			Priority:       95,
			Confidence:     95,
		},
		{
			Name:           "Restaurant Chain",
			Kind:           PatternKindBrand,
			Regex:          `\b(MCDONALD\s*S|STARBUCKS|SUBWAY|CHIPOTLE|WENDY\s*S|BURGER\s+KING|TACO\s+BELL|DOMINO\s*S|PIZZA\s+HUT|DUNKIN|CHICK\s+FIL\s+A|PANERA|KFC)\b`,
			SICCode:        "5812",
			SICDescription: "Eating Places",
			Priority:       95,
			Confidence:     95,
		},
		{
			Name:           "Fuel Brand",
			Kind:           PatternKindBrand,
			Regex:          `\b(EXXON|MOBIL|CHEVRON|TEXACO|CONOCO|PHILLIPS\s+66|SHELL\s+(OIL|GAS|STATION)|SINCLAIR|VALERO|SUNOCO|CITGO|MARATHON\s+PETROLEUM)\b`,
			SICCode:        "5541",
			SICDescription: "Gasoline Service Stations",
			Priority:       90,
			Confidence:     95,
		},

		// Industrial and facility terms
		{
			Name:           "Storage Facility",
			Kind:           PatternKindIndustry,
			Regex:          `\b(STORAGE|SELF\s+STORAGE|MINI\s+STORAGE|WAREHOUSE|WAREHOUSING)\b`,
			SICCode:        "4225",
			SICDescription: "General Warehousing and Storage",
			Priority:       80,
			Confidence:     95,
		},
		{
			Name:           "Industrial",
			Kind:           PatternKindIndustry,
			Regex:          `\b(MANUFACTURING|INDUSTRIAL|FABRICATION|MACHINE\s+SHOP|STEELWORKS|LUMBER|CONCRETE|ASPHALT|EXCAVATION|PAVING)\b`,
			SICCode:        "3990",
			SICDescription: "Miscellaneous Manufacturing Industries",
			Priority:       75,
			Confidence:     95,
		},
		{
			Name:           "Equipment Rental",
			Kind:           PatternKindIndustry,
			Regex:          `\b(EQUIPMENT\s+RENTAL|TOOL\s+RENTAL|U\s*HAUL|PENSKE|RYDER\s+TRUCK)\b`,
			SICCode:        "7359",
			SICDescription: "Equipment Rental and Leasing",
			Priority:       75,
			Confidence:     95,
		},
	}
}
