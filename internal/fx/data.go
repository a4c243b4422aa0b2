package fx

// DefaultTable is the startup snapshot of supported currencies. Rates are
// units per USD and get refreshed at runtime by the rate watcher; tiers
// and union membership are static.
func DefaultTable() *Table {
	return NewTable([]Entry{
		// Majors
		Standalone("USD", 1.0, "United States", TierMajor),
		Standalone("GBP", 0.73, "United Kingdom", TierMajor),
		Standalone("JPY", 110.0, "Japan", TierMajor),
		Standalone("CAD", 1.25, "Canada", TierMajor),
		Standalone("AUD", 1.35, "Australia", TierMajor),
		Standalone("CHF", 0.92, "Switzerland", TierMajor),
		Standalone("CNY", 6.45, "China", TierMajor),
		Standalone("NZD", 1.42, "New Zealand", TierMajor),

		// Euro area
		Standalone("EUR", 0.85, "Euro Area", TierMajor),
		UnionMember("EUR_DE", 0.85, "Germany", TierMajor, "EUR"),
		UnionMember("EUR_FR", 0.85, "France", TierMajor, "EUR"),
		UnionMember("EUR_IT", 0.85, "Italy", TierMajor, "EUR"),
		UnionMember("EUR_ES", 0.85, "Spain", TierMajor, "EUR"),
		UnionMember("EUR_NL", 0.85, "Netherlands", TierMajor, "EUR"),
		UnionMember("EUR_BE", 0.85, "Belgium", TierMajor, "EUR"),
		UnionMember("EUR_AT", 0.85, "Austria", TierMajor, "EUR"),
		UnionMember("EUR_PT", 0.85, "Portugal", TierMajor, "EUR"),
		UnionMember("EUR_IE", 0.85, "Ireland", TierMajor, "EUR"),
		UnionMember("EUR_FI", 0.85, "Finland", TierMajor, "EUR"),
		UnionMember("EUR_GR", 0.85, "Greece", TierMajor, "EUR"),

		// Asia
		Standalone("INR", 74.5, "India", TierRegional),
		Standalone("KRW", 1180.0, "South Korea", TierRegional),
		Standalone("SGD", 1.35, "Singapore", TierMajor),
		Standalone("HKD", 7.8, "Hong Kong", TierMajor),
		Standalone("THB", 33.0, "Thailand", TierRegional),
		Standalone("MYR", 4.15, "Malaysia", TierRegional),
		Standalone("PHP", 50.5, "Philippines", TierRegional),
		Standalone("IDR", 14250.0, "Indonesia", TierRegional),
		Standalone("VND", 23000.0, "Vietnam", TierRegional),

		// Europe outside the euro
		Standalone("NOK", 8.6, "Norway", TierMajor),
		Standalone("SEK", 8.9, "Sweden", TierMajor),
		Standalone("DKK", 6.35, "Denmark", TierMajor),
		Standalone("PLN", 3.9, "Poland", TierRegional),
		Standalone("CZK", 21.8, "Czech Republic", TierRegional),
		Standalone("HUF", 295.0, "Hungary", TierRegional),
		Standalone("RON", 4.2, "Romania", TierRegional),
		Standalone("TRY", 8.45, "Turkey", TierRegional),

		// Americas
		Standalone("BRL", 5.2, "Brazil", TierRegional),
		Standalone("MXN", 20.1, "Mexico", TierRegional),
		Standalone("ARS", 98.5, "Argentina", TierVolatile),
		Standalone("CLP", 775.0, "Chile", TierRegional),
		Standalone("COP", 3850.0, "Colombia", TierRegional),
		Standalone("PEN", 3.65, "Peru", TierRegional),
		Standalone("BOB", 6.9, "Bolivia", TierVolatile),
		Standalone("PYG", 6950.0, "Paraguay", TierVolatile),

		// Middle East and Africa
		Standalone("AED", 3.67, "United Arab Emirates", TierMajor),
		Standalone("SAR", 3.75, "Saudi Arabia", TierMajor),
		Standalone("ILS", 3.25, "Israel", TierMajor),
		Standalone("EGP", 15.7, "Egypt", TierRegional),
		Standalone("ZAR", 14.8, "South Africa", TierRegional),
		Standalone("NGN", 411.0, "Nigeria", TierRegional),
		Standalone("GHS", 6.1, "Ghana", TierRegional),
		Standalone("KES", 108.5, "Kenya", TierRegional),
		Standalone("UGX", 3520.0, "Uganda", TierRegional),
		Standalone("TZS", 2310.0, "Tanzania", TierRegional),
		Standalone("ETB", 47.5, "Ethiopia", TierRegional),
		Standalone("RWF", 1025.0, "Rwanda", TierRegional),
		Standalone("MWK", 820.0, "Malawi", TierVolatile),
		Standalone("ZMW", 16.8, "Zambia", TierVolatile),
		Standalone("AOA", 665.0, "Angola", TierVolatile),
		Standalone("MZN", 63.8, "Mozambique", TierVolatile),
		Standalone("SLL", 11420.0, "Sierra Leone", TierVolatile),
		Standalone("CDF", 2000.0, "DR Congo", TierVolatile),
		Standalone("SDG", 445.0, "Sudan", TierVolatile),
		Standalone("TND", 2.8, "Tunisia", TierRegional),
		Standalone("DZD", 135.0, "Algeria", TierRegional),
		Standalone("MAD", 9.1, "Morocco", TierRegional),

		// West African CFA franc zone
		UnionMember("XOF_BJ", 555.0, "Benin", TierRegional, "XOF"),
		UnionMember("XOF_BF", 555.0, "Burkina Faso", TierRegional, "XOF"),
		UnionMember("XOF_CI", 555.0, "Cote d'Ivoire", TierRegional, "XOF"),
		UnionMember("XOF_ML", 555.0, "Mali", TierRegional, "XOF"),
		UnionMember("XOF_NE", 555.0, "Niger", TierRegional, "XOF"),
		UnionMember("XOF_SN", 555.0, "Senegal", TierRegional, "XOF"),
		UnionMember("XOF_TG", 555.0, "Togo", TierRegional, "XOF"),
		Standalone("XOF", 555.0, "West African CFA", TierRegional),

		// Central African CFA franc zone
		UnionMember("XAF_CM", 555.0, "Cameroon", TierRegional, "XAF"),
		UnionMember("XAF_TD", 555.0, "Chad", TierRegional, "XAF"),
		UnionMember("XAF_CG", 555.0, "Republic of the Congo", TierRegional, "XAF"),
		UnionMember("XAF_GA", 555.0, "Gabon", TierRegional, "XAF"),
		Standalone("XAF", 555.0, "Central African CFA", TierRegional),

		// Others
		Standalone("RUB", 73.5, "Russia", TierVolatile),
		Standalone("FJD", 2.08, "Fiji", TierRegional),
	})
}
