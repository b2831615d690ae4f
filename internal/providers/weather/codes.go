package weather

// describeCode maps WMO weather interpretation codes to condition words.
func describeCode(code int) []string {
	switch {
	case code == 0:
		return []string{"clear"}
	case code <= 2:
		return []string{"partly cloudy"}
	case code == 3:
		return []string{"cloudy"}
	case code >= 45 && code <= 48:
		return []string{"fog"}
	case code >= 51 && code <= 57:
		return []string{"drizzle"}
	case code >= 61 && code <= 67:
		return []string{"rain"}
	case code >= 71 && code <= 77:
		return []string{"snow"}
	case code >= 80 && code <= 82:
		return []string{"rain", "showers"}
	case code >= 85 && code <= 86:
		return []string{"snow", "showers"}
	case code >= 95:
		return []string{"thunderstorm"}
	default:
		return []string{"mixed"}
	}
}
