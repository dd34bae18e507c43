package gemini

import "time"

// Context is the optional location/season hint sent with an identification
// request.
type Context struct {
	Season  string
	City    string
	Country string
}

// Season returns the meteorological season for a latitude and month,
// flipping for the southern hemisphere.
func Season(latitude float64, month time.Month) string {
	northern := latitude >= 0

	switch {
	case month >= time.March && month <= time.May:
		if northern {
			return "spring"
		}
		return "fall"
	case month >= time.June && month <= time.August:
		if northern {
			return "summer"
		}
		return "winter"
	case month >= time.September && month <= time.November:
		if northern {
			return "fall"
		}
		return "spring"
	default:
		if northern {
			return "winter"
		}
		return "summer"
	}
}
