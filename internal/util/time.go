package util

import "time"

// LoadLocation resolves an IANA zone name. Hosts without tzdata get a fixed
// WIB (UTC+7) zone, which is where the ceremony takes place.
func LoadLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone("WIB", 7*60*60)
	}
	return loc
}
