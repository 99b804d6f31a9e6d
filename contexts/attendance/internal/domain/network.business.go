package domain

import "strings"

// NetworkIdentity identifies a WiFi network. An empty field is treated as absent.
type NetworkIdentity struct {
	SSID  string `json:"ssid,omitempty"  yaml:"ssid"`
	BSSID string `json:"bssid,omitempty" yaml:"bssid"`
}

// IsEmpty reports whether neither SSID nor BSSID is set.
// An empty rule never matches anything.
func (n NetworkIdentity) IsEmpty() bool {
	return strings.TrimSpace(n.SSID) == "" && strings.TrimSpace(n.BSSID) == ""
}

// Matches reports whether candidate satisfies n, when n is used as an allow rule:
// with SSID and BSSID set both have to be equal, otherwise only the one that is set.
// BSSIDs are MAC addresses and compared case-insensitive.
func (n NetworkIdentity) Matches(candidate NetworkIdentity) bool {
	hasSSID := strings.TrimSpace(n.SSID) != ""
	hasBSSID := strings.TrimSpace(n.BSSID) != ""

	switch {
	case hasSSID && hasBSSID:
		return n.SSID == candidate.SSID && sameBSSID(n.BSSID, candidate.BSSID)
	case hasSSID:
		return n.SSID == candidate.SSID
	case hasBSSID:
		return sameBSSID(n.BSSID, candidate.BSSID)
	default:
		return false
	}
}

// MatchNetwork returns the first allowed rule candidate matches.
func MatchNetwork(candidate NetworkIdentity, allowed []NetworkIdentity) (NetworkIdentity, bool) {
	for _, rule := range allowed {
		if rule.Matches(candidate) {
			return rule, true
		}
	}

	return NetworkIdentity{}, false
}

func sameBSSID(a, b string) bool {
	normalise := func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", ":")
	}

	return normalise(a) != "" && normalise(a) == normalise(b)
}
