// Package numbering assigns sequential identification labels to doors.
//
// The walk order is owned by the caller (frames left to right along the
// wall, left column before right column, ascending unit position inside a
// column); this package turns that flattened sequence of door codes into
// labels. Tenant doors draw from one counter, parcel doors from another,
// and special doors (master access, mail slots) are skipped with their
// label cleared.
//
// Classification for numbering is deliberately independent of the catalog
// category: oversized td5/tdh6 doors are catalogued as special yet number
// as parcel by code pattern. The two lookups answer different questions
// and are kept separate.
package numbering

import (
	"strconv"

	"github.com/mailworks/quadplan/pkg/catalog"
)

// Class is the numbering classification of a door code.
type Class int

// Numbering classes.
const (
	ClassTenant Class = iota
	ClassParcel
	ClassSkip
)

// Counters carries the next tenant and parcel numbers through a walk.
type Counters struct {
	Tenant int
	Parcel int
}

// tenantCodes are the standard tenant doors. They are tenant even where
// the parcel prefix patterns would otherwise match (td).
var tenantCodes = map[string]bool{
	"sd":  true,
	"dd":  true,
	"td":  true,
	"qd":  true,
	"qud": true,
}

// skipCodes are mail-intake doors that never receive a number.
var skipCodes = map[string]bool{
	"ms":  true, // mail slot
	"bms": true, // back-loading mail slot
	"om":  true, // outgoing mail
}

// Classify returns the numbering class for a door code. The tenant-code
// check takes precedence over the parcel patterns; master doors and mail
// slots are skipped.
func Classify(cat *catalog.Catalog, code string) Class {
	if skipCodes[code] || cat.DoorType(code).Category == catalog.CategoryMaster {
		return ClassSkip
	}
	if tenantCodes[code] || hasPrefix(code, "htsd") {
		return ClassTenant
	}
	if isParcelCode(code) {
		return ClassParcel
	}
	return ClassTenant
}

// isParcelCode matches the parcel code patterns: p followed by digits,
// the fixed codes sp/lp/bin/hopper, and the hop and td prefixes.
func isParcelCode(code string) bool {
	switch code {
	case "sp", "lp", "bin", "hopper":
		return true
	}
	if hasPrefix(code, "hop") || hasPrefix(code, "td") {
		return true
	}
	if len(code) > 1 && code[0] == 'p' && allDigits(code[1:]) {
		return true
	}
	return false
}

// TenantLabel formats a tenant door label.
func TenantLabel(n int) string { return strconv.Itoa(n) }

// ParcelLabel formats a parcel door label.
func ParcelLabel(n int) string { return strconv.Itoa(n) + "P" }

// Labels assigns a label to every code in walk order, starting from the
// given counters, and returns the labels next to the advanced counters.
// Skipped doors get an empty label and do not advance either counter.
func Labels(cat *catalog.Catalog, codes []string, c Counters) ([]string, Counters) {
	labels := make([]string, len(codes))
	for i, code := range codes {
		switch Classify(cat, code) {
		case ClassSkip:
			labels[i] = ""
		case ClassParcel:
			labels[i] = ParcelLabel(c.Parcel)
			c.Parcel++
		default:
			labels[i] = TenantLabel(c.Tenant)
			c.Tenant++
		}
	}
	return labels, c
}

func hasPrefix(s, prefix string) bool {
	return len(s) > len(prefix) && s[:len(prefix)] == prefix
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
