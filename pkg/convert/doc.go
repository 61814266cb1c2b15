// Package convert turns raw URI strings into typed component parameters.
//
// Supported target types, tried in this order:
//
//	string      string
//	bool        bool
//	guid        uuid.UUID
//	timeonly    civil.Time
//	dateonly    civil.Date
//	datetime    time.Time
//	int         int, int32
//	double      float64
//	long        int64
//	decimal     *big.Rat
//	float       float32
//
// A pointer to any of these is the nullable variant and converts to a
// pointer to the parsed value.
//
// Numbers and dates are parsed with a configurable Culture rather than a
// fixed locale, so "1.234,5" is a valid double under de-DE and
// "31/12/2024" a valid date under en-GB. Path templates
// ("{id:int}" segments) always use the Invariant culture.
//
// Values are expected to be percent-decoded already; the uri package
// decodes query values and DecodeSegment decodes path segments.
package convert
