package sanitizer

// Fields maps a document field to the strategy applied to it.
type Fields map[string]Strategy

// BookingFields leaves message untouched so its length bounds apply to the
// text as sent.
var BookingFields = Fields{
	"name":           NormalizeName,
	"email":          NormalizeEmail,
	"event_date":     Trim,
	"event_location": NormalizeLocation,
}

var BandMemberFields = Fields{
	"name":       NormalizeName,
	"role":       TrimAndNormalize,
	"instrument": TrimAndNormalize,
	"bio":        Trim,
	"photo_url":  Trim,
}

var AlbumFields = Fields{
	"title":     TrimAndNormalize,
	"cover_url": Trim,
	"tracks":    TrimAndNormalize,
}

var SongFields = Fields{
	"title":      TrimAndNormalize,
	"album_id":   Trim,
	"stream_url": Trim,
}

// Apply returns a copy of raw with every listed string field normalized.
// String lists are normalized entry by entry and empty entries are dropped.
// Unlisted fields and values of other types are copied as they are.
func (f Fields) Apply(raw map[string]any) map[string]any {
	out := make(map[string]any, len(raw))
	for key, value := range raw {
		strategy, ok := f[key]
		if !ok {
			out[key] = value
			continue
		}
		switch v := value.(type) {
		case string:
			out[key] = strategy(v)
		case []any:
			out[key] = SanitizeList(v, strategy)
		default:
			out[key] = value
		}
	}
	return out
}

func SanitizeList(values []any, strategy Strategy) []any {
	out := make([]any, 0, len(values))
	for _, value := range values {
		s, ok := value.(string)
		if !ok {
			out = append(out, value)
			continue
		}
		if s = strategy(s); s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
