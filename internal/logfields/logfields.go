package logfields

import "log/slog"

// Canonical log field names shared by every package.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyPost       = "post"
	KeyPostID     = "post_id"
	KeyPermalink  = "permalink"
	KeyCategory   = "category"
	KeySlug       = "slug"
	KeyPath       = "path"
	KeyURL        = "url"
	KeyCount      = "count"
	KeyError      = "error"
)

func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Post(source string) slog.Attr    { return slog.String(KeyPost, source) }
func PostID(id int) slog.Attr         { return slog.Int(KeyPostID, id) }
func Permalink(p string) slog.Attr    { return slog.String(KeyPermalink, p) }
func Category(name string) slog.Attr  { return slog.String(KeyCategory, name) }
func Slug(s string) slog.Attr         { return slog.String(KeySlug, s) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }

// Error renders err as a string attr; nil yields an empty value.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
