package stream

import "strings"

// markupReplacer strips the markdown the model tends to emit even when told
// not to. The synthesizer reads these characters out loud otherwise. Single
// underscores stay because they show up inside identifiers the user may have
// typed.
var markupReplacer = strings.NewReplacer(
	"**", "",
	"*", "",
	"__", "",
	"~~", "",
	"`", "",
	"#", "",
)

// SanitizeMarkup removes markdown emphasis and heading markers from a text
// fragment. Applying it twice yields the same result, so fragments can be
// sanitized again downstream without damage.
func SanitizeMarkup(s string) string {
	return markupReplacer.Replace(s)
}
