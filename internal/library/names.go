package library

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vmunix/snatch/pkg/release"
)

// illegalChars are characters not allowed in filenames on common filesystems.
var illegalChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

var multiDot = regexp.MustCompile(`\.{2,}`)

// PrettyName returns a filesystem-safe dotted name such as "Show.Name.S01E02".
func (e *Episode) PrettyName() string {
	title := ""
	if e.Series != nil {
		title = dotted(e.Series.Title)
	}
	code := fmt.Sprintf("S%02dE%02d", e.Season, e.Episode)
	if title == "" {
		return code
	}
	return title + "." + code
}

// dotted folds accents, drops characters unsafe in filenames and joins words with dots.
func dotted(s string) string {
	s = release.FoldAccents(s)
	s = strings.ReplaceAll(s, "&", " and ")
	s = illegalChars.ReplaceAllString(s, " ")
	s = strings.Join(strings.Fields(s), ".")
	s = multiDot.ReplaceAllString(s, ".")
	return strings.Trim(s, ".")
}
