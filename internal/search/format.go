package search

import (
	"fmt"
	"strings"
)

// InvalidProvider is what String returns for a result without a provider.
const InvalidProvider = "Invalid provider, unable to print self"

// String returns a multi-line summary of the result.
func (r *Result) String() string {
	if r.Provider == nil {
		return InvalidProvider
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s @ %s\n", r.Provider.Name(), r.URL)
	b.WriteString("Extra Info:\n")
	for _, extra := range r.ExtraInfo {
		fmt.Fprintf(&b, "  %s\n", extra)
	}
	b.WriteString("Episodes:\n")
	for _, ep := range r.episodes {
		fmt.Fprintf(&b, "  %s\n", ep)
	}
	fmt.Fprintf(&b, "Quality: %s\n", r.quality)
	fmt.Fprintf(&b, "Name: %s\n", r.Name)
	fmt.Fprintf(&b, "Size: %d\n", r.size)
	fmt.Fprintf(&b, "Release Group: %s\n", r.ReleaseGroup)
	return b.String()
}

// GoString returns the short form used by %#v, e.g. "<TorrentSearchResult: name from provider>".
func (r *Result) GoString() string {
	if r.Provider == nil {
		return fmt.Sprintf("<%s: %s>", r.Kind.typeName(), r.Name)
	}
	return fmt.Sprintf("<%s: %s from %s>", r.Kind.typeName(), r.Name, r.Provider.Name())
}

// FileName is the name the payload is saved under: the first episode's
// pretty name plus the kind's extension.
func (r *Result) FileName() string {
	name := r.episodes[0].PrettyName()
	if ext := r.Kind.Extension(); ext != "" {
		return name + "." + ext
	}
	return name
}
