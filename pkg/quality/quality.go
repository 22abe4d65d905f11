// Package quality defines the bitmask used to tag releases with a resolution/source quality.
package quality

import (
	"fmt"
	"math/bits"
	"strings"
)

// Code is a quality bitmask. A single release carries exactly one bit;
// profiles combine several bits to express what they accept.
type Code uint32

const (
	None    Code = 0
	Unknown Code = 1 << (iota - 1)
	SDTV
	SDDVD
	HDTV
	RawHDTV
	FullHDTV
	HDWebDL
	FullHDWebDL
	HDBluRay
	FullHDBluRay
	UHD4KTV
	UHD4KWebDL
	UHD4KBluRay
	UHD8KTV
	UHD8KWebDL
	UHD8KBluRay
)

var names = map[Code]string{
	None:         "N/A",
	Unknown:      "Unknown",
	SDTV:         "SDTV",
	SDDVD:        "SD DVD",
	HDTV:         "720p HDTV",
	RawHDTV:      "RawHD",
	FullHDTV:     "1080p HDTV",
	HDWebDL:      "720p WEB-DL",
	FullHDWebDL:  "1080p WEB-DL",
	HDBluRay:     "720p BluRay",
	FullHDBluRay: "1080p BluRay",
	UHD4KTV:      "4K UHD",
	UHD4KWebDL:   "4K WEB-DL",
	UHD4KBluRay:  "4K BluRay",
	UHD8KTV:      "8K UHD",
	UHD8KWebDL:   "8K WEB-DL",
	UHD8KBluRay:  "8K BluRay",
}

// String returns the display name. Combined masks are rendered as their
// member names joined with "|".
func (c Code) String() string {
	if name, ok := names[c]; ok {
		return name
	}
	var parts []string
	for rest := uint32(c); rest != 0; rest &= rest - 1 {
		bit := Code(1 << bits.TrailingZeros32(rest))
		if name, ok := names[bit]; ok {
			parts = append(parts, name)
		} else {
			parts = append(parts, fmt.Sprintf("0x%x", uint32(bit)))
		}
	}
	return strings.Join(parts, "|")
}

// Has reports whether every bit of q is set in c.
func (c Code) Has(q Code) bool {
	return q != None && c&q == q
}

// Resolution represents the vertical resolution of a release.
type Resolution int

const (
	ResolutionUnknown Resolution = iota
	ResolutionSD
	Resolution720p
	Resolution1080p
	Resolution2160p
	Resolution4320p
)

// unknownStr is the string representation for unknown values.
const unknownStr = "unknown"

func (r Resolution) String() string {
	switch r {
	case ResolutionSD:
		return "sd"
	case Resolution720p:
		return "720p"
	case Resolution1080p:
		return "1080p"
	case Resolution2160p:
		return "2160p"
	case Resolution4320p:
		return "4320p"
	default:
		return unknownStr
	}
}

// Source represents the media source type of a release.
type Source int

const (
	SourceUnknown Source = iota
	SourceHDTV
	SourceRawHDTV
	SourceDVD
	SourceWEBDL
	SourceWEBRip
	SourceBluRay
)

func (s Source) String() string {
	switch s {
	case SourceHDTV:
		return "hdtv"
	case SourceRawHDTV:
		return "rawhd"
	case SourceDVD:
		return "dvd"
	case SourceWEBDL:
		return "webdl"
	case SourceWEBRip:
		return "webrip"
	case SourceBluRay:
		return "bluray"
	default:
		return unknownStr
	}
}

// FromResolutionSource composes a quality code from its two axes.
// WEBRip shares the WEB-DL bucket. Combinations with no matching bucket are Unknown.
func FromResolutionSource(res Resolution, src Source) Code {
	if src == SourceWEBRip {
		src = SourceWEBDL
	}

	switch res {
	case ResolutionSD:
		switch src {
		case SourceDVD, SourceBluRay:
			return SDDVD
		case SourceHDTV, SourceWEBDL:
			return SDTV
		}
	case Resolution720p:
		switch src {
		case SourceHDTV:
			return HDTV
		case SourceWEBDL:
			return HDWebDL
		case SourceBluRay:
			return HDBluRay
		}
	case Resolution1080p:
		switch src {
		case SourceHDTV:
			return FullHDTV
		case SourceRawHDTV:
			return RawHDTV
		case SourceWEBDL:
			return FullHDWebDL
		case SourceBluRay:
			return FullHDBluRay
		}
	case Resolution2160p:
		switch src {
		case SourceHDTV:
			return UHD4KTV
		case SourceWEBDL:
			return UHD4KWebDL
		case SourceBluRay:
			return UHD4KBluRay
		}
	case Resolution4320p:
		switch src {
		case SourceHDTV:
			return UHD8KTV
		case SourceWEBDL:
			return UHD8KWebDL
		case SourceBluRay:
			return UHD8KBluRay
		}
	}
	return Unknown
}

// ParseSpec turns a user-facing spec such as "1080p webdl" or "720p bluray"
// into a quality code. Anything it cannot place is Unknown.
func ParseSpec(s string) Code {
	s = strings.ToLower(strings.TrimSpace(s))

	res := ResolutionUnknown
	switch {
	case strings.Contains(s, "4320p"), strings.Contains(s, "8k"):
		res = Resolution4320p
	case strings.Contains(s, "2160p"), strings.Contains(s, "4k"):
		res = Resolution2160p
	case strings.Contains(s, "1080p"):
		res = Resolution1080p
	case strings.Contains(s, "720p"):
		res = Resolution720p
	case strings.Contains(s, "480p"), strings.Contains(s, "576p"), strings.Contains(s, "sd"):
		res = ResolutionSD
	}

	src := SourceUnknown
	switch {
	case strings.Contains(s, "bluray"):
		src = SourceBluRay
	case strings.Contains(s, "webdl"), strings.Contains(s, "web-dl"):
		src = SourceWEBDL
	case strings.Contains(s, "webrip"):
		src = SourceWEBRip
	case strings.Contains(s, "rawhd"):
		src = SourceRawHDTV
	case strings.Contains(s, "hdtv"):
		src = SourceHDTV
	case strings.Contains(s, "dvd"):
		src = SourceDVD
	}

	return FromResolutionSource(res, src)
}
