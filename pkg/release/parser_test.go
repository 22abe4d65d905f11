package release

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vmunix/snatch/pkg/quality"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		title    string
		season   int
		episodes []int
		quality  quality.Code
		group    string
	}{
		{"web-dl", "Show.S01E02.1080p.WEB-DL-GRP", "Show", 1, []int{2}, quality.FullHDWebDL, "GRP"},
		{"hdtv", "Show.S01E02.720p.HDTV-GRP", "Show", 1, []int{2}, quality.HDTV, "GRP"},
		{"sd hdtv", "The.Office.US.S03E14.HDTV.XviD-LOL", "The Office US", 3, []int{14}, quality.SDTV, "LOL"},
		{"multi episode", "Breaking.Bad.S02E01E02.1080p.BluRay.x264-DEMAND", "Breaking Bad", 2, []int{1, 2}, quality.FullHDBluRay, "DEMAND"},
		{"hyphen range", "Show S05E09-E10 2160p WEB h265-NTb", "Show", 5, []int{9, 10}, quality.UHD4KWebDL, "NTb"},
		{"webrip", "Show.S01E01.720p.WEBRip.x264-ION10.mkv", "Show", 1, []int{1}, quality.HDWebDL, "ION10"},
		{"cross notation", "Show 3x07 720p HDTV", "Show", 3, []int{7}, quality.HDTV, ""},
		{"season pack", "Show.S04.1080p.BluRay.x264-ROVERS", "Show", 4, nil, quality.FullHDBluRay, "ROVERS"},
		{"no group", "Show.S01E02.1080p.WEB-DL", "Show", 1, []int{2}, quality.FullHDWebDL, ""},
		{"bracket suffix", "Show.S01E02.1080p.WEB-DL-GRP[rarbg]", "Show", 1, []int{2}, quality.FullHDWebDL, "GRP"},
		{"unknown", "Show.S01E02.XviD-GRP", "Show", 1, []int{2}, quality.Unknown, "GRP"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := Parse(tt.input)
			assert.Equal(t, tt.title, info.Title)
			assert.Equal(t, tt.season, info.Season)
			assert.Equal(t, tt.episodes, info.Episodes)
			assert.Equal(t, tt.quality, info.Quality(), "quality %s", info.Quality())
			assert.Equal(t, tt.group, info.Group)
		})
	}
}

func TestParse_ProperTags(t *testing.T) {
	info := Parse("The.Real.Housewives.S10E01.REAL.PROPER.720p.HDTV.x264-KILLERS")
	assert.Equal(t, "The Real Housewives", info.Title)
	assert.Equal(t, []string{"REAL", "PROPER"}, info.ProperTags)
	assert.True(t, info.IsProper())

	info = Parse("Show.S01E02.REPACK.1080p.WEB-DL-GRP")
	assert.Equal(t, []string{"REPACK"}, info.ProperTags)

	info = Parse("Show.S01E02.1080p.WEB-DL-GRP")
	assert.Empty(t, info.ProperTags)
	assert.NotNil(t, info.ProperTags)
	assert.False(t, info.IsProper())
}

func TestParse_Version(t *testing.T) {
	assert.Equal(t, -1, Parse("Show.S01E02.1080p.WEB-DL-GRP").Version)
	assert.Equal(t, 2, Parse("Show.S01E02v2.1080p.WEB-DL-GRP").Version)
	assert.Equal(t, 3, Parse("Show S01E02 v3 720p HDTV").Version)
}

func TestParse_BracketGroup(t *testing.T) {
	info := Parse("[SubsPlease] Show S02E05 (1080p) [ABCDEF12].mkv")
	assert.Equal(t, "SubsPlease", info.Group)
	assert.Equal(t, "Show", info.Title)
	assert.Equal(t, 2, info.Season)
	assert.Equal(t, []int{5}, info.Episodes)
	assert.Equal(t, quality.Resolution1080p, info.Resolution)
}

func TestParse_NoEpisodeMarker(t *testing.T) {
	info := Parse("Some.Documentary.2019.1080p.BluRay-GRP")
	assert.Equal(t, "Some Documentary", info.Title)
	assert.Zero(t, info.Season)
	assert.Nil(t, info.Episodes)
	assert.Equal(t, quality.FullHDBluRay, info.Quality())
	assert.Equal(t, "some documentary", info.CleanTitle)
}
