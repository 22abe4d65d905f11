package search_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmunix/snatch/internal/library"
	"github.com/vmunix/snatch/internal/search"
	"github.com/vmunix/snatch/internal/search/mocks"
	"github.com/vmunix/snatch/pkg/newznab"
	"github.com/vmunix/snatch/pkg/quality"
	"github.com/vmunix/snatch/pkg/release"
	"go.uber.org/mock/gomock"
)

func TestIndexerPool_NoIndexers(t *testing.T) {
	pool := search.NewIndexerPool(nil, testLogger())
	results, errs := pool.Search(context.Background(), search.Query{Episodes: []*library.Episode{showEpisode(nil)}})
	assert.Empty(t, results)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], search.ErrNoIndexers)
}

func TestIndexerPool_NoEpisodes(t *testing.T) {
	ctrl := gomock.NewController(t)
	idx := mocks.NewMockIndexer(ctrl)

	pool := search.NewIndexerPool([]search.Indexer{idx}, testLogger())
	_, errs := pool.Search(context.Background(), search.Query{})
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], search.ErrNoEpisodes)
}

func TestIndexerPool_Search(t *testing.T) {
	ctrl := gomock.NewController(t)
	ep := showEpisode(nil)
	pub := time.Date(2026, 1, 18, 12, 0, 0, 0, time.UTC)

	usenet := mocks.NewMockIndexer(ctrl)
	usenet.EXPECT().Name().Return("nzbgeek").AnyTimes()
	usenet.EXPECT().Protocol().Return(newznab.Usenet).AnyTimes()
	usenet.EXPECT().
		Search(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req newznab.SearchRequest) ([]newznab.Item, error) {
			assert.Equal(t, "Show", req.Query)
			assert.Equal(t, 1, req.Season)
			assert.Equal(t, 2, req.Episode)
			return []newznab.Item{
				{Title: "Show.S01E02.1080p.WEB-DL-GRP", Link: "http://nzbgeek/1"},
				{Title: "Show.S01E02.720p.HDTV-GRP", Link: "http://nzbgeek/2"},
			}, nil
		})
	usenet.EXPECT().ItemSize(gomock.Any(), gomock.Any()).Return(int64(1000), nil).Times(2)
	usenet.EXPECT().ItemPublishDate(gomock.Any(), gomock.Any()).Return(&pub, nil).Times(2)

	broken := mocks.NewMockIndexer(ctrl)
	broken.EXPECT().Name().Return("down").AnyTimes()
	broken.EXPECT().Search(gomock.Any(), gomock.Any()).Return(nil, newznab.ErrUnavailable)

	pool := search.NewIndexerPool([]search.Indexer{usenet, broken}, testLogger())
	results, errs := pool.Search(context.Background(), search.Query{
		Episodes: []*library.Episode{ep},
		Type:     search.SearchManual,
	})

	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], newznab.ErrUnavailable)

	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, search.KindNZB, r.Kind)
		assert.Same(t, ep.Series, r.Series())
		assert.Equal(t, int64(1000), r.Size())
		assert.Equal(t, &pub, r.PubDate)
		assert.Equal(t, search.SearchManual, r.SearchType)
		assert.True(t, r.ManuallySearched)
		assert.False(t, r.ForcedSearch)
		assert.Empty(t, r.Hash)
		assert.IsType(t, newznab.Item{}, r.Item)
	}
	assert.Equal(t, "http://nzbgeek/1", results[0].URL)
	assert.Equal(t, "Show.S01E02.720p.HDTV-GRP", results[1].Name)

	assert.Equal(t, quality.FullHDWebDL, results[0].Quality())
	assert.Equal(t, quality.HDTV, results[1].Quality())
	assert.Equal(t, "GRP", results[0].ReleaseGroup)
	assert.Equal(t, -1, results[0].Version())
	assert.False(t, results[0].IsProper())
	info, ok := results[0].ParsedResult.(*release.Info)
	require.True(t, ok, "parsed result is %T", results[0].ParsedResult)
	assert.Equal(t, []int{2}, info.Episodes)
}

func TestIndexerPool_DropsUnfinishedResults(t *testing.T) {
	ctrl := gomock.NewController(t)
	sizeErr := errors.New("no size")

	idx := mocks.NewMockIndexer(ctrl)
	idx.EXPECT().Name().Return("flaky").AnyTimes()
	idx.EXPECT().Protocol().Return(newznab.Usenet).AnyTimes()
	idx.EXPECT().Search(gomock.Any(), gomock.Any()).Return([]newznab.Item{
		{Title: "good", Link: "http://flaky/1"},
		{Title: "bad", Link: "http://flaky/2"},
	}, nil)
	gomock.InOrder(
		idx.EXPECT().ItemSize(gomock.Any(), gomock.Any()).Return(int64(5), nil),
		idx.EXPECT().ItemPublishDate(gomock.Any(), gomock.Any()).Return(nil, nil),
		idx.EXPECT().ItemSize(gomock.Any(), gomock.Any()).Return(int64(0), sizeErr),
	)

	pool := search.NewIndexerPool([]search.Indexer{idx}, testLogger())
	results, errs := pool.Search(context.Background(), search.Query{Episodes: []*library.Episode{showEpisode(nil)}})

	require.Len(t, results, 1)
	assert.Equal(t, "good", results[0].Name)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], sizeErr)
}

func TestIndexerPool_TorznabEndToEnd(t *testing.T) {
	const feed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:torznab="http://torznab.com/schemas/2015/feed">
  <channel>
    <item>
      <title>Show.S01E02.1080p.WEB-DL.x264-GROUP</title>
      <guid>tor1</guid>
      <link>magnet:?xt=urn:btih:c12fe1c06bba254a9dc9f519b335aa7c1367a88a&amp;dn=Show</link>
      <size>1200000000</size>
      <pubDate>Sun, 18 Jan 2026 12:00:00 +0000</pubDate>
      <torznab:attr name="seeders" value="42" />
      <torznab:attr name="peers" value="50" />
    </item>
  </channel>
</rss>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tvsearch", r.URL.Query().Get("t"))
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(feed))
	}))
	defer server.Close()

	client := newznab.NewClient("jackett", server.URL, "key", newznab.Torrent, testLogger())
	pool := search.NewIndexerPool([]search.Indexer{client}, testLogger())

	results, errs := pool.Search(context.Background(), search.Query{Episodes: []*library.Episode{showEpisode(nil)}})
	require.Empty(t, errs)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, search.KindTorrent, r.Kind)
	assert.Equal(t, "c12fe1c06bba254a9dc9f519b335aa7c1367a88a", r.Hash)
	assert.Equal(t, 42, r.Seeders)
	assert.Equal(t, 8, r.Leechers)
	assert.Equal(t, int64(1200000000), r.Size())
	require.NotNil(t, r.PubDate)
	assert.Equal(t, "Show.S01E02.torrent", r.FileName())
	assert.Equal(t, "<TorrentSearchResult: Show.S01E02.1080p.WEB-DL.x264-GROUP from jackett>", r.GoString())
}
