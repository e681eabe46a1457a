package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shorturl-go/internal/model"
)

func seedLink(t *testing.T, links *fakeLinkRepo, code, url string) uint64 {
	t.Helper()
	link := &model.Link{OriginalURL: url, ShortCode: &code}
	require.NoError(t, links.Save(context.Background(), link))
	return link.ID
}

func TestClickLoggerRecordsEvent(t *testing.T) {
	links := newFakeLinkRepo()
	clicks := newFakeClickRepo()
	id := seedLink(t, links, "promo", "https://x.com")

	logger := NewClickLogger(links, clicks, fakeGeo{country: "Germany"}, zap.NewNop(), 8, 1)
	logger.Enqueue(ClickJob{
		ShortCode:  "promo",
		ClientAddr: "203.0.113.9",
		Referrer:   "https://news.example.com",
		UserAgent:  "curl/8.0",
	})
	logger.Close()

	require.Len(t, clicks.events, 1)
	got := clicks.events[0]
	assert.Equal(t, id, got.URLID)
	assert.Equal(t, "203.0.113.9", got.IPAddress)
	assert.Equal(t, "https://news.example.com", got.Referrer)
	assert.Equal(t, "curl/8.0", got.UserAgent)
	assert.Equal(t, "Germany", got.Country)
}

func TestClickLoggerSentinels(t *testing.T) {
	links := newFakeLinkRepo()
	clicks := newFakeClickRepo()
	seedLink(t, links, "promo", "https://x.com")

	// Absent headers and a failing geo lookup all fall back to sentinels.
	logger := NewClickLogger(links, clicks, fakeGeo{failing: true}, zap.NewNop(), 8, 1)
	logger.Enqueue(ClickJob{ShortCode: "promo", ClientAddr: "10.0.0.1"})
	logger.Close()

	require.Len(t, clicks.events, 1)
	got := clicks.events[0]
	assert.Equal(t, ReferrerDirect, got.Referrer)
	assert.Equal(t, UserAgentUnknown, got.UserAgent)
	assert.Equal(t, CountryUndefined, got.Country)
}

func TestClickLoggerDropsUnresolvableCode(t *testing.T) {
	links := newFakeLinkRepo()
	clicks := newFakeClickRepo()

	logger := NewClickLogger(links, clicks, fakeGeo{country: "Germany"}, zap.NewNop(), 8, 1)
	logger.Enqueue(ClickJob{ShortCode: "gone", ClientAddr: "10.0.0.1"})
	logger.Close()

	assert.Empty(t, clicks.events)
}

func TestClickLoggerAccounting(t *testing.T) {
	links := newFakeLinkRepo()
	clicks := newFakeClickRepo()
	id := seedLink(t, links, "promo", "https://x.com")

	logger := NewClickLogger(links, clicks, fakeGeo{country: "Germany"}, zap.NewNop(), 64, 4)
	const n = 25
	for i := 0; i < n; i++ {
		logger.Enqueue(ClickJob{ShortCode: "promo", ClientAddr: "10.0.0.1", UserAgent: "curl/8.0"})
	}
	logger.Close()

	ctx := context.Background()
	total, err := clicks.CountByURLID(ctx, id)
	require.NoError(t, err)
	assert.EqualValues(t, n, total)

	// Each breakdown independently sums back to the total.
	for _, column := range []string{"country", "user_agent", "referrer"} {
		rows, err := clicks.GroupCountByURLID(ctx, id, column)
		require.NoError(t, err)
		var sum int64
		for _, row := range rows {
			sum += row.Clicks
		}
		assert.EqualValues(t, n, sum, "column %s", column)
	}
}

func TestClickLoggerEnqueueNeverBlocks(t *testing.T) {
	links := newFakeLinkRepo()
	clicks := newFakeClickRepo()
	clicks.createGate = make(chan struct{})
	seedLink(t, links, "promo", "https://x.com")

	// One worker stuck in the durable write, queue of one: the third
	// enqueue has nowhere to go and must drop instead of blocking.
	logger := NewClickLogger(links, clicks, fakeGeo{country: "Germany"}, zap.NewNop(), 1, 1)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			logger.Enqueue(ClickJob{ShortCode: "promo", ClientAddr: "10.0.0.1"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Enqueue blocked on a saturated queue")
	}

	assert.Greater(t, logger.Dropped(), int64(0))

	close(clicks.createGate)
	logger.Close()
}
