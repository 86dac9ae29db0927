package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dealspot/dealspot/internal/core/domain"
)

func TestExporters_RowWidthMatchesHeaders(t *testing.T) {
	now := time.Now()
	parent := "c0"

	deal := makeDeals(1)[0]
	deal.NeverExpires = true
	dealExp := NewDealExporter(nil, nil)
	assert.Len(t, dealExp.TextRow(deal), len(dealExp.Headers()))
	assert.Len(t, dealExp.SheetRow(deal), len(dealExp.Headers()))
	assert.Equal(t, "store-1", dealExp.TextRow(deal)[4], "unknown store ids pass through")
	assert.Equal(t, "never", dealExp.TextRow(deal)[15])

	user := &domain.User{ID: "u1", Username: "ana", Blocked: true, CreatedAt: now}
	assert.Len(t, UserExporter{}.TextRow(user), len(UserExporter{}.Headers()))
	assert.Len(t, UserExporter{}.SheetRow(user), len(UserExporter{}.Headers()))
	assert.Equal(t, "yes", UserExporter{}.TextRow(user)[4])

	sub := &domain.Subscriber{Email: "a@b.c", Active: true, SubscribedAt: now}
	assert.Len(t, SubscriberExporter{}.TextRow(sub), len(SubscriberExporter{}.Headers()))
	assert.Len(t, SubscriberExporter{}.SheetRow(sub), len(SubscriberExporter{}.Headers()))

	store := &domain.Store{ID: "s1", Name: "Acme"}
	assert.Len(t, StoreExporter{}.TextRow(store), len(StoreExporter{}.Headers()))
	assert.Len(t, StoreExporter{}.SheetRow(store), len(StoreExporter{}.Headers()))

	c := &domain.Comment{ID: "c1", ParentID: &parent, Body: "nice"}
	assert.Len(t, CommentExporter{}.TextRow(c), len(CommentExporter{}.Headers()))
	assert.Len(t, CommentExporter{}.SheetRow(c), len(CommentExporter{}.Headers()))
	assert.Equal(t, "c0", CommentExporter{}.TextRow(c)[3])
}

func TestFormatTime_Zero(t *testing.T) {
	assert.Equal(t, "", formatTime(time.Time{}))
	assert.Equal(t, "", formatTimePtr(nil))
}
