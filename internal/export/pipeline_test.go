package export

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/dealspot/dealspot/internal/core/domain"
)

// sliceSource serves pre-sorted records and records every window requested.
type sliceSource struct {
	items    []*domain.Deal
	count    int64 // overrides len(items) when non-zero
	countErr error
	findErr  error
	failAt   int // 1-based Find call that fails; 0 disables
	calls    []domain.Page
}

func (s *sliceSource) Count(context.Context) (int64, error) {
	if s.countErr != nil {
		return 0, s.countErr
	}
	if s.count != 0 {
		return s.count, nil
	}
	return int64(len(s.items)), nil
}

func (s *sliceSource) Find(_ context.Context, _ domain.Sort, page domain.Page) ([]*domain.Deal, error) {
	s.calls = append(s.calls, page)
	if s.findErr != nil && (s.failAt == 0 || s.failAt == len(s.calls)) {
		return nil, s.findErr
	}
	start := page.Skip
	if start > int64(len(s.items)) {
		start = int64(len(s.items))
	}
	end := int64(len(s.items))
	if page.Limit > 0 && start+page.Limit < end {
		end = start + page.Limit
	}
	return s.items[start:end], nil
}

type recordingSink struct {
	events []any
	err    error
}

func (r *recordingSink) Send(event any) error {
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, event)
	return nil
}

func makeDeals(n int) []*domain.Deal {
	created := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	out := make([]*domain.Deal, n)
	for i := range out {
		out[i] = &domain.Deal{
			ID:            fmt.Sprintf("deal-%04d", i),
			Title:         fmt.Sprintf("Deal %d", i),
			Slug:          fmt.Sprintf("deal-%d", i),
			Status:        domain.DealPublished,
			StoreID:       "store-1",
			DealTypeID:    "type-1",
			Price:         9.5,
			OriginalPrice: 19,
			Currency:      "USD",
			CreatedAt:     created,
		}
	}
	return out
}

var fixedClock = func() time.Time { return time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC) }

func newDealPipeline(src Source[*domain.Deal], format Format) *Pipeline[*domain.Deal] {
	exp := NewDealExporter(map[string]string{"store-1": "Acme"}, map[string]string{"type-1": "Electronics"})
	return New[*domain.Deal](src, exp, domain.Sort{Field: "createdAt", Desc: true}, format, WithClock(fixedClock))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("XLSX")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatTXT, f)

	_, err = ParseFormat("pdf")
	assert.ErrorIs(t, err, domain.ErrInvalidQuery)
}

func TestDirect_Text(t *testing.T) {
	src := &sliceSource{items: makeDeals(3)}
	file, err := newDealPipeline(src, FormatTXT).Direct(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ContentTypeTXT, file.ContentType)
	assert.Equal(t, "deals_20261019_083000.txt", file.Filename)
	assert.Equal(t, 3, file.Rows)

	lines := strings.Split(string(file.Data), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "ID\tTitle\tSlug"))
	cells := strings.Split(lines[1], "\t")
	assert.Len(t, cells, len(NewDealExporter(nil, nil).Headers()))
	assert.Equal(t, "Acme", cells[4])
	assert.Equal(t, "Electronics", cells[5])
	assert.Equal(t, "9.50", cells[6])

	require.Len(t, src.calls, 1)
	assert.Equal(t, domain.Page{}, src.calls[0], "direct export must load everything in one query")
}

func TestDirect_TextLineCountMatchesRows(t *testing.T) {
	deals := makeDeals(5)
	deals[2].Title = "multi\nline\r\ntitle\twith tab"
	file, err := newDealPipeline(&sliceSource{items: deals}, FormatTXT).Direct(context.Background())
	require.NoError(t, err)

	lines := strings.Split(string(file.Data), "\n")
	assert.Equal(t, len(deals), len(lines)-1)
	assert.Contains(t, lines[3], "multi line title with tab")
}

func TestDirect_XLSX(t *testing.T) {
	file, err := newDealPipeline(&sliceSource{items: makeDeals(4)}, FormatXLSX).Direct(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ContentTypeXLSX, file.ContentType)
	assert.True(t, strings.HasSuffix(file.Filename, ".xlsx"))

	wb, err := excelize.OpenReader(bytes.NewReader(file.Data))
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, []string{"deals"}, wb.GetSheetList())
	rows, err := wb.GetRows("deals")
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "Title", rows[0][1])
	assert.Equal(t, "Deal 3", rows[4][1])
}

func TestDirect_NoData(t *testing.T) {
	_, err := newDealPipeline(&sliceSource{}, FormatTXT).Direct(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoExportData)
}

func TestDirect_SourceError(t *testing.T) {
	boom := errors.New("db down")
	_, err := newDealPipeline(&sliceSource{findErr: boom}, FormatTXT).Direct(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestStream_ProgressThenComplete(t *testing.T) {
	src := &sliceSource{items: makeDeals(1200)}
	p := newDealPipeline(src, FormatTXT)
	sink := &recordingSink{}

	require.NoError(t, p.Stream(context.Background(), sink))

	require.Len(t, sink.events, 4)
	assert.Equal(t, ProgressEvent{Progress: 41, Total: 1200, Current: 500}, sink.events[0])
	assert.Equal(t, ProgressEvent{Progress: 83, Total: 1200, Current: 1000}, sink.events[1])
	assert.Equal(t, ProgressEvent{Progress: 100, Total: 1200, Current: 1200}, sink.events[2])

	done, ok := sink.events[3].(CompleteEvent)
	require.True(t, ok, "last event must be CompleteEvent, got %T", sink.events[3])
	assert.True(t, done.Done)
	assert.Equal(t, ContentTypeTXT, done.ContentType)

	decoded, err := base64.StdEncoding.DecodeString(done.File)
	require.NoError(t, err)
	direct, err := newDealPipeline(&sliceSource{items: makeDeals(1200)}, FormatTXT).Direct(context.Background())
	require.NoError(t, err)
	assert.Equal(t, direct.Data, decoded)

	// three batch windows followed by the full pass
	assert.Equal(t, []domain.Page{
		{Skip: 0, Limit: 500},
		{Skip: 500, Limit: 500},
		{Skip: 1000, Limit: 500},
		{},
	}, src.calls)
}

func TestStream_PayloadMatchesDirectExport(t *testing.T) {
	for _, format := range []Format{FormatTXT, FormatXLSX} {
		t.Run(string(format), func(t *testing.T) {
			sink := &recordingSink{}
			require.NoError(t, newDealPipeline(&sliceSource{items: makeDeals(1200)}, format).Stream(context.Background(), sink))
			require.NotEmpty(t, sink.events)

			done, ok := sink.events[len(sink.events)-1].(CompleteEvent)
			require.True(t, ok, "last event must be CompleteEvent, got %T", sink.events[len(sink.events)-1])

			direct, err := newDealPipeline(&sliceSource{items: makeDeals(1200)}, format).Direct(context.Background())
			require.NoError(t, err)

			decoded, err := base64.StdEncoding.DecodeString(done.File)
			require.NoError(t, err)
			assert.Equal(t, direct.Data, decoded)
			assert.Equal(t, direct.ContentType, done.ContentType)
			assert.Equal(t, direct.Filename, done.Filename)

			if format == FormatXLSX {
				wb, err := excelize.OpenReader(bytes.NewReader(decoded))
				require.NoError(t, err)
				defer wb.Close()
				rows, err := wb.GetRows("deals")
				require.NoError(t, err)
				assert.Len(t, rows, 1201)
			}
		})
	}
}

func TestStream_ProgressIsMonotonicAndReaches100(t *testing.T) {
	// count reports more rows than Find returns, as if rows vanished mid-export
	src := &sliceSource{items: makeDeals(1100), count: 1400}
	sink := &recordingSink{}
	require.NoError(t, newDealPipeline(src, FormatTXT).Stream(context.Background(), sink))

	last := -1
	sawHundred := false
	for i, ev := range sink.events {
		switch e := ev.(type) {
		case ProgressEvent:
			assert.GreaterOrEqual(t, e.Progress, last)
			last = e.Progress
			sawHundred = sawHundred || e.Progress == 100
		case CompleteEvent:
			assert.Equal(t, len(sink.events)-1, i)
			assert.True(t, sawHundred, "progress must reach 100 before completion")
		default:
			t.Fatalf("unexpected event %T", ev)
		}
	}
}

func TestStream_BatchErrorSendsErrorEvent(t *testing.T) {
	src := &sliceSource{items: makeDeals(1500), findErr: errors.New("cursor killed"), failAt: 2}
	sink := &recordingSink{}

	err := newDealPipeline(src, FormatXLSX).Stream(context.Background(), sink)
	require.Error(t, err)

	require.Len(t, sink.events, 2)
	assert.IsType(t, ProgressEvent{}, sink.events[0])
	assert.Equal(t, ErrorEvent{Error: "export failed"}, sink.events[1])
}

func TestStream_CountErrorSendsErrorEvent(t *testing.T) {
	sink := &recordingSink{}
	err := newDealPipeline(&sliceSource{countErr: errors.New("timeout")}, FormatTXT).Stream(context.Background(), sink)
	require.Error(t, err)
	assert.Equal(t, []any{ErrorEvent{Error: "export failed"}}, sink.events)
}

func TestStream_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &sliceSource{items: makeDeals(1000)}
	sink := &recordingSink{}
	err := newDealPipeline(src, FormatTXT).Stream(ctx, sink)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, src.calls)
}

func TestStream_CustomBatchSize(t *testing.T) {
	src := &sliceSource{items: makeDeals(10)}
	p := New[*domain.Deal](src, NewDealExporter(nil, nil), domain.Sort{}, FormatTXT, WithBatchSize(4))
	sink := &recordingSink{}
	require.NoError(t, p.Stream(context.Background(), sink))

	var progress []int
	for _, ev := range sink.events {
		if e, ok := ev.(ProgressEvent); ok {
			progress = append(progress, e.Progress)
		}
	}
	assert.Equal(t, []int{40, 80, 100}, progress)
}
