package live

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	id      string
	name    string
	phone   string
	status  string
	created time.Time
}

var testNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestView(onNew func(int)) *View[record] {
	return NewView(Config[record]{
		ID:            func(r record) string { return r.id },
		SearchFields:  func(r record) []string { return []string{r.id, r.name, r.phone} },
		Status:        func(r record) string { return r.status },
		CreatedAt:     func(r record) time.Time { return r.created },
		OnNewArrivals: onNew,
		Now:           func() time.Time { return testNow },
	})
}

func rec(id, name, status string, age time.Duration) record {
	return record{id: id, name: name, phone: "98765", status: status, created: testNow.Add(-age)}
}

func TestViewSearchIsCaseInsensitiveSubstring(t *testing.T) {
	v := newTestView(nil)
	v.SetRecords([]record{
		rec("FM1001", "Asha", "confirmed", time.Hour),
		rec("FM1002", "Ashok", "packed", time.Hour),
		rec("FM2001", "Binu", "confirmed", time.Hour),
	})

	v.SetSearch("ash")
	assert.Equal(t, 2, v.Len())

	v.SetSearch("FM2")
	require.Equal(t, 1, v.Len())
	assert.Equal(t, "FM2001", v.Filtered()[0].id)

	v.SetSearch("")
	assert.Equal(t, 3, v.Len())
}

func TestViewStatusFilter(t *testing.T) {
	v := newTestView(nil)
	v.SetRecords([]record{
		rec("a", "A", "confirmed", time.Hour),
		rec("b", "B", "packed", time.Hour),
		rec("c", "C", "confirmed", time.Hour),
	})

	v.SetStatus("confirmed")
	assert.Equal(t, 2, v.Len())

	// "all" disables the filter
	v.SetStatus("all")
	assert.Equal(t, 3, v.Len())
}

func TestViewDateRanges(t *testing.T) {
	v := newTestView(nil)
	v.SetRecords([]record{
		rec("today", "A", "confirmed", 2*time.Hour),
		rec("thisweek", "B", "confirmed", 3*24*time.Hour),
		rec("thismonth", "C", "confirmed", 20*24*time.Hour),
		rec("old", "D", "confirmed", 90*24*time.Hour),
	})

	v.SetDateRange(RangeToday)
	assert.Equal(t, 1, v.Len())

	v.SetDateRange(RangeWeek)
	assert.Equal(t, 2, v.Len())

	v.SetDateRange(RangeMonth)
	assert.Equal(t, 3, v.Len())

	v.SetDateRange(RangeAll)
	assert.Equal(t, 4, v.Len())
}

func TestViewFiltersCombineWithAnd(t *testing.T) {
	v := newTestView(nil)
	v.SetRecords([]record{
		rec("1", "Asha", "confirmed", time.Hour),
		rec("2", "Asha", "packed", time.Hour),
		rec("3", "Asha", "confirmed", 45*24*time.Hour),
		rec("4", "Binu", "confirmed", time.Hour),
	})

	v.SetSearch("asha")
	v.SetStatus("confirmed")
	v.SetDateRange(RangeMonth)

	require.Equal(t, 1, v.Len())
	assert.Equal(t, "1", v.Filtered()[0].id)
}

func TestViewPreservesSourceOrder(t *testing.T) {
	v := newTestView(nil)
	v.SetRecords([]record{
		rec("newest", "A", "confirmed", time.Hour),
		rec("middle", "A", "confirmed", 2*time.Hour),
		rec("oldest", "A", "confirmed", 3*time.Hour),
	})

	ids := []string{}
	for _, r := range v.Filtered() {
		ids = append(ids, r.id)
	}
	assert.Equal(t, []string{"newest", "middle", "oldest"}, ids)
}

func TestViewPagination(t *testing.T) {
	v := newTestView(nil)
	records := make([]record, 25)
	for i := range records {
		records[i] = rec(fmt.Sprintf("r%02d", i), "A", "confirmed", time.Hour)
	}
	v.SetRecords(records)

	assert.Equal(t, 3, v.PageCount())
	assert.Equal(t, 1, v.Page())
	assert.Len(t, v.PageRecords(), 10)

	v.SetPage(3)
	assert.Len(t, v.PageRecords(), 5)

	// clamped, not wrapped
	v.SetPage(99)
	assert.Equal(t, 3, v.Page())
	v.SetPage(-1)
	assert.Equal(t, 1, v.Page())
}

func TestViewFilterChangeResetsPage(t *testing.T) {
	v := newTestView(nil)
	records := make([]record, 25)
	for i := range records {
		records[i] = rec(fmt.Sprintf("r%02d", i), "A", "confirmed", time.Hour)
	}
	v.SetRecords(records)

	v.SetPage(3)
	v.SetSearch("r0")
	assert.Equal(t, 1, v.Page())

	v.SetPage(1)
	v.SetStatus("confirmed")
	assert.Equal(t, 1, v.Page())
}

func TestViewPageClampsWhenFilteredSetShrinks(t *testing.T) {
	v := newTestView(nil)
	records := make([]record, 25)
	for i := range records {
		records[i] = rec(fmt.Sprintf("r%02d", i), "A", "confirmed", time.Hour)
	}
	v.SetRecords(records)
	v.SetPage(3)

	v.SetRecords(records[:5])
	assert.Equal(t, 1, v.Page())
	assert.Len(t, v.PageRecords(), 5)
}

func TestViewNewArrivals(t *testing.T) {
	fired := []int{}
	v := newTestView(func(count int) { fired = append(fired, count) })

	// initial population never notifies
	v.SetRecords([]record{rec("a", "A", "confirmed", time.Hour)})
	assert.Empty(t, fired)

	// same set again is silent
	v.SetRecords([]record{rec("a", "A", "confirmed", time.Hour)})
	assert.Empty(t, fired)

	// two additions fire once with the batch count
	v.SetRecords([]record{
		rec("b", "B", "confirmed", time.Minute),
		rec("c", "C", "confirmed", time.Minute),
		rec("a", "A", "confirmed", time.Hour),
	})
	assert.Equal(t, []int{2}, fired)
}

func TestViewNewArrivalsSuppressedAfterEmpty(t *testing.T) {
	fired := 0
	v := newTestView(func(int) { fired++ })

	v.SetRecords([]record{rec("a", "A", "confirmed", time.Hour)})
	v.SetRecords([]record{})

	// repopulating an emptied mirror counts as a fresh population
	v.SetRecords([]record{rec("b", "B", "confirmed", time.Minute)})
	assert.Zero(t, fired)
}

func TestViewEmptyPage(t *testing.T) {
	v := newTestView(nil)
	assert.Equal(t, 1, v.PageCount())
	assert.Empty(t, v.PageRecords())
	assert.Zero(t, v.Len())
}
