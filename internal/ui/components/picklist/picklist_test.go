package picklist

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPicklist_FilterAndSelect(t *testing.T) {
	m := New("Tables").SetItems([]string{"dbo.Orders", "dbo.Customers", "sales.OrderLines"})

	item, ok := m.SelectedItem()
	assert.True(t, ok)
	assert.Equal(t, "dbo.Orders", item)

	m = m.SetFilter("ORDER")
	assert.Equal(t, []string{"dbo.Orders", "sales.OrderLines"}, m.VisibleItems())

	m = m.MoveDown().MoveDown()
	item, _ = m.SelectedItem()
	assert.Equal(t, "sales.OrderLines", item)
	assert.Equal(t, 2, m.Index())

	m = m.SetFilter("nothing")
	_, ok = m.SelectedItem()
	assert.False(t, ok)
	assert.Equal(t, -1, m.Index())

	m = m.SetFilter("")
	assert.Equal(t, 3, m.Len())
}

func TestPicklist_AppendRemove(t *testing.T) {
	m := New("Servers").SetItems([]string{"db01"})
	m = m.Append("db02").Append("db01")
	assert.Equal(t, []string{"db01", "db02"}, m.Items())

	m = m.Select("db02")
	item, _ := m.SelectedItem()
	assert.Equal(t, "db02", item)

	m = m.Remove("db02")
	assert.Equal(t, []string{"db01"}, m.Items())
	item, _ = m.SelectedItem()
	assert.Equal(t, "db01", item)
}

func TestPicklist_MoveBounds(t *testing.T) {
	m := New("").SetItems([]string{"a", "b"})
	m = m.MoveUp()
	assert.Equal(t, 0, m.Index())
	m = m.MoveDown().MoveDown().MoveDown()
	assert.Equal(t, 1, m.Index())
}

func TestPicklist_ViewWindow(t *testing.T) {
	items := []string{"t0", "t1", "t2", "t3", "t4", "t5", "t6", "t7"}
	m := New("Tables").SetItems(items).SetSize(20, 3)
	for range 6 {
		m = m.MoveDown()
	}

	view := m.View()
	assert.Contains(t, view, "> t6")
	assert.NotContains(t, view, "t0")
	assert.Len(t, strings.Split(view, "\n"), 4)
}

func TestPicklist_EmptyView(t *testing.T) {
	m := New("Databases").SetEmptyText("not connected")
	assert.Contains(t, m.View(), "not connected")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
