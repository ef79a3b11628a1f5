package pages_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/mytodo/internal/adapter/driving/web/templates/pages"
	vm "github.com/ericfisherdev/mytodo/internal/adapter/driving/web/viewmodel"
)

func render(t *testing.T, page vm.TodoPageViewModel) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, pages.TodoList(page).Render(context.Background(), &sb))
	return sb.String()
}

func TestTodoList_Items(t *testing.T) {
	html := render(t, vm.TodoPageViewModel{
		Username: "<bob>",
		Items: []vm.TodoItemViewModel{
			{ID: 7, Title: "Pay <rent>", Done: true, UpdatedAt: "2026-01-02 03:04:05"},
			{ID: 8, Title: "Call mum", DescriptionHTML: "<p>after <em>six</em></p>"},
		},
		Limit: 20,
	})

	assert.Contains(t, html, "Todos of &lt;bob&gt;")
	assert.Contains(t, html, `<li class="todo done" id="todo-7">`)
	assert.Contains(t, html, `<span class="mark">[x]</span> Pay &lt;rent&gt;`)
	assert.Contains(t, html, `<li class="todo" id="todo-8">`)
	assert.Contains(t, html, `<span class="mark">[ ]</span> Call mum`)
	assert.Contains(t, html, `<div class="description"><p>after <em>six</em></p></div>`)
	assert.Equal(t, 1, strings.Count(html, `class="description"`))
	assert.NotContains(t, html, `class="pager"`)
}

func TestTodoList_Empty(t *testing.T) {
	html := render(t, vm.TodoPageViewModel{Username: "bob", Limit: 20})

	assert.Contains(t, html, `<p class="empty">Nothing to do.</p>`)
	assert.NotContains(t, html, "<ol")
}

func TestTodoList_Pager(t *testing.T) {
	html := render(t, vm.TodoPageViewModel{
		Username: "bob",
		Items:    []vm.TodoItemViewModel{{ID: 1, Title: "a"}},
		Page:     1,
		Limit:    1,
		PrevPath: "/app/todos?page=0&limit=1",
		NextPath: "/app/todos?page=2&limit=1",
	})

	assert.Contains(t, html, `<a rel="prev" href="/app/todos?page=0&amp;limit=1">Previous</a>`)
	assert.Contains(t, html, "<span>Page 2</span>")
	assert.Contains(t, html, `<a rel="next" href="/app/todos?page=2&amp;limit=1">Next</a>`)
}

func TestTodoList_UnsafeURLIsReplaced(t *testing.T) {
	html := render(t, vm.TodoPageViewModel{
		Username: "bob",
		PrevPath: "javascript:alert(1)",
	})

	assert.NotContains(t, html, "javascript:")
	assert.Contains(t, html, `rel="prev"`)
}

func TestAppShell(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, pages.AppShell().Render(context.Background(), &sb))

	assert.Contains(t, sb.String(), `<main id="app" class="container">`)
	assert.Contains(t, sb.String(), `<script src="/static/app.js" defer></script>`)
}
