package web

import (
	"fmt"
	"strconv"
	"time"

	vm "github.com/ericfisherdev/mytodo/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/mytodo/internal/application"
	"github.com/ericfisherdev/mytodo/internal/domain/model"
)

// toTodoItemViewModel converts a domain Todo into a list row. The description
// is rendered from Markdown and sanitized.
func toTodoItemViewModel(t model.Todo) vm.TodoItemViewModel {
	var desc string
	if t.Description != nil {
		desc = RenderMarkdown(*t.Description)
	}

	return vm.TodoItemViewModel{
		ID:              t.ID,
		Title:           t.Title,
		DescriptionHTML: desc,
		Done:            t.Done,
		UpdatedAt:       t.UpdatedAt.UTC().Format(time.DateTime),
	}
}

// toTodoPageViewModel builds the printable page. page and limit are the raw
// query values, already accepted by the todo service.
func toTodoPageViewModel(session *model.Session, todos []model.Todo, page, limit string) vm.TodoPageViewModel {
	p := atoiDefault(page, 0)
	l := atoiDefault(limit, application.DefaultPageSize)

	items := make([]vm.TodoItemViewModel, 0, len(todos))
	for _, t := range todos {
		items = append(items, toTodoItemViewModel(t))
	}

	pageVM := vm.TodoPageViewModel{
		Username: session.Username,
		Items:    items,
		Page:     p,
		Limit:    l,
	}
	if p > 0 {
		pageVM.PrevPath = fmt.Sprintf("/app/todos?page=%d&limit=%d", p-1, l)
	}
	if l > 0 && len(todos) == l {
		pageVM.NextPath = fmt.Sprintf("/app/todos?page=%d&limit=%d", p+1, l)
	}
	return pageVM
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
