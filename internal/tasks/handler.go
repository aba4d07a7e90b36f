package tasks

import (
	"strconv"
	"strings"
)

// Input is the text field the add activation reads from.
type Input interface {
	Value() string
	Clear()
}

// Handler wires the add and remove activations of a front end to the store.
// Each activation runs load, mutate, persist and re-render to completion.
type Handler struct {
	store    *Store
	renderer Renderer
	input    Input
}

func NewHandler(store *Store, renderer Renderer, input Input) *Handler {
	return &Handler{store: store, renderer: renderer, input: input}
}

// Start draws the list once.
func (h *Handler) Start() {
	Render(h.store, h.renderer)
}

// OnAdd stores the current input value, clears the field and re-renders.
// The field is cleared even when the value was blank.
func (h *Handler) OnAdd() error {
	err := h.store.Add(h.input.Value())
	if err == nil {
		h.input.Clear()
	}
	Render(h.store, h.renderer)
	return err
}

// OnRemove removes the row whose index tag is given and re-renders. A tag
// that is not an integer is ignored.
func (h *Handler) OnRemove(tag string) error {
	index, err := strconv.Atoi(strings.TrimSpace(tag))
	if err != nil {
		return nil
	}
	err = h.store.Remove(index)
	Render(h.store, h.renderer)
	return err
}
