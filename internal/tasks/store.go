// Package tasks holds the to-do list core: a store that keeps the whole list
// as one JSON array under a fixed key, a projection of that list into rows,
// and the handler that turns add/remove activations into store calls.
package tasks

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"todolist/internal/storage"
)

const listSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "array",
	"items": {"type": "string"}
}`

var schema = jsonschema.MustCompileString("tasklist.schema.json", listSchema)

// Store reads and writes the task list. Every call goes back to the
// underlying KV; nothing is cached between calls. Mutations are
// read-then-write without locking, so a concurrent writer can lose an update.
type Store struct {
	kv     storage.KV
	key    string
	logger *log.Logger
}

func NewStore(kv storage.KV, key string, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{kv: kv, key: key, logger: logger}
}

// Load returns the persisted list. A missing, unreadable or malformed value
// yields an empty list.
func (s *Store) Load() []string {
	raw, ok, err := s.kv.Get(s.key)
	if err != nil {
		s.logger.Warn("read task list", "key", s.key, "err", err)
		return []string{}
	}
	if !ok {
		return []string{}
	}
	list, err := decode(raw)
	if err != nil {
		s.logger.Warn("stored task list is malformed, treating as empty", "key", s.key, "err", err)
		return []string{}
	}
	return list
}

// Add appends text to the list. Blank text is ignored.
func (s *Store) Add(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	list := append(s.Load(), text)
	if err := s.Save(list); err != nil {
		return err
	}
	s.logger.Debug("added task", "index", len(list)-1, "count", len(list))
	return nil
}

// Remove deletes the task at index. An out-of-range index changes nothing.
func (s *Store) Remove(index int) error {
	list := s.Load()
	if index < 0 || index >= len(list) {
		s.logger.Debug("remove index out of range", "index", index, "count", len(list))
		return nil
	}
	list = append(list[:index], list[index+1:]...)
	if err := s.Save(list); err != nil {
		return err
	}
	s.logger.Debug("removed task", "index", index, "count", len(list))
	return nil
}

// Save overwrites the stored value with list.
func (s *Store) Save(list []string) error {
	raw, err := encode(list)
	if err != nil {
		return err
	}
	if err := s.kv.Set(s.key, raw); err != nil {
		return fmt.Errorf("write task list: %w", err)
	}
	return nil
}

func encode(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("encode task list: %w", err)
	}
	return string(data), nil
}

func decode(raw string) ([]string, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("trailing data after task list")
	}
	if err := schema.Validate(v); err != nil {
		return nil, err
	}
	items, _ := v.([]any)
	list := make([]string, 0, len(items))
	for _, item := range items {
		list = append(list, item.(string))
	}
	return list, nil
}

