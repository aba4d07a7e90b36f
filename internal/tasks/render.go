package tasks

// Row is one displayed task. Index is its current position in the stored
// list and is the tag a remove activation carries back.
type Row struct {
	Index int
	Text  string
}

// Renderer replaces everything it displays with rows.
type Renderer interface {
	Replace(rows []Row)
}

// Render reloads the list from s and hands r the full set of rows, in order.
func Render(s *Store, r Renderer) {
	list := s.Load()
	rows := make([]Row, len(list))
	for i, text := range list {
		rows[i] = Row{Index: i, Text: text}
	}
	r.Replace(rows)
}
