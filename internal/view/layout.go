package view

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Layout - элементы страницы с id и их начальные классы
type Layout []Patch

// ParseHTML находит на странице все элементы с атрибутом id
func ParseHTML(r io.Reader) (Layout, error) {
	var layout Layout
	seen := make(map[string]bool)

	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return layout, nil
			}
			return nil, fmt.Errorf("ошибка разбора страницы: %w", z.Err())
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			var id, class, value string
			for _, a := range tok.Attr {
				switch a.Key {
				case "id":
					id = a.Val
				case "class":
					class = a.Val
				case "value":
					value = a.Val
				}
			}
			if id == "" {
				continue
			}
			if seen[id] {
				return nil, fmt.Errorf("повторяющийся id на странице: %s", id)
			}
			seen[id] = true
			layout = append(layout, Patch{ID: id, Value: value, Classes: strings.Fields(class)})
		}
	}
}

// Document создаёт новый документ по разметке; у каждого соединения свой
func (l Layout) Document() *Document {
	d := NewDocument()
	for _, p := range l {
		el := d.Add(p.ID, p.Classes...)
		el.SetValue(p.Value)
	}
	return d
}
