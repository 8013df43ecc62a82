package view

import (
	"slices"
	"sort"
	"sync"
)

// ClassHidden скрывает элемент на странице
const ClassHidden = "hidden"

// Surface - набор элементов, адресуемых по стабильному id
type Surface interface {
	Element(id string) (Element, bool)
}

// Element - то, что контроллер читает и пишет на поверхности отображения
type Element interface {
	ID() string
	Text() string
	SetText(text string)
	Value() string
	SetValue(value string)
	AddClass(classes ...string)
	RemoveClass(classes ...string)
	HasClass(class string) bool
	Classes() []string
}

// Patch - изменение одного элемента, уходит слушателю документа
type Patch struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Value   string   `json:"value"`
	Classes []string `json:"classes"`
}

// Document - потокобезопасная in-memory реализация Surface
type Document struct {
	mu       sync.Mutex
	nodes    map[string]*node
	order    []string
	onChange func(Patch)
}

type node struct {
	doc     *Document
	id      string
	text    string
	value   string
	classes map[string]struct{}
}

func NewDocument(ids ...string) *Document {
	d := &Document{nodes: make(map[string]*node, len(ids))}
	for _, id := range ids {
		d.add(id)
	}
	return d
}

func (d *Document) add(id string) *node {
	if n, ok := d.nodes[id]; ok {
		return n
	}
	n := &node{doc: d, id: id, classes: make(map[string]struct{})}
	d.nodes[id] = n
	d.order = append(d.order, id)
	return n
}

// Add регистрирует элемент с начальными классами
func (d *Document) Add(id string, classes ...string) Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := d.add(id)
	for _, c := range classes {
		n.classes[c] = struct{}{}
	}
	return n
}

// OnChange задаёт слушателя изменений. Вызывается под блокировкой документа.
func (d *Document) OnChange(fn func(Patch)) {
	d.mu.Lock()
	d.onChange = fn
	d.mu.Unlock()
}

func (d *Document) Element(id string) (Element, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, ok := d.nodes[id]
	if !ok {
		return nil, false
	}
	return n, true
}

// Snapshot возвращает состояние всех элементов в порядке добавления
func (d *Document) Snapshot() []Patch {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Patch, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.nodes[id].patch())
	}
	return out
}

func (n *node) patch() Patch {
	classes := make([]string, 0, len(n.classes))
	for c := range n.classes {
		classes = append(classes, c)
	}
	sort.Strings(classes)
	return Patch{ID: n.id, Text: n.text, Value: n.value, Classes: classes}
}

// mutate применяет fn под блокировкой и уведомляет слушателя, если что-то изменилось
func (n *node) mutate(fn func() bool) {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	if fn() && n.doc.onChange != nil {
		n.doc.onChange(n.patch())
	}
}

func (n *node) ID() string { return n.id }

func (n *node) Text() string {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	return n.text
}

func (n *node) SetText(text string) {
	n.mutate(func() bool {
		if n.text == text {
			return false
		}
		n.text = text
		return true
	})
}

func (n *node) Value() string {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	return n.value
}

func (n *node) SetValue(value string) {
	n.mutate(func() bool {
		if n.value == value {
			return false
		}
		n.value = value
		return true
	})
}

func (n *node) AddClass(classes ...string) {
	n.mutate(func() bool {
		changed := false
		for _, c := range classes {
			if _, ok := n.classes[c]; !ok {
				n.classes[c] = struct{}{}
				changed = true
			}
		}
		return changed
	})
}

func (n *node) RemoveClass(classes ...string) {
	n.mutate(func() bool {
		changed := false
		for _, c := range classes {
			if _, ok := n.classes[c]; ok {
				delete(n.classes, c)
				changed = true
			}
		}
		return changed
	})
}

func (n *node) HasClass(class string) bool {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	_, ok := n.classes[class]
	return ok
}

func (n *node) Classes() []string {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	return n.patch().Classes
}

// Visible - элемент без класса hidden
func Visible(e Element) bool {
	return !e.HasClass(ClassHidden)
}

// SetVisible переключает класс hidden
func SetVisible(e Element, visible bool) {
	if visible {
		e.RemoveClass(ClassHidden)
		return
	}
	e.AddClass(ClassHidden)
}

// HasOnly сообщает, что из набора classes на элементе ровно один и это want
func HasOnly(e Element, want string, classes []string) bool {
	present := e.Classes()
	count := 0
	for _, c := range classes {
		if slices.Contains(present, c) {
			count++
		}
	}
	return count == 1 && slices.Contains(present, want)
}
