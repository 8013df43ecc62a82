package handlers

import (
	"bytes"
	_ "embed"
	"fmt"
	"net/http"

	"github.com/gometeo/widget/internal/view"
	"github.com/gometeo/widget/internal/widget"
)

//go:embed web/index.html
var indexHTML []byte

// Page - страница виджета и разметка её элементов
type Page struct {
	html   []byte
	layout view.Layout
}

// LoadPage разбирает встроенную страницу
func LoadPage() (*Page, error) {
	return NewPage(indexHTML)
}

// NewPage разбирает страницу и проверяет, что на ней есть все элементы контроллера.
// Без них виджет работать не может, поэтому это ошибка запуска.
func NewPage(src []byte) (*Page, error) {
	layout, err := view.ParseHTML(bytes.NewReader(src))
	if err != nil {
		return nil, err
	}

	if _, err := widget.New(layout.Document(), nil, widget.Options{}); err != nil {
		return nil, fmt.Errorf("страница виджета повреждена: %w", err)
	}

	return &Page{html: src, layout: layout}, nil
}

// Document - новый документ страницы для одного соединения
func (p *Page) Document() *view.Document {
	return p.layout.Document()
}

// ServeIndex отдаёт страницу виджета
func (p *Page) ServeIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(p.html)
}
