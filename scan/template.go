package scan

import (
	"embed"
	"html/template"
	"io"
	"io/fs"

	"github.com/abiosoft/mold"
	"github.com/russross/blackfriday/v2"
)

var (
	//go:embed web/*.html
	webFS embed.FS

	//go:embed web/help.md
	helpMarkdown []byte

	views mold.Engine
)

func init() {
	sub, err := fs.Sub(webFS, "web")
	if err != nil {
		panic(err)
	}
	// layout.html wraps every view
	views, err = mold.New(sub)
	if err != nil {
		panic(err)
	}
}

// RenderPage renders a view inside the layout
func RenderPage(w io.Writer, view, title string, data map[string]any) error {
	if data == nil {
		data = make(map[string]any)
	}
	data["Title"] = title
	return views.Render(w, view, data)
}

// HelpHTML is the help page converted from markdown
func HelpHTML() template.HTML {
	return template.HTML(blackfriday.Run(helpMarkdown))
}
