package view

import (
	"embed"
	"html/template"
	"io"
)

//go:embed templates/*.html
var tmplFS embed.FS

var funcs = template.FuncMap{
	"ratingChoices": func() []int { return []int{1, 2, 3, 4, 5} },
}

func page(name string) *template.Template {
	return template.Must(template.New("layout.html").Funcs(funcs).
		ParseFS(tmplFS, "templates/layout.html", "templates/"+name))
}

var (
	indexTmpl    = page("index.html")
	loginTmpl    = page("login.html")
	registerTmpl = page("register.html")
	createTmpl   = page("create.html")
	recipeTmpl   = page("recipe.html")
)

// 纯渲染函数：同样的视图模型总是得到同样的 HTML

func RenderIndex(w io.Writer, p IndexPage) error {
	return indexTmpl.ExecuteTemplate(w, "layout", p)
}

func RenderLogin(w io.Writer, p AuthPage) error {
	return loginTmpl.ExecuteTemplate(w, "layout", p)
}

func RenderRegister(w io.Writer, p AuthPage) error {
	return registerTmpl.ExecuteTemplate(w, "layout", p)
}

func RenderCreate(w io.Writer, p CreatePage) error {
	return createTmpl.ExecuteTemplate(w, "layout", p)
}

func RenderRecipe(w io.Writer, p RecipePage) error {
	return recipeTmpl.ExecuteTemplate(w, "layout", p)
}
