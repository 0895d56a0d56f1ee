package generator

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"github.com/pthm/hxstore/lib/config"
	"github.com/pthm/hxstore/lib/state"
)

// ComponentInfo is what the template needs to know about one definition.
type ComponentInfo struct {
	Source     string // definition file name, relative to the package
	Name       string // component name from the definition
	Kind       string
	Ident      string // exported Go prefix, e.g. "TodoList"
	Var        string // unexported Go prefix, e.g. "todoList"
	Package    string
	ImportPath string
	Keys       []KeyInfo
	Transforms []string
	Handlers   []string
	Rules      []string
}

// KeyInfo describes one generated action key.
type KeyInfo struct {
	Ident string // e.g. "SetCount"
	Name  string // e.g. "setCount"
	Expr  string // e.g. `state.Set("count")`
}

func newComponentInfo(path string, f *config.File) *ComponentInfo {
	info := &ComponentInfo{
		Source: filepath.Base(path),
		Name:   f.Name,
		Kind:   f.Kind,
		Ident:  identifier(f.Name, true),
		Var:    identifier(f.Name, false),
	}
	if info.Kind == "" {
		info.Kind = config.KindStore
	}

	for _, k := range f.Keys() {
		info.Keys = append(info.Keys, KeyInfo{
			Ident: identifier(k.Name(), true),
			Name:  k.Name(),
			Expr:  keyExpr(k),
		})
	}

	transforms := map[string]bool{}
	for _, e := range f.State {
		for _, h := range e.Handlers {
			transforms[h] = true
		}
	}
	info.Transforms = sortedKeys(transforms)
	info.Handlers = append([]string(nil), f.Handlers...)
	sort.Strings(info.Handlers)

	rules := map[string]bool{}
	for _, r := range f.Derive {
		rules[r.Rule] = true
	}
	info.Rules = sortedKeys(rules)
	return info
}

func keyExpr(k state.Key) string {
	switch k.Verb {
	case state.VerbSet:
		return "state.Set(" + strconv.Quote(k.Field) + ")"
	case state.VerbReset:
		return "state.Reset(" + strconv.Quote(k.Field) + ")"
	case state.VerbToggle:
		return "state.Toggle(" + strconv.Quote(k.Field) + ")"
	case state.VerbMerge:
		return "state.Merge(" + strconv.Quote(k.Field) + ")"
	}
	if k.Field == "" {
		return "state.HandlerKey(" + strconv.Quote(k.Handler) + ")"
	}
	return "state.Custom(" + strconv.Quote(k.Handler) + ", " + strconv.Quote(k.Field) + ")"
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// OutputPath returns the generated file path for a definition file.
func OutputPath(definition string) string {
	base := strings.TrimSuffix(filepath.Base(definition), DefinitionSuffix)
	return filepath.Join(filepath.Dir(definition), base+OutputSuffix)
}

// generateComponent writes the *_hxs.go file for one definition.
func (g *Generator) generateComponent(pkgPath string, info *ComponentInfo) error {
	outputFile := OutputPath(filepath.Join(pkgPath, info.Source))

	fmt.Fprintf(g.opts.Out, "generating %s\n", outputFile)

	if g.opts.DryRun {
		return nil
	}

	code, err := Render(info)
	if err != nil {
		return err
	}
	return os.WriteFile(outputFile, code, 0644)
}

// Render produces formatted Go source for info.
func Render(info *ComponentInfo) ([]byte, error) {
	tmpl, err := template.New("hxs").Funcs(template.FuncMap{
		"quote": strconv.Quote,
	}).Parse(hxsTemplate)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, info); err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format source: %w\n%s", err, buf.Bytes())
	}
	return formatted, nil
}

const hxsTemplate = `// Code generated by hxstore generate. DO NOT EDIT.
// source: {{.Source}}

package {{.Package}}

import (
	"bytes"
	_ "embed"

	"github.com/pthm/hxstore/lib/config"
{{- if .Keys}}
	"github.com/pthm/hxstore/lib/state"
{{- end}}
)

//go:embed {{.Source}}
var {{.Var}}Definition []byte

// {{.Ident}}Definition decodes the embedded {{quote .Name}} {{.Kind}} definition{{if .ImportPath}}
// from {{.ImportPath}}{{end}}.
func {{.Ident}}Definition() (*config.File, error) {
	return config.Load(bytes.NewReader({{.Var}}Definition))
}

{{- if .Keys}}

// {{.Ident}} action keys.
var (
{{- range .Keys}}
	{{$.Ident}}{{.Ident}} = {{.Expr}} // {{.Name}}
{{- end}}
)
{{- end}}

// {{.Ident}}Bindings names the functions {{.Ident}}Definition expects in
// config.Bindings.
var {{.Ident}}Bindings = struct {
	Transforms []string
	Handlers   []string
	Rules      []string
}{
	Transforms: []string{ {{- range $i, $n := .Transforms}}{{if $i}}, {{end}}{{quote $n}}{{end -}} },
	Handlers:   []string{ {{- range $i, $n := .Handlers}}{{if $i}}, {{end}}{{quote $n}}{{end -}} },
	Rules:      []string{ {{- range $i, $n := .Rules}}{{if $i}}, {{end}}{{quote $n}}{{end -}} },
}
`
