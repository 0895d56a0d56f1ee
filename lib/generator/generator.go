package generator

import (
	"fmt"
	"go/parser"
	"go/token"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/pthm/hxstore/lib/config"
	"golang.org/x/mod/modfile"
)

const (
	// DefinitionSuffix marks component definition files.
	DefinitionSuffix = ".hxstore.yaml"
	// OutputSuffix marks generated files.
	OutputSuffix = "_hxs.go"
)

// Options configures the generator.
type Options struct {
	DryRun bool
	// Out receives one line per file written or removed. Nil means stdout.
	Out io.Writer
}

// Generator turns component definitions into typed action keys.
type Generator struct {
	opts Options
	fset *token.FileSet
}

// New creates a new generator.
func New(opts Options) *Generator {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	return &Generator{
		opts: opts,
		fset: token.NewFileSet(),
	}
}

// Generate generates code for the given package patterns.
func (g *Generator) Generate(patterns ...string) error {
	packages, err := g.findPackages(patterns)
	if err != nil {
		return err
	}

	for _, pkg := range packages {
		if err := g.generatePackage(pkg); err != nil {
			return fmt.Errorf("package %s: %w", pkg, err)
		}
	}

	return nil
}

// Validate loads and validates every definition under the given package
// patterns without writing anything.
func (g *Generator) Validate(patterns ...string) error {
	packages, err := g.findPackages(patterns)
	if err != nil {
		return err
	}

	for _, pkg := range packages {
		defs, err := definitions(pkg)
		if err != nil {
			return err
		}
		for _, path := range defs {
			if _, err := loadDefinition(path); err != nil {
				return err
			}
			fmt.Fprintf(g.opts.Out, "ok %s\n", path)
		}
	}
	return nil
}

// Clean removes generated files for the given package patterns.
func (g *Generator) Clean(patterns ...string) error {
	packages, err := g.findPackages(patterns)
	if err != nil {
		return err
	}

	for _, pkg := range packages {
		if err := g.cleanPackage(pkg); err != nil {
			return fmt.Errorf("package %s: %w", pkg, err)
		}
	}

	return nil
}

// findPackages resolves package patterns to directory paths.
func (g *Generator) findPackages(patterns []string) ([]string, error) {
	var packages []string

	for _, pattern := range patterns {
		if !strings.HasSuffix(pattern, "/...") {
			packages = append(packages, pattern)
			continue
		}

		root := strings.TrimSuffix(pattern, "/...")
		if root == "" {
			root = "."
		}

		err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			// Skip hidden directories, vendor and testdata
			base := filepath.Base(path)
			if path != root && (strings.HasPrefix(base, ".") || strings.HasPrefix(base, "_") || base == "vendor" || base == "testdata") {
				return filepath.SkipDir
			}

			defs, err := definitions(path)
			if err != nil {
				return nil
			}
			if len(defs) > 0 {
				packages = append(packages, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return packages, nil
}

// definitions lists the definition files in dir, sorted.
func definitions(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), DefinitionSuffix) {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}

func loadDefinition(path string) (*config.File, error) {
	f, err := config.LoadFile(path)
	if err != nil {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// generatePackage generates code for every definition in a package.
func (g *Generator) generatePackage(pkgPath string) error {
	defs, err := definitions(pkgPath)
	if err != nil {
		return err
	}
	if len(defs) == 0 {
		return nil
	}

	pkgName, err := g.packageName(pkgPath)
	if err != nil {
		return err
	}
	importPath, err := ImportPath(pkgPath)
	if err != nil {
		// Outside a module the header simply omits the import path.
		importPath = ""
	}

	for _, path := range defs {
		f, err := loadDefinition(path)
		if err != nil {
			return err
		}
		info := newComponentInfo(path, f)
		info.Package = pkgName
		info.ImportPath = importPath
		if err := g.generateComponent(pkgPath, info); err != nil {
			return err
		}
	}
	return nil
}

// packageName reads the package clause of the directory's Go files, falling
// back to the directory name.
func (g *Generator) packageName(dir string) (string, error) {
	pkgs, err := parser.ParseDir(g.fset, dir, func(info os.FileInfo) bool {
		name := info.Name()
		return !strings.HasSuffix(name, "_test.go") && !strings.HasSuffix(name, OutputSuffix)
	}, parser.PackageClauseOnly)
	if err != nil {
		return "", err
	}
	for name := range pkgs {
		return name, nil
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	return identifier(filepath.Base(abs), false), nil
}

// cleanPackage removes generated files from a package.
func (g *Generator) cleanPackage(pkgPath string) error {
	entries, err := os.ReadDir(pkgPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), OutputSuffix) {
			continue
		}
		path := filepath.Join(pkgPath, entry.Name())
		fmt.Fprintf(g.opts.Out, "removing %s\n", path)
		if !g.opts.DryRun {
			if err := os.Remove(path); err != nil {
				return err
			}
		}
	}

	return nil
}

// ImportPath returns the Go import path of dir by locating the enclosing
// go.mod.
func ImportPath(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	root := abs
	for {
		data, err := os.ReadFile(filepath.Join(root, "go.mod"))
		if err == nil {
			mod := modfile.ModulePath(data)
			if mod == "" {
				return "", fmt.Errorf("%s: no module directive", filepath.Join(root, "go.mod"))
			}
			rel, err := filepath.Rel(root, abs)
			if err != nil {
				return "", err
			}
			if rel == "." {
				return mod, nil
			}
			return mod + "/" + filepath.ToSlash(rel), nil
		}

		parent := filepath.Dir(root)
		if parent == root {
			return "", fmt.Errorf("not in a Go module (no go.mod found above %s)", abs)
		}
		root = parent
	}
}

// identifier turns a name such as "todo-list" into TodoList (exported) or
// todoList.
func identifier(name string, exported bool) string {
	var sb strings.Builder
	upper := exported
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = sb.Len() > 0 || exported
			continue
		}
		if sb.Len() == 0 && unicode.IsDigit(r) {
			sb.WriteByte('_')
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		} else if sb.Len() == 0 {
			r = unicode.ToLower(r)
		}
		sb.WriteRune(r)
	}
	if sb.Len() == 0 {
		return "_"
	}
	return sb.String()
}
