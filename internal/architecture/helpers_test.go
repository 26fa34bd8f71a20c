package architecture_test

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"testing"
)

const modulePath = "github.com/jacoelho/rxtemplate"

// layers lists the internal packages bottom up. A package may import only
// packages listed before it.
var layers = []string{"charrange", "scan", "charclass", "compose"}

func internalPkg(name string) string {
	return modulePath + "/internal/" + name
}

// layerOf returns the position of an internal import path in layers.
func layerOf(importPath string) (int, bool) {
	name, ok := strings.CutPrefix(importPath, modulePath+"/internal/")
	if !ok {
		return 0, false
	}
	i := slices.Index(layers, name)
	return i, i >= 0
}

func moduleRoot(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot locate architecture tests")
	}
	return filepath.Join(filepath.Dir(file), "..", "..")
}

// parseDir parses the non-test Go files of a directory relative to the
// module root.
func parseDir(t *testing.T, rel string, mode parser.Mode) []*ast.File {
	t.Helper()
	dir := filepath.Join(moduleRoot(t), rel)
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read %s: %v", rel, err)
	}
	fset := token.NewFileSet()
	var files []*ast.File
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, mode)
		if err != nil {
			t.Fatalf("parse %s: %v", name, err)
		}
		files = append(files, f)
	}
	return files
}

func packageImports(t *testing.T, rel string) []string {
	t.Helper()
	var imports []string
	for _, f := range parseDir(t, rel, parser.ImportsOnly) {
		for _, imp := range f.Imports {
			path, err := strconv.Unquote(imp.Path.Value)
			if err != nil {
				t.Fatalf("import %s: %v", imp.Path.Value, err)
			}
			if !slices.Contains(imports, path) {
				imports = append(imports, path)
			}
		}
	}
	return imports
}

// rootExports lists the exported declarations of the root package as
// "type T", "func F", "method T.M", "const C" or "var V".
func rootExports(t *testing.T) map[string]bool {
	t.Helper()
	exports := make(map[string]bool)
	for _, f := range parseDir(t, ".", 0) {
		if !ast.FileExports(f) {
			continue
		}
		for _, decl := range f.Decls {
			switch d := decl.(type) {
			case *ast.GenDecl:
				for _, spec := range d.Specs {
					switch sp := spec.(type) {
					case *ast.TypeSpec:
						exports["type "+sp.Name.Name] = true
					case *ast.ValueSpec:
						for _, n := range sp.Names {
							exports[d.Tok.String()+" "+n.Name] = true
						}
					}
				}
			case *ast.FuncDecl:
				if d.Recv == nil {
					exports["func "+d.Name.Name] = true
					continue
				}
				recv := d.Recv.List[0].Type
				if star, ok := recv.(*ast.StarExpr); ok {
					recv = star.X
				}
				if id, ok := recv.(*ast.Ident); ok && ast.IsExported(id.Name) {
					exports["method "+id.Name+"."+d.Name.Name] = true
				}
			}
		}
	}
	return exports
}
