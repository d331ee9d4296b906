package architecture_test

import (
	"bufio"
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

type violation struct {
	file string
	imp  string
	rule string
}

func TestImportBoundaries(t *testing.T) {
	root, modulePath := moduleRoot(t)

	violations := walkImports(t, root, func(rel, imp string) string {
		for _, bad := range disallowedImports(modulePath, layerFor(rel)) {
			if strings.HasPrefix(imp, bad) {
				return bad
			}
		}
		return ""
	})
	report(t, "import boundary violations", violations)
}

func TestDriversStayInAdapters(t *testing.T) {
	root, _ := moduleRoot(t)

	drivers := []string{"gorm.io/driver/", "github.com/redis/go-redis/"}
	adapters := []string{
		"internal/data/db/",
		"internal/realtime/bus/",
		"internal/observability/",
	}
	violations := walkImports(t, root, func(rel, imp string) string {
		for _, a := range adapters {
			if strings.HasPrefix(rel, a) {
				return ""
			}
		}
		for _, d := range drivers {
			if strings.HasPrefix(imp, d) {
				return d
			}
		}
		return ""
	})
	report(t, "driver imports outside adapter packages", violations)
}

// walkImports applies check to every import of every non-test file under
// internal/. check returns the rule an import breaks, or "".
func walkImports(t *testing.T, root string, check func(rel, imp string) string) []violation {
	t.Helper()
	fset := token.NewFileSet()
	var out []violation

	walkErr := filepath.WalkDir(filepath.Join(root, "internal"), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			switch d.Name() {
			case ".git", "vendor", "node_modules", ".gocache":
				return filepath.SkipDir
			default:
				return nil
			}
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			return err
		}
		for _, spec := range f.Imports {
			if spec == nil || spec.Path == nil {
				continue
			}
			imp, err := strconv.Unquote(spec.Path.Value)
			if err != nil {
				continue
			}
			if rule := check(rel, imp); rule != "" {
				out = append(out, violation{file: rel, imp: imp, rule: rule})
			}
		}
		return nil
	})
	if walkErr != nil {
		t.Fatalf("walk internal/: %v", walkErr)
	}
	return out
}

func report(t *testing.T, title string, violations []violation) {
	t.Helper()
	if len(violations) == 0 {
		return
	}
	var b strings.Builder
	b.WriteString(title + ":\n")
	for _, v := range violations {
		fmt.Fprintf(&b, "- %s imports %q (disallowed: %q)\n", v.file, v.imp, v.rule)
	}
	t.Fatal(b.String())
}

func layerFor(rel string) string {
	switch {
	case strings.HasPrefix(rel, "internal/platform/"):
		return "platform"
	case strings.HasPrefix(rel, "internal/domain/"):
		return "domain"
	case strings.HasPrefix(rel, "internal/data/"):
		return "data"
	case strings.HasPrefix(rel, "internal/realtime/"):
		return "realtime"
	case strings.HasPrefix(rel, "internal/services/"):
		return "services"
	case strings.HasPrefix(rel, "internal/http/"):
		return "http"
	default:
		return ""
	}
}

func disallowedImports(modulePath string, layer string) []string {
	in := func(pkgs ...string) []string {
		out := make([]string, 0, len(pkgs))
		for _, p := range pkgs {
			out = append(out, modulePath+"/internal/"+p)
		}
		return out
	}
	switch layer {
	case "platform":
		return in("data/", "services", "http", "app", "realtime")
	case "domain":
		return in("data/", "services", "http", "app", "realtime", "payments", "access")
	case "data":
		return in("services", "http", "app", "realtime")
	case "realtime":
		return in("data/", "services", "http", "app")
	case "services":
		return in("http", "app")
	case "http":
		return in("data/", "app")
	default:
		return nil
	}
}

func moduleRoot(t *testing.T) (string, string) {
	t.Helper()
	start, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	root, err := findModuleRoot(start)
	if err != nil {
		t.Fatalf("find module root: %v", err)
	}
	modulePath, err := readModulePath(filepath.Join(root, "go.mod"))
	if err != nil {
		t.Fatalf("read module path: %v", err)
	}
	return root, modulePath
}

func findModuleRoot(start string) (string, error) {
	dir := start
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found from %s", start)
		}
		dir = parent
	}
}

func readModulePath(goModPath string) (string, error) {
	f, err := os.Open(goModPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "module ") {
			continue
		}
		mp := strings.TrimSpace(strings.TrimPrefix(line, "module "))
		if mp == "" {
			return "", fmt.Errorf("empty module path in %s", goModPath)
		}
		return mp, nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("module path not found in %s", goModPath)
}
