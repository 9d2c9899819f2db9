package main

import (
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const moduleRoot = "refdesk"

// Third-party packages each inner layer may import.
var (
	domainThirdParty = []string{
		"golang.org/x/text",
	}
	applicationThirdParty = []string{
		"go.opentelemetry.io/otel",
	}
)

type violation struct {
	File   string
	Line   int
	Import string
	Rule   string
}

func main() {
	root := "contexts"
	if len(os.Args) > 1 {
		root = os.Args[1]
	}
	violations := collectViolations(root)
	if len(violations) == 0 {
		fmt.Println("boundary checks passed")
		return
	}

	sort.Slice(violations, func(i, j int) bool {
		if violations[i].File == violations[j].File {
			if violations[i].Line == violations[j].Line {
				return violations[i].Import < violations[j].Import
			}
			return violations[i].Line < violations[j].Line
		}
		return violations[i].File < violations[j].File
	})

	fmt.Println("boundary violations found:")
	for _, v := range violations {
		fmt.Printf("- %s:%d imports %q (%s)\n", v.File, v.Line, v.Import, v.Rule)
	}
	os.Exit(1)
}

func collectViolations(root string) []violation {
	var violations []violation

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		normalized := filepath.ToSlash(filepath.Join("contexts", rel))
		parts := strings.Split(normalized, "/")
		if len(parts) < 4 {
			return nil
		}

		contextName := parts[1]
		serviceName := parts[2]
		layer := parts[3]
		modulePrefix := fmt.Sprintf("%s/contexts/%s/%s", moduleRoot, contextName, serviceName)

		fileViolations := validateFile(path, normalized, layer, modulePrefix)
		violations = append(violations, fileViolations...)
		return nil
	})

	return violations
}

func validateFile(path string, normalizedPath string, layer string, modulePrefix string) []violation {
	var violations []violation

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
	if err != nil {
		return append(violations, violation{
			File: normalizedPath,
			Line: 1,
			Rule: "file must parse",
		})
	}

	for _, imp := range file.Imports {
		importPath := strings.Trim(imp.Path.Value, "\"")
		line := fset.Position(imp.Pos()).Line

		if strings.HasPrefix(importPath, moduleRoot+"/contexts/") && !hasPrefix(importPath, modulePrefix) {
			violations = append(violations, violation{
				File:   normalizedPath,
				Line:   line,
				Import: importPath,
				Rule:   "cross-module imports are forbidden",
			})
		}

		rule, ok := layerRules[layer]
		if !ok {
			continue
		}
		for _, reason := range rule.check(importPath, modulePrefix) {
			violations = append(violations, violation{
				File:   normalizedPath,
				Line:   line,
				Import: importPath,
				Rule:   reason,
			})
		}
	}

	return violations
}

// layerRule lists what one inner layer of a service may import besides the
// standard library.
type layerRule struct {
	name           string
	forbidAdapters bool
	forbidRuntime  bool
	// local are service-relative prefixes; shared are module-relative.
	local      []string
	shared     []string
	thirdParty []string
}

var layerRules = map[string]layerRule{
	"domain": {
		name:           "domain",
		forbidAdapters: true,
		forbidRuntime:  true,
		local:          []string{"/domain"},
		thirdParty:     domainThirdParty,
	},
	"application": {
		name:           "application",
		forbidAdapters: true,
		forbidRuntime:  true,
		local:          []string{"/application", "/domain", "/ports"},
		shared:         []string{"/contracts"},
		thirdParty:     applicationThirdParty,
	},
	"ports": {
		name:   "ports",
		local:  []string{"/domain"},
		shared: []string{"/contracts"},
	},
}

func (r layerRule) check(importPath string, modulePrefix string) []string {
	var reasons []string
	if r.forbidAdapters && strings.Contains(importPath, "/adapters/") {
		reasons = append(reasons, r.name+" must not import adapters")
	}
	if r.forbidRuntime && isRuntimeInfrastructure(importPath) {
		reasons = append(reasons, r.name+" must not import runtime infrastructure")
	}

	allowed := make([]string, 0, len(r.local)+len(r.shared)+len(r.thirdParty))
	for _, item := range r.local {
		allowed = append(allowed, modulePrefix+item)
	}
	for _, item := range r.shared {
		allowed = append(allowed, moduleRoot+item)
	}
	allowed = append(allowed, r.thirdParty...)
	if !isStdlib(importPath) && !isAllowed(importPath, allowed) {
		reasons = append(reasons, r.name+" import is outside explicit allowlist")
	}
	return reasons
}

func isRuntimeInfrastructure(importPath string) bool {
	return strings.HasPrefix(importPath, moduleRoot+"/internal/") ||
		strings.HasPrefix(importPath, moduleRoot+"/cmd/")
}

func hasPrefix(path string, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func isAllowed(importPath string, allowedPrefixes []string) bool {
	for _, p := range allowedPrefixes {
		if hasPrefix(importPath, p) {
			return true
		}
	}
	return false
}

func isStdlib(importPath string) bool {
	if strings.HasPrefix(importPath, moduleRoot+"/") {
		return false
	}
	first := importPath
	if idx := strings.Index(first, "/"); idx != -1 {
		first = first[:idx]
	}
	return !strings.Contains(first, ".")
}
