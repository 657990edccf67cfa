package internalcheck

import (
	"fmt"
	"go/ast"
	"go/token"
	"strconv"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

func TestNoHexFormatting(t *testing.T) {
	pkgs := loadSecretPackages(t, packages.NeedSyntax|packages.NeedTypes|packages.NeedTypesInfo|packages.NeedFiles|packages.NeedName)

	var findings []string
	for _, pkg := range pkgs {
		for _, file := range pkg.Syntax {
			ast.Inspect(file, func(n ast.Node) bool {
				call, ok := n.(*ast.CallExpr)
				if !ok {
					return true
				}
				selector, ok := call.Fun.(*ast.SelectorExpr)
				if !ok {
					return true
				}
				obj := pkg.TypesInfo.Uses[selector.Sel]
				if obj == nil || obj.Pkg() == nil {
					return true
				}

				formatIdx, ok := formatIndex(obj.Pkg().Path(), obj.Name())
				if !ok || len(call.Args) <= formatIdx {
					return true
				}
				lit, ok := call.Args[formatIdx].(*ast.BasicLit)
				if !ok || lit.Kind != token.STRING {
					return true
				}
				value, err := strconv.Unquote(lit.Value)
				if err != nil {
					return true
				}
				if containsHexVerb(value) {
					findings = append(findings, fmt.Sprintf("%s: avoid %%x formatting of secrets", pkg.Fset.Position(lit.Pos())))
				}
				return true
			})
		}
	}

	if len(findings) > 0 {
		t.Fatalf("secret logging policy violation:\n%s", strings.Join(findings, "\n"))
	}
}

func formatIndex(pkgPath, name string) (int, bool) {
	switch pkgPath {
	case "fmt":
		switch name {
		case "Errorf", "Printf", "Sprintf":
			return 0, true
		case "Fprintf":
			return 1, true
		}
	case "log":
		switch name {
		case "Printf", "Fatalf", "Panicf":
			return 0, true
		}
	case "github.com/coinbase/sidh-go/pkg/sidh/diag":
		if name == "Emitf" {
			return 1, true
		}
	case "github.com/sirupsen/logrus":
		switch name {
		case "Printf", "Tracef", "Debugf", "Infof", "Warnf", "Errorf":
			return 0, true
		case "Logf":
			return 1, true
		}
	case "github.com/rs/zerolog":
		if name == "Msgf" {
			return 0, true
		}
	}
	return 0, false
}

func containsHexVerb(s string) bool {
	return strings.Contains(s, "%x") || strings.Contains(s, "%X")
}

func TestFormatIndex(t *testing.T) {
	cases := []struct {
		pkg, name string
		idx       int
		ok        bool
	}{
		{"fmt", "Errorf", 0, true},
		{"fmt", "Fprintf", 1, true},
		{"github.com/coinbase/sidh-go/pkg/sidh/diag", "Emitf", 1, true},
		{"github.com/sirupsen/logrus", "Logf", 1, true},
		{"github.com/rs/zerolog", "Msgf", 0, true},
		{"fmt", "Println", 0, false},
	}
	for _, tc := range cases {
		idx, ok := formatIndex(tc.pkg, tc.name)
		if idx != tc.idx || ok != tc.ok {
			t.Errorf("formatIndex(%q, %q) = %d, %v; want %d, %v", tc.pkg, tc.name, idx, ok, tc.idx, tc.ok)
		}
	}
}
