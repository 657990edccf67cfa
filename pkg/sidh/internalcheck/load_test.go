package internalcheck

import (
	"testing"

	"golang.org/x/tools/go/packages"
)

// secretPackages are the packages that see private scalars, shared secrets
// or intermediate field elements.
var secretPackages = []string{
	"github.com/coinbase/sidh-go/internal/...",
	"github.com/coinbase/sidh-go/pkg/sidh",
	"github.com/coinbase/sidh-go/pkg/sidh/circlsidh",
	"github.com/coinbase/sidh-go/pkg/sidh/exchange",
	"github.com/coinbase/sidh-go/pkg/sidh/kem/...",
}

func loadSecretPackages(t *testing.T, mode packages.LoadMode) []*packages.Package {
	t.Helper()
	cfg := &packages.Config{Mode: mode}
	pkgs, err := packages.Load(cfg, secretPackages...)
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}
	if packages.PrintErrors(pkgs) > 0 {
		t.Fatalf("packages failed to load")
	}
	if len(pkgs) == 0 {
		t.Fatalf("no packages matched %v", secretPackages)
	}
	return pkgs
}
