package main

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/blackjack-ev/internal/rules"
)

// presetByName resolves the CLI's --rules identifiers to one of the
// engine's two built-in presets. These are the only rule sets a chart
// is embedded for, so an unrecognized name is a configuration error
// rather than something the solver-only modes could still run with.
func presetByName(name string) (rules.BlackjackRules, error) {
	switch name {
	case "6d-h17-das-dany":
		return rules.SixDeckH17DASDoubleAny, nil
	case "1d-h17-ndas-d10":
		return rules.OneDeckH17NoDASDouble1011, nil
	default:
		return rules.BlackjackRules{}, fmt.Errorf(
			"cmd/blackjack-ev: unknown --rules %q (want 6d-h17-das-dany or 1d-h17-ndas-d10)", name)
	}
}

// loadRuleOverrides applies an optional HCL file on top of base, letting
// an operator tweak penetration/double rules without recompiling. A
// missing path is not an error: base is returned unchanged, exactly as
// LoadServerConfig falls back to its built-in default when no config
// file is given.
func loadRuleOverrides(path string, base rules.BlackjackRules) (rules.BlackjackRules, error) {
	if path == "" {
		return base, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return base, nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return rules.BlackjackRules{}, fmt.Errorf("cmd/blackjack-ev: parsing %s: %s", path, diags.Error())
	}

	cfg := base
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return rules.BlackjackRules{}, fmt.Errorf("cmd/blackjack-ev: decoding %s: %s", path, diags.Error())
	}
	return cfg, nil
}
