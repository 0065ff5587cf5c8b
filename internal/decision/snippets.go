package decision

import (
	"strings"

	"cicd-workflow-automation/internal/model"
)

// cacheTuningSnippet renders a cache step keyed on the manifests of the
// ecosystems that just changed.
func cacheTuningSnippet(deps []model.DependencyChange) string {
	ecosystems := make(map[string]bool)
	for _, d := range deps {
		if d.Ecosystem != "" {
			ecosystems[d.Ecosystem] = true
		}
	}

	var b strings.Builder
	b.WriteString("    - name: Cache dependencies\n")
	b.WriteString("      uses: actions/cache@v4\n")
	b.WriteString("      with:\n")
	for _, eco := range []string{"npm", "gomod", "pip"} {
		if !ecosystems[eco] {
			continue
		}
		switch eco {
		case "npm":
			b.WriteString("        path: ~/.npm\n")
			b.WriteString("        key: npm-${{ hashFiles('**/package-lock.json') }}\n")
		case "gomod":
			b.WriteString("        path: ~/go/pkg/mod\n")
			b.WriteString("        key: gomod-${{ hashFiles('**/go.sum') }}\n")
		case "pip":
			b.WriteString("        path: ~/.cache/pip\n")
			b.WriteString("        key: pip-${{ hashFiles('**/requirements.txt') }}\n")
		}
	}
	if len(ecosystems) == 0 {
		b.WriteString("        path: ~/.cache\n")
		b.WriteString("        key: deps-${{ hashFiles('**/*.lock') }}\n")
	}
	return b.String()
}

func enhancedScanSnippet() string {
	return strings.Join([]string{
		"name: Dependency Security Scan",
		"on:",
		"  pull_request:",
		"  schedule:",
		"    - cron: '0 6 * * 1'",
		"jobs:",
		"  scan:",
		"    runs-on: ubuntu-latest",
		"    steps:",
		"      - uses: actions/checkout@v4",
		"      - name: Audit dependencies",
		"        run: |",
		"          echo 'Running enhanced dependency audit'",
		"",
	}, "\n")
}

func configValidationSnippet() string {
	return "    - name: Validate build configuration\n      run: |\n        echo 'Validating changed configuration files'\n"
}
