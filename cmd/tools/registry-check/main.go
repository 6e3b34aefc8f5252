// cmd/tools/registry-check/main.go
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/arthverse/arthverse/internal/common/config"
	"github.com/arthverse/arthverse/internal/common/validation"
	"github.com/arthverse/arthverse/pkg/registry"
)

func main() {
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	listCmd := flag.NewFlagSet("list", flag.ExitOnError)

	registryPath := validateCmd.String("path", "configs/activity-registry.json", "Path to registry file")
	configPath := validateCmd.String("config", "configs/config.yaml", "Worker config to cross-check; empty skips the check")
	listPath := listCmd.String("path", "configs/activity-registry.json", "Path to registry file")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "validate":
		_ = validateCmd.Parse(os.Args[2:])
		var cfg *config.Config
		if *configPath != "" {
			var err error
			if cfg, err = config.LoadFromFile(*configPath); err != nil {
				fmt.Printf("Error loading config: %v\n", err)
				os.Exit(1)
			}
		}
		problems, err := check(*registryPath, cfg)
		if err != nil {
			fmt.Printf("Registry validation failed: %v\n", err)
			os.Exit(1)
		}
		for _, p := range problems {
			fmt.Println("  - " + p)
		}
		if len(problems) > 0 {
			fmt.Printf("Registry validation failed with %d problem(s).\n", len(problems))
			os.Exit(1)
		}
		fmt.Println("Registry validation passed.")

	case "list":
		_ = listCmd.Parse(os.Args[2:])
		reg, err := registry.LoadRegistry(*listPath)
		if err != nil {
			fmt.Printf("Error loading registry: %v\n", err)
			os.Exit(1)
		}
		list(os.Stdout, reg)

	default:
		help()
	}
}

// check loads the registry, compiles its schemas and, when cfg is given,
// reports task types that only one side knows about.
func check(path string, cfg *config.Config) ([]string, error) {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return nil, err
	}
	if len(reg.Activities) == 0 {
		return nil, fmt.Errorf("registry contains no activities")
	}
	if _, err := validation.New(reg); err != nil {
		return nil, fmt.Errorf("compile schemas: %w", err)
	}

	var problems []string
	for _, a := range reg.Activities {
		if a.DisplayName == "" {
			problems = append(problems, fmt.Sprintf("%s: displayName is empty", a.TaskType))
		}
		if a.Retries < 0 {
			problems = append(problems, fmt.Sprintf("%s: retries must not be negative", a.TaskType))
		}
	}
	if cfg == nil {
		return problems, nil
	}

	for _, taskType := range reg.TaskTypes() {
		if _, ok := cfg.Workers[taskType]; !ok {
			problems = append(problems, fmt.Sprintf("%s: no workers entry in config", taskType))
		}
	}
	configured := make([]string, 0, len(cfg.Workers))
	for taskType := range cfg.Workers {
		configured = append(configured, taskType)
	}
	sort.Strings(configured)
	for _, taskType := range configured {
		if _, ok := reg.Find(taskType); !ok {
			problems = append(problems, fmt.Sprintf("%s: configured worker missing from registry", taskType))
		}
	}
	return problems, nil
}

func list(w io.Writer, reg *registry.ActivityRegistry) {
	fmt.Fprintf(w, "%-28s %-18s %-8s %s\n", "TASK TYPE", "CATEGORY", "TIMEOUT", "ERROR CODES")
	for _, a := range reg.Activities {
		fmt.Fprintf(w, "%-28s %-18s %-8s %d\n", a.TaskType, a.Category, a.Timeout, len(a.ErrorCodes))
	}
}

func help() {
	fmt.Println(`
Usage: registry-check <command> [flags]

Commands:
  validate  Validate the registry, compile its schemas and cross-check config.yaml
  list      Print the registered task types
  help      Show this help message

Examples:
  registry-check validate -path configs/activity-registry.json -config configs/config.yaml
  registry-check list`)
}
