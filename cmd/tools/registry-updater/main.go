// cmd/tools/registry-updater/main.go
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"random-workers/internal/common/config"
	"random-workers/internal/common/validation"
	trn "random-workers/internal/workers/random/true-random-number"
	"random-workers/pkg/registry"
)

var registryPath string

func main() {
	syncCmd := flag.NewFlagSet("sync", flag.ExitOnError)
	updateCmd := flag.NewFlagSet("update", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	showCmd := flag.NewFlagSet("show", flag.ExitOnError)

	// Sync command flags
	syncCmd.StringVar(&registryPath, "path", "configs/activity-registry.json", "Path to registry file")
	configPath := syncCmd.String("config", "", "Optional config file whose worker settings feed the descriptor")

	// Update command flags
	updateCmd.StringVar(&registryPath, "path", "configs/activity-registry.json", "Path to registry file")
	idUpdate := updateCmd.String("id", "", "Activity ID to update")
	field := updateCmd.String("field", "", "Field to update (status, version, etc.)")
	value := updateCmd.String("value", "", "New value for the field")

	// Validate command flags
	validateCmd.StringVar(&registryPath, "path", "configs/activity-registry.json", "Path to registry file")

	// Show command flags
	showCmd.StringVar(&registryPath, "path", "configs/activity-registry.json", "Path to registry file")
	idShow := showCmd.String("id", trn.TaskType, "Activity ID to print")

	if len(os.Args) < 2 {
		help(os.Stdout)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "sync":
		syncCmd.Parse(os.Args[2:])
		added, err := syncActivities(*configPath)
		if err != nil {
			fmt.Printf("Error syncing registry: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Synced %s (%d new)\n", registryPath, added)

	case "update":
		updateCmd.Parse(os.Args[2:])
		if *idUpdate == "" || *field == "" || *value == "" {
			fmt.Println("Error: id, field, and value are required for update.")
			updateCmd.Usage()
			os.Exit(1)
		}
		if err := updateActivity(*idUpdate, *field, *value); err != nil {
			fmt.Printf("Error updating activity: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Updated activity %s, field %s to %s\n", *idUpdate, *field, *value)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		if err := validateRegistry(); err != nil {
			fmt.Printf("Registry validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Registry validation passed.")

	case "show":
		showCmd.Parse(os.Args[2:])
		if err := showActivity(*idShow); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

	case "help":
		fallthrough
	default:
		help(os.Stdout)
	}
}

// syncActivities writes the descriptor of every built-in worker into the registry.
func syncActivities(configPath string) (int, error) {
	var appConfig *config.Config
	if configPath != "" {
		cfg, err := config.LoadFromFile(configPath)
		if err != nil {
			return 0, err
		}
		appConfig = cfg
	}

	reg, err := registry.LoadOrCreate(registryPath)
	if err != nil {
		return 0, err
	}

	added := 0
	for _, activity := range descriptors(appConfig) {
		if err := validation.ValidateTaskTypeNaming(activity.TaskType); err != nil {
			return added, err
		}
		if reg.Upsert(activity) {
			added++
		}
	}

	if err := reg.Validate(); err != nil {
		return added, err
	}
	return added, registry.SaveRegistry(reg, registryPath)
}

func descriptors(appConfig *config.Config) []registry.Activity {
	h, err := trn.NewHandler(trn.HandlerOptions{AppConfig: appConfig})
	if err != nil {
		return []registry.Activity{trn.Descriptor(nil)}
	}
	return []registry.Activity{trn.Descriptor(h.GetConfig())}
}

func updateActivity(id, field, value string) error {
	reg, err := registry.LoadRegistry(registryPath)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	activity, found := reg.Find(id)
	if !found {
		return fmt.Errorf("activity with ID %s not found", id)
	}

	switch field {
	case "status":
		activity.ImplementationStatus = value
	case "version":
		activity.Version = value
	case "displayName":
		activity.DisplayName = value
	case "description":
		activity.Description = value
	case "category":
		activity.Category = value
	case "timeout":
		activity.Timeout = value
	case "retries":
		retries, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid retries value: %w", err)
		}
		activity.Retries = retries
	default:
		return fmt.Errorf("unknown field: %s", field)
	}

	reg.Upsert(*activity)
	return registry.SaveRegistry(reg, registryPath)
}

func validateRegistry() error {
	reg, err := registry.LoadRegistry(registryPath)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	if err := reg.Validate(); err != nil {
		return err
	}
	for _, activity := range reg.Activities {
		if err := validation.ValidateTaskTypeNaming(activity.TaskType); err != nil {
			return fmt.Errorf("activity %s: %w", activity.ID, err)
		}
	}

	fmt.Printf("Found %d activities.\n", len(reg.Activities))
	return nil
}

func showActivity(id string) error {
	reg, err := registry.LoadRegistry(registryPath)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	activity, found := reg.Find(id)
	if !found {
		return fmt.Errorf("activity with ID %s not found", id)
	}

	data, err := json.MarshalIndent(activity, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func help(w io.Writer) {
	fmt.Fprint(w, `
Usage: registry-updater <command> [flags]

Commands:
  sync     Write the descriptors of the built-in workers into the registry
  update   Update an existing activity's field
  validate Validate the registry file
  show     Print one activity
  help     Show this help message

Examples:
  registry-updater sync -path configs/activity-registry.json -config configs/config.yaml
  registry-updater update -id true-random-number -field status -value verified
  registry-updater validate -path configs/activity-registry.json
  registry-updater show -id true-random-number

Use 'registry-updater <command> -h' for more information about a command.
`)
}
