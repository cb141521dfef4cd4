/*
Copyright © 2025 3 Leaps (hello@3leaps.net and https://3leaps.net)
*/
package ops

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestRegistry_BasicRegistration(t *testing.T) {
	registry := NewRegistry()
	testCmd := &cobra.Command{Use: "create", Short: "Create files"}

	if err := registry.Register("create", GroupScaffold, testCmd, "Create Dart files"); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	cmd, exists := registry.GetCommand("create")
	if !exists {
		t.Fatal("Expected command to exist after registration")
	}
	if cmd.Group != GroupScaffold {
		t.Errorf("Expected command group 'scaffold', got '%s'", cmd.Group)
	}
	if cmd.Description != "Create Dart files" {
		t.Errorf("Expected description 'Create Dart files', got '%s'", cmd.Description)
	}
	if cmd.Command != testCmd {
		t.Error("Expected command object to match registered command")
	}
}

func TestRegistry_DuplicateRegistration(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register("assets", GroupWorkflow, &cobra.Command{Use: "assets"}, "Assets"); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	err := registry.Register("assets", GroupWorkflow, &cobra.Command{Use: "assets"}, "Assets again")
	if err == nil {
		t.Fatal("Expected error for duplicate registration")
	}
	if !strings.Contains(err.Error(), "already registered") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRegistry_UnknownGroup(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register("format", CommandGroup("neat"), &cobra.Command{Use: "format"}, "Format"); err == nil {
		t.Fatal("Expected error for unknown group")
	}
}

func TestRegistry_GroupsAreSorted(t *testing.T) {
	registry := NewRegistry()
	for _, name := range []string{"flavor", "assets", "deps"} {
		if err := registry.Register(name, GroupWorkflow, &cobra.Command{Use: name}, name); err != nil {
			t.Fatalf("registration failed: %v", err)
		}
	}

	var names []string
	for _, c := range registry.GetCommandsByGroup(GroupWorkflow) {
		names = append(names, c.Name)
	}
	if got := strings.Join(names, ","); got != "assets,deps,flavor" {
		t.Errorf("GetCommandsByGroup order = %s", got)
	}
	if registry.ListGroups()[GroupWorkflow] != 3 {
		t.Errorf("Expected 3 workflow commands, got %d", registry.ListGroups()[GroupWorkflow])
	}
	if len(registry.GetCommandsByGroup(GroupSupport)) != 0 {
		t.Error("Expected no support commands")
	}
}

func TestRegistry_Validate(t *testing.T) {
	registry := NewRegistry()
	_ = registry.Register("doctor", GroupSupport, &cobra.Command{Use: "doctor"}, "Doctor")
	_ = registry.Register("model", GroupWorkflow, &cobra.Command{Use: "model"}, "Model")

	errs := registry.Validate(map[string]CommandGroup{
		"doctor":  GroupSupport,
		"model":   GroupScaffold,
		"version": GroupSupport,
	})
	if len(errs) != 2 {
		t.Fatalf("Expected 2 validation errors, got %d: %v", len(errs), errs)
	}
	if !strings.Contains(errs[0].Error(), "model: incorrect group") {
		t.Errorf("unexpected first error: %v", errs[0])
	}
	if !strings.Contains(errs[1].Error(), "version: core command is not registered") {
		t.Errorf("unexpected second error: %v", errs[1])
	}
}
