package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"gamma-cli/internal/domain"
)

const listUsage = "Usage: gamma list [themes|folders|all]\n"

func (a *app) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "list [themes|folders|all]",
		Short:     "List workspace themes and folders",
		ValidArgs: []string{"themes", "folders", "all"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return &inputError{err: fmt.Errorf("expected exactly one resource kind"), usage: listUsage}
			}
			var kinds []domain.ResourceKind
			switch strings.ToLower(args[0]) {
			case "themes":
				kinds = []domain.ResourceKind{domain.ResourceThemes}
			case "folders":
				kinds = []domain.ResourceKind{domain.ResourceFolders}
			case "all":
				kinds = []domain.ResourceKind{domain.ResourceThemes, domain.ResourceFolders}
			default:
				return &inputError{err: fmt.Errorf("unknown command: %s", args[0]), usage: listUsage}
			}
			return a.listResources(cmd, kinds...)
		},
	}
}

// newResourceCmd is a shortcut for "list <kind>".
func (a *app) newResourceCmd(kind domain.ResourceKind) *cobra.Command {
	return &cobra.Command{
		Use:   string(kind),
		Short: fmt.Sprintf("List workspace %s", kind),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.listResources(cmd, kind)
		},
	}
}

func (a *app) listResources(cmd *cobra.Command, kinds ...domain.ResourceKind) error {
	svc, err := a.newService()
	if err != nil {
		return err
	}
	for _, kind := range kinds {
		records, err := svc.ListResources(cmd.Context(), kind)
		if err != nil {
			return err
		}
		renderResources(a.stdout, kind, records)
	}
	return nil
}
