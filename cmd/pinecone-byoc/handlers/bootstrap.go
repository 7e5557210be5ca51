package handlers

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/pinecone-io/pulumi-pinecone-byoc-sub000/internal/bootstrap"
	"github.com/pinecone-io/pulumi-pinecone-byoc-sub000/internal/config"
)

// Bootstrap handles the bootstrap command.
//
// It loads the configuration, opens the state store and runs the plan.
// Minted identifiers are logged; secrets stay in the state store.
func Bootstrap(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	apiKey, err := config.APIKeyFromEnv()
	if err != nil {
		return err
	}

	runner, err := newRunner(ctx, cfg, apiKey)
	if err != nil {
		return err
	}

	inputs := bootstrap.Inputs{
		Cloud:           cfg.Cloud,
		Region:          cfg.Region,
		GlobalEnv:       cfg.GlobalEnv,
		Subdomain:       cfg.Subdomain,
		Nameservers:     cfg.Nameservers,
		WorkloadRoleARN: cfg.WorkloadRoleARN,
		PinetoolsImage:  cfg.Uninstall.PinetoolsImage,
	}
	if cfg.Uninstall.KubeconfigPath != "" {
		kubeconfig, err := os.ReadFile(cfg.Uninstall.KubeconfigPath) // #nosec G304
		if err != nil {
			return fmt.Errorf("read kubeconfig: %w", err)
		}
		inputs.Kubeconfig = string(kubeconfig)
	}

	result, err := runner.Apply(ctx, inputs)
	if err != nil {
		return fmt.Errorf("bootstrap failed: %w", err)
	}

	log.Printf("Bootstrap complete")
	log.Printf("  environment: %s (%s)", result.EnvironmentName, result.EnvironmentID)
	log.Printf("  organization: %s (%s)", result.OrganizationName, result.OrganizationID)
	log.Printf("  cell: %s", result.CellName)
	if result.DelegatedFQDN != "" {
		log.Printf("  delegated zone: %s", result.DelegatedFQDN)
	}
	if result.ProjectID != "" {
		log.Printf("  project: %s", result.ProjectID)
	}
	return nil
}
