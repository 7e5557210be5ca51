package handlers

import (
	"context"
	"fmt"
	"log"

	"github.com/pinecone-io/pulumi-pinecone-byoc-sub000/internal/bootstrap"
	"github.com/pinecone-io/pulumi-pinecone-byoc-sub000/internal/config"
)

// Destroy handles the destroy command.
//
// It walks the recorded resources in reverse creation order: the uninstall
// job first, then credentials and identity. Each deleted record is removed
// from state immediately, so a failed destroy resumes where it stopped.
func Destroy(ctx context.Context, configPath string, skipUninstall bool) error {
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

	if err := runner.Destroy(ctx, bootstrap.DestroyOptions{SkipUninstall: skipUninstall}); err != nil {
		return fmt.Errorf("destroy failed: %w", err)
	}

	log.Printf("Destroy complete")
	return nil
}
