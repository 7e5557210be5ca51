// Package handlers implements the command logic for the pinecone-byoc CLI.
//
// Handlers wire configuration, the state store and the control-plane
// clients into the bootstrap runner. Construction goes through package
// variables so tests can substitute fakes.
package handlers

import (
	"context"
	"fmt"

	"github.com/pinecone-io/pulumi-pinecone-byoc-sub000/internal/bootstrap"
	"github.com/pinecone-io/pulumi-pinecone-byoc-sub000/internal/config"
	"github.com/pinecone-io/pulumi-pinecone-byoc-sub000/internal/k8s"
	"github.com/pinecone-io/pulumi-pinecone-byoc-sub000/internal/platform/cpgw"
	"github.com/pinecone-io/pulumi-pinecone-byoc-sub000/internal/resources"
	"github.com/pinecone-io/pulumi-pinecone-byoc-sub000/internal/state"
)

// Factory function variables - can be replaced in tests.
var (
	// newUninstallRunner builds the in-cluster uninstall job runner.
	newUninstallRunner = func() resources.UninstallRunner {
		return k8s.NewUninstaller()
	}

	// newStateBackend builds the state backend the config selects.
	newStateBackend = func(ctx context.Context, cfg config.StateConfig) (state.Backend, error) {
		switch cfg.Backend {
		case config.StateBackendS3:
			return state.NewS3Backend(ctx, cfg.Bucket, cfg.Key, state.S3BackendOptions{
				Region:    cfg.Region,
				Endpoint:  cfg.Endpoint,
				AccessKey: cfg.AccessKey,
				SecretKey: cfg.SecretKey,
			})
		default:
			return state.NewFileBackend(cfg.Path), nil
		}
	}

	// newObserver builds the progress observer.
	newObserver = func() bootstrap.Observer {
		return bootstrap.NewConsoleObserver()
	}
)

// newRunner assembles the bootstrap runner for a loaded configuration. The
// admin key authenticates the environment and gateway-key steps; later
// steps authenticate with credentials minted during the run (or recorded in
// state, on destroy).
func newRunner(ctx context.Context, cfg *config.Config, apiKey string) (*bootstrap.Runner, error) {
	backend, err := newStateBackend(ctx, cfg.State)
	if err != nil {
		return nil, fmt.Errorf("open state backend: %w", err)
	}
	store, err := state.Open(ctx, backend)
	if err != nil {
		return nil, err
	}

	return &bootstrap.Runner{
		Store:    store,
		Observer: newObserver(),
		AdminClient: func() bootstrap.Gateway {
			return cpgw.NewClient(cfg.APIURL, cpgw.APIKey(apiKey))
		},
		InfraClient: func(cpgwKey string) bootstrap.Gateway {
			return cpgw.NewClient(cfg.APIURL, cpgw.APIKey(cpgwKey))
		},
		ManagementClient: func(ctx context.Context, clientID, clientSecret string) bootstrap.Gateway {
			creds := cpgw.NewClientCredentials(ctx, clientID, clientSecret, cfg.AuthDomain, cfg.APIURL)
			return cpgw.NewClient(cfg.APIURL, creds)
		},
		Uninstaller: newUninstallRunner(),
	}, nil
}
