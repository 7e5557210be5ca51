// Package k8s runs the pinetools uninstall job inside a BYOC cluster using a
// kubeconfig recorded at bootstrap time.
//
// Recorded kubeconfigs often carry exec-based auth (aws eks get-token,
// gke-gcloud-auth-plugin). The destroy process does not inherit those helper
// binaries, so before connecting the package mints a fresh bearer token
// in-process and swaps it in for the exec stanza.
package k8s

import (
	"context"
	"fmt"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"
	clientcmdv1 "k8s.io/client-go/tools/clientcmd/api/v1"
	"sigs.k8s.io/yaml"
)

// ParseKubeconfig decodes kubeconfig bytes. EKS emits JSON and GKE emits
// YAML; sigs.k8s.io/yaml accepts both.
func ParseKubeconfig(data []byte) (*clientcmdv1.Config, error) {
	var cfg clientcmdv1.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse kubeconfig: %w", err)
	}
	return &cfg, nil
}

// hasExecAuth reports whether any user in the kubeconfig authenticates via an
// exec plugin.
func hasExecAuth(cfg *clientcmdv1.Config) bool {
	for _, u := range cfg.AuthInfos {
		if u.AuthInfo.Exec != nil {
			return true
		}
	}
	return false
}

// setBearerToken replaces every user's auth stanza with the given token.
func setBearerToken(cfg *clientcmdv1.Config, token string) {
	for i := range cfg.AuthInfos {
		cfg.AuthInfos[i].AuthInfo = clientcmdv1.AuthInfo{Token: token}
	}
}

// clientsetFor serializes the (possibly patched) kubeconfig back out and
// builds a clientset from it.
func clientsetFor(cfg *clientcmdv1.Config) (kubernetes.Interface, error) {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("serialize kubeconfig: %w", err)
	}
	restConfig, err := clientcmd.RESTConfigFromKubeConfig(raw)
	if err != nil {
		return nil, fmt.Errorf("build rest config: %w", err)
	}
	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("create clientset: %w", err)
	}
	return clientset, nil
}

// NewClientset parses a recorded kubeconfig and returns a clientset for it,
// refreshing exec-based credentials in-process first. A failed refresh is
// logged and the exec stanza kept, since the helper binary may still be
// available on this host.
func NewClientset(ctx context.Context, kubeconfig []byte, logf func(format string, args ...any)) (kubernetes.Interface, error) {
	cfg, err := ParseKubeconfig(kubeconfig)
	if err != nil {
		return nil, err
	}

	if hasExecAuth(cfg) {
		src := tokenSourceFor(cfg)
		if src == nil {
			logf("kubeconfig uses an unrecognized exec plugin, leaving it in place")
		} else {
			token, err := src.Token(ctx)
			if err != nil {
				logf("exec credential refresh failed, keeping exec auth: %v", err)
			} else {
				setBearerToken(cfg, token)
			}
		}
	}

	return clientsetFor(cfg)
}
