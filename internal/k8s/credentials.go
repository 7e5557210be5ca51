package k8s

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"golang.org/x/oauth2/google"
	clientcmdv1 "k8s.io/client-go/tools/clientcmd/api/v1"
)

// TokenSource mints a short-lived bearer token for cluster access.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

const (
	// eksTokenPrefix is the scheme the EKS API server expects in front of
	// the presigned STS URL.
	eksTokenPrefix = "k8s-aws-v1."
	// eksClusterIDHeader must be signed into the STS request so the API
	// server can verify the token was minted for this cluster.
	eksClusterIDHeader = "x-k8s-aws-id"

	gcpCloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"
)

// tokenSourceFor picks a token source matching the exec plugin the
// kubeconfig was written for. Returns nil when no user needs one or the
// plugin is not recognized.
func tokenSourceFor(cfg *clientcmdv1.Config) TokenSource {
	for _, u := range cfg.AuthInfos {
		exec := u.AuthInfo.Exec
		if exec == nil {
			continue
		}
		switch {
		case strings.Contains(exec.Command, "gcloud") || strings.Contains(exec.Command, "gke"):
			return &gcpTokenSource{}
		case strings.Contains(exec.Command, "aws"):
			if cluster := eksClusterName(exec.Args); cluster != "" {
				return &eksTokenSource{clusterName: cluster}
			}
		}
	}
	return nil
}

// eksClusterName extracts the cluster name from the exec plugin arguments.
// Handles both `aws eks get-token --cluster-name NAME` and
// `aws-iam-authenticator token -i NAME`.
func eksClusterName(args []string) string {
	for i, arg := range args {
		switch arg {
		case "--cluster-name", "--cluster-id", "-i":
			if i+1 < len(args) {
				return args[i+1]
			}
		}
	}
	return ""
}

// gcpTokenSource mints Google access tokens from ambient application default
// credentials, replacing what gke-gcloud-auth-plugin would have produced.
type gcpTokenSource struct{}

func (s *gcpTokenSource) Token(ctx context.Context) (string, error) {
	src, err := google.DefaultTokenSource(ctx, gcpCloudPlatformScope)
	if err != nil {
		return "", fmt.Errorf("load google credentials: %w", err)
	}
	tok, err := src.Token()
	if err != nil {
		return "", fmt.Errorf("mint google access token: %w", err)
	}
	return tok.AccessToken, nil
}

// eksTokenSource mints EKS bearer tokens by presigning an STS
// GetCallerIdentity request, the same construction aws eks get-token uses.
type eksTokenSource struct {
	clusterName string
}

func (s *eksTokenSource) Token(ctx context.Context) (string, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return "", fmt.Errorf("load aws credentials: %w", err)
	}

	presigner := sts.NewPresignClient(sts.NewFromConfig(cfg))
	req, err := presigner.PresignGetCallerIdentity(ctx, &sts.GetCallerIdentityInput{}, func(po *sts.PresignOptions) {
		po.ClientOptions = append(po.ClientOptions, func(o *sts.Options) {
			o.APIOptions = append(o.APIOptions,
				smithyhttp.SetHeaderValue(eksClusterIDHeader, s.clusterName),
				smithyhttp.SetHeaderValue("X-Amz-Expires", "60"),
			)
		})
	})
	if err != nil {
		return "", fmt.Errorf("presign sts request: %w", err)
	}

	return formatEKSToken(req.URL), nil
}

// formatEKSToken wraps a presigned URL in the token scheme the API server
// verifies. The encoding must be unpadded base64url.
func formatEKSToken(presignedURL string) string {
	return eksTokenPrefix + base64.RawURLEncoding.EncodeToString([]byte(presignedURL))
}
