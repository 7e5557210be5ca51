package cpgw

import (
	"context"
	"fmt"
	"net/http"
)

// AMPAccess is the cross-account grant that lets the workload's ingest role
// remote-write metrics into the vendor's managed Prometheus backend.
type AMPAccess struct {
	PineconeRoleARN        string `json:"pinecone_role_arn"`
	AMPRemoteWriteEndpoint string `json:"amp_remote_write_endpoint"`
	AMPRegion              string `json:"amp_region"`
}

type ampAccessRequest struct {
	WorkloadRoleARN string `json:"workload_role_arn"`
}

// CreateAMPAccess exchanges the workload role for an assumable vendor role
// and the remote-write target.
func (c *Client) CreateAMPAccess(ctx context.Context, workloadRoleARN string) (*AMPAccess, error) {
	var access AMPAccess
	req := ampAccessRequest{WorkloadRoleARN: workloadRoleARN}
	if err := c.request(ctx, http.MethodPost, infraPath+"/amp-access", req, &access); err != nil {
		return nil, fmt.Errorf("create amp access for %s: %w", workloadRoleARN, err)
	}
	return &access, nil
}

// DeleteAMPAccess revokes the grant for the given workload role.
func (c *Client) DeleteAMPAccess(ctx context.Context, workloadRoleARN string) error {
	req := ampAccessRequest{WorkloadRoleARN: workloadRoleARN}
	if err := c.request(ctx, http.MethodPost, infraPath+"/amp-access/delete", req, nil); err != nil {
		return fmt.Errorf("delete amp access for %s: %w", workloadRoleARN, err)
	}
	return nil
}
