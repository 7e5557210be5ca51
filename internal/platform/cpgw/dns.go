package cpgw

import (
	"context"
	"fmt"
	"net/http"
)

// DNSDelegation identifies a subdomain delegation recorded by the control
// plane. The remote side keys delegations by value, so deletes must replay
// the exact subdomain and nameserver set used at create.
type DNSDelegation struct {
	ChangeID string `json:"change_id"`
	Status   string `json:"status"`
	FQDN     string `json:"fqdn"`
}

// DNSDelegationRequest is the create and delete payload.
type DNSDelegationRequest struct {
	Subdomain   string   `json:"subdomain"`
	Nameservers []string `json:"nameservers"`
}

// CreateDNSDelegation delegates the subdomain to the given nameservers under
// the vendor's parent zone.
func (c *Client) CreateDNSDelegation(ctx context.Context, req DNSDelegationRequest) (*DNSDelegation, error) {
	var delegation DNSDelegation
	if err := c.request(ctx, http.MethodPost, infraPath+"/dns-delegation", req, &delegation); err != nil {
		return nil, fmt.Errorf("create dns delegation %s: %w", req.Subdomain, err)
	}
	return &delegation, nil
}

// DeleteDNSDelegation removes the delegation. Deletion is value-keyed:
// req must carry the same subdomain and nameservers the create call used.
func (c *Client) DeleteDNSDelegation(ctx context.Context, req DNSDelegationRequest) (*DNSDelegation, error) {
	var delegation DNSDelegation
	if err := c.request(ctx, http.MethodPost, infraPath+"/dns-delegation/delete", req, &delegation); err != nil {
		return nil, fmt.Errorf("delete dns delegation %s: %w", req.Subdomain, err)
	}
	return &delegation, nil
}
