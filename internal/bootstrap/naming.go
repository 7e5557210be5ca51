package bootstrap

import "strings"

// SLIProjectName is the fixed management-plane project that hosts the
// deployment's data-plane key.
const SLIProjectName = "__SLI__"

// orgNameMaxLength caps the organization part of the cell name.
const orgNameMaxLength = 16

// CellName derives the cluster's cell name from the identity the control
// plane minted, e.g. "pinecone-byoc-ef7a": the sanitized organization name,
// a fixed marker, and the last four characters of the environment name's
// first label.
func CellName(orgName, envName string) string {
	suffix, _, _ := strings.Cut(envName, ".")
	if len(suffix) > 4 {
		suffix = suffix[len(suffix)-4:]
	}
	return sanitizeOrgName(orgName) + "-byoc-" + suffix
}

// Subdomain derives the delegated subdomain from the environment name by
// stripping the ".byoc" suffix the control plane appends.
func Subdomain(envName string) string {
	return strings.TrimSuffix(envName, ".byoc")
}

// ServiceAccountName names the cell's management-plane service account.
func ServiceAccountName(cellName string) string {
	return cellName + "-sa"
}

// APIKeyName names the data-plane key minted under the SLI project.
func APIKeyName(cellName string) string {
	return cellName + "-key"
}

// sanitizeOrgName lowercases the organization name, strips everything
// outside [a-z0-9] and truncates the rest.
func sanitizeOrgName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	s := b.String()
	if len(s) > orgNameMaxLength {
		s = s[:orgNameMaxLength]
	}
	return s
}
