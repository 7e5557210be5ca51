// Package resources implements the lifecycle providers for the control-plane
// records a BYOC bootstrap manages: the environment registration, its
// credentials, DNS delegation, metrics federation and the cluster
// uninstaller hook.
//
// Providers are written against narrow interfaces so tests can stub the
// control-plane gateway. The concrete implementation is cpgw.Client,
// constructed with whichever credential the record family requires.
package resources

// Kind names identify resource families in the state file. They are part of
// the on-disk format and must not change between releases.
const (
	KindEnvironment    = "environment"
	KindCpgwAPIKey     = "cpgw-api-key"
	KindServiceAccount = "service-account"
	KindProjectAPIKey  = "project-api-key"
	KindDNSDelegation  = "dns-delegation"
	KindAMPAccess      = "amp-access"
	KindDatadogAPIKey  = "datadog-api-key"
	KindUninstaller    = "cluster-uninstaller"
)
