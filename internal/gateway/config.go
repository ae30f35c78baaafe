package gateway

// DefaultPageSize is the number of resources requested per GetResources page.
const DefaultPageSize int32 = 500

// Config holds API Gateway client configuration.
type Config struct {
	Region string
	// Static credentials. The default AWS credential chain is used when
	// AccessKeyID is empty.
	AccessKeyID     string
	SecretAccessKey string //nolint:gosec // Config field, not a hardcoded secret.
	SessionToken    string //nolint:gosec // Config field, not a hardcoded secret.
	// Endpoint overrides the service endpoint, e.g. for LocalStack.
	Endpoint string
	PageSize int32
	AppID    string
}
