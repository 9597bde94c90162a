package http

import "net/http"

// APIKeyHeader is the header the QA gateway reads the static credential from
const APIKeyHeader = "x-api-key"

type apiKeyTransport struct {
	header    string
	key       string
	transport http.RoundTripper
}

func (t *apiKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	reqCopy := req.Clone(req.Context())

	if t.key != "" {
		reqCopy.Header.Set(t.header, t.key)
	}

	return t.transport.RoundTrip(reqCopy)
}

// WithAPIKey sets the x-api-key header on every outbound request
func WithAPIKey(key string) HttpOpts {
	return WithAPIKeyHeader(APIKeyHeader, key)
}

func WithAPIKeyHeader(header, key string) HttpOpts {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		return &apiKeyTransport{
			header:    header,
			key:       key,
			transport: rt,
		}
	})
}
