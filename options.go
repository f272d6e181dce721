package restbind

import (
	"log"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"golang.org/x/time/rate"
)

const defaultMaxBody = 10 * 1024 * 1024

// HttpClient is the part of *http.Client used by HTTPTransport.
type HttpClient interface {
	Do(req *http.Request) (*http.Response, error)
	CloseIdleConnections()
}

type Config struct {
	errorf          func(format string, args ...interface{})
	logger          *slog.Logger
	resolver        Resolver
	client          HttpClient
	transport       Transport
	codec           Codec
	maxBody         int64
	authorization   string
	validate        *validator.Validate
	requestIDHeader string
	limiter         *rate.Limiter
}

func NewDefaultConfig() *Config {
	return &Config{
		errorf:  log.Printf,
		codec:   DefaultCodec{},
		maxBody: defaultMaxBody,
	}
}

type Option func(*Config)

func newConfig(opts []Option) *Config {
	config := NewDefaultConfig()
	for _, opt := range opts {
		opt(config)
	}
	return config
}

func ErrorLogger(logger func(format string, args ...interface{})) Option {
	return func(config *Config) {
		config.errorf = logger
	}
}

// Logger enables per-call logging. Calls are not logged by default.
func Logger(logger *slog.Logger) Option {
	return func(config *Config) {
		config.logger = logger
	}
}

// WithResolver sets the resolver of placeholders in URLs, paths and headers.
func WithResolver(resolver Resolver) Option {
	return func(config *Config) {
		config.resolver = resolver
	}
}

// CustomClient replaces the HTTP client of the default transport.
func CustomClient(client HttpClient) Option {
	return func(config *Config) {
		config.client = client
	}
}

// WithTransport replaces the default HTTP transport. Options CustomClient,
// MaxBody, Authorization and RateLimit have no effect then.
func WithTransport(transport Transport) Option {
	return func(config *Config) {
		config.transport = transport
	}
}

func WithCodec(codec Codec) Option {
	return func(config *Config) {
		config.codec = codec
	}
}

// MaxBody limits the size of response body. Default is 10 MiB.
func MaxBody(maxBody int64) Option {
	return func(config *Config) {
		config.maxBody = maxBody
	}
}

// Authorization sets Authorization header of every request.
func Authorization(authorization string) Option {
	return func(config *Config) {
		config.authorization = authorization
	}
}

// ValidateBody checks struct bodies with validate tags before sending.
// If validate is nil, a new validator is used.
func ValidateBody(validate *validator.Validate) Option {
	return func(config *Config) {
		if validate == nil {
			validate = validator.New()
		}
		config.validate = validate
	}
}

// RequestIDHeader adds header name with a random UUID to every request
// which does not have this header yet.
func RequestIDHeader(name string) Option {
	return func(config *Config) {
		config.requestIDHeader = name
	}
}

// RateLimit limits outgoing requests of the HTTP transport to
// requestsPerSecond on average with bursts of up to burst requests.
// A call waits for its turn until its context is done.
func RateLimit(requestsPerSecond float64, burst int) Option {
	return func(config *Config) {
		config.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	}
}
