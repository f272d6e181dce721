package restbind

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/starius/restbind/errors"
)

// Engine performs calls described by descriptors.
type Engine struct {
	transport       Transport
	codec           Codec
	logger          *slog.Logger
	validate        *validator.Validate
	requestIDHeader string
}

// NewEngine creates an engine. If codec is nil, DefaultCodec is used.
func NewEngine(transport Transport, codec Codec, opts ...Option) *Engine {
	config := newConfig(opts)
	if codec == nil {
		codec = config.codec
	}
	return &Engine{
		transport:       transport,
		codec:           codec,
		logger:          config.logger,
		validate:        config.validate,
		requestIDHeader: config.requestIDHeader,
	}
}

// Invoke builds the request of d for args, sends it with the transport
// and decodes the response body into out. If out is nil, the body is
// discarded. Errors of the transport and the codec are returned as is.
func (e *Engine) Invoke(ctx context.Context, d *Descriptor, args []interface{}, out interface{}) error {
	if e.logger == nil {
		return e.invoke(ctx, d, args, out)
	}

	start := time.Now()
	e.logger.DebugContext(ctx, "call started",
		slog.String("method", string(d.ID())),
	)
	err := e.invoke(ctx, d, args, out)
	duration := time.Since(start)
	if err != nil {
		e.logger.ErrorContext(ctx, "call failed",
			slog.String("method", string(d.ID())),
			slog.Duration("duration", duration),
			slog.Any("error", err),
		)
	} else {
		e.logger.InfoContext(ctx, "call completed",
			slog.String("method", string(d.ID())),
			slog.Duration("duration", duration),
		)
	}
	return err
}

func (e *Engine) invoke(ctx context.Context, d *Descriptor, args []interface{}, out interface{}) error {
	req, err := Build(d, args)
	if err != nil {
		return err
	}

	ex := &Exchange{
		Method: req.Method,
		URL:    req.URL,
		Header: req.Header,
	}

	if req.HasBody {
		if err := e.validateBody(d, req.Body); err != nil {
			return err
		}
		body, contentType, err := e.codec.Encode(req.Body, req.Header.Get("Content-Type"))
		if err != nil {
			return fmt.Errorf("failed to encode body of %s: %w", d.ID(), err)
		}
		if !ex.Header.Has("Content-Type") && contentType != "" {
			ex.Header.Set("Content-Type", contentType)
		}
		ex.Body = body
	}

	if e.requestIDHeader != "" && !ex.Header.Has(e.requestIDHeader) {
		ex.Header.Set(e.requestIDHeader, uuid.NewString())
	}

	res, err := e.transport.Exchange(ctx, ex)
	if err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	return e.codec.Decode(res.Body, res.Header.Get("Content-Type"), out)
}

func (e *Engine) validateBody(d *Descriptor, body interface{}) error {
	if e.validate == nil {
		return nil
	}
	t := reflect.TypeOf(body)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	if err := e.validate.Struct(body); err != nil {
		return errors.InvalidArgumentf("%s: invalid body: %w", d.ID(), err)
	}
	return nil
}
