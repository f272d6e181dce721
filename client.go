package restbind

import (
	"context"
	"io"
)

// Client is used on client-side to call remote methods of a bound service.
// Generated adapters call Client.Call.
type Client struct {
	table     *Table
	engine    *Engine
	transport Transport
}

// NewClient parses all methods of svc and creates the client.
//
// Every method of svc and of the services it embeds must be bound
// correctly, otherwise an error of kind errors.Configuration is returned.
// Method identities must be unique.
func NewClient(svc *ServiceBinding, opts ...Option) (*Client, error) {
	config := newConfig(opts)

	table, err := NewTable(NewParser(config.resolver), svc)
	if err != nil {
		return nil, err
	}

	transport := config.transport
	if transport == nil {
		transport = NewHTTPTransport(opts...)
	}

	return &Client{
		table:     table,
		engine:    NewEngine(transport, config.codec, opts...),
		transport: transport,
	}, nil
}

// Call calls remote method id with arguments args and decodes the response
// into out. The arguments follow the declaration of the method, excluding
// the context.
func (c *Client) Call(ctx context.Context, id MethodID, out interface{}, args ...interface{}) error {
	d, err := c.table.Lookup(id)
	if err != nil {
		return err
	}
	return c.engine.Invoke(ctx, d, args, out)
}

func (c *Client) Table() *Table {
	return c.table
}

// Close releases the transport if it implements io.Closer.
func (c *Client) Close() error {
	if closer, ok := c.transport.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
