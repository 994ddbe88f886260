package offline

import (
	"context"
	"net/http"
)

// Client is one open application instance. Its requests are answered by its
// controlling worker, or go straight to the network while uncontrolled.
type Client struct {
	reg *Registration

	// controller is guarded by reg.mu.
	controller *Worker
}

// Controller returns the controlling worker or nil.
func (c *Client) Controller() *Worker {
	c.reg.mu.Lock()
	defer c.reg.mu.Unlock()
	return c.controller
}

func (c *Client) Fetch(ctx context.Context, req *http.Request) (*Response, error) {
	if w := c.Controller(); w != nil {
		return w.Fetch(ctx, req)
	}
	return c.reg.passthrough(ctx, c.reg.absolute(req))
}

// Close disconnects the client. When it was the last client of the active
// worker, a waiting worker activates.
func (c *Client) Close(ctx context.Context) {
	c.reg.release(ctx, c)
}
