package peer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

const baseURL = "http://%s"

// Client talks to other nodes over HTTP.
type Client struct {
	http *http.Client
}

// NewClient constructs a client where every request is bounded by timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		http: &http.Client{Timeout: timeout},
	}
}

// QueryIdentity asks the node at host for its identity.
func (c *Client) QueryIdentity(ctx context.Context, host string) (string, error) {
	url := fmt.Sprintf("%s/id", fmt.Sprintf(baseURL, host))

	var resp struct {
		ID string `json:"id"`
	}
	if err := c.send(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return "", err
	}

	if resp.ID == "" {
		return "", errors.New("node returned an empty identity")
	}

	return resp.ID, nil
}

// QueryChain asks the node at host for its full chain. The reported length is
// returned as is so the caller can compare it against the blocks received.
func (c *Client) QueryChain(ctx context.Context, host string) (int, []database.Block, error) {
	url := fmt.Sprintf("%s/chain", fmt.Sprintf(baseURL, host))

	var resp struct {
		Chain  []database.Block `json:"chain"`
		Length int              `json:"length"`
	}
	if err := c.send(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return 0, nil, err
	}

	return resp.Length, resp.Chain, nil
}

// =============================================================================

// send is a helper function to send an HTTP request to a node.
func (c *Client) send(ctx context.Context, method string, url string, dataSend any, dataRecv any) error {
	var body io.Reader
	if dataSend != nil {
		data, err := json.Marshal(dataSend)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	if dataSend != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if resp.StatusCode != http.StatusOK {
		msg, err := io.ReadAll(io.LimitReader(resp.Body, 1024))
		if err != nil {
			return err
		}
		return fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	if dataRecv != nil {
		if err := json.NewDecoder(resp.Body).Decode(dataRecv); err != nil {
			return err
		}
	}

	return nil
}
