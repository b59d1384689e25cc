package nodeclient

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/rs/zerolog"

	"github.com/fileflux/fileflux-manager-webapp/internal/config"
	"github.com/fileflux/fileflux-manager-webapp/internal/utils/platformerrors"
)

// Client speaks the storage node network API: multipart PUT uploads,
// streaming GET, HEAD, per-object DELETE and cluster bucket DELETE. Node
// addresses come from the configured URL template. Calls carry no retry or
// backoff; with a zero timeout a hung node call blocks indefinitely.
type Client struct {
	urlTemplate string
	httpClient  *http.Client
	log         zerolog.Logger
}

func New(cfg *config.Config, log zerolog.Logger) *Client {
	return &Client{
		urlTemplate: cfg.NodeURLTemplate,
		httpClient: &http.Client{
			Timeout: cfg.NodeRequestTimeout,
		},
		log: log.With().Str("component", "node-client").Logger(),
	}
}

func (c *Client) nodeURL(node, path string) string {
	return fmt.Sprintf(c.urlTemplate, node) + path
}

type copyResult struct {
	written int64
	err     error
}

// Upload streams the file to the node as a multipart PUT and returns the
// number of file bytes forwarded.
func (c *Client) Upload(ctx context.Context, node, bucket, key string, body io.Reader, filename, contentType string) (int64, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	resultCh := make(chan copyResult, 1)
	go func() {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
		header.Set("Content-Type", contentType)

		part, err := mw.CreatePart(header)
		if err != nil {
			pw.CloseWithError(err)
			resultCh <- copyResult{err: err}
			return
		}
		written, err := io.Copy(part, body)
		if err != nil {
			pw.CloseWithError(err)
			resultCh <- copyResult{written: written, err: err}
			return
		}
		if err := mw.Close(); err != nil {
			pw.CloseWithError(err)
			resultCh <- copyResult{written: written, err: err}
			return
		}
		pw.Close()
		resultCh <- copyResult{written: written}
	}()

	url := c.nodeURL(node, fmt.Sprintf("/upload/%s/%s", bucket, key))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, pr)
	if err != nil {
		return 0, c.transportError(ctx, "create upload request", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, c.transportError(ctx, "upload to node", err)
	}
	defer drainAndClose(resp.Body)

	result := <-resultCh
	if result.err != nil {
		return result.written, c.transportError(ctx, "stream upload body", result.err)
	}

	if resp.StatusCode != http.StatusOK {
		c.log.Warn().Str("node", node).Int("status", resp.StatusCode).Msg("node rejected upload")
		return result.written, platformerrors.NewUpstreamError(
			ctx,
			platformerrors.LayerInfrastructure,
			"Failed to process file",
			resp.StatusCode,
			"e7c1a5d9-3f8b-4264-90e6-b2d4f8a6c013",
		)
	}
	return result.written, nil
}

// Get requests the object in streaming mode. The caller owns the returned
// body and must close it.
func (c *Client) Get(ctx context.Context, node, bucket, key string) (io.ReadCloser, string, error) {
	url := c.nodeURL(node, fmt.Sprintf("/%s/%s", bucket, key))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", c.transportError(ctx, "create get request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", c.transportError(ctx, "get from node", err)
	}

	if resp.StatusCode != http.StatusOK {
		drainAndClose(resp.Body)
		return nil, "", platformerrors.NewUpstreamError(
			ctx,
			platformerrors.LayerInfrastructure,
			"Failed to retrieve file",
			resp.StatusCode,
			"b0e4c8f2-6a1d-4739-85b3-9c5f7e1a2d64",
		)
	}
	return resp.Body, resp.Header.Get("Content-Type"), nil
}

// Head reports the object's size from the node's response headers.
func (c *Client) Head(ctx context.Context, node, bucket, key string) (int64, error) {
	url := c.nodeURL(node, fmt.Sprintf("/%s/%s", bucket, key))
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0, c.transportError(ctx, "create head request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, c.transportError(ctx, "head from node", err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return 0, platformerrors.NewUpstreamError(
			ctx,
			platformerrors.LayerInfrastructure,
			"File not found",
			resp.StatusCode,
			"4d8f2b6e-0c9a-4517-b3e8-7a1c5d9f3b20",
		)
	}
	return resp.ContentLength, nil
}

// Delete forwards the object delete to the node.
func (c *Client) Delete(ctx context.Context, node, bucket, key string) error {
	url := c.nodeURL(node, fmt.Sprintf("/%s/%s", bucket, key))
	return c.simpleDelete(ctx, url, "Failed to delete file", "9a3e7c1b-5d0f-4682-a4c9-2e6b8f0d4a57")
}

// DeleteBucket instructs the node to drop everything it holds for the bucket.
func (c *Client) DeleteBucket(ctx context.Context, node, bucket string) error {
	url := c.nodeURL(node, fmt.Sprintf("/delete_bucket/%s", bucket))
	return c.simpleDelete(ctx, url, "Failed to delete bucket on node", "c6b0d4f8-2e7a-4391-8f5c-0d9e3a7b1c46")
}

func (c *Client) simpleDelete(ctx context.Context, url, failureMessage, uuid string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return c.transportError(ctx, "create delete request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.transportError(ctx, "delete on node", err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return platformerrors.NewUpstreamError(
			ctx,
			platformerrors.LayerInfrastructure,
			failureMessage,
			resp.StatusCode,
			uuid,
		)
	}
	return nil
}

func (c *Client) transportError(ctx context.Context, message string, err error) error {
	return platformerrors.NewError(
		ctx,
		platformerrors.LayerInfrastructure,
		platformerrors.ErrorTypeInternal,
		message,
		err,
		"f2a6e0c4-8d3b-4175-96f0-5b1d7c9e3a82",
	)
}

func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}
