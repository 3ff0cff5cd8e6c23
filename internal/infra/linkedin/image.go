package linkedin

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
)

// resolveImageBytes loads the post image from either a local path or a
// fetchable URL and sniffs its MIME type. The URL form exists because
// some runtimes have no durable filesystem across the OAuth round trip.
func (c *Client) resolveImageBytes(ctx context.Context) ([]byte, string, error) {
	source := c.imageSource
	if source == "" {
		return nil, "", errors.New("no post image source configured")
	}

	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		data, err = c.fetchImage(ctx, source)
	} else {
		data, err = os.ReadFile(source)
		err = errors.Wrapf(err, "read image file %s", source)
	}
	if err != nil {
		return nil, "", err
	}

	return data, mimetype.Detect(data).String(), nil
}

func (c *Client) fetchImage(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build image request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetch image")
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, "fetch image"); err != nil {
		return nil, err
	}

	data, err := readAllBody(resp)
	if err != nil {
		return nil, errors.Wrap(err, "read image body")
	}

	return data, nil
}
