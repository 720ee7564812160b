package cm

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// minimal Cloudera Manager API client, covering the service and role
// command endpoints under /clusters/{cluster}

var (
	ErrUnauthorized = errors.New("authentication failed")
	ErrServer       = errors.New("server error")
)

type Client struct {
	baseurl  string
	cluster  string
	username string
	password string
	client   *http.Client
}

// New returns a client for the API rooted at baseurl, e.g.
// https://cm.example.com:7183/api/v31. insecure disables TLS
// certificate verification for clusters running self-signed certs.
func New(baseurl, cluster, username, password string, insecure bool) *Client {
	t := http.DefaultTransport.(*http.Transport).Clone()
	if insecure {
		t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return &Client{
		baseurl:  strings.TrimSuffix(baseurl, "/"),
		cluster:  cluster,
		username: username,
		password: password,
		client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: t,
		},
	}
}

func (c *Client) servicesURL() string {
	return fmt.Sprintf("%s/clusters/%s/services/", c.baseurl, c.cluster)
}

func (c *Client) get(url string, result interface{}) (err error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return
	}
	return c.do(req, result)
}

func (c *Client) post(url string, body interface{}, result interface{}) (err error) {
	js, err := json.Marshal(body)
	if err != nil {
		return
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(js))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, result)
}

func (c *Client) do(req *http.Request, result interface{}) (err error) {
	req.SetBasicAuth(c.username, c.password)
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("cannot reach %s: %w", c.baseurl, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w for %s as user %q", ErrUnauthorized, c.baseurl, c.username)
	case resp.StatusCode >= 400:
		// the API returns a json message body on errors, but don't
		// rely on it
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: %s returned %s: %s", ErrServer, req.URL.Path, resp.Status, strings.TrimSpace(string(body)))
	}

	if err = json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("cannot parse response from %s: %w", req.URL.Path, err)
	}
	return
}
