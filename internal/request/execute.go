package request

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	resty "gopkg.in/resty.v1"
)

// NetworkErrorText is the status text of a record for a request that never
// produced a response.
const NetworkErrorText = "Network Error"

// Record is the outcome of one executed request. A transport failure still
// yields a record: Status 0, StatusText NetworkErrorText and the error
// message as the body.
type Record struct {
	Status      int
	StatusText  string
	Headers     []Header
	ContentType string
	Body        string
	Note        string
	Duration    time.Duration
}

// Executor sends built requests over a shared resty client.
type Executor struct {
	client *resty.Client
}

func NewExecutor(client *resty.Client) *Executor {
	return &Executor{client: client}
}

// NewClient builds the HTTP client used for both spec fetching and request
// execution. A zero timeout means no limit.
func NewClient(timeout time.Duration, insecure bool) *resty.Client {
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: insecure},
	}
	return resty.NewWithClient(&http.Client{
		Transport: transport,
		Timeout:   timeout,
	})
}

// Do executes req and reports the outcome as a Record. It never returns an
// error; failures become records so the caller can render them like any
// other response.
func (e *Executor) Do(ctx context.Context, req *HTTPRequest) *Record {
	r := e.client.R().SetContext(ctx)
	for _, h := range req.Headers {
		r.SetHeader(h.Name, h.Value)
	}
	if req.Body != "" {
		r.SetBody(req.Body)
	}

	log.Debugf("executing %s %s", req.Method, req.URL)
	start := time.Now()
	resp, err := r.Execute(string(req.Method), req.URL)
	elapsed := time.Since(start)
	if err != nil {
		log.Debugf("request failed after %s: %v", elapsed, err)
		return &Record{
			StatusText: NetworkErrorText,
			Body:       err.Error(),
			Duration:   elapsed,
		}
	}
	log.Debugf("received %d in %s", resp.StatusCode(), elapsed)

	rec := &Record{
		Status:      resp.StatusCode(),
		StatusText:  statusText(resp),
		Headers:     responseHeaders(resp.Header()),
		ContentType: resp.Header().Get("Content-Type"),
		Duration:    elapsed,
	}
	rec.Body, rec.Note = decodeBody(resp.Body(), rec.ContentType)
	return rec
}

func statusText(resp *resty.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status(), strconv.Itoa(resp.StatusCode())))
	if text == "" {
		text = http.StatusText(resp.StatusCode())
	}
	return text
}

// responseHeaders flattens the header map into sorted name/value pairs.
// Multiple values for one name join with a comma.
func responseHeaders(h http.Header) []Header {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)

	headers := make([]Header, 0, len(names))
	for _, name := range names {
		headers = append(headers, Header{Name: name, Value: strings.Join(h[name], ", ")})
	}
	return headers
}

// decodeBody pretty-prints JSON bodies and passes everything else through
// untouched. A body that claims JSON but does not parse keeps its raw text
// plus a note saying so.
func decodeBody(body []byte, contentType string) (string, string) {
	if len(body) == 0 {
		return "", ""
	}
	if !strings.Contains(strings.ToLower(contentType), "json") {
		return string(body), ""
	}
	var out bytes.Buffer
	if err := json.Indent(&out, body, "", "  "); err != nil {
		note := fmt.Sprintf("response declared %s but the body is not valid JSON", contentType)
		return string(body), note
	}
	return out.String(), ""
}
