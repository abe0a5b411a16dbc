package jira

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// roundTripFunc lets a test act as the transport without a network.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*IssueClient, *int32) {
	t.Helper()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	return NewIssueClient("secret-token", "acme", WithBaseURL(srv.URL)), &calls
}

func TestNewIssueClient_DerivesHostFromSubdomain(t *testing.T) {
	var got *http.Request
	hc := &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		got = req
		return &http.Response{
			StatusCode: http.StatusCreated,
			Body:       io.NopCloser(strings.NewReader(`{"id":"1","key":"ENG-1"}`)),
			Header:     make(http.Header),
		}, nil
	})}

	c := NewIssueClient("tok-123", "acme", WithHTTPClient(hc))
	assert.Equal(t, "https://acme.atlassian.net", c.BaseURL())

	_, err := c.CreateIssue(context.Background(), "ENG", "Fix bug", "a@b.com", "Bug")
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, "https", got.URL.Scheme)
	assert.Equal(t, "acme.atlassian.net", got.URL.Host)
	assert.Equal(t, "/rest/api/2/issue", got.URL.Path)
	assert.Equal(t, "Bearer tok-123", got.Header.Get("Authorization"))
}

func TestCreateIssue_RequestShape(t *testing.T) {
	var (
		method, path, auth, contentType string
		body                            map[string]interface{}
	)
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		path = r.URL.Path
		auth = r.Header.Get("Authorization")
		contentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&body)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"10000","key":"ENG-24","self":"https://acme.atlassian.net/rest/api/2/issue/10000"}`))
	})

	_, err := c.CreateIssue(context.Background(), "ENG", "Fix bug", "a@b.com", "Bug")
	require.NoError(t, err)

	assert.EqualValues(t, 1, atomic.LoadInt32(calls))
	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "/rest/api/2/issue", path)
	assert.Equal(t, "Bearer secret-token", auth)
	assert.Equal(t, "application/json", contentType)

	fields, ok := body["fields"].(map[string]interface{})
	require.True(t, ok, "body should have a fields object")
	assert.Equal(t, map[string]interface{}{"key": "ENG"}, fields["project"])
	assert.Equal(t, "Fix bug", fields["summary"])
	assert.Equal(t, map[string]interface{}{"name": "Bug"}, fields["issuetype"])
	assert.Equal(t, map[string]interface{}{"emailAddress": "a@b.com"}, fields["assignee"])

	labels, ok := fields["labels"].([]interface{})
	require.True(t, ok, "labels should be a JSON array, not null")
	assert.Empty(t, labels)
}

func TestCreateIssue_ReturnsResultUnmodified(t *testing.T) {
	const respBody = `{"id":"10042","key":"ENG-7","self":"https://acme.atlassian.net/rest/api/2/issue/10042","extra":{"n":1}}`

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(respBody))
	})

	res, err := c.CreateIssue(context.Background(), "ENG", "Fix bug", "a@b.com", "Bug")
	require.NoError(t, err)

	assert.Equal(t, "10042", res.ID)
	assert.Equal(t, "ENG-7", res.Key)
	assert.Equal(t, "https://acme.atlassian.net/rest/api/2/issue/10042", res.Self)
	assert.Equal(t, respBody, string(res.Raw))
}

func TestCreateIssue_ServiceError(t *testing.T) {
	const errBody = `{"errorMessages":[],"errors":{"project":"valid project is required"}}`

	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(errBody))
	})

	res, err := c.CreateIssue(context.Background(), "NOPE", "Fix bug", "a@b.com", "Bug")
	require.Error(t, err)
	assert.Nil(t, res)

	svcErr, ok := AsServiceError(err)
	require.True(t, ok, "expected ServiceError, got %T", err)
	assert.Equal(t, http.StatusBadRequest, svcErr.StatusCode)
	assert.Equal(t, errBody, string(svcErr.Body))
	assert.Equal(t, []string{"project: valid project is required"}, svcErr.Messages)
	assert.Contains(t, err.Error(), "400")
	assert.False(t, IsRequestFailed(err))
	assert.EqualValues(t, 1, atomic.LoadInt32(calls))
}

func TestCreateIssue_ServiceErrorWithPlainBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream unavailable"))
	})

	_, err := c.CreateIssue(context.Background(), "ENG", "Fix bug", "a@b.com", "Bug")

	svcErr, ok := AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, svcErr.StatusCode)
	assert.Empty(t, svcErr.Messages)
	assert.Equal(t, "jira API error (502): upstream unavailable", err.Error())
}

func TestCreateIssue_DoesNotRetry(t *testing.T) {
	for _, status := range []int{
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusServiceUnavailable,
	} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(status)
			})

			_, err := c.CreateIssue(context.Background(), "ENG", "Fix bug", "a@b.com", "Bug")

			svcErr, ok := AsServiceError(err)
			require.True(t, ok)
			assert.Equal(t, status, svcErr.StatusCode)
			assert.EqualValues(t, 1, atomic.LoadInt32(calls))
		})
	}
}

func TestCreateIssue_RequestFailed(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewIssueClient("tok", "acme", WithBaseURL(url))

	res, err := c.CreateIssue(context.Background(), "ENG", "Fix bug", "a@b.com", "Bug")
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, IsRequestFailed(err), "expected RequestFailedError, got %T: %v", err, err)

	_, isSvc := AsServiceError(err)
	assert.False(t, isSvc)
}

func TestCreateIssue_TransportErrorIsNotRetried(t *testing.T) {
	var attempts int32
	boom := errors.New("connection refused")
	hc := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		atomic.AddInt32(&attempts, 1)
		return nil, boom
	})}

	c := NewIssueClient("tok", "acme", WithHTTPClient(hc))
	_, err := c.CreateIssue(context.Background(), "ENG", "Fix bug", "a@b.com", "Bug")

	require.Error(t, err)
	assert.True(t, IsRequestFailed(err))
	assert.ErrorIs(t, err, boom)
	assert.EqualValues(t, 1, atomic.LoadInt32(&attempts))
}

func TestCreateIssue_CancelledContext(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusCreated)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.CreateIssue(ctx, "ENG", "Fix bug", "a@b.com", "Bug")
	require.Error(t, err)
	assert.True(t, IsRequestFailed(err))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCreateIssue_NotIdempotent(t *testing.T) {
	var n int32
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		id := atomic.AddInt32(&n, 1)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"id":  "1000" + string(rune('0'+id)),
			"key": "ENG-" + string(rune('0'+id)),
		})
	})

	first, err := c.CreateIssue(context.Background(), "ENG", "Fix bug", "a@b.com", "Bug")
	require.NoError(t, err)
	second, err := c.CreateIssue(context.Background(), "ENG", "Fix bug", "a@b.com", "Bug")
	require.NoError(t, err)

	assert.EqualValues(t, 2, atomic.LoadInt32(calls))
	assert.Equal(t, "ENG-1", first.Key)
	assert.Equal(t, "ENG-2", second.Key)
}

func TestCreateIssue_UndecodableSuccessBodyIsStillSuccess(t *testing.T) {
	for name, body := range map[string]string{
		"not json": "not json",
		"empty":    "",
	} {
		t.Run(name, func(t *testing.T) {
			c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusCreated)
				_, _ = w.Write([]byte(body))
			})

			res, err := c.CreateIssue(context.Background(), "ENG", "Fix bug", "a@b.com", "Bug")
			require.NoError(t, err)
			require.NotNil(t, res)
			assert.Equal(t, body, string(res.Raw))
			assert.Empty(t, res.ID)
			assert.Empty(t, res.Key)
			assert.EqualValues(t, 1, atomic.LoadInt32(calls))
		})
	}
}

func TestCreateIssue_NumericID(t *testing.T) {
	body := `{"id":10042,"key":"ENG-7"}`
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(body))
	})

	res, err := c.CreateIssue(context.Background(), "ENG", "Fix bug", "a@b.com", "Bug")
	require.NoError(t, err)
	assert.Equal(t, "10042", res.ID)
	assert.Equal(t, "ENG-7", res.Key)
	assert.JSONEq(t, body, string(res.Raw))
}

func TestBrowseURL(t *testing.T) {
	c := NewIssueClient("tok", "acme")
	assert.Equal(t, "https://acme.atlassian.net/browse/ENG-1", c.BrowseURL("ENG-1"))

	c = NewIssueClient("tok", "acme", WithBaseURL("https://jira.corp.example.com/"))
	assert.Equal(t, "https://jira.corp.example.com/browse/ENG-1", c.BrowseURL("ENG-1"))
}

func TestClientsKeepIndependentCredentials(t *testing.T) {
	var auths []string
	hc := &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		auths = append(auths, req.URL.Host+" "+req.Header.Get("Authorization"))
		return &http.Response{
			StatusCode: http.StatusCreated,
			Body:       io.NopCloser(strings.NewReader(`{"id":"1","key":"X-1"}`)),
			Header:     make(http.Header),
		}, nil
	})}

	a := NewIssueClient("token-a", "alpha", WithHTTPClient(hc))
	b := NewIssueClient("token-b", "beta", WithHTTPClient(hc))

	_, err := a.CreateIssue(context.Background(), "X", "s", "a@b.com", "Task")
	require.NoError(t, err)
	_, err = b.CreateIssue(context.Background(), "X", "s", "a@b.com", "Task")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"alpha.atlassian.net Bearer token-a",
		"beta.atlassian.net Bearer token-b",
	}, auths)
}
