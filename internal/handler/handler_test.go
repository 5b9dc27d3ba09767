package handler_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/isometry/slack-dispatch-bridge/internal/handler"
	"github.com/isometry/slack-dispatch-bridge/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dispatchCall struct {
	Owner, Repo  string
	Notification models.Notification
	HasDeadline  bool
}

type fakeDispatcher struct {
	mu     sync.Mutex
	calls  []dispatchCall
	status int
	err    error
	block  bool
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, owner, repo string, notification models.Notification) (int, error) {
	_, hasDeadline := ctx.Deadline()
	f.mu.Lock()
	f.calls = append(f.calls, dispatchCall{Owner: owner, Repo: repo, Notification: notification, HasDeadline: hasDeadline})
	f.mu.Unlock()
	if f.block {
		<-ctx.Done()
		return 0, ctx.Err()
	}
	return f.status, f.err
}

func (f *fakeDispatcher) Calls() []dispatchCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]dispatchCall(nil), f.calls...)
}

func newHandler(t *testing.T, dispatcher handler.Dispatcher, opts ...handler.Option) *handler.Handler {
	t.Helper()
	hdl, err := handler.NewBridgeHandler(append([]handler.Option{
		handler.WithDispatcher(dispatcher),
		handler.WithRepository("andreat/k-tracker"),
	}, opts...)...)
	require.NoError(t, err)
	return hdl
}

const (
	successBody = `{"response_type":"in_channel","text":"Clock has been reset! K has been spotted."}`
)

func TestHandler_RejectsNonPost(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodPatch, http.MethodHead, http.MethodOptions, ""} {
		t.Run("method_"+method, func(t *testing.T) {
			dispatcher := &fakeDispatcher{status: http.StatusNoContent}
			hdl := newHandler(t, dispatcher)

			resp, err := hdl.Process(context.Background(), models.Request{Method: method})

			var notAllowed *handler.MethodNotAllowedError
			assert.ErrorAs(t, err, &notAllowed)
			assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
			assert.Equal(t, "Not allowed", resp.Body)
			assert.Equal(t, "text/plain; charset=utf-8", resp.Headers["Content-Type"])
			assert.Empty(t, dispatcher.Calls())
		})
	}
}

func TestHandler_DownstreamStatus(t *testing.T) {
	testCases := []struct {
		Name         string
		Status       int
		DispatchErr  error
		ExpectedBody string
		ExpectError  bool
	}{
		{
			Name:         "no_content",
			Status:       http.StatusNoContent,
			ExpectedBody: successBody,
		},
		{
			Name:         "ok",
			Status:       http.StatusOK,
			ExpectedBody: successBody,
		},
		{
			Name:         "accepted",
			Status:       http.StatusAccepted,
			ExpectedBody: successBody,
		},
		{
			Name:         "ok_with_decode_error",
			Status:       http.StatusOK,
			DispatchErr:  errors.New("invalid character"),
			ExpectedBody: successBody,
		},
		{
			Name:         "redirect",
			Status:       http.StatusFound,
			DispatchErr:  errors.New("found"),
			ExpectedBody: `{"response_type":"ephemeral","text":"Failed to reset clock (HTTP 302)"}`,
			ExpectError:  true,
		},
		{
			Name:         "unauthorized",
			Status:       http.StatusUnauthorized,
			DispatchErr:  errors.New("bad credentials"),
			ExpectedBody: `{"response_type":"ephemeral","text":"Failed to reset clock (HTTP 401)"}`,
			ExpectError:  true,
		},
		{
			Name:         "not_found",
			Status:       http.StatusNotFound,
			DispatchErr:  errors.New("not found"),
			ExpectedBody: `{"response_type":"ephemeral","text":"Failed to reset clock (HTTP 404)"}`,
			ExpectError:  true,
		},
		{
			Name:         "unprocessable",
			Status:       http.StatusUnprocessableEntity,
			DispatchErr:  errors.New("validation failed"),
			ExpectedBody: `{"response_type":"ephemeral","text":"Failed to reset clock (HTTP 422)"}`,
			ExpectError:  true,
		},
		{
			Name:         "internal_server_error",
			Status:       http.StatusInternalServerError,
			DispatchErr:  errors.New("boom"),
			ExpectedBody: `{"response_type":"ephemeral","text":"Failed to reset clock (HTTP 500)"}`,
			ExpectError:  true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			dispatcher := &fakeDispatcher{status: tc.Status, err: tc.DispatchErr}
			hdl := newHandler(t, dispatcher)

			resp, err := hdl.Process(context.Background(), models.Request{Method: http.MethodPost, ID: "req-1"})

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Headers["Content-Type"])
			assert.JSONEq(t, tc.ExpectedBody, resp.Body)
			if tc.ExpectError {
				var rejected *handler.DownstreamRejectedError
				require.ErrorAs(t, err, &rejected)
				assert.Equal(t, tc.Status, rejected.StatusCode)
			} else {
				assert.NoError(t, err)
			}

			calls := dispatcher.Calls()
			require.Len(t, calls, 1)
			assert.Equal(t, "andreat", calls[0].Owner)
			assert.Equal(t, "k-tracker", calls[0].Repo)
			assert.Equal(t, models.DefaultNotification(), calls[0].Notification)
			assert.True(t, calls[0].HasDeadline)
		})
	}
}

func TestHandler_SuccessBodyIsExact(t *testing.T) {
	hdl := newHandler(t, &fakeDispatcher{status: http.StatusNoContent})

	resp, err := hdl.Process(context.Background(), models.Request{Method: http.MethodPost})

	require.NoError(t, err)
	assert.Equal(t, successBody, resp.Body)
}

func TestHandler_EveryPostDispatches(t *testing.T) {
	dispatcher := &fakeDispatcher{status: http.StatusNoContent}
	hdl := newHandler(t, dispatcher)

	req := models.Request{Method: http.MethodPost, Body: "token=x&command=%2Fseen"}
	for range 2 {
		_, err := hdl.Process(context.Background(), req)
		require.NoError(t, err)
	}

	assert.Len(t, dispatcher.Calls(), 2)
}

func TestHandler_Unreachable(t *testing.T) {
	testCases := []struct {
		Name         string
		Dispatcher   *fakeDispatcher
		ExpectedBody string
		TimedOut     bool
	}{
		{
			Name:         "timeout",
			Dispatcher:   &fakeDispatcher{block: true},
			ExpectedBody: `{"response_type":"ephemeral","text":"Failed to reset clock (timeout)"}`,
			TimedOut:     true,
		},
		{
			Name:         "network_error",
			Dispatcher:   &fakeDispatcher{err: errors.New("dial tcp: connection refused")},
			ExpectedBody: `{"response_type":"ephemeral","text":"Failed to reset clock (unreachable)"}`,
		},
		{
			Name:         "no_status_no_error",
			Dispatcher:   &fakeDispatcher{},
			ExpectedBody: `{"response_type":"ephemeral","text":"Failed to reset clock (unreachable)"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			hdl := newHandler(t, tc.Dispatcher, handler.WithTimeout(20*time.Millisecond))

			start := time.Now()
			resp, err := hdl.Process(context.Background(), models.Request{Method: http.MethodPost})

			assert.Less(t, time.Since(start), time.Second)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.JSONEq(t, tc.ExpectedBody, resp.Body)
			var unreachable *handler.DownstreamUnreachableError
			require.ErrorAs(t, err, &unreachable)
			assert.Equal(t, tc.TimedOut, unreachable.TimedOut)
			assert.Len(t, tc.Dispatcher.Calls(), 1)
		})
	}
}

func TestHandler_SigningSecretIsNotEnforced(t *testing.T) {
	dispatcher := &fakeDispatcher{status: http.StatusNoContent}
	hdl := newHandler(t, dispatcher, handler.WithSigningSecret("signing"))

	resp, err := hdl.Process(context.Background(), models.Request{Method: http.MethodPost})

	require.NoError(t, err)
	assert.Equal(t, successBody, resp.Body)
	assert.Len(t, dispatcher.Calls(), 1)
}

func TestNewBridgeHandler(t *testing.T) {
	testCases := []struct {
		Name    string
		Options []handler.Option
	}{
		{
			Name:    "missing_dispatcher",
			Options: []handler.Option{handler.WithRepository("andreat/k-tracker")},
		},
		{
			Name:    "missing_repository",
			Options: []handler.Option{handler.WithDispatcher(&fakeDispatcher{})},
		},
		{
			Name:    "invalid_repository",
			Options: []handler.Option{handler.WithDispatcher(&fakeDispatcher{}), handler.WithRepository("k-tracker")},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			_, err := handler.NewBridgeHandler(tc.Options...)
			assert.Error(t, err)
		})
	}
}

func TestIsSuccessStatus(t *testing.T) {
	for status, expected := range map[int]bool{
		0:                              false,
		http.StatusOK:                  true,
		http.StatusCreated:             true,
		http.StatusNoContent:           true,
		299:                            true,
		http.StatusMultipleChoices:     false,
		http.StatusBadRequest:          false,
		http.StatusUnprocessableEntity: false,
		http.StatusInternalServerError: false,
	} {
		assert.Equal(t, expected, handler.IsSuccessStatus(status), "status %d", status)
	}
}
