package client

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/linanwx/cloudchat/internal/fakebackend"
)

func TestChatSuccess(t *testing.T) {
	srv := fakebackend.New()
	defer srv.Close()
	srv.SetChatReply(fakebackend.JSON(http.StatusOK, map[string]string{"response": "Use S3."}))

	got, err := New(srv.URL).Chat(context.Background(), `what is "object storage"?`)
	require.NoError(t, err)
	require.Equal(t, "Use S3.", got)
	require.Equal(t, []string{`what is "object storage"?`}, srv.ChatCalls())
}

func TestChatStatusErrorCarriesDetail(t *testing.T) {
	srv := fakebackend.New()
	defer srv.Close()

	tests := []struct {
		name   string
		reply  fakebackend.Reply
		code   int
		detail string
	}{
		{
			name:   "string detail",
			reply:  fakebackend.JSON(http.StatusInternalServerError, map[string]string{"detail": "Chatbot core not initialized."}),
			code:   500,
			detail: "Chatbot core not initialized.",
		},
		{
			name:   "structured detail",
			reply:  fakebackend.Reply{Status: http.StatusUnprocessableEntity, Body: `{"detail":[{"loc":["body"],"msg":"field required"}]}`},
			code:   422,
			detail: `[{"loc":["body"],"msg":"field required"}]`,
		},
		{
			name:   "null detail falls back to status text",
			reply:  fakebackend.Reply{Status: http.StatusInternalServerError, Body: `{"detail":null}`},
			code:   500,
			detail: "Internal Server Error",
		},
		{
			name:   "empty detail falls back to status text",
			reply:  fakebackend.Reply{Status: http.StatusServiceUnavailable, Body: `{"detail":""}`},
			code:   503,
			detail: "Service Unavailable",
		},
		{
			name:   "non-json body falls back to status text",
			reply:  fakebackend.Reply{Status: http.StatusBadGateway, Body: "upstream down"},
			code:   502,
			detail: "Bad Gateway",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv.SetChatReply(tt.reply)
			_, err := New(srv.URL).Chat(context.Background(), "hi")

			var statusErr *StatusError
			require.ErrorAs(t, err, &statusErr)
			require.Equal(t, tt.code, statusErr.Code)
			require.Equal(t, tt.detail, statusErr.Detail)
		})
	}
}

func TestChatMalformedBody(t *testing.T) {
	srv := fakebackend.New()
	defer srv.Close()

	for _, body := range []string{`not json`, `{"answer":"x"}`, `{"response":42}`} {
		srv.SetChatReply(fakebackend.Reply{Status: http.StatusOK, Body: body})
		_, err := New(srv.URL).Chat(context.Background(), "hi")
		require.ErrorIs(t, err, ErrMalformedResponse, "body %s", body)
	}
}

func TestChatTransportError(t *testing.T) {
	srv := fakebackend.New()
	url := srv.URL
	srv.Close()

	_, err := New(url).Chat(context.Background(), "hi")
	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
}

func TestWithHTTPClientTimeout(t *testing.T) {
	srv := fakebackend.New()
	defer srv.Close()
	release := srv.HoldChat()
	defer release()

	c := New(srv.URL+"/", WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond}))
	require.Equal(t, srv.URL, c.BaseURL())

	_, err := c.Chat(context.Background(), "hi")
	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
}

func TestChatHonorsContextCancel(t *testing.T) {
	srv := fakebackend.New()
	defer srv.Close()
	release := srv.HoldChat()
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := New(srv.URL).Chat(ctx, "hi")
	require.Error(t, err)
	require.True(t, errors.Is(err, context.DeadlineExceeded), "err = %v", err)
}

func TestRandomQuestions(t *testing.T) {
	srv := fakebackend.New()
	defer srv.Close()
	srv.SetQuestionList("What is IaaS?", "What is a VPC?")

	got, err := New(srv.URL + "/").RandomQuestions(context.Background(), 50)
	require.NoError(t, err)
	require.Equal(t, []string{"What is IaaS?", "What is a VPC?"}, got)
	require.Equal(t, []int{50}, srv.QuestionCalls())
}

func TestRandomQuestionsFailures(t *testing.T) {
	srv := fakebackend.New()
	defer srv.Close()
	c := New(srv.URL)

	srv.SetQuestions(fakebackend.Reply{Status: http.StatusServiceUnavailable, Body: `{}`})
	_, err := c.RandomQuestions(context.Background(), 50)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	require.True(t, strings.Contains(err.Error(), "status: 503"), err.Error())

	srv.SetQuestions(fakebackend.Reply{Status: http.StatusOK, Body: `{"questions":"nope"}`})
	_, err = c.RandomQuestions(context.Background(), 50)
	require.ErrorIs(t, err, ErrMalformedResponse)

	srv.SetQuestions(fakebackend.Reply{Status: http.StatusOK, Body: `{"questions":["ok",1]}`})
	_, err = c.RandomQuestions(context.Background(), 50)
	require.ErrorIs(t, err, ErrMalformedResponse)
}
