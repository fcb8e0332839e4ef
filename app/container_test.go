package app

import (
	"context"
	"net/http"
	"reflect"
	"testing"
	"time"

	"github.com/linanwx/cloudchat/bus"
	"github.com/linanwx/cloudchat/chat"
	"github.com/linanwx/cloudchat/client"
	"github.com/linanwx/cloudchat/internal/fakebackend"
	"github.com/linanwx/cloudchat/suggest"
)

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func startContainer(t *testing.T) (*Container, *fakebackend.Server) {
	t.Helper()
	srv := fakebackend.New()
	api := client.New(srv.URL)
	b := bus.NewBus(0)
	c := New(chat.NewSession(api, chat.Config{}), suggest.NewBoard(api, suggest.Config{}), b)

	t.Cleanup(func() {
		c.Stop()
		b.Close()
		srv.Close()
	})
	return c, srv
}

func TestStartFetchesSuggestionsOnce(t *testing.T) {
	c, srv := startContainer(t)
	srv.SetQuestionList("What is Kubernetes?")

	c.Start(context.Background())
	waitFor(t, "initial fetch", func() bool { return len(c.Board().Questions()) == 1 })

	time.Sleep(50 * time.Millisecond)
	if got := srv.QuestionCalls(); !reflect.DeepEqual(got, []int{suggest.DefaultCount}) {
		t.Fatalf("QuestionCalls() = %v, want one fetch of %d", got, suggest.DefaultCount)
	}
	if c.Counter() != 0 {
		t.Fatalf("Counter() = %d, want 0", c.Counter())
	}
}

func TestCloudClickSendsQuestionAndRefreshes(t *testing.T) {
	c, srv := startContainer(t)
	srv.SetQuestionList("How is billing calculated?", "What is a region?")
	srv.SetChatReply(fakebackend.JSON(http.StatusOK, map[string]string{"response": "Per hour."}))

	c.Start(context.Background())
	waitFor(t, "initial fetch", func() bool { return len(c.Board().Questions()) == 2 })

	srv.SetQuestionList("Fresh question")
	if !c.Board().Click(0) {
		t.Fatal("Click(0) = false")
	}

	waitFor(t, "refetch after reply", func() bool {
		return reflect.DeepEqual(c.Board().Questions(), []string{"Fresh question"})
	})

	if got := srv.ChatCalls(); !reflect.DeepEqual(got, []string{"How is billing calculated?"}) {
		t.Fatalf("ChatCalls() = %q, want the clicked question", got)
	}
	want := []chat.Message{chat.UserMessage("How is billing calculated?"), chat.BotMessage("Per hour.")}
	if got := c.Session().Transcript(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Transcript() = %+v, want %+v", got, want)
	}
	if c.Counter() != 1 {
		t.Fatalf("Counter() = %d, want 1", c.Counter())
	}
	time.Sleep(50 * time.Millisecond)
	if got := len(srv.QuestionCalls()); got != 2 {
		t.Fatalf("question fetches = %d, want 2", got)
	}
}

func TestFailedChatStillRefreshesOnce(t *testing.T) {
	c, srv := startContainer(t)
	srv.SetQuestionList("old")
	srv.SetChatReply(fakebackend.Reply{Status: http.StatusInternalServerError, Body: `{"detail":"down"}`})

	c.Start(context.Background())
	waitFor(t, "initial fetch", func() bool { return len(c.Board().Questions()) == 1 })

	reply, ok := c.Session().SendSpecificMessage(context.Background(), "typed question")
	if !ok || !reply.IsError {
		t.Fatalf("SendSpecificMessage() = %+v, %v, want error entry", reply, ok)
	}

	waitFor(t, "refetch", func() bool { return len(srv.QuestionCalls()) == 2 })
	time.Sleep(50 * time.Millisecond)
	if got := len(srv.QuestionCalls()); got != 2 {
		t.Fatalf("question fetches = %d, want 2", got)
	}
	if c.Counter() != 1 {
		t.Fatalf("Counter() = %d, want 1", c.Counter())
	}
}

func TestMessageSentCarriesOutcome(t *testing.T) {
	c, srv := startContainer(t)

	outcomes := make(chan bool, 2)
	c.bus.Subscribe(bus.EventMessageSent, func(_ context.Context, event *bus.Event) {
		var data bus.MessageSentData
		if err := event.ParseData(&data); err != nil {
			t.Errorf("ParseData: %v", err)
		}
		outcomes <- data.Failed
	})
	c.Start(context.Background())

	next := func() bool {
		t.Helper()
		select {
		case failed := <-outcomes:
			return failed
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for message.sent")
			return false
		}
	}

	c.Session().SendSpecificMessage(context.Background(), "works")
	if next() {
		t.Fatal("successful reply reported as failed")
	}

	srv.SetChatReply(fakebackend.Reply{Status: http.StatusBadGateway})
	c.Session().SendSpecificMessage(context.Background(), "breaks")
	if !next() {
		t.Fatal("failed reply reported as success")
	}
}

func TestFailedRefetchKeepsDisplayedSet(t *testing.T) {
	c, srv := startContainer(t)
	srv.SetQuestionList("stays")

	c.Start(context.Background())
	waitFor(t, "initial fetch", func() bool { return len(c.Board().Questions()) == 1 })

	srv.SetQuestions(fakebackend.Reply{Status: http.StatusServiceUnavailable})
	c.Session().SendSpecificMessage(context.Background(), "anything")
	waitFor(t, "refetch attempt", func() bool { return len(srv.QuestionCalls()) == 2 })
	time.Sleep(50 * time.Millisecond)

	if got := c.Board().Questions(); !reflect.DeepEqual(got, []string{"stays"}) {
		t.Fatalf("Questions() = %q, want previous set", got)
	}
}

func TestStopCancelsInFlightClick(t *testing.T) {
	c, srv := startContainer(t)
	srv.SetQuestionList("slow one")
	release := srv.HoldChat()
	defer release()

	c.Start(context.Background())
	waitFor(t, "initial fetch", func() bool { return len(c.Board().Questions()) == 1 })

	c.CloudClicked("slow one")
	waitFor(t, "request reaches backend", func() bool { return len(srv.ChatCalls()) == 1 })
	c.Stop()

	waitFor(t, "cancelled request settles", func() bool { return !c.Session().Typing() })
	got := c.Session().Transcript()
	if len(got) != 2 || !got[1].IsError {
		t.Fatalf("Transcript() = %+v, want user entry then failure entry", got)
	}
}
