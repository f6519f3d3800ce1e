package historical

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestServer(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	for path, body := range routes {
		body := body
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		})
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_ListTopics(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/session/Index.json": `{"Feeds": {
			"SessionInfo": {"StreamPath": "SessionInfo.jsonStream"},
			"CarData.z": {"StreamPath": "CarData.z.jsonStream"},
			"Heartbeat": {"StreamPath": "Heartbeat.jsonStream"}
		}}`,
	})

	c := NewClient(srv.URL)
	topics, err := c.ListTopics(context.Background(), "session")
	if err != nil {
		t.Fatalf("ListTopics: %v", err)
	}
	want := []string{"CarData.z", "Heartbeat", "SessionInfo"}
	if len(topics) != len(want) {
		t.Fatalf("got %v, want %v", topics, want)
	}
	for i, w := range want {
		if topics[i] != w {
			t.Errorf("topics[%d] = %q, want %q", i, topics[i], w)
		}
	}
}

func TestClient_GetMessages_SortsByTimepointThenTopic(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/session/A.jsonStream": `00:00:02.000{"v": 1}`,
		"/session/B.jsonStream": `00:00:01.000{"v": 2}` + "\r\n" + `00:00:02.000{"v": 3}`,
	})

	c := NewClient(srv.URL)
	t0 := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	messages, err := c.GetMessages(context.Background(), "session", []string{"A", "B"}, t0)
	if err != nil {
		t.Fatalf("GetMessages: %v", err)
	}
	if len(messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(messages))
	}
	// B@00:00:01 first, then A and B both @00:00:02 with A sorted before B.
	if messages[0].Topic != "B" || messages[1].Topic != "A" || messages[2].Topic != "B" {
		t.Errorf("unexpected topic order: %v, %v, %v", messages[0].Topic, messages[1].Topic, messages[2].Topic)
	}
}

func TestClient_GetSchedule_RejectsMissingKey(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/2023/Index.json": `<Error><Code>NoSuchKey</Code></Error>`,
	})
	c := NewClient(srv.URL)
	if _, err := c.GetSchedule(context.Background(), 2023); err == nil {
		t.Error("expected error for NoSuchKey response")
	}
}

func TestClient_SessionURL(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/2023/Index.json": `{"Meetings": [{"Key": 1141, "Sessions": [{"Key": 7953, "Path": "2023/miami/practice1/"}]}]}`,
	})
	c := NewClient(srv.URL)
	url, err := c.SessionURL(context.Background(), 2023, 1141, 7953)
	if err != nil {
		t.Fatalf("SessionURL: %v", err)
	}
	want := srv.URL + "/2023/miami/practice1/"
	if url != want {
		t.Errorf("url = %q, want %q", url, want)
	}
}
