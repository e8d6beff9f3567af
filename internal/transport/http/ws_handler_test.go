package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"quizmaster-service/internal/app"
	"quizmaster-service/internal/domain"
	"quizmaster-service/internal/infra/memory"
)

func TestWebSocketQuizFlow(t *testing.T) {
	server := httptest.NewServer(NewRouter(newTestService(t)))
	defer server.Close()

	conn := dialWS(t, server, "admin")
	defer conn.Close()

	// Untimed attempt so the flow is deterministic.
	writeWS(t, conn, map[string]any{
		"type":    "start",
		"payload": map[string]any{"topicId": "science", "shuffle": false, "timer": false},
	})

	msgType, payload := readNext(conn, t, "question")
	if msgType != "question" {
		t.Fatalf("expected question, got %s", msgType)
	}
	if payload["number"].(float64) != 1 {
		t.Fatalf("expected question 1, got %v", payload["number"])
	}

	writeWS(t, conn, map[string]any{"type": "select", "payload": map[string]any{"index": 1}})
	writeWS(t, conn, map[string]any{"type": "submit"})

	_, resolved := readNext(conn, t, "resolved")
	if resolved["correct"].(bool) != true {
		t.Fatalf("expected correct resolution, got %v", resolved)
	}

	writeWS(t, conn, map[string]any{"type": "next"})

	_, results := readNext(conn, t, "results")
	if results["correctCount"].(float64) != 1 {
		t.Fatalf("expected 1 correct in results, got %v", results)
	}
	if results["accuracy"].(float64) != 100 {
		t.Fatalf("expected accuracy 100, got %v", results["accuracy"])
	}
}

func TestWebSocketStartWithoutTopicReportsError(t *testing.T) {
	server := httptest.NewServer(NewRouter(newTestService(t)))
	defer server.Close()

	conn := dialWS(t, server, "admin")
	defer conn.Close()

	writeWS(t, conn, map[string]any{
		"type":    "start",
		"payload": map[string]any{"topicId": ""},
	})

	_, payload := readNext(conn, t, "error")
	if payload["message"] != "select a topic first" {
		t.Fatalf("unexpected error message %v", payload["message"])
	}
}

func TestWebSocketReconnectResumesAttempt(t *testing.T) {
	service := newTestService(t)
	server := httptest.NewServer(NewRouter(service))
	defer server.Close()

	conn := dialWS(t, server, "admin")
	writeWS(t, conn, map[string]any{
		"type":    "start",
		"payload": map[string]any{"topicId": "science", "shuffle": false, "timer": false},
	})
	readNext(conn, t, "question")
	conn.Close()

	// The attempt survives the disconnect.
	engine, ok := service.Attempt("admin")
	if !ok {
		t.Fatalf("expected live attempt after disconnect")
	}
	if got := engine.State().Phase; got != app.PhaseQuestionActive {
		t.Fatalf("expected active attempt, got %s", got)
	}

	conn2 := dialWS(t, server, "admin")
	defer conn2.Close()
	writeWS(t, conn2, map[string]any{"type": "select", "payload": map[string]any{"index": 1}})
	writeWS(t, conn2, map[string]any{"type": "submit"})
	readNext(conn2, t, "resolved")
}

func TestWebSocketRejectsUnknownUser(t *testing.T) {
	server := httptest.NewServer(NewRouter(newTestService(t)))
	defer server.Close()

	resp, err := http.Get(server.URL + "/ws?userId=nobody")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown user, got %d", resp.StatusCode)
	}

	resp, err = http.Get(server.URL + "/ws")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing userId, got %d", resp.StatusCode)
	}
}

func newTestService(t *testing.T) *app.QuizService {
	t.Helper()
	identity, err := memory.NewIdentity(memory.DefaultCredentials())
	if err != nil {
		t.Fatalf("identity: %v", err)
	}
	catalog := memory.NewCatalog(memory.NewStaticTopicLoader(sampleTopics()), time.Minute)
	return app.NewQuizService(
		catalog,
		memory.NewStatsStore(),
		memory.NewLeaderboard(),
		identity,
		memory.NewAttemptStore(),
		app.Options{},
	)
}

func sampleTopics() map[string]domain.Topic {
	return map[string]domain.Topic{
		"science": {
			ID:   "science",
			Name: "Science",
			Icon: "🔬",
			Questions: []domain.Question{
				{
					Text:         "What is H2O?",
					Options:      []string{"Gold", "Water", "Salt", "Air"},
					CorrectIndex: 1,
					Explanation:  "H2O is the chemical formula for water.",
				},
			},
		},
	}
}

func dialWS(t *testing.T, server *httptest.Server, userID string) *websocket.Conn {
	t.Helper()
	u := "ws" + server.URL[len("http"):] + "/ws?userId=" + userID
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func writeWS(t *testing.T, conn *websocket.Conn, msg map[string]any) {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write %v: %v", msg["type"], err)
	}
}

func readNext(conn *websocket.Conn, t *testing.T, expect string) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s", expect, msg.Type)
	}
	return msg.Type, msg.Payload
}
