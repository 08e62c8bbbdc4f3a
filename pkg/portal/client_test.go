package portal

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClientSendsSessionCookie(t *testing.T) {
	var gotCookie string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("MoodleSession"); err == nil {
			gotCookie = c.Value
		}
		w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "abc123")
	resp, err := client.Get(server.URL + "/my/")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	resp.Body.Close()

	if gotCookie != "abc123" {
		t.Errorf("expected MoodleSession cookie to be sent, got %q", gotCookie)
	}
}

func TestClientRejectsNonOK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	if _, err := client.Get(server.URL + "/missing"); err == nil {
		t.Fatalf("expected an error for a 404 response")
	}
}

func TestFetchDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><h1>Бази даних</h1></body></html>`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	doc, err := client.FetchDocument(server.URL + "/course/view.php?id=8")
	if err != nil {
		t.Fatalf("FetchDocument failed: %v", err)
	}

	if title := strings.TrimSpace(doc.Find("h1").Text()); title != "Бази даних" {
		t.Errorf("expected parsed document, got h1 %q", title)
	}
}

func TestVerifySessionRedirectToLogin(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/my/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/login/index.php", http.StatusFound)
	})
	mux.HandleFunc("/login/index.php", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>log in</body></html>"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewClient(server.URL, "stale")
	if err := client.VerifySession(); err == nil {
		t.Fatalf("expected VerifySession to fail when redirected to the login page")
	}
}

func TestVerifySessionOK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>Особистий кабінет</body></html>"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "fresh")
	if err := client.VerifySession(); err != nil {
		t.Fatalf("expected VerifySession to succeed, got %v", err)
	}
}
