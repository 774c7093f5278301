package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// capture records what the upstream test server saw for one request.
type capture struct {
	method      string
	path        string
	rawQuery    string
	contentType string
	header      http.Header
	body        []byte
}

// newCaptureServer returns a server that records each request into the
// returned capture and replies 200 with a small body.
func newCaptureServer() (*httptest.Server, *capture) {
	c := &capture{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.method = r.Method
		c.path = r.URL.Path
		c.rawQuery = r.URL.RawQuery
		c.contentType = r.Header.Get("Content-Type")
		c.header = r.Header.Clone()
		c.body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	return server, c
}

var _ = Describe("Client", func() {
	var (
		server   *httptest.Server
		captured *capture
		client   *Client
	)

	BeforeEach(func() {
		server, captured = newCaptureServer()
		client = New()
	})

	AfterEach(func() {
		server.Close()
	})

	Describe("Do", func() {
		It("sends a struct body as JSON with a JSON content type", func() {
			type payload struct {
				Model string `json:"model"`
				Limit int    `json:"limit"`
			}

			resp, err := client.Do(context.Background(), Request{
				Method: http.MethodPost,
				URL:    server.URL + "/chat",
				Body:   payload{Model: "gemma3", Limit: 5},
			})
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()

			Expect(captured.contentType).To(Equal("application/json"))
			Expect(string(captured.body)).To(MatchJSON(`{"model":"gemma3","limit":5}`))
		})

		It("sends a string body as plain text", func() {
			resp, err := client.Do(context.Background(), Request{
				Method: http.MethodPost,
				URL:    server.URL,
				Body:   "hello",
			})
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()

			Expect(captured.contentType).To(Equal("text/plain"))
			Expect(string(captured.body)).To(Equal("hello"))
		})

		It("stringifies a numeric body as plain text", func() {
			resp, err := client.Do(context.Background(), Request{
				Method: http.MethodPost,
				URL:    server.URL,
				Body:   42,
			})
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()

			Expect(captured.contentType).To(Equal("text/plain"))
			Expect(string(captured.body)).To(Equal("42"))
		})

		It("leaves the content type unset for raw reader bodies", func() {
			resp, err := client.Do(context.Background(), Request{
				Method: http.MethodPost,
				URL:    server.URL,
				Body:   strings.NewReader("raw bytes"),
			})
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()

			Expect(captured.contentType).To(BeEmpty())
			Expect(string(captured.body)).To(Equal("raw bytes"))
		})

		It("leaves the content type unset for byte slice bodies", func() {
			resp, err := client.Do(context.Background(), Request{
				Method: http.MethodPost,
				URL:    server.URL,
				Body:   []byte{0xde, 0xad, 0xbe, 0xef},
			})
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()

			Expect(captured.contentType).To(BeEmpty())
			Expect(captured.body).To(Equal([]byte{0xde, 0xad, 0xbe, 0xef}))
		})

		It("sends no body and no content type when the body is nil", func() {
			resp, err := client.Do(context.Background(), Request{
				URL: server.URL,
			})
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()

			Expect(captured.method).To(Equal(http.MethodGet))
			Expect(captured.contentType).To(BeEmpty())
			Expect(captured.body).To(BeEmpty())
		})

		It("joins query parameters in insertion order", func() {
			resp, err := client.Do(context.Background(), Request{
				URL:   server.URL + "/search",
				Query: Params{}.Add("q", "hello world").Add("limit", 10),
			})
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()

			Expect(captured.rawQuery).To(Equal("q=hello+world&limit=10"))
		})

		It("merges caller headers and tags the request with an id", func() {
			resp, err := client.Do(context.Background(), Request{
				URL:    server.URL,
				Header: map[string]string{"Authorization": "Bearer tok"},
			})
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()

			Expect(captured.header.Get("Authorization")).To(Equal("Bearer tok"))
			Expect(captured.header.Get("X-Request-Id")).NotTo(BeEmpty())
		})

		It("returns error statuses as responses, not errors", func() {
			failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			}))
			defer failing.Close()

			resp, err := client.Do(context.Background(), Request{URL: failing.URL})
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()

			Expect(resp.StatusCode).To(Equal(http.StatusInternalServerError))
		})

		It("fails with ErrTimeout when headers do not arrive in time", func() {
			slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-time.After(2 * time.Second):
				case <-r.Context().Done():
				}
			}))
			defer slow.Close()

			_, err := client.Do(context.Background(), Request{
				URL:     slow.URL,
				Timeout: 30 * time.Millisecond,
			})
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, ErrTimeout)).To(BeTrue())
		})

		It("does not bound the body lifetime by the timeout", func() {
			streaming := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				flusher := w.(http.Flusher)
				w.WriteHeader(http.StatusOK)
				flusher.Flush()

				// Keep the body open well past the request timeout.
				time.Sleep(120 * time.Millisecond)
				_, _ = io.WriteString(w, "late body")
			}))
			defer streaming.Close()

			resp, err := client.Do(context.Background(), Request{
				URL:     streaming.URL,
				Timeout: 40 * time.Millisecond,
			})
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(Equal("late body"))
		})
	})

	Describe("header timer", func() {
		It("cancels with ErrTimeout when firing before disarm", func() {
			ctx, cancel := context.WithCancelCause(context.Background())
			t := armTimeout(time.Hour, cancel)

			t.fire()

			Expect(errors.Is(context.Cause(ctx), ErrTimeout)).To(BeTrue())
		})

		It("never cancels once disarmed, even if the timer callback lands late", func() {
			ctx, cancel := context.WithCancelCause(context.Background())
			t := armTimeout(time.Hour, cancel)

			t.disarm()
			// A callback already scheduled when disarm ran must be a no-op.
			t.fire()

			Expect(context.Cause(ctx)).To(BeNil())
		})

		It("tolerates disarm without an armed timer", func() {
			_, cancel := context.WithCancelCause(context.Background())
			t := armTimeout(0, cancel)

			Expect(t.disarm).NotTo(Panic())
		})
	})

	Describe("Stream", func() {
		It("sets event-stream headers and decodes frames end to end", func() {
			upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.Header.Get("Accept")).To(Equal("text/event-stream"))
				Expect(r.Header.Get("Cache-Control")).To(Equal("no-cache"))

				w.Header().Set("Content-Type", "text/event-stream")
				flusher := w.(http.Flusher)
				for _, frame := range []string{"data: one\n\n", "data: two\n\n"} {
					_, _ = io.WriteString(w, frame)
					flusher.Flush()
				}
			}))
			defer upstream.Close()

			d, err := client.Stream(context.Background(), Request{URL: upstream.URL + "/stream"})
			Expect(err).NotTo(HaveOccurred())

			var msgs []string
			for msg := range d.Messages() {
				msgs = append(msgs, msg)
			}

			Expect(msgs).To(Equal([]string{"one", "two"}))
			Expect(d.Ok()).To(BeTrue())
		})

		It("reports a failed session for a non-ok upstream status", func() {
			upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "nope", http.StatusNotFound)
			}))
			defer upstream.Close()

			d, err := client.Stream(context.Background(), Request{URL: upstream.URL})
			Expect(err).NotTo(HaveOccurred())

			Expect(d.Next()).To(BeFalse())
			Expect(d.Ok()).To(BeFalse())
		})
	})
})
