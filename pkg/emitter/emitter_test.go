package emitter

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/wiretap/pkg/logger"
	"github.com/papercomputeco/wiretap/pkg/sse"
)

var _ = Describe("Server", func() {
	var s *Server

	BeforeEach(func() {
		s = NewServer(Config{
			ListenAddr: ":0",
			Interval:   0,
			Count:      3,
		}, logger.Nop())
	})

	Describe("/ping", func() {
		It("responds ok", func() {
			resp, err := s.app.Test(httptest.NewRequest("GET", "/ping", nil), -1)
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()

			Expect(resp.StatusCode).To(Equal(200))

			var body map[string]string
			Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
			Expect(body["status"]).To(Equal("ok"))
		})
	})

	Describe("/stream", func() {
		It("emits the configured number of frames in wire format", func() {
			resp, err := s.app.Test(httptest.NewRequest("GET", "/stream", nil), -1)
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()

			Expect(resp.Header.Get("Content-Type")).To(Equal("text/event-stream"))

			raw, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())

			Expect(strings.Count(string(raw), "data: ")).To(Equal(3))
			Expect(string(raw)).To(HaveSuffix("\n\n"))
		})

		It("honors a per-request count override", func() {
			resp, err := s.app.Test(httptest.NewRequest("GET", "/stream?count=1", nil), -1)
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()

			raw, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(strings.Count(string(raw), "data: ")).To(Equal(1))
		})

		It("produces frames the decoder accepts end to end", func() {
			resp, err := s.app.Test(httptest.NewRequest("GET", "/stream", nil), -1)
			Expect(err).NotTo(HaveOccurred())

			d := sse.NewDecoder(resp)

			var payloads []struct {
				Seq       int    `json:"seq"`
				EmittedAt string `json:"emitted_at"`
			}
			for msg := range d.Messages() {
				var p struct {
					Seq       int    `json:"seq"`
					EmittedAt string `json:"emitted_at"`
				}
				Expect(json.Unmarshal([]byte(msg), &p)).To(Succeed())
				payloads = append(payloads, p)
			}

			Expect(d.Ok()).To(BeTrue())
			Expect(payloads).To(HaveLen(3))
			for i, p := range payloads {
				Expect(p.Seq).To(Equal(i))
				Expect(p.EmittedAt).NotTo(BeEmpty())
			}
		})
	})
})
