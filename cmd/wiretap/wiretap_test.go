package wiretapcmder_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	wiretapcmder "github.com/papercomputeco/wiretap/cmd/wiretap"
)

var _ = Describe("NewWiretapCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := wiretapcmder.NewWiretapCmd()
		Expect(cmd.Use).To(Equal("wiretap"))
	})

	It("has tail, get, serve, and config subcommands", func() {
		cmd := wiretapcmder.NewWiretapCmd()
		cmds := cmd.Commands()
		subcommands := make([]string, 0, len(cmds))
		for _, sub := range cmds {
			subcommands = append(subcommands, sub.Name())
		}
		Expect(subcommands).To(ContainElements("tail", "get", "serve", "config"))
	})

	It("has persistent --debug flag", func() {
		cmd := wiretapcmder.NewWiretapCmd()
		flag := cmd.PersistentFlags().Lookup("debug")
		Expect(flag).NotTo(BeNil())
		Expect(flag.Shorthand).To(Equal("d"))
	})

	It("has persistent --config-dir flag", func() {
		cmd := wiretapcmder.NewWiretapCmd()
		Expect(cmd.PersistentFlags().Lookup("config-dir")).NotTo(BeNil())
	})
})

var _ = Describe("End to end execution", func() {
	It("gets a URL and exits cleanly", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `{"ok":true}`)
		}))
		defer server.Close()

		cmd := wiretapcmder.NewWiretapCmd()
		cmd.SetArgs([]string{"get", server.URL})
		err := cmd.Execute()
		Expect(err).NotTo(HaveOccurred())
	})

	It("reports HTTP error statuses as output, not command failure", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "gone", http.StatusGone)
		}))
		defer server.Close()

		cmd := wiretapcmder.NewWiretapCmd()
		cmd.SetArgs([]string{"get", server.URL})
		err := cmd.Execute()
		Expect(err).NotTo(HaveOccurred())
	})

	It("tails a bounded stream to completion", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/event-stream")
			fmt.Fprint(w, "data: one\n\ndata: two\n\n")
		}))
		defer server.Close()

		cmd := wiretapcmder.NewWiretapCmd()
		cmd.SetArgs([]string{"tail", "--target", server.URL, "--path", "/"})
		err := cmd.Execute()
		Expect(err).NotTo(HaveOccurred())
	})

	It("fails the tail command when the stream is malformed", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, "event: nope\n\n")
		}))
		defer server.Close()

		cmd := wiretapcmder.NewWiretapCmd()
		cmd.SetArgs([]string{"tail", "--target", server.URL, "--path", "/"})
		err := cmd.Execute()
		Expect(err).To(HaveOccurred())
	})
})
