package apiserver_test

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"time"

	apiserver "github.com/kubev2v/job-tracker/internal/api_server"
	"github.com/kubev2v/job-tracker/internal/auth"
	"github.com/kubev2v/job-tracker/internal/config"
	"github.com/kubev2v/job-tracker/internal/service"
	"github.com/kubev2v/job-tracker/internal/store"
	"github.com/kubev2v/job-tracker/pkg/slot"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("api server", func() {
	var (
		cfg *config.Config
		s   store.Store
	)

	BeforeEach(func() {
		cfg = config.NewDefault()
		cfg.Service.Identity.SignInDelay = 0

		var err error
		s, err = store.NewLocalStore(slot.NewFileSlot(GinkgoT().TempDir(), "jobs_db"))
		Expect(err).To(BeNil())
	})

	newRouter := func() http.Handler {
		router, err := apiserver.NewRouter(cfg, service.NewJobService(s), auth.NewHeaderAuthenticator(), auth.NewSimulatedProvider(0))
		Expect(err).To(BeNil())
		return router
	}

	It("answers the cors preflight for the web app", func() {
		req := httptest.NewRequest(http.MethodOptions, "/api/jobs", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "content-type,x-user-id")

		rec := httptest.NewRecorder()
		newRouter().ServeHTTP(rec, req)

		Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(Equal("http://localhost:3000"))
		Expect(rec.Header().Get("Access-Control-Allow-Headers")).To(ContainSubstring("X-User-Id"))
	})

	It("echoes the request id", func() {
		rec := httptest.NewRecorder()
		newRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Header().Get("x-request-id")).ToNot(BeEmpty())
	})

	It("can be built more than once", func() {
		newRouter()
		newRouter()
	})

	It("limits sign-in attempts per client", func() {
		cfg.Service.Identity.SignInRateLimit = 1
		router := newRouter()

		codes := []int{}
		for range 3 {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/google", nil))
			codes = append(codes, rec.Code)
		}
		Expect(codes[0]).To(Equal(http.StatusOK))
		Expect(codes).To(ContainElement(http.StatusTooManyRequests))

		// the jobs api is not limited
		for range 3 {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/jobs", nil)
			req.Header.Set(auth.UserIDHeader, "u1")
			router.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusOK))
		}
	})

	It("serves until the context is cancelled", func() {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		Expect(err).To(BeNil())

		ctx, cancel := context.WithCancel(context.TODO())
		done := make(chan error, 1)
		go func() {
			done <- apiserver.New(cfg, s, listener).Run(ctx)
		}()

		url := fmt.Sprintf("http://%s/health", listener.Addr())
		Eventually(func() int {
			resp, err := http.Get(url)
			if err != nil {
				return 0
			}
			_ = resp.Body.Close()
			return resp.StatusCode
		}).WithTimeout(5 * time.Second).Should(Equal(http.StatusOK))

		cancel()
		Eventually(done).WithTimeout(10 * time.Second).Should(Receive(BeNil()))
	})
})
