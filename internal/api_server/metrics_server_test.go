package apiserver_test

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"time"

	apiserver "github.com/kubev2v/job-tracker/internal/api_server"
	"github.com/kubev2v/job-tracker/internal/config"
	"github.com/kubev2v/job-tracker/pkg/metrics"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("metrics server", func() {
	It("exposes the job tracker collectors", func() {
		metrics.IncreaseJobOperationsMetric("list_jobs", metrics.ResultSuccess)

		rec := httptest.NewRecorder()
		apiserver.MetricsRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring("job_tracker_active_users_per_week"))
		Expect(rec.Body.String()).To(ContainSubstring(`operation="list_jobs"`))
	})

	It("serves nothing but /metrics", func() {
		rec := httptest.NewRecorder()
		apiserver.MetricsRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/jobs", nil))
		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})

	It("starts the active users count over each window", func() {
		metrics.ActiveUsersPerWeek.Reset()
		metrics.ActiveUsersPerWeek.Observe("u1")
		metrics.ActiveUsersPerWeek.Observe("u2")
		Expect(metrics.ActiveUsersPerWeek.Count()).To(Equal(2))

		ctx, cancel := context.WithCancel(context.TODO())
		defer cancel()
		go apiserver.ResetActiveUsers(ctx, 20*time.Millisecond)

		Eventually(metrics.ActiveUsersPerWeek.Count).WithTimeout(2 * time.Second).Should(Equal(0))
	})

	It("listens with the configured settings until cancelled", func() {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		Expect(err).To(BeNil())

		cfg := config.NewDefault().Service.Metrics
		cfg.Address = listener.Addr().String()

		ctx, cancel := context.WithCancel(context.TODO())
		done := make(chan error, 1)
		go func() {
			done <- apiserver.NewMetricServer(cfg, listener).Run(ctx)
		}()

		url := fmt.Sprintf("http://%s/metrics", listener.Addr())
		Eventually(func() string {
			resp, err := http.Get(url)
			if err != nil {
				return ""
			}
			defer resp.Body.Close()
			body, _ := io.ReadAll(resp.Body)
			return string(body)
		}).WithTimeout(5 * time.Second).Should(ContainSubstring("job_tracker_active_users_per_week"))

		cancel()
		Eventually(done).WithTimeout(10 * time.Second).Should(Receive(BeNil()))
	})
})
