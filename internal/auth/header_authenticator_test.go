package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"

	api "github.com/kubev2v/job-tracker/api/v1alpha1"
	"github.com/kubev2v/job-tracker/internal/auth"
	"github.com/kubev2v/job-tracker/internal/config"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("header authentication", func() {
	It("attaches the x-user-id caller to the request", func() {
		h := &handler{}
		req := httptest.NewRequest(http.MethodGet, "/api/jobs", nil)
		req.Header.Set(auth.UserIDHeader, " u1 ")

		rec := httptest.NewRecorder()
		auth.NewHeaderAuthenticator().Authenticator(h).ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(h.user.ID).To(Equal("u1"))
	})

	DescribeTable("rejects a request without an id",
		func(value string, set bool) {
			h := &handler{}
			req := httptest.NewRequest(http.MethodGet, "/api/jobs", nil)
			if set {
				req.Header.Set(auth.UserIDHeader, value)
			}

			rec := httptest.NewRecorder()
			auth.NewHeaderAuthenticator().Authenticator(h).ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
			Expect(h.called).To(BeFalse())

			var body api.Error
			Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
			Expect(body.Error).To(Equal("Unauthorized"))
		},
		Entry("header missing", "", false),
		Entry("header empty", "", true),
		Entry("header blank", "   ", true),
	)

	It("is the default authenticator", func() {
		a, err := auth.NewAuthenticator(config.Auth{AuthenticationType: config.HeaderAuthentication})
		Expect(err).To(BeNil())
		Expect(a).To(BeAssignableToTypeOf(&auth.HeaderAuthenticator{}))
	})
})
