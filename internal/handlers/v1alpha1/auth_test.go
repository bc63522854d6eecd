package v1alpha1_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"

	api "github.com/kubev2v/job-tracker/api/v1alpha1"
	"github.com/kubev2v/job-tracker/internal/auth"
	handlers "github.com/kubev2v/job-tracker/internal/handlers/v1alpha1"
	"github.com/kubev2v/job-tracker/internal/store"
	"github.com/kubev2v/job-tracker/internal/store/model"
	"github.com/kubev2v/job-tracker/pkg/slot"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// fakeOAuth redirects to a fixed authorize url and accepts a single code.
type fakeOAuth struct {
	gotVerifier string
}

func (f *fakeOAuth) Name() string { return "google" }

func (f *fakeOAuth) AuthCodeURL(state, verifier string) string {
	return "https://accounts.example/authorize?state=" + url.QueryEscape(state)
}

func (f *fakeOAuth) Exchange(_ context.Context, code, verifier string) (model.User, error) {
	f.gotVerifier = verifier
	if code != "good-code" {
		return model.User{}, errors.New("invalid_grant: code 'bad-code' expired")
	}
	return model.User{ID: "10769150350006150715113082367", Email: "jane@example.com", Name: "Jane Doe"}, nil
}

func cookieNamed(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

var _ = Describe("auth handlers", func() {
	newStore := func() store.Store {
		s, err := store.NewLocalStore(slot.NewFileSlot(GinkgoT().TempDir(), "jobs_db"))
		Expect(err).To(BeNil())
		return s
	}

	Context("simulated sign-in", func() {
		It("returns the simulated profile", func() {
			router := newTestRouter(newStore(), auth.NewSimulatedProvider(0))

			rec := call(router, http.MethodPost, "/api/auth/google", "", "")
			Expect(rec.Code).To(Equal(http.StatusOK), rec.Body.String())

			user := decodeBody[api.SignInResponse](rec).User
			Expect(user.Id).To(HavePrefix("user_"))
			Expect(user.Email).To(Equal(auth.SimulatedUserEmail))
			Expect(user.Name).To(Equal(auth.SimulatedUserName))
		})

		It("signs in a user whose id then owns jobs", func() {
			router := newTestRouter(newStore(), auth.NewSimulatedProvider(0))
			user := decodeBody[api.SignInResponse](call(router, http.MethodPost, "/api/auth/google", "", "")).User

			rec := call(router, http.MethodPost, "/api/jobs", user.Id, `{"companyName":"Acme","jobRole":"SWE","status":"waiting-for-referral"}`)
			Expect(rec.Code).To(Equal(http.StatusOK))

			rec = call(router, http.MethodGet, "/api/jobs", user.Id, "")
			Expect(decodeBody[api.JobList](rec).Jobs).To(HaveLen(1))
		})

		It("has no redirect flow", func() {
			router := newTestRouter(newStore(), auth.NewSimulatedProvider(0))

			rec := call(router, http.MethodGet, "/api/auth/google/login", "", "")
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})
	})

	Context("oauth", func() {
		var (
			provider *fakeOAuth
			router   http.Handler
		)

		BeforeEach(func() {
			provider = &fakeOAuth{}
			router = newTestRouter(newStore(), provider)
		})

		login := func() (state, verifier *http.Cookie) {
			rec := call(router, http.MethodGet, "/api/auth/google/login", "", "")
			Expect(rec.Code).To(Equal(http.StatusFound))

			cookies := rec.Result().Cookies()
			state = cookieNamed(cookies, handlers.StateCookie)
			verifier = cookieNamed(cookies, handlers.VerifierCookie)
			Expect(state).ToNot(BeNil())
			Expect(verifier).ToNot(BeNil())
			Expect(state.HttpOnly).To(BeTrue())
			Expect(rec.Header().Get("Location")).To(ContainSubstring("state=" + url.QueryEscape(state.Value)))
			return state, verifier
		}

		callback := func(query string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?"+query, nil)
			for _, c := range cookies {
				req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			return rec
		}

		It("completes the round trip", func() {
			state, verifier := login()

			rec := callback("state="+url.QueryEscape(state.Value)+"&code=good-code", state, verifier)
			Expect(rec.Code).To(Equal(http.StatusOK), rec.Body.String())
			Expect(provider.gotVerifier).To(Equal(verifier.Value))

			user := decodeBody[api.SignInResponse](rec).User
			Expect(user.Id).To(Equal("10769150350006150715113082367"))
			Expect(user.Email).To(Equal("jane@example.com"))

			cleared := cookieNamed(rec.Result().Cookies(), handlers.StateCookie)
			Expect(cleared).ToNot(BeNil())
			Expect(cleared.MaxAge).To(BeNumerically("<", 0))
		})

		It("rejects a state mismatch", func() {
			state, verifier := login()

			rec := callback("state=forged&code=good-code", state, verifier)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(decodeBody[api.Error](rec).Error).To(Equal("Invalid OAuth state"))
			Expect(provider.gotVerifier).To(BeEmpty())
		})

		It("rejects a callback without the login cookies", func() {
			rec := callback("state=abc&code=good-code")
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("requires the authorization code", func() {
			state, verifier := login()

			rec := callback("state="+url.QueryEscape(state.Value), state, verifier)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(decodeBody[api.Error](rec).Error).To(Equal("Authorization code is required"))
		})

		It("answers 401 when the user denied consent", func() {
			state, verifier := login()

			rec := callback("error=access_denied&state="+url.QueryEscape(state.Value), state, verifier)
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
			Expect(decodeBody[api.Error](rec).Error).To(Equal("Authentication failed"))
		})

		It("hides the exchange failure", func() {
			state, verifier := login()

			rec := callback("state="+url.QueryEscape(state.Value)+"&code=bad-code", state, verifier)
			Expect(rec.Code).To(Equal(http.StatusInternalServerError))
			Expect(decodeBody[api.Error](rec).Error).To(Equal("Authentication failed"))
			Expect(rec.Body.String()).ToNot(ContainSubstring("invalid_grant"))
		})

		It("has no single call sign-in", func() {
			rec := call(router, http.MethodPost, "/api/auth/google", "", "")
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})
	})
})
