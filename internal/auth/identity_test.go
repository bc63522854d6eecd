package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"time"

	"github.com/kubev2v/job-tracker/internal/auth"
	"github.com/kubev2v/job-tracker/internal/config"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/oauth2"
)

var _ = Describe("identity providers", func() {
	Context("simulated", func() {
		It("returns the fixed profile under a fresh id", func() {
			p := auth.NewSimulatedProvider(0)

			user, err := p.SignIn(context.TODO())
			Expect(err).To(BeNil())
			Expect(user.ID).To(HavePrefix("user_"))
			Expect(user.Email).To(Equal(auth.SimulatedUserEmail))
			Expect(user.Name).To(Equal(auth.SimulatedUserName))
			Expect(user.Image).To(Equal(auth.SimulatedUserImage))
		})

		It("waits for the configured delay", func() {
			p := auth.NewSimulatedProvider(30 * time.Millisecond)

			start := time.Now()
			_, err := p.SignIn(context.TODO())
			Expect(err).To(BeNil())
			Expect(time.Since(start)).To(BeNumerically(">=", 30*time.Millisecond))
		})

		It("stops waiting when the caller gives up", func() {
			p := auth.NewSimulatedProvider(time.Hour)

			ctx, cancel := context.WithTimeout(context.TODO(), 10*time.Millisecond)
			defer cancel()
			_, err := p.SignIn(ctx)
			Expect(err).To(MatchError(context.DeadlineExceeded))
		})
	})

	Context("factory", func() {
		It("builds the configured provider", func() {
			p, err := auth.NewIdentityProvider(config.Identity{Provider: config.SimulatedIdentity})
			Expect(err).To(BeNil())
			Expect(p.Name()).To(Equal(config.SimulatedIdentity))

			p, err = auth.NewIdentityProvider(config.Identity{Provider: config.GoogleIdentity, GoogleClientID: "id", GoogleClientSecret: "secret"})
			Expect(err).To(BeNil())
			Expect(p.Name()).To(Equal(config.GoogleIdentity))
		})

		It("rejects an unknown provider", func() {
			_, err := auth.NewIdentityProvider(config.Identity{Provider: "github"})
			Expect(err).ToNot(BeNil())
		})
	})

	Context("google", func() {
		var (
			ts       *httptest.Server
			verifier string
			gotCode  string
		)

		BeforeEach(func() {
			verifier = oauth2.GenerateVerifier()
			gotCode = ""

			mux := http.NewServeMux()
			mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
				Expect(r.ParseForm()).To(Succeed())
				gotCode = r.PostForm.Get("code")
				if r.PostForm.Get("code_verifier") != verifier {
					http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
					return
				}
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"access_token":"at-1","token_type":"Bearer","expires_in":3600}`))
			})
			mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("Authorization") != "Bearer at-1" {
					w.WriteHeader(http.StatusUnauthorized)
					return
				}
				_ = json.NewEncoder(w).Encode(map[string]string{
					"sub":     "10769150350006150715113082367",
					"email":   "jane@example.com",
					"name":    "Jane Doe",
					"picture": "https://example.com/jane.png",
				})
			})
			ts = httptest.NewServer(mux)
			DeferCleanup(ts.Close)
		})

		newProvider := func() *auth.GoogleProvider {
			return auth.NewGoogleProviderWithEndpoint("client-id", "client-secret", "http://localhost:3000/api/auth/google/callback",
				oauth2.Endpoint{AuthURL: ts.URL + "/auth", TokenURL: ts.URL + "/token"},
				ts.URL+"/userinfo")
		}

		It("builds a PKCE authorization url", func() {
			u, err := url.Parse(newProvider().AuthCodeURL("state-1", verifier))
			Expect(err).To(BeNil())

			q := u.Query()
			Expect(q.Get("state")).To(Equal("state-1"))
			Expect(q.Get("client_id")).To(Equal("client-id"))
			Expect(q.Get("code_challenge_method")).To(Equal("S256"))
			Expect(q.Get("code_challenge")).To(Equal(oauth2.S256ChallengeFromVerifier(verifier)))
			Expect(strings.Fields(q.Get("scope"))).To(ConsistOf("openid", "email", "profile"))
		})

		It("exchanges the code and maps the profile", func() {
			user, err := newProvider().Exchange(context.TODO(), "code-1", verifier)
			Expect(err).To(BeNil())
			Expect(gotCode).To(Equal("code-1"))
			Expect(user.ID).To(Equal("10769150350006150715113082367"))
			Expect(user.Email).To(Equal("jane@example.com"))
			Expect(user.Name).To(Equal("Jane Doe"))
			Expect(user.Image).To(Equal("https://example.com/jane.png"))
		})

		It("fails when the verifier does not match", func() {
			_, err := newProvider().Exchange(context.TODO(), "code-1", "some-other-verifier")
			Expect(err).ToNot(BeNil())
		})
	})
})
