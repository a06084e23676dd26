package credentials_test

import (
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/zalando/go-keyring"

	"github.com/frahmantamala/interview-console/internal/credentials"
)

var _ = Describe("Token storage", func() {
	const backend = "https://ats.example.com/"

	BeforeEach(func() {
		keyring.MockInit()
		os.Unsetenv(credentials.EnvToken)
	})

	It("round trips a token per backend and ignores a trailing slash", func() {
		Expect(credentials.SaveToken(backend, " abc ")).To(Succeed())

		token, err := credentials.LoadToken("https://ats.example.com")
		Expect(err).NotTo(HaveOccurred())
		Expect(token).To(Equal("abc"))
	})

	It("reports a missing token", func() {
		_, err := credentials.LoadToken(backend)
		Expect(err).To(MatchError(credentials.ErrNoToken))
	})

	It("prefers the environment over the keyring", func() {
		Expect(credentials.SaveToken(backend, "stored")).To(Succeed())
		os.Setenv(credentials.EnvToken, "from-env")
		DeferCleanup(os.Unsetenv, credentials.EnvToken)

		token, err := credentials.LoadToken(backend)
		Expect(err).NotTo(HaveOccurred())
		Expect(token).To(Equal("from-env"))
	})

	It("rejects empty tokens and tolerates deleting twice", func() {
		Expect(credentials.SaveToken(backend, "  ")).NotTo(Succeed())
		Expect(credentials.SaveToken(backend, "abc")).To(Succeed())
		Expect(credentials.DeleteToken(backend)).To(Succeed())
		Expect(credentials.DeleteToken(backend)).To(Succeed())

		_, err := credentials.LoadToken(backend)
		Expect(err).To(MatchError(credentials.ErrNoToken))
	})
})
