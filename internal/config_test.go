package internal_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/interview-console/internal"
)

func validConfig() *internal.Config {
	cfg := &internal.Config{
		Backend: internal.BackendConfig{BaseURL: "https://ats.example.com/api"},
		Observability: internal.ObservabilityConfig{
			Logging: internal.LoggingConfig{Level: "info", Format: "json"},
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

var _ = Describe("Config", func() {
	Describe("ApplyDefaults", func() {
		It("fills every zero value", func() {
			cfg := &internal.Config{}
			cfg.ApplyDefaults()

			Expect(cfg.Server.Port).To(Equal(8080))
			Expect(cfg.Backend.Timeout).To(Equal(10 * time.Second))
			Expect(cfg.Drafts.Store).To(Equal(internal.DraftStoreMemory))
			Expect(cfg.Drafts.TTL).To(Equal(internal.DefaultDraftTTL))
			Expect(cfg.Interviews.PageSize).To(Equal(internal.DefaultPageSize))
			Expect(cfg.Interviews.CalendarLimit).To(Equal(internal.DefaultCalendarLimit))
			Expect(cfg.Interviews.Timezone).To(Equal("UTC"))
		})

		It("keeps configured values", func() {
			cfg := &internal.Config{Interviews: internal.InterviewsConfig{PageSize: 25, Timezone: "Europe/Madrid"}}
			cfg.ApplyDefaults()

			Expect(cfg.Interviews.PageSize).To(Equal(25))
			Expect(cfg.Interviews.Timezone).To(Equal("Europe/Madrid"))
		})
	})

	Describe("Validate", func() {
		It("accepts a minimal configuration", func() {
			Expect(validConfig().Validate()).To(Succeed())
		})

		DescribeTable("rejects broken settings",
			func(mutate func(*internal.Config), message string) {
				cfg := validConfig()
				mutate(cfg)

				err := cfg.Validate()
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring(message))
			},
			Entry("missing backend", func(c *internal.Config) { c.Backend.BaseURL = "" }, "base_url is required"),
			Entry("relative backend", func(c *internal.Config) { c.Backend.BaseURL = "/api" }, "invalid base_url"),
			Entry("unknown store", func(c *internal.Config) { c.Drafts.Store = "disk" }, "unknown draft store"),
			Entry("valkey without address", func(c *internal.Config) { c.Drafts.Store = internal.DraftStoreValkey }, "valkey_addr is required"),
			Entry("unknown timezone", func(c *internal.Config) { c.Interviews.Timezone = "Mars/Olympus" }, "invalid timezone"),
			Entry("read timeout below header timeout", func(c *internal.Config) {
				c.Server.ReadHeaderTimeout = 10 * time.Second
				c.Server.ReadTimeout = time.Second
			}, "read_timeout"),
		)

		It("reports every broken section at once", func() {
			cfg := validConfig()
			cfg.Backend.BaseURL = ""
			cfg.Drafts.Store = "disk"

			err := cfg.Validate()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("backend config"))
			Expect(err.Error()).To(ContainSubstring("drafts config"))
		})
	})

	Describe("LoadConfigFromEnv", func() {
		It("reads the environment with defaults", func() {
			GinkgoT().Setenv("BACKEND_BASE_URL", "http://ats:8000")
			GinkgoT().Setenv("DRAFTS_STORE", "valkey")
			GinkgoT().Setenv("DRAFTS_VALKEY_ADDR", "valkey:6379")
			GinkgoT().Setenv("DRAFTS_TTL", "30m")
			GinkgoT().Setenv("INTERVIEWS_PAGE_SIZE", "not-a-number")
			GinkgoT().Setenv("INTERVIEWS_TIMEZONE", "Europe/Madrid")

			cfg := internal.LoadConfigFromEnv()

			Expect(cfg.Backend.BaseURL).To(Equal("http://ats:8000"))
			Expect(cfg.Drafts.Store).To(Equal(internal.DraftStoreValkey))
			Expect(cfg.Drafts.ValkeyAddr).To(Equal("valkey:6379"))
			Expect(cfg.Drafts.TTL).To(Equal(30 * time.Minute))
			Expect(cfg.Interviews.PageSize).To(Equal(internal.DefaultPageSize))
			Expect(cfg.Interviews.Location().String()).To(Equal("Europe/Madrid"))
			Expect(cfg.Validate()).To(Succeed())
		})
	})

	It("falls back to UTC for an unknown timezone", func() {
		cfg := internal.InterviewsConfig{Timezone: "Nowhere/Land"}
		Expect(cfg.Location()).To(Equal(time.UTC))
	})
})
