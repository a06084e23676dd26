package draft_test

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/interview-console/internal"
	"github.com/frahmantamala/interview-console/internal/draft"
	"github.com/frahmantamala/interview-console/internal/interview"
)

// Runs against a live server when VALKEY_ADDR is set, e.g. in docker compose.
var _ = Describe("ValkeyStore", func() {
	var (
		store *draft.ValkeyStore
		ctx   context.Context
	)

	BeforeEach(func() {
		addr := os.Getenv("VALKEY_ADDR")
		if addr == "" {
			Skip("VALKEY_ADDR not set")
		}
		var err error
		store, err = draft.NewValkeyStore(addr)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(store.Close)
		ctx = context.Background()
	})

	It("round trips, expires and deletes drafts", func() {
		d := &draft.Draft{ID: uuid.NewString(), CompanyID: "C1", UserID: "U1", Form: interview.NewCreateForm()}

		Expect(store.Save(ctx, d, time.Second)).To(Succeed())
		got, err := store.Get(ctx, d.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.UserID).To(Equal("U1"))

		Eventually(func() error {
			_, err := store.Get(ctx, d.ID)
			return err
		}).WithTimeout(3 * time.Second).Should(MatchError(internal.ErrDraftNotFound))

		Expect(store.Save(ctx, d, time.Minute)).To(Succeed())
		Expect(store.Delete(ctx, d.ID)).To(Succeed())
		_, err = store.Get(ctx, d.ID)
		Expect(errors.Is(err, internal.ErrDraftNotFound)).To(BeTrue())
	})

	It("answers pings", func() {
		Expect(store.Ping(ctx)).To(Succeed())
	})
})
