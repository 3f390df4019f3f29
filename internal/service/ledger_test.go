package service_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"devhubtrader.app/forge/internal/model"
	"devhubtrader.app/forge/internal/service"
	"devhubtrader.app/forge/internal/store"
)

var _ = Describe("LedgerService", func() {
	var (
		ctx    context.Context
		ledger *mockLedgerStore
		svc    service.LedgerService
	)

	BeforeEach(func() {
		ctx = context.Background()
		ledger = &mockLedgerStore{}
		svc = service.NewLedgerService(ledger)
	})

	It("reports zero tokens for an account without a profile", func() {
		balance, err := svc.Balance(ctx, 7)

		Expect(err).NotTo(HaveOccurred())
		Expect(balance.Tokens).To(BeZero())
		Expect(balance.Recent).To(BeEmpty())
		Expect(balance.Recent).NotTo(BeNil())
	})

	It("returns the balance with recent entries", func() {
		ledger.getProfileFn = func(_ context.Context, id int64) (*model.Profile, error) {
			return &model.Profile{ID: id, TokenBalance: 1500}, nil
		}
		ledger.listEntriesFn = func(_ context.Context, _ int64, limit int32) ([]model.LedgerEntry, error) {
			Expect(limit).To(Equal(int32(20)))
			return []model.LedgerEntry{{ID: 1, Delta: -500, Reason: model.LedgerReasonGeneration}}, nil
		}

		balance, err := svc.Balance(ctx, 7)

		Expect(err).NotTo(HaveOccurred())
		Expect(balance.Tokens).To(Equal(int64(1500)))
		Expect(balance.Recent).To(HaveLen(1))
	})

	It("credits a top-up by default", func() {
		entry, err := svc.Credit(ctx, 7, 2000, "")

		Expect(err).NotTo(HaveOccurred())
		Expect(entry.Delta).To(Equal(int64(2000)))
		Expect(ledger.credits[0].Reason).To(Equal(model.LedgerReasonTopUp))
	})

	It("rejects non-positive credits", func() {
		_, err := svc.Credit(ctx, 7, 0, model.LedgerReasonAdjustment)

		Expect(err).To(MatchError(service.ErrInvalidAmount))
		Expect(ledger.credits).To(BeEmpty())
	})

	It("creates a missing profile once", func() {
		created := 0
		ledger.createProfileFn = func(context.Context, *model.Profile) error {
			created++
			return nil
		}

		profile, err := svc.EnsureProfile(ctx, 7, "Ana")
		Expect(err).NotTo(HaveOccurred())
		Expect(profile.ID).To(Equal(int64(7)))
		Expect(created).To(Equal(1))

		ledger.getProfileFn = func(_ context.Context, id int64) (*model.Profile, error) {
			return &model.Profile{ID: id}, nil
		}
		_, err = svc.EnsureProfile(ctx, 7, "Ana")
		Expect(err).NotTo(HaveOccurred())
		Expect(created).To(Equal(1))
	})

	It("propagates unexpected store errors", func() {
		ledger.getProfileFn = func(context.Context, int64) (*model.Profile, error) {
			return nil, store.ErrInsufficientBalance
		}

		_, err := svc.Balance(ctx, 7)

		Expect(err).To(MatchError(store.ErrInsufficientBalance))
	})
})
