package service_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"devhubtrader.app/forge/internal/model"
	"devhubtrader.app/forge/internal/service"
	"devhubtrader.app/forge/internal/store"
)

var _ = Describe("VersionService", func() {
	var (
		ctx      context.Context
		robots   *mockRobotStore
		versions *mockVersionStore
		svc      service.VersionService
		robot    *model.Robot
		existing []model.Version
	)

	BeforeEach(func() {
		ctx = context.Background()
		current := int64(11)
		robot = &model.Robot{ID: 100, OwnerID: 7, CurrentVersionID: &current}
		existing = []model.Version{
			{ID: 11, RobotID: 100, VersionName: "v1.0.1", Code: "b"},
			{ID: 10, RobotID: 100, VersionName: "v1.0.0", Code: "a"},
		}

		robots = &mockRobotStore{
			getByIDFn: func(_ context.Context, id int64) (*model.Robot, error) {
				if id != robot.ID {
					return nil, store.ErrNotFound
				}
				return robot, nil
			},
		}
		versions = &mockVersionStore{
			listByRobotFn: func(context.Context, int64) ([]model.Version, error) { return existing, nil },
			getByIDFn: func(_ context.Context, id int64) (*model.Version, error) {
				for i := range existing {
					if existing[i].ID == id {
						return &existing[i], nil
					}
				}
				return nil, store.ErrNotFound
			},
		}
		svc = service.NewVersionService(robots, versions, &mockTxRunner{
			withTxFn: func(_ context.Context, fn func(stores service.StoreProvider) error) error {
				return fn(&mockStoreProvider{robots: robots, versions: versions})
			},
		})
	})

	Describe("Create", func() {
		var in service.NewVersion

		BeforeEach(func() {
			in = service.NewVersion{
				Name:        "v1.1.0",
				Code:        "plot(close);",
				Description: " Nova entrada ",
				Tags:        []string{"Médias Móveis", "medias moveis", ""},
			}
		})

		It("stores the version under the requested name and makes it current", func() {
			version, err := svc.Create(ctx, 7, 100, in)

			Expect(err).NotTo(HaveOccurred())
			Expect(version.VersionName).To(Equal("v1.1.0"))
			Expect(*version.Description).To(Equal("Nova entrada"))
			Expect(version.Tags).To(Equal([]string{"medias-moveis"}))
			Expect(robots.currentSet).To(HaveLen(1))
			Expect(*robots.currentSet[0]).To(Equal(version.ID))
		})

		It("accepts free-text names", func() {
			in.Name = "Experimento Scalping"

			version, err := svc.Create(ctx, 7, 100, in)

			Expect(err).NotTo(HaveOccurred())
			Expect(version.VersionName).To(Equal("Experimento Scalping"))
		})

		DescribeTable("validation",
			func(mutate func(*service.NewVersion), want error) {
				mutate(&in)
				_, err := svc.Create(ctx, 7, 100, in)
				Expect(err).To(MatchError(want))
				Expect(versions.created).To(BeEmpty())
			},
			Entry("empty name", func(v *service.NewVersion) { v.Name = " " }, service.ErrNameRequired),
			Entry("malformed semantic name", func(v *service.NewVersion) { v.Name = "v1.2" }, service.ErrInvalidVersionName),
			Entry("missing description", func(v *service.NewVersion) { v.Description = "" }, service.ErrDescriptionRequired),
			Entry("missing code", func(v *service.NewVersion) { v.Code = "\n" }, service.ErrCodeRequired),
		)

		It("reports a taken name", func() {
			in.Name = "v1.0.1"

			_, err := svc.Create(ctx, 7, 100, in)

			Expect(errors.Is(err, store.ErrDuplicateName)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("v1.0.2"))
			Expect(versions.created).To(BeEmpty())
		})

		It("reports a name taken concurrently", func() {
			versions.createFn = func(context.Context, *model.Version) error { return store.ErrDuplicateName }

			_, err := svc.Create(ctx, 7, 100, in)

			Expect(errors.Is(err, store.ErrDuplicateName)).To(BeTrue())
			Expect(robots.currentSet).To(BeEmpty())
		})
	})

	Describe("Delete", func() {
		It("moves the current pointer to the newest remaining version", func() {
			versions.listByRobotFn = func(context.Context, int64) ([]model.Version, error) {
				return existing[1:], nil
			}

			Expect(svc.Delete(ctx, 7, 11)).To(Succeed())

			Expect(versions.deleted).To(Equal([]int64{11}))
			Expect(robots.currentSet).To(HaveLen(1))
			Expect(*robots.currentSet[0]).To(Equal(int64(10)))
		})

		It("clears the pointer when no version remains", func() {
			versions.listByRobotFn = func(context.Context, int64) ([]model.Version, error) { return nil, nil }

			Expect(svc.Delete(ctx, 7, 11)).To(Succeed())

			Expect(robots.currentSet).To(HaveLen(1))
			Expect(robots.currentSet[0]).To(BeNil())
		})

		It("leaves the pointer alone for other versions", func() {
			Expect(svc.Delete(ctx, 7, 10)).To(Succeed())

			Expect(robots.currentSet).To(BeEmpty())
		})

		It("hides versions of other accounts", func() {
			err := svc.Delete(ctx, 8, 10)

			Expect(errors.Is(err, store.ErrNotFound)).To(BeTrue())
			Expect(versions.deleted).To(BeEmpty())
		})
	})

	Describe("Update", func() {
		It("cleans tags and trims the description", func() {
			var got store.VersionPatch
			versions.updateFn = func(_ context.Context, id int64, patch store.VersionPatch) (*model.Version, error) {
				got = patch
				return &model.Version{ID: id}, nil
			}

			_, err := svc.Update(ctx, 7, 10, store.VersionPatch{
				Description: strPtr("  melhor saída "),
				Tags:        []string{"Reversão", "reversao"},
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(*got.Description).To(Equal("melhor saída"))
			Expect(got.Tags).To(Equal([]string{"reversao"}))
		})

		It("refuses to blank the description", func() {
			_, err := svc.Update(ctx, 7, 10, store.VersionPatch{Description: strPtr(" ")})
			Expect(err).To(MatchError(service.ErrDescriptionRequired))
		})
	})

	It("validates names on rename", func() {
		_, err := svc.Rename(ctx, 7, 10, "v2")
		Expect(err).To(MatchError(service.ErrInvalidVersionName))
	})

	It("suggests the next semantic name", func() {
		name, err := svc.SuggestName(ctx, 7, 100)

		Expect(err).NotTo(HaveOccurred())
		Expect(name).To(Equal("v1.0.2"))
	})
})
