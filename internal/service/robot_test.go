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

var _ = Describe("RobotService", func() {
	var (
		ctx      context.Context
		robots   *mockRobotStore
		versions *mockVersionStore
		svc      service.RobotService
	)

	BeforeEach(func() {
		ctx = context.Background()
		robots = &mockRobotStore{}
		versions = &mockVersionStore{}
		svc = service.NewRobotService(robots, versions, &mockTxRunner{
			withTxFn: func(_ context.Context, fn func(stores service.StoreProvider) error) error {
				return fn(&mockStoreProvider{robots: robots, versions: versions})
			},
		})
	})

	Describe("Create", func() {
		It("creates the robot with a starter version as current", func() {
			robot, version, err := svc.Create(ctx, 7, "  Cruzamento de Médias ")

			Expect(err).NotTo(HaveOccurred())
			Expect(version.VersionName).To(Equal("Versão 1"))
			Expect(version.RobotID).To(Equal(robot.ID))
			Expect(version.Code).To(ContainSubstring("// Cruzamento de Médias"))
			Expect(*version.Description).To(Equal("Versão inicial"))
			Expect(version.Tags).To(Equal([]string{"tendencia"}))
			Expect(*robot.CurrentVersionID).To(Equal(version.ID))
			Expect(versions.created).To(HaveLen(1))
		})

		It("rejects a blank name", func() {
			_, _, err := svc.Create(ctx, 7, "   ")
			Expect(err).To(MatchError(service.ErrNameRequired))
		})

		It("surfaces store failures", func() {
			robots.createFn = func(context.Context, *model.Robot) error { return errors.New("db down") }

			_, _, err := svc.Create(ctx, 7, "Robô")

			Expect(err).To(HaveOccurred())
			Expect(versions.created).To(BeEmpty())
		})
	})

	Describe("SetCurrentVersion", func() {
		BeforeEach(func() {
			robots.getByIDFn = func(_ context.Context, id int64) (*model.Robot, error) {
				return &model.Robot{ID: id, OwnerID: 7}, nil
			}
		})

		It("points the robot at a version with code", func() {
			versions.getByIDFn = func(_ context.Context, id int64) (*model.Version, error) {
				return &model.Version{ID: id, RobotID: 100, Code: "plot(close);"}, nil
			}

			robot, err := svc.SetCurrentVersion(ctx, 7, 100, 55)

			Expect(err).NotTo(HaveOccurred())
			Expect(*robot.CurrentVersionID).To(Equal(int64(55)))
		})

		It("refuses a version without code", func() {
			versions.getByIDFn = func(_ context.Context, id int64) (*model.Version, error) {
				return &model.Version{ID: id, RobotID: 100, Code: "  "}, nil
			}

			_, err := svc.SetCurrentVersion(ctx, 7, 100, 55)

			Expect(err).To(MatchError(service.ErrVersionNoCode))
			Expect(robots.currentSet).To(BeEmpty())
		})

		It("refuses a version of another robot", func() {
			versions.getByIDFn = func(_ context.Context, id int64) (*model.Version, error) {
				return &model.Version{ID: id, RobotID: 101, Code: "x"}, nil
			}

			_, err := svc.SetCurrentVersion(ctx, 7, 100, 55)

			Expect(errors.Is(err, store.ErrNotFound)).To(BeTrue())
		})

		It("hides robots of other accounts", func() {
			_, err := svc.SetCurrentVersion(ctx, 8, 100, 55)

			Expect(errors.Is(err, store.ErrNotFound)).To(BeTrue())
		})
	})

	It("renames an owned robot", func() {
		robots.getByIDFn = func(_ context.Context, id int64) (*model.Robot, error) {
			return &model.Robot{ID: id, OwnerID: 7}, nil
		}

		robot, err := svc.Rename(ctx, 7, 100, " Novo nome ")

		Expect(err).NotTo(HaveOccurred())
		Expect(robot.Name).To(Equal("Novo nome"))
	})
})
