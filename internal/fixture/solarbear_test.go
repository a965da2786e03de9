//go:build integration

package fixture_test

import (
	"context"
	"math/big"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/soulbond/warpets-deployer/configs"
	"github.com/soulbond/warpets-deployer/internal/contracts"
	"github.com/soulbond/warpets-deployer/internal/devnet"
	"github.com/soulbond/warpets-deployer/internal/fixture"
)

var _ = Describe("SolarBear", func() {
	var solarBear *contracts.SolarBear

	isolate()

	BeforeEach(func(ctx context.Context) {
		var err error
		solarBear, err = fx.DeploySolarBear(ctx)
		Expect(err).NotTo(HaveOccurred())
	})

	mintAs := func(ctx context.Context, t *devnet.Impersonator, tokenIDs ...int64) error {
		_, err := solarBear.Connect(t).Mint(ctx, ids(tokenIDs...))
		return err
	}

	ownerBalance := func(ctx context.Context) int64 {
		id, err := solarBear.SolarBearID(ctx)
		Expect(err).NotTo(HaveOccurred())
		balance, err := solarBear.BalanceOf(ctx, fixture.TokenOwner, id)
		Expect(err).NotTo(HaveOccurred())
		return balance.Int64()
	}

	Describe("deployment", func() {
		It("has the uri passed to the constructor", func(ctx context.Context) {
			Expect(solarBear.URI(ctx, big.NewInt(0))).To(Equal(configs.SolarBearTokenURI))
		})

		It("has the sbren address passed to the constructor", func(ctx context.Context) {
			Expect(solarBear.SbrenContract(ctx)).To(Equal(fx.Sbren.Address()))
		})

		It("grants the default admin role to the deployer", func(ctx context.Context) {
			Expect(solarBear.HasRole(ctx, contracts.DefaultAdminRole, fx.Deployer.Account())).To(BeTrue())
		})

		It("grants the operator role to the deployer", func(ctx context.Context) {
			Expect(solarBear.HasRole(ctx, contracts.OperatorRole, fx.Deployer.Account())).To(BeTrue())
		})

		It("is not paused initially", func(ctx context.Context) {
			Expect(solarBear.Paused(ctx)).To(BeFalse())
		})
	})

	Describe("mint", func() {
		It("mints when the sender owns an unclaimed token", func(ctx context.Context) {
			Expect(ownerBalance(ctx)).To(BeZero())
			Expect(mintAs(ctx, fx.Owner, 0)).To(Succeed())
			Expect(ownerBalance(ctx)).To(Equal(int64(1)))
		})

		It("transfers nothing when no token id is given", func(ctx context.Context) {
			Expect(mintAs(ctx, fx.Owner)).To(Succeed())
			Expect(ownerBalance(ctx)).To(BeZero())
		})

		It("fails when the sender is not the owner", func(ctx context.Context) {
			Expect(mintAs(ctx, fx.NonOwner, 0)).To(RevertWith("Sender is not a token owner"))
		})

		It("fails when the token has been claimed", func(ctx context.Context) {
			Expect(mintAs(ctx, fx.Owner, 0)).To(Succeed())
			Expect(mintAs(ctx, fx.Owner, 0)).To(RevertWith("Token has been claimed"))
		})

		It("fails when the token id does not exist", func(ctx context.Context) {
			Expect(mintAs(ctx, fx.Owner, 1_000_000)).To(RevertWith("ERC721A: owner query for nonexistent token"))
		})

		It("fails when the sender does not own every token", func(ctx context.Context) {
			Expect(fx.Sbren.OwnerOf(ctx, big.NewInt(9999))).NotTo(Equal(fixture.TokenOwner))
			Expect(mintAs(ctx, fx.Owner, 0, 9999)).To(RevertWith("Sender is not a token owner"))
		})

		It("fails when any of the tokens has been claimed", func(ctx context.Context) {
			Expect(fx.ForgeTokenOwnership(ctx, big.NewInt(1))).To(Succeed())
			Expect(fx.Sbren.OwnerOf(ctx, big.NewInt(1))).To(Equal(fixture.TokenOwner))

			Expect(mintAs(ctx, fx.Owner, 1)).To(Succeed())
			Expect(mintAs(ctx, fx.Owner, 0, 1)).To(RevertWith("Token has been claimed"))
		})

		It("fails while paused", func(ctx context.Context) {
			_, err := solarBear.Pause(ctx)
			Expect(err).NotTo(HaveOccurred())

			Expect(mintAs(ctx, fx.Owner, 0)).To(RevertWith("Pausable: paused"))
		})
	})

	Describe("getTokenIds", func() {
		It("returns the token owned by the sender", func(ctx context.Context) {
			tokenIDs, err := solarBear.GetTokenIds(ctx, fixture.TokenOwner)
			Expect(err).NotTo(HaveOccurred())
			Expect(ints(tokenIDs)).To(ConsistOf(int64(0)))
		})

		It("returns every token owned by the sender", func(ctx context.Context) {
			Expect(fx.ForgeTokenOwnership(ctx, big.NewInt(1))).To(Succeed())
			Expect(fx.ForgeBalance(ctx, 2)).To(Succeed())

			tokenIDs, err := solarBear.GetTokenIds(ctx, fixture.TokenOwner)
			Expect(err).NotTo(HaveOccurred())
			Expect(ints(tokenIDs)).To(ConsistOf(int64(0), int64(1)))
		})

		It("returns nothing for a sender without tokens", func(ctx context.Context) {
			tokenIDs, err := solarBear.GetTokenIds(ctx, fixture.NonTokenOwner)
			Expect(err).NotTo(HaveOccurred())
			Expect(tokenIDs).To(BeEmpty())
		})
	})

	Describe("getFilteredTokenIds", func() {
		BeforeEach(func(ctx context.Context) {
			Expect(fx.ForgeTokenOwnership(ctx, big.NewInt(1))).To(Succeed())
			Expect(fx.ForgeBalance(ctx, 2)).To(Succeed())
			Expect(fx.Sbren.OwnerOf(ctx, big.NewInt(1))).To(Equal(fixture.TokenOwner))
		})

		DescribeTable("filters by claim state",
			func(ctx context.Context, minted []int64, claimed bool, expected []int64) {
				if len(minted) > 0 {
					Expect(mintAs(ctx, fx.Owner, minted...)).To(Succeed())
				}

				tokenIDs, err := solarBear.GetFilteredTokenIds(ctx, fixture.TokenOwner, claimed)
				Expect(err).NotTo(HaveOccurred())
				Expect(ints(tokenIDs)).To(ConsistOf(expected))
			},
			Entry("unclaimed, nothing minted", nil, false, []int64{0, 1}),
			Entry("unclaimed, one minted", []int64{0}, false, []int64{1}),
			Entry("unclaimed, all minted", []int64{0, 1}, false, []int64{}),
			Entry("claimed, nothing minted", nil, true, []int64{}),
			Entry("claimed, one minted", []int64{0}, true, []int64{0}),
			Entry("claimed, all minted", []int64{0, 1}, true, []int64{0, 1}),
		)
	})

	Describe("authorization", func() {
		missingRole := fixture.MissingRoleMessage(fixture.TokenOwner, contracts.OperatorRole)

		It("allows only operators to call setURI", func(ctx context.Context) {
			_, err := solarBear.Connect(fx.Owner).SetURI(ctx, "")
			Expect(err).To(RevertWith(missingRole))
		})

		It("allows only operators to call pause", func(ctx context.Context) {
			_, err := solarBear.Connect(fx.Owner).Pause(ctx)
			Expect(err).To(RevertWith(missingRole))
		})

		It("allows only operators to call unpause", func(ctx context.Context) {
			_, err := solarBear.Connect(fx.Owner).Unpause(ctx)
			Expect(err).To(RevertWith(missingRole))
		})
	})
})
